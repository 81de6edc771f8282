package plan

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixlens/pixlens/internal/core"
)

func TestFromImageAlphaChannel(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{B: 0xff, A: 0x10}) // below threshold

	p, err := FromImage(img, 5, 6, 1)
	require.NoError(t, err)
	require.Equal(t, 5, p.X)
	require.Equal(t, 6, p.Y)
	require.Equal(t, 2, p.Width())
	require.Equal(t, 1, p.Height())

	opaque := p.CellAt(5, 6)
	require.True(t, opaque.Opaque)
	require.Equal(t, core.Pixel{Red: 0xff}, opaque.Colour)

	require.False(t, p.CellAt(6, 6).Opaque)
}

func TestFromImageScale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{G: 0xff, A: 0xff})
		}
	}

	p, err := FromImage(img, 0, 0, 0.5)
	require.NoError(t, err)
	require.Equal(t, 2, p.Width())
	require.Equal(t, 2, p.Height())
	require.Equal(t, core.Pixel{Green: 0xff}, p.CellAt(0, 0).Colour)
}

func TestFromImageZeroScaleDefaultsToFullSize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))

	p, err := FromImage(img, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 3, p.Width())
	require.Equal(t, 2, p.Height())
}

func TestFromImageScaledToNothing(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	_, err := FromImage(img, 0, 0, 0.1)
	require.Error(t, err)
}
