package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCanvasFormatError(t *testing.T) {
	_, err := NewCanvas(2, 2, make([]byte, 11))
	require.Error(t, err)

	var formatErr *CanvasFormatError
	require.ErrorAs(t, err, &formatErr)
	require.Equal(t, 12, formatErr.Expected)
	require.Equal(t, 11, formatErr.Actual)

	_, err = NewCanvas(2, 2, make([]byte, 12))
	require.NoError(t, err)
}

func TestCanvasAt(t *testing.T) {
	// 2x2 canvas: red, green / blue, white.
	data := []byte{
		0xff, 0x00, 0x00, 0x00, 0xff, 0x00,
		0x00, 0x00, 0xff, 0xff, 0xff, 0xff,
	}
	canvas, err := NewCanvas(2, 2, data)
	require.NoError(t, err)

	require.Equal(t, Pixel{Red: 0xff}, canvas.At(0, 0))
	require.Equal(t, Pixel{Green: 0xff}, canvas.At(1, 0))
	require.Equal(t, Pixel{Blue: 0xff}, canvas.At(0, 1))
	require.Equal(t, Pixel{Red: 0xff, Green: 0xff, Blue: 0xff}, canvas.At(1, 1))
}

func TestCanvasAtMatchesBufferOffsets(t *testing.T) {
	width, height := 5, 3
	data := make([]byte, width*height*3)
	for i := range data {
		data[i] = byte(i * 7)
	}

	canvas, err := NewCanvas(width, height, data)
	require.NoError(t, err)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := 3 * (y*width + x)
			expected := Pixel{Red: data[idx], Green: data[idx+1], Blue: data[idx+2]}
			require.Equal(t, expected, canvas.At(x, y))
		}
	}
}

func TestCanvasImmutableFromSource(t *testing.T) {
	data := []byte{1, 2, 3}
	canvas, err := NewCanvas(1, 1, data)
	require.NoError(t, err)

	data[0] = 99
	require.Equal(t, Pixel{Red: 1, Green: 2, Blue: 3}, canvas.At(0, 0))
}

func TestCanvasAtOutOfRangePanics(t *testing.T) {
	canvas, err := NewCanvas(1, 1, []byte{0, 0, 0})
	require.NoError(t, err)

	require.Panics(t, func() { canvas.At(1, 0) })
	require.Panics(t, func() { canvas.At(0, -1) })
}

func TestCanvasImage(t *testing.T) {
	canvas, err := NewCanvas(1, 2, []byte{10, 20, 30, 40, 50, 60})
	require.NoError(t, err)

	img := canvas.Image()
	require.Equal(t, 1, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())

	r, g, b, a := img.At(0, 1).RGBA()
	require.Equal(t, uint32(40), r>>8)
	require.Equal(t, uint32(50), g>>8)
	require.Equal(t, uint32(60), b>>8)
	require.Equal(t, uint32(0xff), a>>8)
}
