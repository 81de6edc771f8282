package plan

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"golang.org/x/image/draw"

	"github.com/pixlens/pixlens/internal/core"
)

// opaqueThreshold is the alpha value below which a source pixel becomes a
// transparent plan cell.
const opaqueThreshold = 0x80

// FromImageFile decodes an image file and builds a plan anchored at (x, y).
func FromImageFile(path string, x, y int, scale float64) (*core.DrawPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close() // nolint:errcheck // read-only file

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return FromImage(img, x, y, scale)
}

// FromImage builds a plan from a decoded image. The alpha channel produces
// the opaque flag; scale != 1 resizes with a high quality filter, which is
// affordable since the image is only loaded once.
func FromImage(img image.Image, x, y int, scale float64) (*core.DrawPlan, error) {
	if scale <= 0 {
		scale = 1
	}

	bounds := img.Bounds()
	width := int(math.Round(float64(bounds.Dx()) * scale))
	height := int(math.Round(float64(bounds.Dy()) * scale))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image scaled to empty %dx%d grid", width, height)
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	cells := make([][]core.PlanCell, height)
	for row := 0; row < height; row++ {
		cells[row] = make([]core.PlanCell, width)
		for col := 0; col < width; col++ {
			c := scaled.NRGBAAt(col, row)
			cells[row][col] = planCell(c)
		}
	}
	return core.NewDrawPlan(x, y, cells)
}

func planCell(c color.NRGBA) core.PlanCell {
	if c.A < opaqueThreshold {
		return core.PlanCell{}
	}
	return core.PlanCell{
		Colour: core.Pixel{Red: c.R, Green: c.G, Blue: c.B},
		Opaque: true,
	}
}
