package core

import (
	"fmt"
	"image"
	"image/color"
)

// Canvas is an immutable snapshot of every pixel on the remote canvas at one
// instant. The client never mutates a canvas in place; it fetches a new one.
type Canvas struct {
	width  int
	height int
	data   []byte
}

// NewCanvas builds a canvas from a row-major RGB byte buffer. The buffer
// length must be exactly width*height*3; anything else is a format error.
func NewCanvas(width, height int, data []byte) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	expected := width * height * 3
	if len(data) != expected {
		return nil, &CanvasFormatError{Expected: expected, Actual: len(data)}
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	return &Canvas{width: width, height: height, data: buf}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Contains reports whether (x, y) lies on the canvas.
func (c *Canvas) Contains(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// At returns the pixel at (x, y). Coordinates outside the canvas panic, like
// an out-of-range slice index.
func (c *Canvas) At(x, y int) Pixel {
	if !c.Contains(x, y) {
		panic(fmt.Sprintf("canvas: coordinate (%d, %d) outside %dx%d", x, y, c.width, c.height))
	}

	idx := 3 * (y*c.width + x)
	return Pixel{Red: c.data[idx], Green: c.data[idx+1], Blue: c.data[idx+2]}
}

// Image renders the snapshot as an image, e.g. for saving to a PNG file.
func (c *Canvas) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			p := c.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: p.Red, G: p.Green, B: p.Blue, A: 0xff})
		}
	}
	return img
}
