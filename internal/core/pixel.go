package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Pixel is a single RGB colour value on the canvas.
type Pixel struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// PixelFromHex parses a six-digit hex colour, with or without a leading '#'.
func PixelFromHex(value string) (Pixel, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(cleaned) != 6 {
		return Pixel{}, fmt.Errorf("invalid colour %q: want 6 hex digits", value)
	}

	packed, err := strconv.ParseUint(cleaned, 16, 24)
	if err != nil {
		return Pixel{}, fmt.Errorf("invalid colour %q: %w", value, err)
	}

	return PixelFromInt(uint32(packed)), nil
}

// PixelFromInt unpacks a 24-bit red<<16 | green<<8 | blue value.
func PixelFromInt(packed uint32) Pixel {
	return Pixel{
		Red:   uint8(packed >> 16),
		Green: uint8(packed >> 8),
		Blue:  uint8(packed),
	}
}

// Hex returns the colour as a '#'-prefixed lowercase hex string.
func (p Pixel) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", p.Red, p.Green, p.Blue)
}

// Int packs the colour as red<<16 | green<<8 | blue.
func (p Pixel) Int() uint32 {
	return uint32(p.Red)<<16 | uint32(p.Green)<<8 | uint32(p.Blue)
}

// APIValue returns the colour in the uppercase RRGGBB form the API expects.
func (p Pixel) APIValue() string {
	return fmt.Sprintf("%06X", p.Int())
}

func (p Pixel) String() string {
	return p.Hex()
}
