// Package plan builds draw plans from images, text descriptions, and YAML
// manifests, and parses user-supplied colour values.
package plan

import (
	"fmt"
	"strings"

	"github.com/pixlens/pixlens/internal/core"
)

// namedColours maps common colour names to hex values. Aliases share an
// entry.
var namedColours = map[string]string{
	"black":      "000000",
	"red":        "FF0000",
	"green":      "00FF00",
	"blue":       "0000FF",
	"yellow":     "FFFF00",
	"pink":       "FF00FF",
	"magenta":    "FF00FF",
	"cyan":       "00FFFF",
	"light_blue": "00FFFF",
	"white":      "FFFFFF",

	"blurple":         "5B55F2",
	"discord_blurple": "5B55F2",
	"discord_red":     "ED4245",
	"discord_green":   "57F287",
	"discord_yellow":  "FEE752",
	"discord_pink":    "EB458E",
	"discord_black":   "23272A",
}

// ParseColour accepts a colour name or a hex string (with or without '#')
// and returns the pixel value.
func ParseColour(value string) (core.Pixel, error) {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if hex, ok := namedColours[cleaned]; ok {
		return core.PixelFromHex(hex)
	}

	pixel, err := core.PixelFromHex(value)
	if err != nil {
		return core.Pixel{}, fmt.Errorf("invalid colour %q: not a name or hex value", value)
	}
	return pixel, nil
}
