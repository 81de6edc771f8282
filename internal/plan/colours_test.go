package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixlens/pixlens/internal/core"
)

func TestParseColourNames(t *testing.T) {
	cases := map[string]core.Pixel{
		"red":             {Red: 0xff},
		"RED":             {Red: 0xff},
		" blurple ":       {Red: 0x5b, Green: 0x55, Blue: 0xf2},
		"discord_blurple": {Red: 0x5b, Green: 0x55, Blue: 0xf2},
		"light_blue":      {Green: 0xff, Blue: 0xff},
	}

	for value, want := range cases {
		got, err := ParseColour(value)
		require.NoError(t, err, "value %q", value)
		require.Equal(t, want, got, "value %q", value)
	}
}

func TestParseColourHex(t *testing.T) {
	withPrefix, err := ParseColour("#ff8000")
	require.NoError(t, err)
	require.Equal(t, core.Pixel{Red: 0xff, Green: 0x80}, withPrefix)

	withoutPrefix, err := ParseColour("FF8000")
	require.NoError(t, err)
	require.Equal(t, withPrefix, withoutPrefix)
}

func TestParseColourInvalid(t *testing.T) {
	for _, value := range []string{"", "reddish", "#12345", "not a colour"} {
		_, err := ParseColour(value)
		require.Error(t, err, "value %q", value)
	}
}
