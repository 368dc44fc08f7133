package tag

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidColor = errors.New("invalid color")

// Color is either one of the 16 named terminal colors ("red", "bright blue")
// or an RGB value normalized to "#rrggbb".
type Color string

var namedColors = map[string]int{
	"black":          0,
	"red":            1,
	"green":          2,
	"yellow":         3,
	"blue":           4,
	"magenta":        5,
	"cyan":           6,
	"white":          7,
	"bright black":   8,
	"bright red":     9,
	"bright green":   10,
	"bright yellow":  11,
	"bright blue":    12,
	"bright magenta": 13,
	"bright cyan":    14,
	"bright white":   15,
}

// DefaultColors is the palette new tags draw from when no color is given.
var DefaultColors = []Color{
	"red",
	"green",
	"blue",
	"yellow",
	"cyan",
	"white",
	"magenta",
	"bright red",
	"bright green",
	"bright blue",
	"bright yellow",
	"bright cyan",
	"bright white",
	"bright magenta",
}

// ParseColor accepts a named color or a hex value written as "0x1f1f1f",
// "#1F1F1F" or "1f1f1f". Hex values are case insensitive.
func ParseColor(s string) (Color, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidColor)
	}

	named := strings.Join(strings.Fields(strings.ReplaceAll(raw, "_", " ")), " ")
	if _, ok := namedColors[named]; ok {
		return Color(named), nil
	}

	hex := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "#")
	if len(hex) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return Color(c.Hex()), nil
}

// ANSI returns the terminal palette index of a named color.
func (c Color) ANSI() (int, bool) {
	idx, ok := namedColors[string(c)]
	return idx, ok
}

// RGB returns the color value of a hex color.
func (c Color) RGB() (colorful.Color, bool) {
	if _, named := c.ANSI(); named {
		return colorful.Color{}, false
	}
	rgb, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{}, false
	}
	return rgb, true
}

func (c Color) String() string {
	return string(c)
}

// RandomColor picks a color from palette. With an empty palette a random
// saturated RGB color is generated instead.
func RandomColor(palette []Color) Color {
	if len(palette) == 0 {
		return Color(colorful.FastHappyColor().Hex())
	}
	return palette[rand.Intn(len(palette))]
}
