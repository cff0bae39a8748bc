package bbcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// namedColors are the color names accepted by the color tags.
var namedColors = map[string]string{
	"aqua":    "#00ffff",
	"black":   "#000000",
	"blue":    "#0000ff",
	"cyan":    "#00ffff",
	"fuchsia": "#ff00ff",
	"gray":    "#808080",
	"green":   "#008000",
	"lime":    "#00ff00",
	"magenta": "#ff00ff",
	"maroon":  "#800000",
	"navy":    "#000080",
	"orange":  "#ffa500",
	"pink":    "#ffc0cb",
	"purple":  "#800080",
	"red":     "#ff0000",
	"silver":  "#c0c0c0",
	"teal":    "#008080",
	"white":   "#ffffff",
	"yellow":  "#ffff00",
}

// ParseColor parses a named color or a hex color in one of the forms
// "#rgb", "#rrggbb" and "#rrggbbaa". The "#" is optional.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if s == "transparent" {
		return Color{}, nil
	}

	if hex, ok := namedColors[s]; ok {
		s = hex
	}

	hex := strings.TrimPrefix(s, "#")
	alpha := 1.0

	switch len(hex) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("invalid color %q", s)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// Hex returns "#rrggbb" for opaque colors and "#rrggbbaa" otherwise.
func (c Color) Hex() string {
	hex := colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
	if c.A >= 1 {
		return hex
	}

	a := uint8(max(c.A, 0)*255 + 0.5)
	return fmt.Sprintf("%s%02x", hex, a)
}

// WithAlpha returns the same color with the alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
