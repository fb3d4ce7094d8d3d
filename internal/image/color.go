package imagepkg

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// DefaultColor is used for any text layer whose color does not parse.
const DefaultColor = "#000000"

// ResolveColor returns candidate if it is a recognized color, otherwise fallback.
func ResolveColor(candidate, fallback string) string {
	if _, err := ParseColor(candidate); err != nil {
		return fallback
	}
	return candidate
}

// ParseColor accepts an SVG/CSS color name or a hex color in one of the
// forms #rgb, #rgba, #rrggbb, #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[strings.ToLower(s)]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("unknown color name %q", s)
		}
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, nil
	}

	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		// expand #rgb(a) to #rrggbb(aa)
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: bad hex length", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// textColor resolves s against DefaultColor and returns the drawable color.
func textColor(s string) color.NRGBA {
	c, err := ParseColor(ResolveColor(s, DefaultColor))
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}
