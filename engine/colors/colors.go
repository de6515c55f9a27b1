package colors

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

type Color [4]float32

var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{0, 0, 0, 0}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
	// Caption is the default label colour.
	Caption = Color{0x54 / 255.0, 0x50 / 255.0, 0x50 / 255.0, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// RGBA converts to an 8-bit, alpha-premultiplied image/color value.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c[3])
	return color.RGBA{
		R: uint8(clamp01(c[0])*a*255 + 0.5),
		G: uint8(clamp01(c[1])*a*255 + 0.5),
		B: uint8(clamp01(c[2])*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// ParseHex parses CSS hex colours: #rgb, #rgba, #rrggbb and #rrggbbaa.
// The leading '#' is optional.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("colors: invalid hex colour %q", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("colors: invalid hex colour %q: %w", s, err)
	}
	return Color{
		float32(v>>24&0xff) / 255,
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
