package vtterm

import (
	"image/color"
	"strings"
)

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15),
// a 216-color cube (16-231), and 24 grayscale steps (232-255).
var DefaultPalette = [256]color.RGBA{
	{0, 0, 0, 255},
	{205, 49, 49, 255},
	{13, 188, 121, 255},
	{229, 229, 16, 255},
	{36, 114, 200, 255},
	{188, 63, 188, 255},
	{17, 168, 205, 255},
	{229, 229, 229, 255},

	{102, 102, 102, 255},
	{241, 76, 76, 255},
	{35, 209, 139, 255},
	{245, 245, 67, 255},
	{59, 142, 234, 255},
	{214, 112, 214, 255},
	{41, 184, 219, 255},
	{255, 255, 255, 255},
}

func init() {
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{R: gray, G: gray, B: gray, A: 255}
	}
}

// DefaultForeground and DefaultBackground are the terminal's base colors,
// used whenever a cell's color source is ColorDefault.
var (
	DefaultForeground = color.RGBA{R: 229, G: 229, B: 229, A: 255}
	DefaultBackground = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// mixTowardBlack implements the faint-attribute rule: the resolved
// foreground is mixed one third of the way toward black.
func mixTowardBlack(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.67),
		G: uint8(float64(c.G) * 0.67),
		B: uint8(float64(c.B) * 0.67),
		A: c.A,
	}
}

// parseColorSpec parses an OSC color specification: either the xparsecolor
// form "rgb:RR/GG/BB" (1-4 hex digits per channel, scaled to 8 bits) or the
// "#RRGGBB" form.
func parseColorSpec(spec string) (color.RGBA, bool) {
	if strings.HasPrefix(spec, "#") && len(spec) == 7 {
		r, okR := hexByte(spec[1:3])
		g, okG := hexByte(spec[3:5])
		b, okB := hexByte(spec[5:7])
		if okR && okG && okB {
			return color.RGBA{R: r, G: g, B: b, A: 255}, true
		}
		return color.RGBA{}, false
	}

	if strings.HasPrefix(spec, "rgb:") {
		parts := strings.Split(spec[4:], "/")
		if len(parts) != 3 {
			return color.RGBA{}, false
		}
		var ch [3]uint8
		for i, p := range parts {
			v, ok := hexChannel(p)
			if !ok {
				return color.RGBA{}, false
			}
			ch[i] = v
		}
		return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, true
	}

	return color.RGBA{}, false
}

// hexChannel scales a 1-4 digit hex channel value to 8 bits.
func hexChannel(s string) (uint8, bool) {
	if len(s) < 1 || len(s) > 4 {
		return 0, false
	}
	v := 0
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return 0, false
		}
		v = v<<4 | d
	}
	max := 1<<(4*len(s)) - 1
	return uint8(v * 255 / max), true
}

func hexByte(s string) (uint8, bool) {
	hi, okH := hexDigit(s[0])
	lo, okL := hexDigit(s[1])
	if !okH || !okL {
		return 0, false
	}
	return uint8(hi<<4 | lo), true
}

func hexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}
