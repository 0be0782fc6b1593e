package vtterm

import "image/color"

// ColorSourceKind selects how a color field in [Attributes] resolves to RGB.
type ColorSourceKind uint8

const (
	// ColorDefault resolves to the terminal's default foreground/background.
	ColorDefault ColorSourceKind = iota
	// ColorPalette resolves via a 0..255 index into the active palette.
	ColorPalette
	// ColorRGB carries a direct 24-bit color, no palette lookup.
	ColorRGB
)

// ColorSource is one of {default, palette-index, direct RGB}.
type ColorSource struct {
	Kind  ColorSourceKind
	Index uint8
	RGB   color.RGBA
}

// Equal reports whether two color sources describe the same color, without
// applying bold-as-bright/inverse transforms (see [Attributes.Equal] for that).
func (c ColorSource) Equal(o ColorSource) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case ColorPalette:
		return c.Index == o.Index
	case ColorRGB:
		return c.RGB == o.RGB
	default:
		return true
	}
}

// UnderlineStyle selects the rendering of the underline decoration.
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineWavy
	UnderlineDotted
	UnderlineDashed
)

// AttrFlags is a bitmask of the boolean style flags carried per run.
type AttrFlags uint16

const (
	AttrBold AttrFlags = 1 << iota
	AttrFaint
	AttrItalic
	AttrBlink
	AttrStrikethrough
	AttrInverse
	AttrInvisible
	// AttrWide marks this cell as the left half of a double-width glyph.
	AttrWide
	// AttrASCIIFast marks a run eligible for the ASCII fast path (U+0020..U+007E).
	AttrASCIIFast
)

// Hyperlink associates styled text with a clickable URI (OSC 8).
type Hyperlink struct {
	ID  string
	URI string
}

// Attributes is the styled-cell model: color sources, boolean flags,
// underline style, wide/ASCII-fast-path markers, and an optional hyperlink.
// Two Attributes are [Attributes.Equal] iff every field compares equal after
// applying the bold-as-bright and inverse transforms; that equality is what
// governs run-coalescing in [Row].
type Attributes struct {
	Fg             ColorSource
	Bg             ColorSource
	UnderlineColor ColorSource
	Flags          AttrFlags
	Underline      UnderlineStyle
	Hyperlink      *Hyperlink
	// TileID names an optional non-text glyph (e.g. a sprite/tile) carried by
	// a run instead of text. Zero means "no tile".
	TileID uint32
}

// Default returns the reset (SGR 0) attribute value.
func Default() Attributes {
	return Attributes{}
}

// IsDefault reports whether all fields are at their reset values.
func (a Attributes) IsDefault() bool {
	return a.Fg.Kind == ColorDefault &&
		a.Bg.Kind == ColorDefault &&
		a.UnderlineColor.Kind == ColorDefault &&
		a.Flags == 0 &&
		a.Underline == UnderlineNone &&
		a.Hyperlink == nil &&
		a.TileID == 0
}

// Reset applies SGR 0 semantics: colors go to default, all boolean flags
// clear, underline style clears, and the hyperlink is dropped. The wide and
// ASCII-fast-path flags are kept as they were, since they describe cell
// content rather than style.
func (a Attributes) Reset() Attributes {
	return Attributes{
		Flags: a.Flags & (AttrWide | AttrASCIIFast),
	}
}

// hyperlinkEqual compares hyperlinks by value (nil-safe).
func hyperlinkEqual(a, b *Hyperlink) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// normalized applies the bold-as-bright and inverse transforms used for
// both equality and resolution.
func (a Attributes) normalized() Attributes {
	n := a
	if n.Flags&AttrBold != 0 && n.Fg.Kind == ColorPalette && n.Fg.Index < 8 {
		n.Fg.Index += 8
	}
	if n.Flags&AttrInverse != 0 {
		n.Fg, n.Bg = n.Bg, n.Fg
	}
	return n
}

// Equal reports whether two attribute values compare equal after
// bold-as-bright and inverse have been applied.
func (a Attributes) Equal(o Attributes) bool {
	na, no := a.normalized(), o.normalized()
	return na.Fg.Equal(no.Fg) &&
		na.Bg.Equal(no.Bg) &&
		na.UnderlineColor.Equal(no.UnderlineColor) &&
		na.Flags == no.Flags &&
		na.Underline == no.Underline &&
		hyperlinkEqual(na.Hyperlink, no.Hyperlink) &&
		na.TileID == no.TileID
}

// MatchesContainer reports whether two runs carrying these styles may be
// concatenated into a single run. Wide-glyph and tile-bearing styles never
// match anything, not even an identical style, so each such cell stays its
// own run.
func (a Attributes) MatchesContainer(o Attributes) bool {
	if a.Flags&AttrWide != 0 || o.Flags&AttrWide != 0 {
		return false
	}
	if a.TileID != 0 || o.TileID != 0 {
		return false
	}
	return a.Equal(o)
}

// IsWide reports whether this style marks its cell as the left half of a
// double-width glyph.
func (a Attributes) IsWide() bool { return a.Flags&AttrWide != 0 }

// resolved holds the three colors produced by [Attributes.Resolve].
type resolved struct {
	Fg, Bg, Underline color.RGBA
}

// Resolve computes the final foreground/background/underline colors:
// bold-as-bright promotes a palette index < 8 to its bright counterpart,
// inverse swaps resolved fg/bg, invisible forces fg := bg, and faint mixes
// the resolved foreground one third of the way toward black.
func (a Attributes) Resolve(palette *[256]color.RGBA, defaultFg, defaultBg color.RGBA) resolved {
	lookup := func(src ColorSource, isFg bool) color.RGBA {
		switch src.Kind {
		case ColorPalette:
			return palette[src.Index]
		case ColorRGB:
			return src.RGB
		default:
			if isFg {
				return defaultFg
			}
			return defaultBg
		}
	}

	n := a.normalized()
	fgSrc, bgSrc := n.Fg, n.Bg
	if a.Flags&AttrInverse != 0 {
		// Expand defaults on the original sides, then swap the results.
		fgSrc, bgSrc = bgSrc, fgSrc
	}
	fg := lookup(fgSrc, true)
	bg := lookup(bgSrc, false)
	if a.Flags&AttrInverse != 0 {
		fg, bg = bg, fg
	}

	if a.Flags&AttrInvisible != 0 {
		fg = bg
	}
	if a.Flags&AttrFaint != 0 {
		fg = mixTowardBlack(fg)
	}

	var ul color.RGBA
	if n.UnderlineColor.Kind == ColorDefault {
		ul = fg
	} else {
		ul = lookup(n.UnderlineColor, true)
	}

	return resolved{Fg: fg, Bg: bg, Underline: ul}
}
