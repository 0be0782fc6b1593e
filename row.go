package vtterm

import (
	"strings"

	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// runSlot is the per-column decompression of a Row, used internally by the
// mutating operations. A slot is either blank, a printable grapheme cluster,
// the left half of a wide glyph, the (unprinted) right half of a wide glyph,
// or a tile reference.
type runSlot struct {
	style Attributes
	text  string
	blank bool
	wide  bool
	trail bool
}

// cellRun is one styled run of a Row: either a string of narrow graphemes
// sharing a style, a single wide grapheme, or a single tile reference.
type cellRun struct {
	style Attributes
	text  string
	width int
}

// Row is the run-based line model: an ordered sequence of styled runs
// whose concatenated logical width equals Cols, or less if the trailing
// cells are default-styled blanks (those are never materialized as a run).
type Row struct {
	runs  []cellRun
	Cols  int
	Index int64
}

// NewRow returns an empty row of the given absolute index and column count.
func NewRow(index int64, cols int) *Row {
	return &Row{Cols: cols, Index: index}
}

// Width returns the logical column width actually occupied by runs (the
// trailing default blank span, if any, is not counted).
func (r *Row) Width() int {
	w := 0
	for _, run := range r.runs {
		w += run.width
	}
	return w
}

// Runs exposes the row's runs for read-only inspection (row-provider contract).
func (r *Row) Runs() []cellRun {
	return r.runs
}

func firstRune(s string) rune {
	for _, ru := range s {
		return ru
	}
	return 0
}

// segmentsOf splits text into grapheme-cluster slots, honoring the ASCII
// fast path (printable ASCII bypasses full segmentation) and marking wide
// clusters per the first codepoint's East Asian Width.
func segmentsOf(text string, style Attributes) []runSlot {
	var out []runSlot
	i := 0
	for i < len(text) {
		b := text[i]
		if b >= 0x20 && b <= 0x7E {
			out = append(out, runSlot{style: style, text: string(b)})
			i++
			continue
		}
		rest := text[i:]
		gr := uniseg.NewGraphemes(rest)
		if !gr.Next() {
			break
		}
		cluster := gr.Str()
		i += len(cluster)
		if uniwidth.RuneWidth(firstRune(cluster)) == 2 {
			wideStyle := style
			wideStyle.Flags |= AttrWide
			out = append(out, runSlot{style: wideStyle, text: cluster, wide: true}, runSlot{trail: true})
		} else {
			out = append(out, runSlot{style: style, text: cluster})
		}
	}
	return out
}

// decompress expands the row into exactly Cols slots, padding any
// unmaterialized trailing span with default blanks.
func (r *Row) decompress() []runSlot {
	slots := make([]runSlot, 0, r.Cols)
	for _, run := range r.runs {
		switch {
		case run.width == 2 && run.style.IsWide():
			wideStyle := run.style
			wideStyle.Flags |= AttrWide
			slots = append(slots, runSlot{style: wideStyle, text: run.text, wide: true}, runSlot{trail: true})
		case run.text == "":
			for i := 0; i < run.width; i++ {
				slots = append(slots, runSlot{style: run.style, blank: true})
			}
		default:
			gr := uniseg.NewGraphemes(run.text)
			for gr.Next() {
				slots = append(slots, runSlot{style: run.style, text: gr.Str()})
			}
		}
	}
	for len(slots) < r.Cols {
		slots = append(slots, runSlot{blank: true})
	}
	if len(slots) > r.Cols {
		slots = slots[:r.Cols]
	}
	return slots
}

// fixupWideBoundaries repairs a slot slice after a mutation severs a wide
// pair: an orphaned head or trail (its partner no longer adjacent) becomes a
// single default-styled space cell, per the overwrite severing rule.
func fixupWideBoundaries(slots []runSlot) {
	for i := range slots {
		if slots[i].wide {
			if i+1 >= len(slots) || !slots[i+1].trail {
				slots[i] = runSlot{blank: true}
			}
		} else if slots[i].trail {
			if i == 0 || !slots[i-1].wide {
				slots[i] = runSlot{blank: true}
			}
		}
	}
}

// compress rebuilds the run list from a fully decompressed slot slice,
// coalescing adjacent matching styles and dropping a purely-default
// trailing span.
func compress(slots []runSlot) []cellRun {
	var runs []cellRun
	i := 0
	for i < len(slots) {
		s := slots[i]
		if s.trail {
			// Orphaned trail with no preceding wide head; fixup should have
			// already blanked this, but guard against stray input.
			i++
			continue
		}
		if s.wide {
			runs = append(runs, cellRun{style: s.style, text: s.text, width: 2})
			i += 2
			continue
		}
		// Coalesce a run of narrow slots (blank or text) sharing a style.
		style := s.style
		var b strings.Builder
		width := 0
		for i < len(slots) && !slots[i].wide && !slots[i].trail && slots[i].style.MatchesContainer(style) && slots[i].blank == s.blank {
			if slots[i].blank {
				b.WriteByte(' ')
			} else {
				b.WriteString(slots[i].text)
			}
			width++
			i++
		}
		text := ""
		if !s.blank {
			text = b.String()
		}
		runs = append(runs, cellRun{style: style, text: text, width: width})
	}
	// Drop a trailing purely-default blank run; it is implicit.
	if n := len(runs); n > 0 {
		last := runs[n-1]
		if last.text == "" && last.style.IsDefault() {
			runs = runs[:n-1]
		}
	}
	return runs
}

func clampRange(col, n, cols int) (int, int) {
	if col < 0 {
		col = 0
	}
	if col > cols {
		col = cols
	}
	end := col + n
	if end > cols {
		end = cols
	}
	if end < col {
		end = col
	}
	return col, end
}

// Overwrite replaces cells [col, col+width(text)) with text styled as style.
// If the range starts or ends inside a wide cell, the severed half becomes a
// single default-styled space. Text clipped past the column count is returned
// so the caller can wrap it to the next row.
func (r *Row) Overwrite(col int, text string, style Attributes) string {
	slots := r.decompress()
	seg := segmentsOf(text, style)
	col, _ = clampRange(col, 0, r.Cols)
	end := col + len(seg)
	var clipped []runSlot
	if end > r.Cols {
		clipped = seg[r.Cols-col:]
		seg = seg[:r.Cols-col]
		end = r.Cols
	}
	copy(slots[col:end], seg)
	fixupWideBoundaries(slots)
	fixupWideBoundaries(clipped)
	r.runs = compress(slots)
	return slotsToText(clipped)
}

// Insert shifts cells [col, end) right by width(text), splicing text in at
// col. Cells pushed past Cols are clipped and returned as overflow text;
// default blanks at the end of the overflow belong to the implicit trailing
// span and are not returned.
func (r *Row) Insert(col int, text string, style Attributes) string {
	slots := r.decompress()
	col, _ = clampRange(col, 0, r.Cols)
	seg := segmentsOf(text, style)

	merged := make([]runSlot, 0, len(slots)+len(seg))
	merged = append(merged, slots[:col]...)
	merged = append(merged, seg...)
	merged = append(merged, slots[col:]...)

	var kept, overflow []runSlot
	if len(merged) > r.Cols {
		kept = merged[:r.Cols]
		overflow = merged[r.Cols:]
	} else {
		kept = merged
		overflow = nil
	}
	fixupWideBoundaries(kept)
	fixupWideBoundaries(overflow)
	for n := len(overflow); n > 0 && overflow[n-1].blank && overflow[n-1].style.IsDefault(); n = len(overflow) {
		overflow = overflow[:n-1]
	}
	r.runs = compress(kept)
	return slotsToText(overflow)
}

// DeleteChars removes n cells starting at col, shifting right-side cells
// left and padding the right edge with default cells.
func (r *Row) DeleteChars(col, n int) {
	if n <= 0 {
		return
	}
	slots := r.decompress()
	start, end := clampRange(col, n, r.Cols)
	fixupWideBoundaries(slots)
	remaining := append(append([]runSlot{}, slots[:start]...), slots[end:]...)
	for len(remaining) < r.Cols {
		remaining = append(remaining, runSlot{blank: true})
	}
	fixupWideBoundaries(remaining)
	r.runs = compress(remaining)
}

// Erase sets cells [col, col+n) to a blank cell carrying style (typically
// Default(), or the current background color for "bce"-style erase).
func (r *Row) Erase(col, n int, style Attributes) {
	if n <= 0 {
		return
	}
	slots := r.decompress()
	start, end := clampRange(col, n, r.Cols)
	for i := start; i < end; i++ {
		slots[i] = runSlot{style: style, blank: true}
	}
	fixupWideBoundaries(slots)
	r.runs = compress(slots)
}

// Text extracts the logical text of [col, col+width), honoring wide-cell
// column accounting (a wide cell's trailing column contributes nothing).
func (r *Row) Text(col, width int) string {
	slots := r.decompress()
	start, end := clampRange(col, width, r.Cols)
	return slotsToText(slots[start:end])
}

// FullText returns the row's logical text up to the last materialized run;
// the implicit trailing default-blank span contributes nothing.
func (r *Row) FullText() string {
	var b strings.Builder
	for _, run := range r.runs {
		if run.text == "" {
			for i := 0; i < run.width; i++ {
				b.WriteByte(' ')
			}
		} else {
			b.WriteString(run.text)
		}
	}
	return b.String()
}

func slotsToText(slots []runSlot) string {
	var b strings.Builder
	for _, s := range slots {
		switch {
		case s.trail:
			// contributes no text of its own
		case s.blank:
			b.WriteByte(' ')
		default:
			b.WriteString(s.text)
		}
	}
	return b.String()
}
