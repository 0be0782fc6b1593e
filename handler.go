package vtterm

import (
	"encoding/base64"
	"image/color"
	"strings"
)

// This file implements the Handler interface the internal VT decoder
// dispatches into: one method per control function, mutating the active
// screen, the modes, or the reply channel.

// Print writes a run of printable grapheme clusters at the cursor, honoring
// insert mode, the wraparound/overflow rules, and the active charset.
func (t *Terminal) Print(text string) {
	if t.charsets[t.activeCharset] == CharsetLineDrawing {
		text = translateLineDrawing(text)
	}

	scr := t.active
	attrs := scr.Attrs()
	attrs.Hyperlink = t.currentHyperlink

	for text != "" {
		cur := scr.Cursor()
		if cur.Col >= t.cols {
			if t.modes&ModeLineWrap == 0 {
				scr.cursor.Col = t.cols - 1
				scr.cursor.Overflow = false
				cur = scr.Cursor()
			} else {
				t.CarriageReturn()
				t.LineFeed()
				cur = scr.Cursor()
			}
		}

		avail := t.cols - cur.Col
		fit, rest := splitAtWidth(text, avail)
		if fit == "" {
			// A wide cluster that cannot fit in the remaining columns.
			if cur.Col == 0 {
				// It will never fit; drop it rather than loop.
				cluster, _ := nextCluster(text)
				text = text[len(cluster):]
				continue
			}
			if t.modes&ModeLineWrap == 0 {
				return
			}
			t.CarriageReturn()
			t.LineFeed()
			text = rest
			continue
		}

		if t.modes&ModeInsert != 0 {
			scr.InsertString(cur.Col, fit, attrs)
		} else {
			scr.OverwriteString(cur.Col, fit, attrs)
		}

		col := cur.Col + stringWidth(fit)
		if col >= t.cols {
			scr.cursor = CursorPos{Row: cur.Row, Col: t.cols, Overflow: true}
		} else {
			scr.cursor = CursorPos{Row: cur.Row, Col: col}
		}
		text = rest
	}
}

// splitAtWidth splits text into a prefix of at most avail display columns
// (never severing a grapheme cluster) and the remainder. An empty prefix
// with non-empty input means the first cluster alone exceeds avail (a wide
// char at the last column); that cluster is kept in the remainder for the
// caller to wrap or drop.
func splitAtWidth(text string, avail int) (fit, rest string) {
	used := 0
	i := 0
	for i < len(text) {
		cluster, w := nextCluster(text[i:])
		if used+w > avail {
			return text[:i], text[i:]
		}
		used += w
		i += len(cluster)
	}
	return text, ""
}

// nextCluster returns the first grapheme cluster of s and its display
// width, with the ASCII fast path bypassing segmentation.
func nextCluster(s string) (string, int) {
	if s == "" {
		return "", 0
	}
	if b := s[0]; b >= 0x20 && b <= 0x7E {
		return s[:1], 1
	}
	seg := segmentsOf(s, Attributes{})
	if len(seg) == 0 {
		return s, stringWidth(s)
	}
	w := 1
	if seg[0].wide {
		w = 2
	}
	return seg[0].text, w
}

// translateLineDrawing maps the DEC special graphics charset to Unicode
// box-drawing characters.
func translateLineDrawing(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case 'j':
			b.WriteRune('┘')
		case 'k':
			b.WriteRune('┐')
		case 'l':
			b.WriteRune('┌')
		case 'm':
			b.WriteRune('└')
		case 'n':
			b.WriteRune('┼')
		case 'q':
			b.WriteRune('─')
		case 't':
			b.WriteRune('├')
		case 'u':
			b.WriteRune('┤')
		case 'v':
			b.WriteRune('┴')
		case 'w':
			b.WriteRune('┬')
		case 'x':
			b.WriteRune('│')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Bell rings the bell provider (BEL, 0x07).
func (t *Terminal) Bell() {
	t.bellProvider.Ring()
}

// Backspace moves the cursor left one column. With reverse-wraparound and
// wraparound both enabled, backspace at column 0 moves to the last column of
// the previous row.
func (t *Terminal) Backspace() {
	scr := t.active
	cur := scr.Cursor()
	if cur.Overflow {
		scr.cursor = CursorPos{Row: cur.Row, Col: t.cols - 1}
		return
	}
	if cur.Col > 0 {
		scr.cursor = CursorPos{Row: cur.Row, Col: cur.Col - 1}
		return
	}
	if t.modes&ModeReverseWraparound != 0 && t.modes&ModeLineWrap != 0 && cur.Row > 0 {
		scr.cursor = CursorPos{Row: cur.Row - 1, Col: t.cols - 1}
	}
}

// Tab moves the cursor forward to the nth next tab stop (HT / CHT).
func (t *Terminal) Tab(n int) {
	if n < 1 {
		n = 1
	}
	scr := t.active
	col := scr.Cursor().Col
	for i := 0; i < n; i++ {
		col = t.nextTabStop(col)
	}
	scr.cursor = CursorPos{Row: scr.Cursor().Row, Col: col}
}

// MoveBackwardTabs moves the cursor back to the nth previous tab stop (CBT).
func (t *Terminal) MoveBackwardTabs(n int) {
	if n < 1 {
		n = 1
	}
	scr := t.active
	col := scr.Cursor().Col
	for i := 0; i < n; i++ {
		col = t.prevTabStop(col)
	}
	scr.cursor = CursorPos{Row: scr.Cursor().Row, Col: col}
}

// MoveForwardTabs is the CSI alias for Tab (CHT).
func (t *Terminal) MoveForwardTabs(n int) {
	t.Tab(n)
}

// LineFeed moves the cursor down one row. At the bottom of the scroll
// region it scrolls the region up; at the bottom of the screen it retires
// the top row (to scrollback on the primary screen). With LNM set it also
// returns to column 0.
func (t *Terminal) LineFeed() {
	if t.modes&ModeLineFeedNewLine != 0 {
		t.CarriageReturn()
	}
	scr := t.active
	cur := scr.Cursor()
	regionSet := t.scrollTop != 0 || t.scrollBottom != scr.RowCount()
	switch {
	case regionSet && cur.Row == t.scrollBottom-1:
		scr.ScrollUp(t.scrollTop, t.scrollBottom, 1)
		scr.cursor.Overflow = false
	case cur.Row >= scr.RowCount()-1:
		scr.ScrollUp(0, scr.RowCount(), 1)
		scr.cursor.Overflow = false
	default:
		scr.cursor = CursorPos{Row: cur.Row + 1, Col: cur.Col}
	}
}

// CarriageReturn moves the cursor to column 0.
func (t *Terminal) CarriageReturn() {
	scr := t.active
	scr.cursor = CursorPos{Row: scr.Cursor().Row, Col: 0}
}

// Substitute handles SUB (0x1A): the aborted sequence is replaced by a
// question mark at the cursor.
func (t *Terminal) Substitute() {
	t.Print("?")
}

// Index moves the cursor down one row, scrolling when at the region bottom
// (IND, ESC D).
func (t *Terminal) Index() {
	col := t.active.Cursor().Col
	t.LineFeed()
	t.active.cursor.Col = col
}

// ReverseIndex moves the cursor up one row; at the top of the scroll region
// it scrolls the region down instead (RI, ESC M).
func (t *Terminal) ReverseIndex() {
	scr := t.active
	cur := scr.Cursor()
	if cur.Row == t.scrollTop {
		scr.ScrollDown(t.scrollTop, t.scrollBottom, 1)
	} else if cur.Row > 0 {
		scr.cursor = CursorPos{Row: cur.Row - 1, Col: cur.Col}
	}
}

// NextLine moves to column 0 of the next row, scrolling if needed (NEL).
func (t *Terminal) NextLine() {
	t.LineFeed()
	t.CarriageReturn()
}

// HorizontalTabSet sets a tab stop at the current column (HTS, ESC H).
func (t *Terminal) HorizontalTabSet() {
	t.tabStops[t.active.Cursor().Col] = true
}

// ClearTabs clears tab stops: mode 0 clears the stop at the cursor column,
// mode 3 clears all stops (TBC).
func (t *Terminal) ClearTabs(mode int) {
	switch mode {
	case 0:
		delete(t.tabStops, t.active.Cursor().Col)
	case 3:
		t.tabStops = make(map[int]bool)
	default:
		t.logger.Debugf("clear tabs: unknown mode %d", mode)
	}
}

// SaveCursor saves the cursor, active style, origin mode, wraparound, and
// charset state (DECSC, ESC 7).
func (t *Terminal) SaveCursor() {
	t.saved = savedState{
		cursor:        t.active.Cursor(),
		attrs:         t.active.Attrs(),
		originMode:    t.modes&ModeOrigin != 0,
		wraparound:    t.modes&ModeLineWrap != 0,
		charsets:      t.charsets,
		activeCharset: t.activeCharset,
		valid:         true,
	}
}

// RestoreCursor restores the state saved by SaveCursor (DECRC, ESC 8).
// A no-op if nothing was ever saved.
func (t *Terminal) RestoreCursor() {
	if !t.saved.valid {
		return
	}
	t.active.SetCursor(t.saved.cursor.Row, t.saved.cursor.Col)
	t.active.cursor = t.saved.cursor
	t.active.SetAttrs(t.saved.attrs)
	if t.saved.originMode {
		t.modes |= ModeOrigin
	} else {
		t.modes &^= ModeOrigin
	}
	if t.saved.wraparound {
		t.modes |= ModeLineWrap
	} else {
		t.modes &^= ModeLineWrap
	}
	t.charsets = t.saved.charsets
	t.activeCharset = t.saved.activeCharset
}

// ResetState performs a full reset (RIS, ESC c): both screens cleared,
// cursor home, modes and tab stops back to defaults. Scrollback is kept.
func (t *Terminal) ResetState() {
	t.primary.EraseAll()
	t.alternate.EraseAll()
	t.primary.SetCursor(0, 0)
	t.alternate.SetCursor(0, 0)
	t.primary.SetAttrs(Default())
	t.alternate.SetAttrs(Default())
	t.active = t.primary

	t.modes = ModeLineWrap | ModeShowCursor
	t.scrollTop = 0
	t.scrollBottom = t.rows
	t.resetTabStops()
	t.charsets = [4]Charset{}
	t.activeCharset = 0
	t.saved = savedState{}
	t.colors = make(map[int]color.RGBA)
	t.currentHyperlink = nil
}

// SoftReset performs DECSTR (CSI ! p): cursor visible, origin and insert
// modes off, attributes and charsets reset, scroll region reset. Screen
// contents and cursor position are untouched.
func (t *Terminal) SoftReset() {
	t.modes |= ModeShowCursor
	t.modes &^= ModeOrigin | ModeInsert
	t.active.SetAttrs(Default())
	t.charsets = [4]Charset{}
	t.activeCharset = 0
	t.scrollTop = 0
	t.scrollBottom = t.rows
	t.saved = savedState{}
}

// SetKeypadApplication toggles application keypad mode (DECKPAM/DECKPNM).
func (t *Terminal) SetKeypadApplication(on bool) {
	if on {
		t.modes |= ModeKeypadApplication
	} else {
		t.modes &^= ModeKeypadApplication
	}
}

// Decaln fills the screen with 'E' (DECALN alignment pattern, ESC # 8).
func (t *Terminal) Decaln() {
	t.active.FillWithE()
	t.scrollTop = 0
	t.scrollBottom = t.rows
	t.active.SetCursor(0, 0)
}

// ConfigureCharset designates a charset into one of the G0-G3 slots.
func (t *Terminal) ConfigureCharset(slot int, charset Charset) {
	if slot >= 0 && slot < 4 {
		t.charsets[slot] = charset
	}
}

// SetActiveCharset selects which charset slot (0-3, G0-G3) is active (SI/SO).
func (t *Terminal) SetActiveCharset(n int) {
	if n >= 0 && n < 4 {
		t.activeCharset = n
	}
}

// --- Cursor movement ---

// MoveUp moves the cursor up n rows, stopping at the scroll region top when
// the cursor starts inside the region (CUU).
func (t *Terminal) MoveUp(n int) {
	if n < 1 {
		n = 1
	}
	scr := t.active
	cur := scr.Cursor()
	floor := 0
	if cur.Row >= t.scrollTop {
		floor = t.scrollTop
	}
	row := cur.Row - n
	if row < floor {
		row = floor
	}
	scr.cursor = CursorPos{Row: row, Col: cur.Col}
}

// MoveDown moves the cursor down n rows, stopping at the scroll region
// bottom when the cursor starts inside the region (CUD).
func (t *Terminal) MoveDown(n int) {
	if n < 1 {
		n = 1
	}
	scr := t.active
	cur := scr.Cursor()
	ceil := scr.RowCount() - 1
	if cur.Row < t.scrollBottom {
		ceil = t.scrollBottom - 1
	}
	row := cur.Row + n
	if row > ceil {
		row = ceil
	}
	scr.cursor = CursorPos{Row: row, Col: cur.Col}
}

// MoveForward moves the cursor right n columns (CUF).
func (t *Terminal) MoveForward(n int) {
	if n < 1 {
		n = 1
	}
	scr := t.active
	cur := scr.Cursor()
	col := cur.Col + n
	if col > t.cols-1 {
		col = t.cols - 1
	}
	scr.cursor = CursorPos{Row: cur.Row, Col: col}
}

// MoveBackward moves the cursor left n columns (CUB).
func (t *Terminal) MoveBackward(n int) {
	if n < 1 {
		n = 1
	}
	scr := t.active
	cur := scr.Cursor()
	col := cur.Col
	if col >= t.cols {
		col = t.cols - 1
	}
	col -= n
	if col < 0 {
		col = 0
	}
	scr.cursor = CursorPos{Row: cur.Row, Col: col}
}

// MoveDownCr moves the cursor down n rows and to column 0 (CNL).
func (t *Terminal) MoveDownCr(n int) {
	t.MoveDown(n)
	t.CarriageReturn()
}

// MoveUpCr moves the cursor up n rows and to column 0 (CPL).
func (t *Terminal) MoveUpCr(n int) {
	t.MoveUp(n)
	t.CarriageReturn()
}

// GotoCol moves the cursor to a 0-based column, keeping the row (CHA).
func (t *Terminal) GotoCol(col int) {
	scr := t.active
	scr.SetCursor(scr.Cursor().Row, col)
}

// GotoLine moves the cursor to a 0-based row, adjusting for origin mode (VPA).
func (t *Terminal) GotoLine(row int) {
	scr := t.active
	scr.SetCursor(t.effectiveRow(row), scr.Cursor().Col)
}

// Goto moves the cursor to 0-based (row, col), adjusting for origin mode
// (CUP/HVP).
func (t *Terminal) Goto(row, col int) {
	t.active.SetCursor(t.effectiveRow(row), col)
}

// effectiveRow returns the row offset by the scroll region top under origin
// mode, clamped to the region bottom.
func (t *Terminal) effectiveRow(row int) int {
	if t.modes&ModeOrigin == 0 {
		return row
	}
	row += t.scrollTop
	if row > t.scrollBottom-1 {
		row = t.scrollBottom - 1
	}
	return row
}

// --- Erase / edit ---

// ClearScreen erases display regions (ED): 0 cursor to end, 1 start to
// cursor, 2 entire screen, 3 entire screen plus scrollback.
func (t *Terminal) ClearScreen(mode int) {
	switch mode {
	case 0:
		t.active.EraseBelow()
	case 1:
		t.active.EraseAbove()
	case 2:
		t.active.EraseAll()
	case 3:
		t.active.EraseAll()
		t.scrollbackStorage.Clear()
	default:
		t.logger.Debugf("clear screen: unknown mode %d", mode)
	}
}

// ClearLine erases within the cursor row (EL): 0 cursor to end, 1 start to
// cursor, 2 entire row.
func (t *Terminal) ClearLine(mode int) {
	switch mode {
	case 0:
		t.active.EraseToRight()
	case 1:
		t.active.EraseToLeft()
	case 2:
		t.active.ClearCursorRow()
	default:
		t.logger.Debugf("clear line: unknown mode %d", mode)
	}
}

// InsertBlankLines inserts n blank lines at the cursor row within the
// scroll region, shifting the remainder down (IL).
func (t *Terminal) InsertBlankLines(n int) {
	if n < 1 {
		n = 1
	}
	cur := t.active.Cursor()
	if cur.Row >= t.scrollTop && cur.Row < t.scrollBottom {
		t.active.InsertLines(cur.Row, t.scrollBottom, n)
		t.CarriageReturn()
	}
}

// DeleteLines removes n lines at the cursor row within the scroll region,
// shifting the remainder up (DL).
func (t *Terminal) DeleteLines(n int) {
	if n < 1 {
		n = 1
	}
	cur := t.active.Cursor()
	if cur.Row >= t.scrollTop && cur.Row < t.scrollBottom {
		t.active.DeleteLines(cur.Row, t.scrollBottom, n)
		t.CarriageReturn()
	}
}

// InsertBlank inserts n blank cells at the cursor, shifting the rest of the
// row right (ICH).
func (t *Terminal) InsertBlank(n int) {
	if n < 1 {
		n = 1
	}
	cur := t.active.Cursor()
	t.active.InsertString(cur.Col, strings.Repeat(" ", n), Default())
}

// DeleteChars removes n cells at the cursor, shifting the rest of the row
// left (DCH).
func (t *Terminal) DeleteChars(n int) {
	if n < 1 {
		n = 1
	}
	t.active.DeleteChars(n)
}

// EraseChars blanks n cells at the cursor without shifting (ECH).
func (t *Terminal) EraseChars(n int) {
	if n < 1 {
		n = 1
	}
	cur := t.active.Cursor()
	if row := t.active.Row(cur.Row); row != nil {
		row.Erase(cur.Col, n, Default())
	}
}

// ScrollUp scrolls the region up n lines (SU, CSI S).
func (t *Terminal) ScrollUp(n int) {
	if n < 1 {
		n = 1
	}
	t.active.ScrollUp(t.scrollTop, t.scrollBottom, n)
}

// ScrollDown scrolls the region down n lines (SD, CSI T).
func (t *Terminal) ScrollDown(n int) {
	if n < 1 {
		n = 1
	}
	t.active.ScrollDown(t.scrollTop, t.scrollBottom, n)
}

// SetScrollingRegion sets the DECSTBM scroll boundaries from 1-based
// parameters and homes the cursor (to the region top under origin mode).
func (t *Terminal) SetScrollingRegion(top, bottom int) {
	top--
	if top < 0 {
		top = 0
	}
	if bottom <= 0 || bottom > t.rows {
		bottom = t.rows
	}
	if top >= bottom {
		t.logger.Debugf("scroll region rejected: top %d >= bottom %d", top+1, bottom)
		return
	}

	t.scrollTop = top
	t.scrollBottom = bottom

	row := 0
	if t.modes&ModeOrigin != 0 {
		row = t.scrollTop
	}
	t.active.SetCursor(row, 0)
}

// --- Modes ---

// SetMode toggles an ANSI (SM/RM) or DEC private (DECSET/DECRST) mode.
func (t *Terminal) SetMode(code int, private, set bool) {
	if !private {
		switch code {
		case 4:
			t.setModeBit(ModeInsert, set)
		case 20:
			t.setModeBit(ModeLineFeedNewLine, set)
		default:
			t.logUnknown(modeName(code, private, set))
		}
		return
	}

	switch code {
	case 1:
		t.setModeBit(ModeCursorKeys, set)
	case 3:
		t.setColumnMode(set)
	case 5:
		t.setModeBit(ModeReverseVideo, set)
	case 6:
		t.setModeBit(ModeOrigin, set)
		t.Goto(0, 0)
	case 7:
		t.setModeBit(ModeLineWrap, set)
	case 12:
		t.setModeBit(ModeBlinkingCursor, set)
	case 25:
		t.setModeBit(ModeShowCursor, set)
	case 45:
		t.setModeBit(ModeReverseWraparound, set)
	case 47:
		t.switchScreen(set, false, false)
	case 1047:
		t.switchScreen(set, true, false)
	case 1048:
		if set {
			t.SaveCursor()
		} else {
			t.RestoreCursor()
		}
	case 1049:
		t.switchScreen(set, true, true)
	case 2004:
		t.setModeBit(ModeBracketedPaste, set)
	default:
		t.logUnknown(modeName(code, private, set))
	}
}

func modeName(code int, private, set bool) string {
	marker := ""
	if private {
		marker = "?"
	}
	final := "l"
	if set {
		final = "h"
	}
	return "CSI " + marker + itoa(code) + " " + final
}

func (t *Terminal) setModeBit(mode TerminalMode, set bool) {
	if set {
		t.modes |= mode
	} else {
		t.modes &^= mode
	}
}

// setColumnMode handles DECCOLM: switch to 132 or 80 columns, clearing the
// screen and resetting the scroll region. A no-op unless the host allows
// column width changes.
func (t *Terminal) setColumnMode(set bool) {
	if !t.cfg.allowColumnWidthChanges {
		return
	}
	t.setModeBit(ModeColumn, set)
	cols := 80
	if set {
		cols = 132
	}
	t.primary.SetColumnCount(cols)
	t.alternate.SetColumnCount(cols)
	t.cols = cols
	t.resetTabStops()
	t.active.EraseAll()
	t.scrollTop = 0
	t.scrollBottom = t.rows
	t.active.SetCursor(0, 0)
}

// switchScreen swaps between the primary and alternate screens. clearAlt
// clears the alternate on entry; saveCursor additionally saves the primary
// cursor on entry and restores it on exit (DECSET 1049).
func (t *Terminal) switchScreen(toAlternate, clearAlt, saveCursor bool) {
	if toAlternate {
		if t.active == t.alternate {
			return
		}
		if saveCursor {
			t.SaveCursor()
		}
		cur := t.primary.Cursor()
		t.active = t.alternate
		t.modes |= ModeAltScreen
		if clearAlt {
			t.alternate.EraseAll()
		}
		t.alternate.SetCursor(cur.Row, cur.Col)
		t.alternate.SetAttrs(t.primary.Attrs())
		return
	}

	if t.active == t.primary {
		return
	}
	t.active = t.primary
	t.modes &^= ModeAltScreen
	if saveCursor {
		t.RestoreCursor()
	}
}

// --- Replies ---

// DeviceStatus answers DSR queries through the reply channel.
func (t *Terminal) DeviceStatus(n int, private bool) {
	cur := t.active.Cursor()
	row, col := cur.Row+1, cur.Col+1
	if col > t.cols {
		col = t.cols
	}

	if private {
		switch n {
		case 6:
			t.reply("\x1b[?%d;%dR", row, col)
		case 15:
			t.reply("\x1b[?11n")
		case 25:
			t.reply("\x1b[?21n")
		case 26:
			t.reply("\x1b[?12;1;0;0n")
		case 53:
			t.reply("\x1b[?50n")
		default:
			t.logUnknown("CSI ?" + itoa(n) + " n")
		}
		return
	}

	switch n {
	case 5:
		t.reply("\x1b[0n")
	case 6:
		t.reply("\x1b[%d;%dR", row, col)
	default:
		t.logUnknown("CSI " + itoa(n) + " n")
	}
}

// IdentifyTerminal answers device-attribute queries: primary DA for kind 0,
// secondary DA for kind '>'.
func (t *Terminal) IdentifyTerminal(kind byte) {
	switch kind {
	case 0:
		t.reply("\x1b[?1;2c")
	case '>':
		t.reply("\x1b[>0;256;0c")
	default:
		t.logUnknown("CSI " + string(kind) + " c")
	}
}

// WindowOp handles the xterm window manipulation subset the core honors:
// the title stack (CSI 22/23 t). Everything else is ignored.
func (t *Terminal) WindowOp(op int, params []int) {
	switch op {
	case 22:
		t.PushTitle()
	case 23:
		t.PopTitle()
	default:
		t.logger.Debugf("window op %d ignored", op)
	}
}

// SetCursorStyle records the DECSCUSR cursor style; the core keeps only the
// blink bit, the shape belongs to the renderer.
func (t *Terminal) SetCursorStyle(style int) {
	// Odd styles blink, even styles are steady; 0 resets to default.
	switch style {
	case 0, 1, 3, 5:
		t.setModeBit(ModeBlinkingCursor, true)
	case 2, 4, 6:
		t.setModeBit(ModeBlinkingCursor, false)
	default:
		t.logger.Debugf("cursor style %d ignored", style)
	}
}

// --- OSC ---

// SetTitle sets the window title (OSC 0/2).
func (t *Terminal) SetTitle(title string) {
	t.title = title
	t.titleProvider.SetTitle(title)
}

// PushTitle pushes the current title onto the title stack (CSI 22 t).
func (t *Terminal) PushTitle() {
	t.titleStack = append(t.titleStack, t.title)
	t.titleProvider.PushTitle()
}

// PopTitle pops the title stack and restores that title (CSI 23 t).
func (t *Terminal) PopTitle() {
	if n := len(t.titleStack); n > 0 {
		t.title = t.titleStack[n-1]
		t.titleStack = t.titleStack[:n-1]
		t.titleProvider.SetTitle(t.title)
	}
	t.titleProvider.PopTitle()
}

// SetColor overrides a palette entry from an OSC 4 color spec.
func (t *Terminal) SetColor(index int, spec string) {
	if index < 0 || index > 255 {
		return
	}
	if c, ok := parseColorSpec(spec); ok {
		t.colors[index] = c
	} else {
		t.logger.Debugf("bad color spec %q for index %d", spec, index)
	}
}

// ResetColor drops a palette override (OSC 104); a negative index drops all.
func (t *Terminal) ResetColor(index int) {
	if index < 0 {
		t.colors = make(map[int]color.RGBA)
		return
	}
	delete(t.colors, index)
}

// SetHyperlink starts or ends a hyperlink region (OSC 8).
func (t *Terminal) SetHyperlink(link *Hyperlink) {
	if link != nil && link.URI == "" {
		link = nil
	}
	t.currentHyperlink = link
}

// ClipboardStore writes base64-decoded data to the clipboard provider
// (OSC 52 set).
func (t *Terminal) ClipboardStore(selection byte, data []byte) {
	decoded, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		t.logger.Debugf("clipboard store: bad base64: %v", err)
		return
	}
	t.clipboardProvider.Write(selection, decoded)
}

// ClipboardLoad answers an OSC 52 query with the provider's contents,
// base64-encoded, ending the reply with terminator. The decoder always
// passes BEL, whichever terminator the query itself used.
func (t *Terminal) ClipboardLoad(selection byte, terminator string) {
	data := t.clipboardProvider.Read(selection)
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	t.reply("\x1b]52;%c;%s%s", selection, encoded, terminator)
}

// UnknownSequence logs an undispatchable sequence once per distinct form.
func (t *Terminal) UnknownSequence(seq string) {
	t.logUnknown(seq)
}

// itoa is a small decimal formatter for log labels.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// SetCharAttributes applies an SGR parameter list to the active style.
// An empty list is SGR 0.
func (t *Terminal) SetCharAttributes(params []CSIParam) {
	if len(params) == 0 {
		params = []CSIParam{{}}
	}
	attrs := t.active.Attrs()

	for i := 0; i < len(params); i++ {
		p := params[i]
		switch p.Value {
		case 0:
			attrs = attrs.Reset()
		case 1:
			if t.cfg.enableBold {
				attrs.Flags |= AttrBold
			}
		case 2:
			attrs.Flags |= AttrFaint
		case 3:
			attrs.Flags |= AttrItalic
		case 4:
			attrs.Underline = underlineStyleFromSub(p.Sub)
		case 5:
			attrs.Flags |= AttrBlink
		case 7:
			attrs.Flags |= AttrInverse
		case 8:
			attrs.Flags |= AttrInvisible
		case 9:
			attrs.Flags |= AttrStrikethrough
		case 21:
			attrs.Underline = UnderlineDouble
		case 22:
			attrs.Flags &^= AttrBold | AttrFaint
		case 23:
			attrs.Flags &^= AttrItalic
		case 24:
			attrs.Underline = UnderlineNone
		case 25:
			attrs.Flags &^= AttrBlink
		case 27:
			attrs.Flags &^= AttrInverse
		case 28:
			attrs.Flags &^= AttrInvisible
		case 29:
			attrs.Flags &^= AttrStrikethrough
		case 30, 31, 32, 33, 34, 35, 36, 37:
			attrs.Fg = ColorSource{Kind: ColorPalette, Index: uint8(p.Value - 30)}
		case 38:
			if src, used, ok := extendedColor(params[i:]); ok {
				attrs.Fg = src
				i += used
			}
		case 39:
			attrs.Fg = ColorSource{}
		case 40, 41, 42, 43, 44, 45, 46, 47:
			attrs.Bg = ColorSource{Kind: ColorPalette, Index: uint8(p.Value - 40)}
		case 48:
			if src, used, ok := extendedColor(params[i:]); ok {
				attrs.Bg = src
				i += used
			}
		case 49:
			attrs.Bg = ColorSource{}
		case 58:
			if src, used, ok := extendedColor(params[i:]); ok {
				attrs.UnderlineColor = src
				i += used
			}
		case 59:
			attrs.UnderlineColor = ColorSource{}
		case 90, 91, 92, 93, 94, 95, 96, 97:
			attrs.Fg = ColorSource{Kind: ColorPalette, Index: uint8(p.Value - 90 + 8)}
		case 100, 101, 102, 103, 104, 105, 106, 107:
			attrs.Bg = ColorSource{Kind: ColorPalette, Index: uint8(p.Value - 100 + 8)}
		default:
			t.logger.Debugf("SGR %d ignored", p.Value)
		}
	}

	t.active.SetAttrs(attrs)
}

// underlineStyleFromSub maps the SGR 4:n subparameter to an underline style;
// a bare SGR 4 is a single underline.
func underlineStyleFromSub(sub []int) UnderlineStyle {
	if len(sub) == 0 {
		return UnderlineSingle
	}
	switch sub[0] {
	case 0:
		return UnderlineNone
	case 2:
		return UnderlineDouble
	case 3:
		return UnderlineWavy
	case 4:
		return UnderlineDotted
	case 5:
		return UnderlineDashed
	default:
		return UnderlineSingle
	}
}

// extendedColor decodes SGR 38/48/58 extended color forms, both the
// semicolon form (38;5;n / 38;2;r;g;b) and the colon subparameter form
// (38:5:n / 38:2:r:g:b). It returns the color source, how many extra
// semicolon parameters were consumed, and whether decoding succeeded.
func extendedColor(params []CSIParam) (ColorSource, int, bool) {
	if len(params) == 0 {
		return ColorSource{}, 0, false
	}

	if sub := params[0].Sub; len(sub) > 0 {
		switch sub[0] {
		case 5:
			if len(sub) >= 2 {
				return ColorSource{Kind: ColorPalette, Index: clampByte(sub[1])}, 0, true
			}
		case 2:
			if len(sub) >= 4 {
				return rgbSource(sub[1], sub[2], sub[3]), 0, true
			}
		}
		return ColorSource{}, 0, false
	}

	if len(params) >= 3 && params[1].Value == 5 {
		return ColorSource{Kind: ColorPalette, Index: clampByte(params[2].Value)}, 2, true
	}
	if len(params) >= 5 && params[1].Value == 2 {
		return rgbSource(params[2].Value, params[3].Value, params[4].Value), 4, true
	}
	return ColorSource{}, 0, false
}

func rgbSource(r, g, b int) ColorSource {
	return ColorSource{Kind: ColorRGB, RGB: color.RGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b), A: 255}}
}

func clampByte(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
