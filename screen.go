package vtterm

// CursorPos is the screen cursor: row/column plus the overflow bit that marks
// "the cursor has reached past the last column but has not yet wrapped".
type CursorPos struct {
	Row      int
	Col      int
	Overflow bool
}

// savedOptions is the (cursor, textAttributes) pair kept by SaveOptions and
// RestoreOptions. The Terminal's DECSC/DECSET-1048 handling does not use this
// slot; it keeps its own snapshot (savedState) that also holds origin mode,
// wraparound, and charset state.
type savedOptions struct {
	cursor CursorPos
	attrs  Attributes
	valid  bool
}

// Screen is the display grid: an ordered sequence of rows, a column count, a
// cursor, the style used for newly printed cells, and a save/restore slot.
type Screen struct {
	rows       []*Row
	cols       int
	cursor     CursorPos
	attrs      Attributes
	saved      savedOptions
	scrollback ScrollbackProvider
	nextIndex  int64
	logger     Logger
}

// NewScreen returns a rows×cols grid with no scrollback retention.
func NewScreen(rowCount, cols int) *Screen {
	return NewScreenWithScrollback(rowCount, cols, NoopScrollback{})
}

// NewScreenWithScrollback returns a rows×cols grid whose top rows, once
// scrolled off, are pushed to scrollback.
func NewScreenWithScrollback(rowCount, cols int, scrollback ScrollbackProvider) *Screen {
	s := &Screen{
		cols:       cols,
		scrollback: scrollback,
		logger:     NoopLogger{},
	}
	s.rows = make([]*Row, rowCount)
	for i := range s.rows {
		s.rows[i] = NewRow(s.nextIndex, cols)
		s.nextIndex++
	}
	return s
}

// RowCount returns the number of rows on screen.
func (s *Screen) RowCount() int { return len(s.rows) }

// ColCount returns the column width of the screen.
func (s *Screen) ColCount() int { return s.cols }

// Row returns the row at the given on-screen index, or nil if out of range.
func (s *Screen) Row(i int) *Row {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

// Cursor returns the current cursor position.
func (s *Screen) Cursor() CursorPos { return s.cursor }

// Attrs returns the style applied to newly printed cells.
func (s *Screen) Attrs() Attributes { return s.attrs }

// SetAttrs replaces the style applied to newly printed cells (SGR).
func (s *Screen) SetAttrs(a Attributes) { s.attrs = a }

// SetLogger installs the logger used for clamped/out-of-bounds diagnostics.
func (s *Screen) SetLogger(l Logger) {
	if l == nil {
		l = NoopLogger{}
	}
	s.logger = l
}

func (s *Screen) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c > s.cols {
		return s.cols
	}
	return c
}

func (s *Screen) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= len(s.rows) {
		return len(s.rows) - 1
	}
	return r
}

// SetCursor moves the cursor, clamping to the grid and clearing the
// overflow bit. Out-of-bounds requests are silently clamped.
func (s *Screen) SetCursor(r, c int) {
	clampedR, clampedC := s.clampRow(r), s.clampCol(c)
	if clampedR != r || clampedC != c {
		s.logger.Debugf("cursor out of bounds (%d,%d), clamped to (%d,%d)", r, c, clampedR, clampedC)
	}
	s.cursor = CursorPos{Row: clampedR, Col: clampedC}
}

// CursorUp moves the cursor up n rows, clamped to row 0.
func (s *Screen) CursorUp(n int) {
	s.cursor.Row = s.clampRow(s.cursor.Row - n)
	s.cursor.Overflow = false
}

// CursorDown moves the cursor down n rows, clamped to the last row.
func (s *Screen) CursorDown(n int) {
	s.cursor.Row = s.clampRow(s.cursor.Row + n)
	s.cursor.Overflow = false
}

// CursorLeft moves the cursor left n columns, clamped to column 0.
func (s *Screen) CursorLeft(n int) {
	s.cursor.Col = s.clampCol(s.cursor.Col - n)
	s.cursor.Overflow = false
}

// CursorRight moves the cursor right n columns, clamped to the column count
// (one past the last column).
func (s *Screen) CursorRight(n int) {
	s.cursor.Col = s.clampCol(s.cursor.Col + n)
	s.cursor.Overflow = false
}

// ClearCursorRow erases the entire row the cursor sits on, to default style.
func (s *Screen) ClearCursorRow() {
	if row := s.Row(s.cursor.Row); row != nil {
		row.Erase(0, s.cols, Default())
	}
}

func blankRow(index int64, cols int) *Row {
	return NewRow(index, cols)
}

// PushRow appends a blank row at the bottom of the grid.
func (s *Screen) PushRow() *Row {
	row := blankRow(s.nextIndex, s.cols)
	s.nextIndex++
	s.rows = append(s.rows, row)
	return row
}

// PopRow removes and returns the bottom row.
func (s *Screen) PopRow() *Row {
	if len(s.rows) == 0 {
		return nil
	}
	row := s.rows[len(s.rows)-1]
	s.rows = s.rows[:len(s.rows)-1]
	return row
}

// ShiftRow removes and returns the top row (used to transfer it to
// scrollback).
func (s *Screen) ShiftRow() *Row {
	if len(s.rows) == 0 {
		return nil
	}
	row := s.rows[0]
	s.rows = s.rows[1:]
	return row
}

// UnshiftRow prepends row at the top of the grid (used to draw rows back
// from scrollback when the screen shrinks and then grows again).
func (s *Screen) UnshiftRow(row *Row) {
	s.rows = append([]*Row{row}, s.rows...)
}

// padStyle restricts a style to the subset the whitespace-padding rule
// allows to bleed into gap-filled cells: foreground color and weight only,
// never background, underline, or strikethrough.
func padStyle(a Attributes) Attributes {
	return Attributes{Fg: a.Fg, Flags: a.Flags & AttrBold}
}

// fillGap pads [from, to) with default-ish blanks per the whitespace
// padding rule before a print lands past the row's logical end.
func fillGap(row *Row, from, to int, style Attributes) {
	if to <= from {
		return
	}
	row.Erase(from, to-from, padStyle(style))
}

// OverwriteString writes text at the cursor's row starting at col, padding
// any gap between the row's logical end and col per the whitespace rule.
// Text clipped past the column count is returned for the caller to wrap.
func (s *Screen) OverwriteString(col int, text string, style Attributes) string {
	row := s.Row(s.cursor.Row)
	if row == nil {
		return ""
	}
	if gapEnd := col; gapEnd > row.Width() {
		fillGap(row, row.Width(), gapEnd, style)
	}
	return row.Overwrite(col, text, style)
}

// InsertString inserts text at the cursor's row starting at col, returning
// any overflow text clipped past the column count.
func (s *Screen) InsertString(col int, text string, style Attributes) string {
	row := s.Row(s.cursor.Row)
	if row == nil {
		return ""
	}
	if gapEnd := col; gapEnd > row.Width() {
		fillGap(row, row.Width(), gapEnd, style)
	}
	return row.Insert(col, text, style)
}

// DeleteChars removes n cells at the cursor's column.
func (s *Screen) DeleteChars(n int) {
	if row := s.Row(s.cursor.Row); row != nil {
		row.DeleteChars(s.cursor.Col, n)
	}
}

// EraseToLeft erases [0, cursor.Col] on the cursor's row.
func (s *Screen) EraseToLeft() {
	if row := s.Row(s.cursor.Row); row != nil {
		row.Erase(0, s.cursor.Col+1, Default())
	}
}

// EraseToRight erases [cursor.Col, cols) on the cursor's row.
func (s *Screen) EraseToRight() {
	if row := s.Row(s.cursor.Row); row != nil {
		row.Erase(s.cursor.Col, s.cols-s.cursor.Col, Default())
	}
}

// EraseAbove erases all rows above the cursor's row, and the cursor's row
// up to (and including) the cursor column.
func (s *Screen) EraseAbove() {
	for i := 0; i < s.cursor.Row; i++ {
		s.rows[i].Erase(0, s.cols, Default())
	}
	s.EraseToLeft()
}

// EraseBelow erases the cursor's row from the cursor column onward, and all
// rows below it.
func (s *Screen) EraseBelow() {
	s.EraseToRight()
	for i := s.cursor.Row + 1; i < len(s.rows); i++ {
		s.rows[i].Erase(0, s.cols, Default())
	}
}

// EraseAll clears every row on screen.
func (s *Screen) EraseAll() {
	for _, row := range s.rows {
		row.Erase(0, s.cols, Default())
	}
}

// FillWithE fills every cell with 'E' (DECALN alignment test pattern).
func (s *Screen) FillWithE() {
	for _, row := range s.rows {
		row.Overwrite(0, repeatRune('E', s.cols), Default())
	}
}

func repeatRune(r rune, n int) string {
	buf := make([]rune, n)
	for i := range buf {
		buf[i] = r
	}
	return string(buf)
}

// ScrollUp removes n rows from the top of [top, bottom) and inserts n
// blank rows at the bottom of the region. If top == 0 the evicted rows are
// pushed to scrollback (the caller is expected to pass a NoopScrollback
// for the alternate screen).
func (s *Screen) ScrollUp(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	if bottom > len(s.rows) {
		bottom = len(s.rows)
	}
	if n > bottom-top {
		n = bottom - top
	}
	if top == 0 && s.scrollback != nil {
		for i := 0; i < n; i++ {
			s.scrollback.Push(s.rows[i])
		}
	}
	copy(s.rows[top:], s.rows[top+n:bottom])
	for i := bottom - n; i < bottom; i++ {
		s.rows[i] = blankRow(s.nextIndex, s.cols)
		s.nextIndex++
	}
}

// ScrollDown removes n rows from the bottom of [top, bottom) and inserts n
// blank rows at the top of the region.
func (s *Screen) ScrollDown(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	if bottom > len(s.rows) {
		bottom = len(s.rows)
	}
	if n > bottom-top {
		n = bottom - top
	}
	for i := bottom - 1; i >= top+n; i-- {
		s.rows[i] = s.rows[i-n]
	}
	for i := top; i < top+n; i++ {
		s.rows[i] = blankRow(s.nextIndex, s.cols)
		s.nextIndex++
	}
}

// InsertLines inserts n blank lines at row, shifting rows in [row, bottom)
// down. Equivalent to ScrollDown(row, bottom, n).
func (s *Screen) InsertLines(row, bottom, n int) {
	s.ScrollDown(row, bottom, n)
}

// DeleteLines removes n lines at row, shifting rows in [row, bottom) up.
// Equivalent to ScrollUp(row, bottom, n).
func (s *Screen) DeleteLines(row, bottom, n int) {
	s.ScrollUp(row, bottom, n)
}

// SaveOptions saves the current cursor position and active style.
func (s *Screen) SaveOptions() {
	s.saved = savedOptions{cursor: s.cursor, attrs: s.attrs, valid: true}
}

// RestoreOptions restores the last-saved cursor position and active style.
// A no-op if nothing was ever saved.
func (s *Screen) RestoreOptions() {
	if !s.saved.valid {
		return
	}
	s.cursor = s.saved.cursor
	s.attrs = s.saved.attrs
}

// SetColumnCount resizes every row to the new column count (DECCOLM),
// preserving left-aligned content and clamping the cursor.
func (s *Screen) SetColumnCount(n int) {
	if n <= 0 {
		return
	}
	s.cols = n
	for i, row := range s.rows {
		s.rows[i] = resizeRowCols(row, n)
	}
	s.cursor.Col = s.clampCol(s.cursor.Col)
	s.cursor.Overflow = false
}

func resizeRowCols(row *Row, cols int) *Row {
	text := row.FullText()
	runes := []rune(text)
	if len(runes) > cols {
		runes = runes[:cols]
	}
	fresh := NewRow(row.Index, cols)
	fresh.Overwrite(0, string(runes), Default())
	return fresh
}

// GrowRows appends n blank rows at the bottom.
func (s *Screen) GrowRows(n int) {
	for i := 0; i < n; i++ {
		s.PushRow()
	}
}

// ShrinkRows removes n rows from the bottom, returning the removed rows in
// top-to-bottom order so the caller (Terminal) can decide whether to keep
// or discard them.
func (s *Screen) ShrinkRows(n int) []*Row {
	if n > len(s.rows) {
		n = len(s.rows)
	}
	removed := append([]*Row{}, s.rows[len(s.rows)-n:]...)
	s.rows = s.rows[:len(s.rows)-n]
	return removed
}
