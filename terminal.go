package vtterm

import (
	"errors"
	"fmt"
	"image/color"
)

// Ensure Terminal implements Handler.
var _ Handler = (*Terminal)(nil)

// TerminalMode is a bitmask of terminal behavior flags.
// Multiple modes can be active simultaneously.
type TerminalMode uint32

const (
	// ModeCursorKeys enables application cursor keys (DECCKM).
	ModeCursorKeys TerminalMode = 1 << iota
	// ModeColumn enables 132-column mode (DECCOLM).
	ModeColumn
	// ModeInsert enables insert mode (IRM): characters shift right instead of overwrite.
	ModeInsert
	// ModeOrigin enables origin mode (DECOM): cursor positioning relative to the scroll region.
	ModeOrigin
	// ModeLineWrap enables automatic wrapping at the right margin (DECAWM).
	ModeLineWrap
	// ModeReverseWraparound lets backspace at column 0 wrap to the end of the previous row.
	ModeReverseWraparound
	// ModeBlinkingCursor enables cursor blink (att610).
	ModeBlinkingCursor
	// ModeLineFeedNewLine makes line feed also move to column 0 (LNM).
	ModeLineFeedNewLine
	// ModeShowCursor makes the cursor visible (DECTCEM).
	ModeShowCursor
	// ModeReverseVideo swaps default foreground/background for the whole screen (DECSCNM).
	ModeReverseVideo
	// ModeBracketedPaste wraps pasted text in ESC[200~ / ESC[201~ markers.
	ModeBracketedPaste
	// ModeKeypadApplication enables application keypad mode (DECKPAM).
	ModeKeypadApplication
	// ModeAltScreen is set while the alternate screen is active.
	ModeAltScreen
)

const (
	// DefaultRows is the default number of terminal rows.
	DefaultRows = 24
	// DefaultCols is the default number of terminal columns.
	DefaultCols = 80
	// DefaultTabWidth is the default distance between tab stops.
	DefaultTabWidth = 8
)

// ErrResizeRejected is returned by Resize for non-positive dimensions.
var ErrResizeRejected = errors.New("vtterm: resize rejected: dimensions must be positive")

// Charset identifies a character set designated into one of the G0-G3 slots.
type Charset uint8

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// savedState is the DECSC/DECRC snapshot: cursor, active style, origin mode,
// wraparound, and charset state.
type savedState struct {
	cursor        CursorPos
	attrs         Attributes
	originMode    bool
	wraparound    bool
	charsets      [4]Charset
	activeCharset int
	valid         bool
}

// config holds the host-settable options the core honors.
type config struct {
	scrollOnOutput          bool
	scrollOnKeystroke       bool
	backspaceSendsBackspace bool
	altSendsEscape          bool
	metaSendsEscape         bool
	enableBold              bool
	enableBoldAsBright      bool
	allowColumnWidthChanges bool
	pageKeysScroll          bool
	tabWidth                int
	findBatchSize           int
	findResultColor         color.RGBA
	findResultSelected      color.RGBA
}

// Terminal is the emulator core: it owns the primary and alternate screens,
// the scrollback, tab stops, the scroll region, and the mode bits, and is
// driven by the internal VT decoder. It implements io.Writer; write host
// output bytes to it and read the resulting grid state back through the
// row-provider methods.
type Terminal struct {
	rows int
	cols int

	primary   *Screen
	alternate *Screen
	active    *Screen

	saved savedState

	// Charsets
	charsets      [4]Charset
	activeCharset int

	// Scrolling region: [scrollTop, scrollBottom), 0-based.
	scrollTop    int
	scrollBottom int

	// Tab stops, keyed by column.
	tabStops map[int]bool

	modes TerminalMode

	// Title
	title      string
	titleStack []string

	// Colors: palette overrides set via OSC 4, keyed by index.
	colors map[int]color.RGBA

	currentHyperlink *Hyperlink

	// Internal VT decoder
	decoder *Decoder

	// Providers for external data/actions
	scrollbackStorage ScrollbackProvider
	responseProvider  ResponseProvider
	bellProvider      BellProvider
	titleProvider     TitleProvider
	clipboardProvider ClipboardProvider
	scrollPort        ScrollPortProvider
	recordingProvider RecordingProvider
	logger            Logger

	cfg config

	// replyErr records the first transport write failure during a parse pass,
	// surfaced from Write.
	replyErr error

	// seenUnknown dedupes unknown-sequence log entries.
	seenUnknown map[string]bool
}

// Option configures a Terminal during construction.
type Option func(*Terminal)

// WithSize sets the terminal dimensions.
// Values <= 0 are replaced with defaults (24x80).
func WithSize(rows, cols int) Option {
	if rows <= 0 {
		rows = DefaultRows
	}

	if cols <= 0 {
		cols = DefaultCols
	}

	return func(t *Terminal) {
		t.rows = rows
		t.cols = cols
	}
}

// WithResponse sets the writer for terminal responses (cursor position
// reports, device attributes) and for keyboard/paste bytes headed to the
// remote peer. If nil, responses are discarded.
func WithResponse(p ResponseProvider) Option {
	return func(t *Terminal) {
		t.responseProvider = p
	}
}

// WithBell sets the handler for bell/beep events.
// Defaults to a no-op if not set.
func WithBell(p BellProvider) Option {
	return func(t *Terminal) {
		t.bellProvider = p
	}
}

// WithTitle sets the handler for window title changes.
// Defaults to a no-op if not set.
func WithTitle(p TitleProvider) Option {
	return func(t *Terminal) {
		t.titleProvider = p
	}
}

// WithClipboard sets the handler for clipboard read/write operations (OSC 52).
// Defaults to a no-op if not set.
func WithClipboard(p ClipboardProvider) Option {
	return func(t *Terminal) {
		t.clipboardProvider = p
	}
}

// WithScrollback sets the storage for scrollback lines. Lines scrolled off
// the top of the primary screen are pushed here. Defaults to a no-op if not
// set; use NewRingScrollback for the standard bounded ring.
func WithScrollback(storage ScrollbackProvider) Option {
	return func(t *Terminal) {
		t.scrollbackStorage = storage
	}
}

// WithScrollPort sets the rendering collaborator notified when output should
// scroll the view to the bottom. Defaults to a no-op if not set.
func WithScrollPort(p ScrollPortProvider) Option {
	return func(t *Terminal) {
		t.scrollPort = p
	}
}

// WithRecording sets the handler for capturing raw input bytes before
// parsing. Useful for replay, debugging, or regression testing.
func WithRecording(p RecordingProvider) Option {
	return func(t *Terminal) {
		t.recordingProvider = p
	}
}

// WithLogger sets the sink for malformed-input, unknown-sequence, and
// clamped-operation diagnostics. Defaults to a no-op if not set.
func WithLogger(l Logger) Option {
	return func(t *Terminal) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithScrollOnOutput scrolls the view to the bottom when new output arrives.
func WithScrollOnOutput(enabled bool) Option {
	return func(t *Terminal) {
		t.cfg.scrollOnOutput = enabled
	}
}

// WithScrollOnKeystroke scrolls the view to the bottom when any key is pressed.
func WithScrollOnKeystroke(enabled bool) Option {
	return func(t *Terminal) {
		t.cfg.scrollOnKeystroke = enabled
	}
}

// WithWraparound sets the DECAWM default.
func WithWraparound(enabled bool) Option {
	return func(t *Terminal) {
		if enabled {
			t.modes |= ModeLineWrap
		} else {
			t.modes &^= ModeLineWrap
		}
	}
}

// WithReverseWraparound sets the reverse-wraparound default.
func WithReverseWraparound(enabled bool) Option {
	return func(t *Terminal) {
		if enabled {
			t.modes |= ModeReverseWraparound
		} else {
			t.modes &^= ModeReverseWraparound
		}
	}
}

// WithBackspaceSendsBackspace makes the backspace key send 0x08 instead of 0x7F.
func WithBackspaceSendsBackspace(enabled bool) Option {
	return func(t *Terminal) {
		t.cfg.backspaceSendsBackspace = enabled
	}
}

// WithAltSendsEscape makes Alt-modified keys send an ESC prefix instead of
// setting bit 7.
func WithAltSendsEscape(enabled bool) Option {
	return func(t *Terminal) {
		t.cfg.altSendsEscape = enabled
	}
}

// WithMetaSendsEscape makes Meta-modified keys send an ESC prefix instead of
// setting bit 7.
func WithMetaSendsEscape(enabled bool) Option {
	return func(t *Terminal) {
		t.cfg.metaSendsEscape = enabled
	}
}

// WithBold enables or disables the bold attribute entirely.
func WithBold(enabled bool) Option {
	return func(t *Terminal) {
		t.cfg.enableBold = enabled
	}
}

// WithBoldAsBright promotes bold palette colors 0-7 to their bright
// counterparts 8-15.
func WithBoldAsBright(enabled bool) Option {
	return func(t *Terminal) {
		t.cfg.enableBoldAsBright = enabled
	}
}

// WithColumnWidthChanges allows DECCOLM to switch between 80 and 132
// columns. When disabled, DECCOLM is a no-op.
func WithColumnWidthChanges(enabled bool) Option {
	return func(t *Terminal) {
		t.cfg.allowColumnWidthChanges = enabled
	}
}

// WithPageKeysScroll makes unshifted PageUp/PageDown scroll the view instead
// of sending bytes; shift inverts the behavior.
func WithPageKeysScroll(enabled bool) Option {
	return func(t *Terminal) {
		t.cfg.pageKeysScroll = enabled
	}
}

// WithTabWidth sets the distance between default tab stops.
// Values <= 0 are replaced with the default (8).
func WithTabWidth(n int) Option {
	return func(t *Terminal) {
		if n > 0 {
			t.cfg.tabWidth = n
		}
	}
}

// WithFindBatchSize sets how many rows a find scan examines per batch.
// Values <= 0 are replaced with the default (50).
func WithFindBatchSize(n int) Option {
	return func(t *Terminal) {
		if n > 0 {
			t.cfg.findBatchSize = n
		}
	}
}

// WithFindResultColors sets the highlight colors the renderer should use
// for find hits and for the selected hit.
func WithFindResultColors(result, selected color.RGBA) Option {
	return func(t *Terminal) {
		t.cfg.findResultColor = result
		t.cfg.findResultSelected = selected
	}
}

// New creates a terminal with the given options.
// Defaults to 24x80 with line wrap and cursor visible.
func New(opts ...Option) *Terminal {
	defaultFindResult := color.RGBA{R: 255, G: 220, B: 0, A: 255}
	defaultFindSelected := color.RGBA{R: 255, G: 128, B: 0, A: 255}
	t := &Terminal{
		rows:              DefaultRows,
		cols:              DefaultCols,
		colors:            make(map[int]color.RGBA),
		bellProvider:      NoopBell{},
		titleProvider:     NoopTitle{},
		clipboardProvider: NoopClipboard{},
		scrollPort:        NoopScrollPort{},
		recordingProvider: NoopRecording{},
		logger:            NoopLogger{},
		seenUnknown:       make(map[string]bool),
		cfg: config{
			enableBold:         true,
			enableBoldAsBright: true,
			tabWidth:           DefaultTabWidth,
			findBatchSize:      DefaultFindBatchSize,
			findResultColor:    defaultFindResult,
			findResultSelected: defaultFindSelected,
		},
	}
	t.modes = ModeLineWrap | ModeShowCursor

	for _, opt := range opts {
		opt(t)
	}

	if t.scrollbackStorage == nil {
		t.scrollbackStorage = NoopScrollback{}
	}
	t.primary = NewScreenWithScrollback(t.rows, t.cols, t.scrollbackStorage)
	t.alternate = NewScreen(t.rows, t.cols) // alternate never contributes to scrollback
	t.primary.SetLogger(t.logger)
	t.alternate.SetLogger(t.logger)
	t.active = t.primary

	t.scrollTop = 0
	t.scrollBottom = t.rows
	t.resetTabStops()

	t.decoder = NewDecoder(t)
	t.decoder.SetLogger(t.logger)

	return t
}

// Rows returns the terminal height in character rows.
func (t *Terminal) Rows() int { return t.rows }

// Cols returns the terminal width in character columns.
func (t *Terminal) Cols() int { return t.cols }

// HasMode returns true if the specified mode flag is enabled.
func (t *Terminal) HasMode(mode TerminalMode) bool {
	return t.modes&mode != 0
}

// Title returns the current window title string.
func (t *Terminal) Title() string { return t.title }

// Cursor returns the active screen's cursor position.
func (t *Terminal) Cursor() CursorPos { return t.active.Cursor() }

// Attrs returns the style applied to newly printed cells.
func (t *Terminal) Attrs() Attributes { return t.active.Attrs() }

// Screen returns the active screen.
func (t *Terminal) Screen() *Screen { return t.active }

// IsAlternateActive returns true while the alternate screen is active.
func (t *Terminal) IsAlternateActive() bool { return t.active == t.alternate }

// Write processes raw bytes, parsing control sequences and updating the
// terminal state. Implements io.Writer. The returned error is non-nil only
// when a reply emitted during parsing failed to reach the transport.
func (t *Terminal) Write(data []byte) (int, error) {
	t.recordingProvider.Record(data)
	t.replyErr = nil
	t.decoder.Decode(data)
	if t.cfg.scrollOnOutput {
		t.scrollPort.ScrollToBottom()
	}
	return len(data), t.replyErr
}

// WriteString is a convenience method that converts the string to bytes and
// calls Write.
func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

// Paste sends pasted text to the transport, wrapped in bracketed-paste
// markers when the mode is enabled.
func (t *Terminal) Paste(text string) error {
	if t.modes&ModeBracketedPaste != 0 {
		text = "\x1b[200~" + text + "\x1b[201~"
	}
	return t.send([]byte(text))
}

// Resize changes the terminal dimensions and adjusts both screens. When the
// primary screen shrinks, rows above the cursor move to scrollback so the
// cursor keeps its content; when it grows, rows are drawn back from
// scrollback if available. Non-positive dimensions are rejected.
func (t *Terminal) Resize(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		t.logger.Warnf("resize rejected: %dx%d", rows, cols)
		return ErrResizeRejected
	}

	if cols != t.cols {
		t.primary.SetColumnCount(cols)
		t.alternate.SetColumnCount(cols)
		t.cols = cols
		t.resetTabStops()
	}

	if rows != t.rows {
		t.resizePrimaryRows(rows)
		t.resizeAlternateRows(rows)
		t.rows = rows
	}

	t.scrollTop = 0
	t.scrollBottom = t.rows
	return nil
}

// resizePrimaryRows grows the primary screen by drawing rows back from
// scrollback (preserving cursor position) and shrinks it by retiring top
// rows to scrollback, trimming blank bottom rows first.
func (t *Terminal) resizePrimaryRows(rows int) {
	scr := t.primary
	for scr.RowCount() < rows {
		if row := t.takeNewestScrollback(); row != nil {
			scr.UnshiftRow(row)
			scr.SetCursor(scr.Cursor().Row+1, scr.Cursor().Col)
		} else {
			scr.PushRow()
		}
	}
	for scr.RowCount() > rows {
		// Trim a blank bottom row below the cursor if one exists; otherwise
		// retire the top row to scrollback.
		last := scr.Row(scr.RowCount() - 1)
		if last != nil && last.Width() == 0 && scr.Cursor().Row < scr.RowCount()-1 {
			scr.PopRow()
			continue
		}
		if row := scr.ShiftRow(); row != nil {
			t.scrollbackStorage.Push(row)
			if cur := scr.Cursor(); cur.Row > 0 {
				scr.SetCursor(cur.Row-1, cur.Col)
			}
		}
	}
	cur := scr.Cursor()
	scr.SetCursor(cur.Row, cur.Col)
}

// resizeAlternateRows grows or shrinks the alternate screen at the bottom;
// the alternate has no scrollback to preserve.
func (t *Terminal) resizeAlternateRows(rows int) {
	scr := t.alternate
	if n := rows - scr.RowCount(); n > 0 {
		scr.GrowRows(n)
	} else if n < 0 {
		scr.ShrinkRows(-n)
		cur := scr.Cursor()
		scr.SetCursor(cur.Row, cur.Col)
	}
}

// takeNewestScrollback removes and returns the newest scrollback row, or nil
// if the provider is empty or does not support taking rows back (only the
// standard ring does; rows held by other providers stay where they are).
func (t *Terminal) takeNewestScrollback() *Row {
	ring, ok := t.scrollbackStorage.(*RingScrollback)
	if !ok {
		return nil
	}
	n := len(ring.rows)
	if n == 0 {
		return nil
	}
	row := ring.rows[n-1]
	ring.rows = ring.rows[:n-1]
	return row
}

// --- Row provider (scroll port contract) ---

// RowCount returns scrollback length plus the screen height.
func (t *Terminal) RowCount() int {
	return t.scrollbackLen() + t.rows
}

// GetRow returns the row at the given absolute index: scrollback rows first
// (0 = oldest), then the active screen's rows. Returns nil if out of range.
func (t *Terminal) GetRow(index int) *Row {
	sb := t.scrollbackLen()
	if index < 0 {
		return nil
	}
	if index < sb {
		return t.scrollbackStorage.Line(index)
	}
	return t.active.Row(index - sb)
}

// GetRowText returns the logical text of the row at the given absolute
// index, or "" if out of range.
func (t *Terminal) GetRowText(index int) string {
	row := t.GetRow(index)
	if row == nil {
		return ""
	}
	return row.FullText()
}

func (t *Terminal) scrollbackLen() int {
	return t.scrollbackStorage.Len()
}

// NewFind returns a find index over this terminal's rows, batched per the
// find-batch-size option.
func (t *Terminal) NewFind(opts ...FindOption) *Find {
	opts = append([]FindOption{WithFindBatch(t.cfg.findBatchSize)}, opts...)
	return NewFind(t, opts...)
}

// FindResultColors returns the highlight colors for find hits and the
// selected hit, for the renderer.
func (t *Terminal) FindResultColors() (result, selected color.RGBA) {
	return t.cfg.findResultColor, t.cfg.findResultSelected
}

// ScrollbackLen returns the number of lines stored in scrollback (primary
// screen only).
func (t *Terminal) ScrollbackLen() int { return t.scrollbackLen() }

// --- Tab stops ---

// resetTabStops rebuilds the default tab-stop table at every tabWidth
// columns.
func (t *Terminal) resetTabStops() {
	t.tabStops = make(map[int]bool)
	for col := t.cfg.tabWidth; col < t.cols; col += t.cfg.tabWidth {
		t.tabStops[col] = true
	}
}

// nextTabStop returns the first tab stop after col, or the last column.
func (t *Terminal) nextTabStop(col int) int {
	for c := col + 1; c < t.cols; c++ {
		if t.tabStops[c] {
			return c
		}
	}
	return t.cols - 1
}

// prevTabStop returns the first tab stop before col, or column 0.
func (t *Terminal) prevTabStop(col int) int {
	for c := col - 1; c > 0; c-- {
		if t.tabStops[c] {
			return c
		}
	}
	return 0
}

// --- Reply channel ---

// send writes bytes to the transport, surfacing write failures.
func (t *Terminal) send(data []byte) error {
	if t.responseProvider == nil {
		return nil
	}
	if _, err := t.responseProvider.Write(data); err != nil {
		return fmt.Errorf("vtterm: transport write failed: %w", err)
	}
	return nil
}

// reply formats and emits a parser-generated response, recording the first
// failure for Write to surface.
func (t *Terminal) reply(format string, args ...any) {
	if err := t.send([]byte(fmt.Sprintf(format, args...))); err != nil && t.replyErr == nil {
		t.replyErr = err
	}
}

// logUnknown logs an unknown sequence once per distinct sequence.
func (t *Terminal) logUnknown(seq string) {
	if t.seenUnknown[seq] {
		return
	}
	t.seenUnknown[seq] = true
	t.logger.Warnf("unknown sequence: %q", seq)
}

// --- Color palette ---

// PaletteColor returns the effective palette entry at index, honoring OSC 4
// overrides.
func (t *Terminal) PaletteColor(index int) color.RGBA {
	if c, ok := t.colors[index]; ok {
		return c
	}
	if index < 0 || index > 255 {
		return DefaultForeground
	}
	return DefaultPalette[index]
}

// ResolveAttrs computes the final colors for a run's attributes against the
// effective palette, honoring reverse-video and the bold configuration.
func (t *Terminal) ResolveAttrs(a Attributes) (fg, bg, underline color.RGBA) {
	if !t.cfg.enableBold {
		a.Flags &^= AttrBold
	}
	if !t.cfg.enableBoldAsBright && a.Flags&AttrBold != 0 && a.Fg.Kind == ColorPalette && a.Fg.Index < 8 {
		// Neutralize the bold-as-bright promotion by pre-resolving the index.
		a.Fg = ColorSource{Kind: ColorRGB, RGB: t.PaletteColor(int(a.Fg.Index))}
	}
	palette := DefaultPalette
	for i, c := range t.colors {
		if i >= 0 && i <= 255 {
			palette[i] = c
		}
	}
	dfg, dbg := DefaultForeground, DefaultBackground
	if t.modes&ModeReverseVideo != 0 {
		dfg, dbg = dbg, dfg
	}
	res := a.Resolve(&palette, dfg, dbg)
	return res.Fg, res.Bg, res.Underline
}
