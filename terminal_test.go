package vtterm

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewTerminal(t *testing.T) {
	term := New()

	if term.Rows() != 24 {
		t.Errorf("expected 24 rows, got %d", term.Rows())
	}
	if term.Cols() != 80 {
		t.Errorf("expected 80 cols, got %d", term.Cols())
	}
	if !term.HasMode(ModeLineWrap) {
		t.Error("expected wraparound on by default")
	}
	if !term.HasMode(ModeShowCursor) {
		t.Error("expected cursor visible by default")
	}
}

func TestTerminalWithSize(t *testing.T) {
	term := New(WithSize(40, 120))

	if term.Rows() != 40 {
		t.Errorf("expected 40 rows, got %d", term.Rows())
	}
	if term.Cols() != 120 {
		t.Errorf("expected 120 cols, got %d", term.Cols())
	}
}

func TestTerminalPrint(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Hello")

	if got := term.GetRowText(0); got != "Hello" {
		t.Errorf("expected 'Hello', got %q", got)
	}
	if cur := term.Cursor(); cur.Row != 0 || cur.Col != 5 {
		t.Errorf("expected cursor at (0,5), got (%d,%d)", cur.Row, cur.Col)
	}
}

func TestTerminalPrintWrap(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString(strings.Repeat("A", 81))

	if got := term.GetRowText(0); got != strings.Repeat("A", 80) {
		t.Errorf("row 0 = %q", got)
	}
	if got := term.GetRowText(1); got != "A" {
		t.Errorf("row 1 = %q, want 'A'", got)
	}
	cur := term.Cursor()
	if cur.Row != 1 || cur.Col != 1 || cur.Overflow {
		t.Errorf("cursor = %+v, want (1,1) overflow clear", cur)
	}
}

func TestTerminalOverflowBit(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString(strings.Repeat("A", 80))

	cur := term.Cursor()
	if cur.Col != 80 || !cur.Overflow {
		t.Errorf("cursor = %+v, want col 80 with overflow set", cur)
	}
}

func TestTerminalNoWraparound(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[?7l")
	term.WriteString(strings.Repeat("A", 79) + "BC")

	row := term.GetRowText(0)
	if !strings.HasSuffix(row, "C") {
		t.Errorf("expected last column overwritten with C, got %q", row)
	}
	if got := term.GetRowText(1); got != "" {
		t.Errorf("expected no wrap to row 1, got %q", got)
	}
}

func TestTerminalNewline(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Line1\r\nLine2")

	if got := term.GetRowText(0); got != "Line1" {
		t.Errorf("row 0 = %q", got)
	}
	if got := term.GetRowText(1); got != "Line2" {
		t.Errorf("row 1 = %q", got)
	}
}

func TestTerminalBareLineFeedKeepsColumn(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("AB\nC")

	if got := term.GetRowText(1); got != "  C" {
		t.Errorf("row 1 = %q, want '  C'", got)
	}
}

func TestTerminalLineFeedNewLineMode(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[20hAB\nC")

	if got := term.GetRowText(1); got != "C" {
		t.Errorf("row 1 = %q, want 'C'", got)
	}
}

func TestTerminalCursorPosition(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[5;10H")

	cur := term.Cursor()
	if cur.Row != 4 || cur.Col != 9 {
		t.Errorf("expected cursor at (4,9), got (%d,%d)", cur.Row, cur.Col)
	}
}

func TestTerminalCursorPositionReport(t *testing.T) {
	var buf bytes.Buffer
	term := New(WithSize(24, 80), WithResponse(&buf))

	term.WriteString("\x1b[5;10H\x1b[6n")

	if got := buf.String(); got != "\x1b[5;10R" {
		t.Errorf("CPR = %q, want ESC[5;10R", got)
	}
}

func TestTerminalDeviceAttributes(t *testing.T) {
	var buf bytes.Buffer
	term := New(WithResponse(&buf))

	term.WriteString("\x1b[c")
	if got := buf.String(); got != "\x1b[?1;2c" {
		t.Errorf("primary DA = %q", got)
	}

	buf.Reset()
	term.WriteString("\x1b[>c")
	if got := buf.String(); got != "\x1b[>0;256;0c" {
		t.Errorf("secondary DA = %q", got)
	}
}

func TestTerminalDeviceStatusReplies(t *testing.T) {
	var buf bytes.Buffer
	term := New(WithResponse(&buf))

	cases := []struct {
		input string
		want  string
	}{
		{"\x1b[5n", "\x1b[0n"},
		{"\x1b[?15n", "\x1b[?11n"},
		{"\x1b[?25n", "\x1b[?21n"},
		{"\x1b[?26n", "\x1b[?12;1;0;0n"},
		{"\x1b[?53n", "\x1b[?50n"},
	}
	for _, tc := range cases {
		buf.Reset()
		term.WriteString(tc.input)
		if got := buf.String(); got != tc.want {
			t.Errorf("%q reply = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTerminalScrollbackTransfer(t *testing.T) {
	term := New(WithSize(5, 80), WithScrollback(NewRingScrollback(100)))

	for i := 1; i <= 9; i++ {
		term.WriteString("line" + itoa(i) + "\r\n")
	}
	term.WriteString("line10")

	if got := term.ScrollbackLen(); got != 5 {
		t.Fatalf("scrollback len = %d, want 5", got)
	}
	for i := 0; i < 5; i++ {
		want := "line" + itoa(i+1)
		if got := term.GetRowText(i); got != want {
			t.Errorf("scrollback row %d = %q, want %q", i, got, want)
		}
	}
	for i := 0; i < 5; i++ {
		want := "line" + itoa(i+6)
		if got := term.GetRowText(5 + i); got != want {
			t.Errorf("screen row %d = %q, want %q", i, got, want)
		}
	}
	if cur := term.Cursor(); cur.Row != 4 {
		t.Errorf("cursor row = %d, want 4", cur.Row)
	}
	if got := term.RowCount(); got != 10 {
		t.Errorf("row count = %d, want 10", got)
	}
}

func TestTerminalRowCountInvariant(t *testing.T) {
	term := New(WithSize(5, 20), WithScrollback(NewRingScrollback(100)))

	inputs := []string{"hello\r\n", "\x1b[31mred\x1b[0m\r\n", strings.Repeat("x", 45), "\x1b[2J"}
	for _, in := range inputs {
		term.WriteString(in)
		if got := term.RowCount(); got != term.ScrollbackLen()+5 {
			t.Fatalf("after %q: row count %d != scrollback %d + 5", in, got, term.ScrollbackLen())
		}
	}
}

func TestTerminalAlternateScreen(t *testing.T) {
	term := New(WithSize(5, 80), WithScrollback(NewRingScrollback(100)))

	for i := 1; i <= 10; i++ {
		term.WriteString("line" + itoa(i) + "\r\n")
	}
	sbBefore := term.ScrollbackLen()
	primaryRow := term.GetRowText(sbBefore)

	term.WriteString("\x1b[?1049h")
	if !term.IsAlternateActive() {
		t.Fatal("expected alternate screen active")
	}
	term.WriteString("\x1b[HALT")
	if got := term.GetRowText(sbBefore); got != "ALT" {
		t.Errorf("alt row 0 = %q, want 'ALT'", got)
	}

	term.WriteString("\x1b[?1049l")
	if term.IsAlternateActive() {
		t.Fatal("expected primary screen active")
	}
	if got := term.ScrollbackLen(); got != sbBefore {
		t.Errorf("scrollback changed across alt switch: %d != %d", got, sbBefore)
	}
	if got := term.GetRowText(sbBefore); got != primaryRow {
		t.Errorf("primary row changed across alt switch: %q != %q", got, primaryRow)
	}
}

func TestTerminalAlternateScreenNoScrollback(t *testing.T) {
	term := New(WithSize(3, 20), WithScrollback(NewRingScrollback(100)))

	term.WriteString("\x1b[?1049h")
	for i := 0; i < 10; i++ {
		term.WriteString("alt\r\n")
	}
	if got := term.ScrollbackLen(); got != 0 {
		t.Errorf("alternate screen contributed %d rows to scrollback", got)
	}
}

func TestTerminalEraseDisplay(t *testing.T) {
	term := New(WithSize(5, 20))

	for i := 0; i < 4; i++ {
		term.WriteString("row\r\n")
	}
	term.WriteString("\x1b[2;1H\x1b[J")

	if got := term.GetRowText(0); got != "row" {
		t.Errorf("row 0 = %q, want kept", got)
	}
	for i := 1; i < 5; i++ {
		if got := term.GetRowText(i); got != "" {
			t.Errorf("row %d = %q, want erased", i, got)
		}
	}
}

func TestTerminalEraseDisplayClearsScrollback(t *testing.T) {
	term := New(WithSize(3, 20), WithScrollback(NewRingScrollback(100)))

	for i := 0; i < 10; i++ {
		term.WriteString("line\r\n")
	}
	if term.ScrollbackLen() == 0 {
		t.Fatal("expected scrollback before ED 3")
	}
	term.WriteString("\x1b[3J")
	if got := term.ScrollbackLen(); got != 0 {
		t.Errorf("scrollback len after ED 3 = %d, want 0", got)
	}
}

func TestTerminalEraseLine(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("abcdef\x1b[1;3H\x1b[K")
	if got := term.GetRowText(0); got != "ab" {
		t.Errorf("EL 0: row = %q, want 'ab'", got)
	}

	term.WriteString("\x1b[2Habcdef\x1b[2;3H\x1b[1K")
	if got := term.GetRowText(1); got != "   def" {
		t.Errorf("EL 1: row = %q, want '   def'", got)
	}
}

func TestTerminalScrollRegion(t *testing.T) {
	term := New(WithSize(5, 20), WithScrollback(NewRingScrollback(100)))

	term.WriteString("A\r\nB\r\nC\r\nD\r\nE")
	term.WriteString("\x1b[2;4r")

	if cur := term.Cursor(); cur.Row != 0 || cur.Col != 0 {
		t.Fatalf("cursor after DECSTBM = %+v, want home", cur)
	}

	term.WriteString("\x1b[4;1H\n")

	want := []string{"A", "C", "D", "", "E"}
	for i, w := range want {
		if got := term.GetRowText(i); got != w {
			t.Errorf("row %d = %q, want %q", i, got, w)
		}
	}
	if got := term.ScrollbackLen(); got != 0 {
		t.Errorf("region scroll pushed %d rows to scrollback", got)
	}
}

func TestTerminalOriginMode(t *testing.T) {
	term := New(WithSize(10, 20))

	term.WriteString("\x1b[3;8r\x1b[?6h")
	if cur := term.Cursor(); cur.Row != 2 {
		t.Errorf("cursor after DECOM set = row %d, want region top 2", cur.Row)
	}

	term.WriteString("\x1b[1;1H")
	if cur := term.Cursor(); cur.Row != 2 {
		t.Errorf("CUP 1;1 under origin mode = row %d, want 2", cur.Row)
	}

	term.WriteString("\x1b[99;1H")
	if cur := term.Cursor(); cur.Row != 7 {
		t.Errorf("CUP past region bottom = row %d, want clamped to 7", cur.Row)
	}
}

func TestTerminalSaveRestoreCursor(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[31;1m\x1b[5;10H\x1b7")
	savedCur := term.Cursor()
	savedAttrs := term.Attrs()
	savedWrap := term.HasMode(ModeLineWrap)
	savedOrigin := term.HasMode(ModeOrigin)

	term.WriteString("\x1b[0m\x1b[20;1H\x1b[?7l\x1b8")

	if cur := term.Cursor(); cur != savedCur {
		t.Errorf("cursor = %+v, want %+v", cur, savedCur)
	}
	if !term.Attrs().Equal(savedAttrs) {
		t.Error("attributes not restored")
	}
	if term.HasMode(ModeLineWrap) != savedWrap {
		t.Error("wraparound not restored")
	}
	if term.HasMode(ModeOrigin) != savedOrigin {
		t.Error("origin mode not restored")
	}
}

func TestTerminalSaveRestoreCursorMode1048(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[7;3H\x1b[?1048h\x1b[1;1H\x1b[?1048l")

	if cur := term.Cursor(); cur.Row != 6 || cur.Col != 2 {
		t.Errorf("cursor = (%d,%d), want (6,2)", cur.Row, cur.Col)
	}
}

func TestTerminalInsertMode(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("abc\x1b[1;1H\x1b[4hXY")

	if got := term.GetRowText(0); got != "XYabc" {
		t.Errorf("row = %q, want 'XYabc'", got)
	}
}

func TestTerminalInsertDeleteChars(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("abcdef\x1b[1;2H\x1b[2@")
	if got := term.GetRowText(0); got != "a  bcdef" {
		t.Errorf("ICH: row = %q, want 'a  bcdef'", got)
	}

	term.WriteString("\x1b[2P")
	if got := term.GetRowText(0); got != "abcdef" {
		t.Errorf("DCH: row = %q, want 'abcdef'", got)
	}
}

func TestTerminalInsertDeleteLines(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("A\r\nB\r\nC\r\nD\r\nE\x1b[2;1H\x1b[2L")

	want := []string{"A", "", "", "B", "C"}
	for i, w := range want {
		if got := term.GetRowText(i); got != w {
			t.Errorf("after IL: row %d = %q, want %q", i, got, w)
		}
	}

	term.WriteString("\x1b[2;1H\x1b[2M")
	want = []string{"A", "B", "C", "", ""}
	for i, w := range want {
		if got := term.GetRowText(i); got != w {
			t.Errorf("after DL: row %d = %q, want %q", i, got, w)
		}
	}
}

func TestTerminalTabStops(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("A\tB")
	if cur := term.Cursor(); cur.Col != 9 {
		t.Errorf("cursor col after tab = %d, want 9", cur.Col)
	}

	term.WriteString("\r\x1b[4G\x1bH\r\tX")
	if got := term.GetRowText(0); got[3] != 'X' {
		t.Errorf("custom tab stop: row = %q, want X at col 3", got)
	}

	// TBC 3 drops all stops; tab then runs to the last column.
	term.WriteString("\x1b[3g\r\n\tY")
	if cur := term.Cursor(); cur.Col != 80 {
		t.Errorf("cursor col after tab with no stops = %d, want 80", cur.Col)
	}
}

func TestTerminalBackTab(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[1;20H\x1b[Z")
	if cur := term.Cursor(); cur.Col != 16 {
		t.Errorf("CBT: col = %d, want 16", cur.Col)
	}
}

func TestTerminalDecaln(t *testing.T) {
	term := New(WithSize(5, 10))

	term.WriteString("\x1b#8")

	for i := 0; i < 5; i++ {
		if got := term.GetRowText(i); got != strings.Repeat("E", 10) {
			t.Errorf("row %d = %q", i, got)
		}
	}
}

func TestTerminalReverseIndex(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("A\r\nB\r\nC\r\nD\r\nE\x1b[1;1H\x1bM")

	want := []string{"", "A", "B", "C", "D"}
	for i, w := range want {
		if got := term.GetRowText(i); got != w {
			t.Errorf("row %d = %q, want %q", i, got, w)
		}
	}
}

func TestTerminalWideChar(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("ダ")

	if got := term.GetRowText(0); got != "ダ" {
		t.Errorf("row = %q", got)
	}
	if cur := term.Cursor(); cur.Col != 2 {
		t.Errorf("cursor col = %d, want 2 after wide char", cur.Col)
	}
}

func TestTerminalWideCharWrapsAtLastColumn(t *testing.T) {
	term := New(WithSize(24, 4))

	term.WriteString("abcダ")

	if got := term.GetRowText(0); got != "abc" {
		t.Errorf("row 0 = %q, want wide char wrapped away", got)
	}
	if got := term.GetRowText(1); got != "ダ" {
		t.Errorf("row 1 = %q, want wide char", got)
	}
}

func TestTerminalStyledRuns(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[31mAB\x1b[32mCD\x1b[32mEF")

	runs := term.GetRow(0).Runs()
	if len(runs) != 2 {
		t.Fatalf("run count = %d, want 2 (same-style runs coalesce)", len(runs))
	}
	if runs[0].text != "AB" || runs[1].text != "CDEF" {
		t.Errorf("runs = %q, %q", runs[0].text, runs[1].text)
	}
}

func TestTerminalHyperlink(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]8;;https://example.com\x1b\\link\x1b]8;;\x1b\\plain")

	runs := term.GetRow(0).Runs()
	if len(runs) < 2 {
		t.Fatalf("run count = %d", len(runs))
	}
	if runs[0].style.Hyperlink == nil || runs[0].style.Hyperlink.URI != "https://example.com" {
		t.Errorf("first run hyperlink = %+v", runs[0].style.Hyperlink)
	}
	if runs[1].style.Hyperlink != nil {
		t.Error("second run should have no hyperlink")
	}
}

func TestTerminalTitle(t *testing.T) {
	term := New()

	term.WriteString("\x1b]2;hello\x07")
	if got := term.Title(); got != "hello" {
		t.Errorf("title = %q", got)
	}

	term.WriteString("\x1b]0;world\x1b\\")
	if got := term.Title(); got != "world" {
		t.Errorf("title = %q", got)
	}
}

func TestTerminalTitleStack(t *testing.T) {
	term := New()

	term.WriteString("\x1b]2;first\x07\x1b[22t\x1b]2;second\x07\x1b[23t")

	if got := term.Title(); got != "first" {
		t.Errorf("title after pop = %q, want 'first'", got)
	}
}

func TestTerminalBracketedPaste(t *testing.T) {
	var buf bytes.Buffer
	term := New(WithResponse(&buf))

	if err := term.Paste("hi"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "hi" {
		t.Errorf("plain paste = %q", got)
	}

	buf.Reset()
	term.WriteString("\x1b[?2004h")
	if err := term.Paste("hi"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\x1b[200~hi\x1b[201~" {
		t.Errorf("bracketed paste = %q", got)
	}
}

func TestTerminalResizeRejected(t *testing.T) {
	term := New(WithSize(24, 80))

	if err := term.Resize(0, 80); !errors.Is(err, ErrResizeRejected) {
		t.Errorf("Resize(0,80) = %v, want ErrResizeRejected", err)
	}
	if err := term.Resize(24, -1); !errors.Is(err, ErrResizeRejected) {
		t.Errorf("Resize(24,-1) = %v, want ErrResizeRejected", err)
	}
	if term.Rows() != 24 || term.Cols() != 80 {
		t.Error("rejected resize mutated dimensions")
	}
}

func TestTerminalResizeRows(t *testing.T) {
	term := New(WithSize(5, 20), WithScrollback(NewRingScrollback(100)))

	for i := 1; i <= 5; i++ {
		term.WriteString("r" + itoa(i) + "\r\n")
	}

	if err := term.Resize(3, 20); err != nil {
		t.Fatal(err)
	}
	if term.Rows() != 3 {
		t.Fatalf("rows = %d", term.Rows())
	}
	if got := term.RowCount(); got != term.ScrollbackLen()+3 {
		t.Errorf("row count %d != scrollback %d + 3", got, term.ScrollbackLen())
	}

	if err := term.Resize(6, 20); err != nil {
		t.Fatal(err)
	}
	if got := term.RowCount(); got != term.ScrollbackLen()+6 {
		t.Errorf("row count %d != scrollback %d + 6", got, term.ScrollbackLen())
	}
}

func TestTerminalReverseWraparound(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[?45h\x1b[2;1H\x08")

	cur := term.Cursor()
	if cur.Row != 0 || cur.Col != 79 {
		t.Errorf("cursor = (%d,%d), want (0,79)", cur.Row, cur.Col)
	}
}

func TestTerminalFullReset(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[31mhello\x1b[5;10H\x1b[2;10r\x1bc")

	if got := term.GetRowText(0); got != "" {
		t.Errorf("row 0 = %q after RIS", got)
	}
	if cur := term.Cursor(); cur.Row != 0 || cur.Col != 0 {
		t.Errorf("cursor = %+v after RIS", cur)
	}
	if !term.Attrs().IsDefault() {
		t.Error("attributes not reset")
	}
}

func TestTerminalSoftReset(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("hello\x1b[31m\x1b[4h\x1b[?6h\x1b[!p")

	if term.HasMode(ModeInsert) {
		t.Error("insert mode survived DECSTR")
	}
	if term.HasMode(ModeOrigin) {
		t.Error("origin mode survived DECSTR")
	}
	if !term.Attrs().IsDefault() {
		t.Error("attributes survived DECSTR")
	}
	if got := term.GetRowText(0); got != "hello" {
		t.Errorf("DECSTR cleared the screen: %q", got)
	}
}

func TestTerminalModeToggles(t *testing.T) {
	term := New()

	cases := []struct {
		set  string
		mode TerminalMode
	}{
		{"\x1b[?1h", ModeCursorKeys},
		{"\x1b[?5h", ModeReverseVideo},
		{"\x1b[?12h", ModeBlinkingCursor},
		{"\x1b[4h", ModeInsert},
		{"\x1b[?2004h", ModeBracketedPaste},
	}
	for _, tc := range cases {
		term.WriteString(tc.set)
		if !term.HasMode(tc.mode) {
			t.Errorf("%q did not set mode %b", tc.set, tc.mode)
		}
	}

	term.WriteString("\x1b[?25l")
	if term.HasMode(ModeShowCursor) {
		t.Error("DECRST 25 did not hide cursor")
	}
}

func TestTerminalTransportWriteFailure(t *testing.T) {
	term := New(WithResponse(failWriter{}))

	_, err := term.WriteString("\x1b[6n")
	if err == nil {
		t.Fatal("expected transport failure surfaced from Write")
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func TestTerminalWriteSplitIdempotent(t *testing.T) {
	input := "ab\x1b[31mcダ\x1b[5;10Hd\x1b]2;t\x07e\x1b[0m\xe3\x81\x82f\r\ng"

	whole := New(WithSize(24, 80), WithScrollback(NewRingScrollback(10)))
	whole.WriteString(input)

	for split := 1; split < len(input); split++ {
		part := New(WithSize(24, 80), WithScrollback(NewRingScrollback(10)))
		part.WriteString(input[:split])
		part.WriteString(input[split:])

		if part.Cursor() != whole.Cursor() {
			t.Fatalf("split %d: cursor %+v != %+v", split, part.Cursor(), whole.Cursor())
		}
		for i := 0; i < whole.RowCount(); i++ {
			if part.GetRowText(i) != whole.GetRowText(i) {
				t.Fatalf("split %d: row %d %q != %q", split, i, part.GetRowText(i), whole.GetRowText(i))
			}
		}
	}
}

func TestTerminalRecording(t *testing.T) {
	rec := &memRecording{}
	term := New(WithRecording(rec))

	term.WriteString("abc")

	if got := string(rec.Data()); got != "abc" {
		t.Errorf("recorded = %q", got)
	}
}

type memRecording struct {
	data []byte
}

func (m *memRecording) Record(data []byte) { m.data = append(m.data, data...) }
func (m *memRecording) Data() []byte       { return m.data }
func (m *memRecording) Clear()             { m.data = nil }

func TestTerminalBellProvider(t *testing.T) {
	bell := &countBell{}
	term := New(WithBell(bell))

	term.WriteString("a\x07b\x07")

	if bell.count != 2 {
		t.Errorf("bell count = %d, want 2", bell.count)
	}
}

type countBell struct {
	count int
}

func (b *countBell) Ring() { b.count++ }

func TestTerminalUnknownSequenceLoggedOnce(t *testing.T) {
	log := &countLogger{}
	term := New(WithLogger(log))

	term.WriteString("\x1b[1z\x1b[1z\x1b[1z")

	if log.warns != 1 {
		t.Errorf("warn count = %d, want 1 (dedupe per distinct sequence)", log.warns)
	}
}

type countLogger struct {
	debugs int
	warns  int
}

func (l *countLogger) Debugf(format string, args ...any) { l.debugs++ }
func (l *countLogger) Warnf(format string, args ...any)  { l.warns++ }
