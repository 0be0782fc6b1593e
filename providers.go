package vtterm

import "io"

// ResponseProvider writes reply bytes (device-attribute responses, cursor
// position reports, status replies) back to the transport collaborator.
type ResponseProvider = io.Writer

// NoopResponse discards all response data.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (int, error) { return len(p), nil }

// Logger is the minimal logging seam malformed input, unknown sequences,
// and clamped operations are reported through. NoopLogger is the default;
// any logger with these two methods can be installed with WithLogger.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// NoopLogger discards all log output.
type NoopLogger struct{}

func (NoopLogger) Debugf(format string, args ...any) {}
func (NoopLogger) Warnf(format string, args ...any)  {}

// BellProvider handles bell/beep events triggered by BEL (0x07).
type BellProvider interface {
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// TitleProvider handles window title changes (OSC 0/2) and the xterm
// title stack (CSI 22 t / CSI 23 t).
type TitleProvider interface {
	SetTitle(title string)
	PushTitle()
	PopTitle()
}

// NoopTitle ignores all title operations.
type NoopTitle struct{}

func (NoopTitle) SetTitle(title string) {}
func (NoopTitle) PushTitle()            {}
func (NoopTitle) PopTitle()             {}

// ClipboardProvider handles clipboard read/write (OSC 52), restricted to
// plain text per the host's non-goal on richer clipboard integration.
type ClipboardProvider interface {
	Read(selection byte) string
	Write(selection byte, data []byte)
}

// NoopClipboard ignores all clipboard operations.
type NoopClipboard struct{}

func (NoopClipboard) Read(selection byte) string      { return "" }
func (NoopClipboard) Write(selection byte, data []byte) {}

// ScrollPortProvider is the rendering collaborator's notification surface:
// the core asks it to scroll to the bottom on output or keystrokes; it pulls
// row contents back through the Terminal's row-provider methods.
type ScrollPortProvider interface {
	ScrollToBottom()
	ScrollPageUp()
	ScrollPageDown()
}

// NoopScrollPort ignores all scroll requests.
type NoopScrollPort struct{}

func (NoopScrollPort) ScrollToBottom() {}
func (NoopScrollPort) ScrollPageUp()   {}
func (NoopScrollPort) ScrollPageDown() {}

// ScrollbackProvider stores rows retired from the top of the primary
// screen. Implementations may back this with memory, disk, or a database;
// the Terminal never assumes more than FIFO-with-eviction semantics.
type ScrollbackProvider interface {
	// Push appends a row. If Len() would exceed MaxLines(), the oldest row
	// is evicted first.
	Push(row *Row)
	// Len returns the number of stored rows.
	Len() int
	// Line returns the row at index (0 = oldest), or nil if out of range.
	Line(index int) *Row
	// Clear discards all stored rows.
	Clear()
	SetMaxLines(max int)
	MaxLines() int
}

// NoopScrollback discards all rows; used for the alternate screen, which
// never contributes to scrollback.
type NoopScrollback struct{}

func (NoopScrollback) Push(row *Row)      {}
func (NoopScrollback) Len() int           { return 0 }
func (NoopScrollback) Line(index int) *Row { return nil }
func (NoopScrollback) Clear()             {}
func (NoopScrollback) SetMaxLines(max int) {}
func (NoopScrollback) MaxLines() int      { return 0 }

// RecordingProvider captures raw input bytes before parsing, for replay or
// debugging sessions.
type RecordingProvider interface {
	Record(data []byte)
	Data() []byte
	Clear()
}

// NoopRecording discards all input recordings.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}
func (NoopRecording) Data() []byte  { return nil }
func (NoopRecording) Clear()        {}

var (
	_ ResponseProvider   = NoopResponse{}
	_ BellProvider       = (*NoopBell)(nil)
	_ TitleProvider      = (*NoopTitle)(nil)
	_ ClipboardProvider  = (*NoopClipboard)(nil)
	_ ScrollbackProvider = (*NoopScrollback)(nil)
	_ ScrollPortProvider = (*NoopScrollPort)(nil)
	_ RecordingProvider  = (*NoopRecording)(nil)
	_ Logger             = NoopLogger{}
)
