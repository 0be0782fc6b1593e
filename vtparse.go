package vtterm

import "strings"

// Handler is the dispatch target of the VT decoder: one method per control
// function. Terminal implements it; tests may substitute recorders.
type Handler interface {
	// Printable text, already decoded from UTF-8 and charset-translated by
	// the implementation.
	Print(text string)

	// C0 controls
	Bell()
	Backspace()
	Tab(n int)
	LineFeed()
	CarriageReturn()
	Substitute()
	SetActiveCharset(n int)

	// ESC dispatch
	Index()
	ReverseIndex()
	NextLine()
	HorizontalTabSet()
	SaveCursor()
	RestoreCursor()
	ResetState()
	SetKeypadApplication(on bool)
	Decaln()
	ConfigureCharset(slot int, charset Charset)

	// CSI dispatch
	MoveUp(n int)
	MoveDown(n int)
	MoveForward(n int)
	MoveBackward(n int)
	MoveDownCr(n int)
	MoveUpCr(n int)
	GotoCol(col int)
	GotoLine(row int)
	Goto(row, col int)
	ClearScreen(mode int)
	ClearLine(mode int)
	InsertBlankLines(n int)
	DeleteLines(n int)
	InsertBlank(n int)
	DeleteChars(n int)
	EraseChars(n int)
	ScrollUp(n int)
	ScrollDown(n int)
	MoveForwardTabs(n int)
	MoveBackwardTabs(n int)
	ClearTabs(mode int)
	SetMode(code int, private, set bool)
	SetCharAttributes(params []CSIParam)
	DeviceStatus(n int, private bool)
	IdentifyTerminal(kind byte)
	SetScrollingRegion(top, bottom int)
	SetCursorStyle(style int)
	WindowOp(op int, params []int)
	SoftReset()

	// OSC dispatch
	SetTitle(title string)
	SetColor(index int, spec string)
	ResetColor(index int)
	SetHyperlink(link *Hyperlink)
	ClipboardStore(selection byte, data []byte)
	ClipboardLoad(selection byte, terminator string)

	// Anything the tables don't list.
	UnknownSequence(seq string)
}

// CSIParam is one CSI parameter: a decimal value plus any colon-separated
// subparameters. HasValue distinguishes an explicit 0 from a missing
// parameter, which takes the command-specific default.
type CSIParam struct {
	Value    int
	HasValue bool
	Sub      []int
}

type decoderState int

const (
	stateGround decoderState = iota
	stateEscape
	stateCSI
	stateCSIIntermediate
	stateCSIIgnore
	stateOSC
	stateDCS
	stateIgnoreUntilST
)

const (
	maxCSIParams   = 32
	maxParamValue  = 9999
	maxStringBytes = 1 << 20
)

// Decoder is the byte-stream state machine: it decodes UTF-8, groups
// printable runs, and dispatches control functions to a Handler. A partial
// escape or UTF-8 sequence at the end of one Decode call carries into the
// next. Buffered printable text is flushed at the end of every Decode call,
// so a grapheme cluster split across two calls (a base character and a
// combining mark) is printed as two clusters.
type Decoder struct {
	handler Handler
	logger  Logger
	state   decoderState
	utf8    utf8Decoder

	print strings.Builder

	params       []CSIParam
	curVal       int
	curHasValue  bool
	curSub       []int
	inSub        bool
	private      byte
	intermediate []byte

	str    strings.Builder // OSC / DCS payload
	strEsc bool            // saw ESC inside a string sequence, expecting ST
}

// NewDecoder returns a decoder dispatching into handler.
func NewDecoder(handler Handler) *Decoder {
	return &Decoder{
		handler: handler,
		logger:  NoopLogger{},
	}
}

// SetLogger installs the sink for malformed-input diagnostics.
func (d *Decoder) SetLogger(l Logger) {
	if l != nil {
		d.logger = l
	}
}

// Decode consumes a buffer of bytes in order. Every observable side effect
// of a byte is sequenced before the next byte is examined.
func (d *Decoder) Decode(data []byte) {
	for _, b := range data {
		d.decodeByte(b)
	}
	d.flushPrint()
}

func (d *Decoder) decodeByte(b byte) {
	if d.utf8.pending() {
		r, emit, retry := d.utf8.feed(b)
		if emit {
			d.print.WriteRune(r)
		}
		if !retry {
			return
		}
		// The byte that broke the sequence is reprocessed below.
	}

	switch d.state {
	case stateGround:
		d.ground(b)
	case stateEscape:
		d.escape(b)
	case stateCSI, stateCSIIntermediate, stateCSIIgnore:
		d.csi(b)
	case stateOSC:
		d.stringSeq(b, d.dispatchOSC)
	case stateDCS:
		d.stringSeq(b, d.dispatchDCS)
	case stateIgnoreUntilST:
		d.stringSeq(b, func(string) {})
	}
}

func (d *Decoder) flushPrint() {
	if d.print.Len() == 0 {
		return
	}
	text := d.print.String()
	d.print.Reset()
	d.handler.Print(text)
}

func (d *Decoder) ground(b byte) {
	switch {
	case b == 0x1B:
		d.flushPrint()
		d.enterEscape()
	case b < 0x20:
		d.flushPrint()
		d.executeC0(b)
	case b == 0x7F:
		// DEL is ignored.
	case b < 0x80:
		d.print.WriteByte(b)
	default:
		if d.c1(b) {
			return
		}
		if r, emit, _ := d.utf8.feed(b); emit {
			d.print.WriteRune(r)
		}
	}
}

// c1 handles the recognized single-byte C1 controls. Returns false for
// bytes that should instead enter the UTF-8 decoder.
func (d *Decoder) c1(b byte) bool {
	switch b {
	case 0x84: // IND
		d.flushPrint()
		d.handler.Index()
	case 0x85: // NEL
		d.flushPrint()
		d.handler.NextLine()
	case 0x88: // HTS
		d.flushPrint()
		d.handler.HorizontalTabSet()
	case 0x8D: // RI
		d.flushPrint()
		d.handler.ReverseIndex()
	case 0x90: // DCS
		d.flushPrint()
		d.enterString(stateDCS)
	case 0x98, 0x9E, 0x9F: // SOS, PM, APC
		d.flushPrint()
		d.enterString(stateIgnoreUntilST)
	case 0x9B: // CSI
		d.flushPrint()
		d.enterCSI()
	case 0x9C: // ST with no string in flight
		d.flushPrint()
	case 0x9D: // OSC
		d.flushPrint()
		d.enterString(stateOSC)
	default:
		return false
	}
	return true
}

func (d *Decoder) executeC0(b byte) {
	switch b {
	case 0x00: // NUL - ignore
	case 0x07:
		d.handler.Bell()
	case 0x08:
		d.handler.Backspace()
	case 0x09:
		d.handler.Tab(1)
	case 0x0A, 0x0B, 0x0C:
		d.handler.LineFeed()
	case 0x0D:
		d.handler.CarriageReturn()
	case 0x0E: // SO - select G1
		d.handler.SetActiveCharset(1)
	case 0x0F: // SI - select G0
		d.handler.SetActiveCharset(0)
	case 0x18: // CAN in ground - nothing to abort
	case 0x1A:
		d.handler.Substitute()
	default:
		d.logger.Debugf("C0 0x%02x ignored", b)
	}
}

// abortSequence handles CAN and SUB inside any sequence. Returns true if b
// was one of them.
func (d *Decoder) abortSequence(b byte) bool {
	switch b {
	case 0x18:
		d.state = stateGround
		return true
	case 0x1A:
		d.state = stateGround
		d.handler.Substitute()
		return true
	}
	return false
}

func (d *Decoder) enterEscape() {
	d.state = stateEscape
	d.intermediate = d.intermediate[:0]
}

func (d *Decoder) enterCSI() {
	d.state = stateCSI
	d.params = d.params[:0]
	d.curVal = 0
	d.curHasValue = false
	d.curSub = nil
	d.inSub = false
	d.private = 0
	d.intermediate = d.intermediate[:0]
}

func (d *Decoder) enterString(state decoderState) {
	d.state = state
	d.str.Reset()
	d.strEsc = false
}

func (d *Decoder) escape(b byte) {
	if d.abortSequence(b) {
		return
	}
	switch {
	case b == 0x1B:
		d.enterEscape()
	case b >= 0x20 && b <= 0x2F:
		d.intermediate = append(d.intermediate, b)
	case b >= 0x30 && b <= 0x7E:
		d.state = stateGround
		d.dispatchEscape(b)
	case b < 0x20:
		d.executeC0(b)
	default:
		d.state = stateGround
		d.logger.Debugf("malformed escape byte 0x%02x", b)
	}
}

func (d *Decoder) dispatchEscape(final byte) {
	if len(d.intermediate) == 0 {
		switch final {
		case '[':
			d.enterCSI()
		case ']':
			d.enterString(stateOSC)
		case 'P':
			d.enterString(stateDCS)
		case 'X', '^', '_':
			d.enterString(stateIgnoreUntilST)
		case '7':
			d.handler.SaveCursor()
		case '8':
			d.handler.RestoreCursor()
		case 'c':
			d.handler.ResetState()
		case 'D':
			d.handler.Index()
		case 'E':
			d.handler.NextLine()
		case 'H':
			d.handler.HorizontalTabSet()
		case 'M':
			d.handler.ReverseIndex()
		case 'Z':
			d.handler.IdentifyTerminal(0)
		case '=':
			d.handler.SetKeypadApplication(true)
		case '>':
			d.handler.SetKeypadApplication(false)
		case '\\': // ST with no string in flight
		default:
			d.handler.UnknownSequence("ESC " + string(final))
		}
		return
	}

	switch d.intermediate[0] {
	case '#':
		if final == '8' {
			d.handler.Decaln()
		} else {
			d.handler.UnknownSequence("ESC # " + string(final))
		}
	case '(', ')', '*', '+':
		slot := int(d.intermediate[0] - '(')
		switch final {
		case '0':
			d.handler.ConfigureCharset(slot, CharsetLineDrawing)
		case 'B':
			d.handler.ConfigureCharset(slot, CharsetASCII)
		default:
			d.handler.ConfigureCharset(slot, CharsetASCII)
			d.logger.Debugf("charset %q not supported, using ASCII", string(final))
		}
	default:
		d.handler.UnknownSequence("ESC " + string(d.intermediate) + " " + string(final))
	}
}

func (d *Decoder) csi(b byte) {
	if d.abortSequence(b) {
		return
	}
	if b == 0x1B {
		d.enterEscape()
		return
	}
	if b < 0x20 {
		// C0 controls execute from within a control sequence.
		d.executeC0(b)
		return
	}

	switch {
	case b >= 0x30 && b <= 0x39:
		if d.state != stateCSI {
			// A parameter after a trailing intermediate is a syntax error;
			// the sequence aborts without dispatch.
			d.state = stateCSIIgnore
			return
		}
		d.curHasValue = true
		v := &d.curVal
		if d.inSub {
			v = &d.curSub[len(d.curSub)-1]
		}
		if *v < maxParamValue {
			*v = *v*10 + int(b-'0')
		}
	case b == ';':
		if d.state != stateCSI {
			d.state = stateCSIIgnore
			return
		}
		d.pushParam()
	case b == ':':
		if d.state != stateCSI {
			d.state = stateCSIIgnore
			return
		}
		d.inSub = true
		d.curSub = append(d.curSub, 0)
	case b >= 0x3C && b <= 0x3F:
		// Private markers are only valid before any parameter bytes.
		if d.state != stateCSI || d.curHasValue || len(d.params) > 0 || d.private != 0 {
			d.state = stateCSIIgnore
			return
		}
		d.private = b
	case b >= 0x20 && b <= 0x2F:
		if d.state == stateCSIIgnore {
			return
		}
		d.intermediate = append(d.intermediate, b)
		d.state = stateCSIIntermediate
	case b >= 0x40 && b <= 0x7E:
		ignored := d.state == stateCSIIgnore
		d.state = stateGround
		if ignored {
			d.logger.Debugf("malformed CSI sequence aborted at final %q", string(b))
			return
		}
		d.pushParam()
		d.dispatchCSI(b)
	default:
		d.state = stateGround
		d.logger.Debugf("malformed CSI byte 0x%02x", b)
	}
}

// pushParam closes out the parameter being accumulated, recording it even
// when empty. The final byte always closes a parameter, so a dispatched
// sequence carries at least one (possibly empty) parameter.
func (d *Decoder) pushParam() {
	if len(d.params) >= maxCSIParams {
		d.curVal, d.curHasValue, d.curSub, d.inSub = 0, false, nil, false
		return
	}
	d.params = append(d.params, CSIParam{Value: d.curVal, HasValue: d.curHasValue, Sub: d.curSub})
	d.curVal, d.curHasValue, d.curSub, d.inSub = 0, false, nil, false
}

// stringSeq accumulates OSC/DCS/SOS/PM/APC payload bytes until BEL or ST,
// then hands the payload to done.
func (d *Decoder) stringSeq(b byte, done func(payload string)) {
	if d.strEsc {
		d.strEsc = false
		if b == '\\' {
			payload := d.str.String()
			d.state = stateGround
			done(payload)
			return
		}
		// ESC followed by anything else abandons the string.
		d.logger.Debugf("string sequence aborted by ESC 0x%02x", b)
		d.state = stateGround
		d.decodeByte(0x1B)
		d.decodeByte(b)
		return
	}

	if d.abortSequence(b) {
		return
	}

	switch b {
	case 0x1B:
		d.strEsc = true
	case 0x07:
		if d.state == stateOSC {
			payload := d.str.String()
			d.state = stateGround
			done(payload)
			return
		}
		d.str.WriteByte(b)
	case 0x9C:
		payload := d.str.String()
		d.state = stateGround
		done(payload)
	default:
		if d.str.Len() < maxStringBytes {
			d.str.WriteByte(b)
		}
	}
}

func (d *Decoder) dispatchDCS(payload string) {
	d.logger.Debugf("DCS %q ignored", payload)
}
