package vtterm

// Key names the non-printable keys the encoder understands. Printable keys
// arrive as KeyRune with the Rune field set.
type Key int

const (
	KeyRune Key = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// KeyEvent is a semantic key press with its modifier set.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// KeyAction tells the host what a key press resolved to: bytes for the
// transport, or a local view-scroll request.
type KeyAction int

const (
	ActionNone KeyAction = iota
	ActionInput
	ActionScrollPageUp
	ActionScrollPageDown
)

// KeyResult is the outcome of translating one key event.
type KeyResult struct {
	Action KeyAction
	Data   []byte
}

// KeyBinding keys the user override table: exact key (or rune) plus the
// exact modifier set.
type KeyBinding struct {
	Key   Key
	Rune  rune
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Keyboard translates semantic key events into the byte sequences the
// remote peer expects, honoring DECCKM, application keypad, and the
// alt/meta-sends-escape options of its terminal.
type Keyboard struct {
	term     *Terminal
	bindings map[KeyBinding][]byte
}

// NewKeyboard returns an encoder bound to term's mode bits and options.
func NewKeyboard(term *Terminal) *Keyboard {
	return &Keyboard{
		term:     term,
		bindings: make(map[KeyBinding][]byte),
	}
}

// Bind installs a user override for the exact key + modifier set. A nil
// data removes the override.
func (k *Keyboard) Bind(binding KeyBinding, data []byte) {
	if data == nil {
		delete(k.bindings, binding)
		return
	}
	k.bindings[binding] = data
}

// Handle translates the event, writes any resulting bytes to the transport,
// and performs scroll side effects (pageKeysScroll, scrollOnKeystroke).
func (k *Keyboard) Handle(ev KeyEvent) (KeyAction, error) {
	res := k.Translate(ev)
	switch res.Action {
	case ActionInput:
		if k.term.cfg.scrollOnKeystroke {
			k.term.scrollPort.ScrollToBottom()
		}
		if err := k.term.send(res.Data); err != nil {
			return res.Action, err
		}
	case ActionScrollPageUp:
		k.term.scrollPort.ScrollPageUp()
	case ActionScrollPageDown:
		k.term.scrollPort.ScrollPageDown()
	}
	return res.Action, nil
}

// Translate maps a key event to its action and byte sequence without side
// effects.
func (k *Keyboard) Translate(ev KeyEvent) KeyResult {
	if data, ok := k.bindings[bindingOf(ev)]; ok {
		return KeyResult{Action: ActionInput, Data: data}
	}

	appCursor := k.term.HasMode(ModeCursorKeys)

	switch ev.Key {
	case KeyUp:
		return inputResult(k.cursorKey('A', appCursor), ev, k.term)
	case KeyDown:
		return inputResult(k.cursorKey('B', appCursor), ev, k.term)
	case KeyRight:
		return inputResult(k.cursorKey('C', appCursor), ev, k.term)
	case KeyLeft:
		return inputResult(k.cursorKey('D', appCursor), ev, k.term)
	case KeyHome:
		return inputResult(k.cursorKey('H', appCursor), ev, k.term)
	case KeyEnd:
		return inputResult(k.cursorKey('F', appCursor), ev, k.term)

	case KeyPageUp, KeyPageDown:
		// The effective flag is pageKeysScroll XOR shift.
		if k.term.cfg.pageKeysScroll != ev.Shift {
			if ev.Key == KeyPageUp {
				return KeyResult{Action: ActionScrollPageUp}
			}
			return KeyResult{Action: ActionScrollPageDown}
		}
		if ev.Key == KeyPageUp {
			return inputResult([]byte("\x1b[5~"), ev, k.term)
		}
		return inputResult([]byte("\x1b[6~"), ev, k.term)

	case KeyInsert:
		return inputResult([]byte("\x1b[2~"), ev, k.term)
	case KeyDelete:
		return inputResult([]byte("\x1b[3~"), ev, k.term)

	case KeyBackspace:
		b := byte(0x7F)
		if k.term.cfg.backspaceSendsBackspace {
			b = 0x08
		}
		return inputResult([]byte{b}, ev, k.term)

	case KeyTab:
		if ev.Shift {
			return inputResult([]byte("\x1b[Z"), ev, k.term)
		}
		return inputResult([]byte{0x09}, ev, k.term)
	case KeyEnter:
		return inputResult([]byte{0x0D}, ev, k.term)
	case KeyEscape:
		return inputResult([]byte{0x1B}, ev, k.term)

	case KeyF1:
		return inputResult([]byte("\x1bOP"), ev, k.term)
	case KeyF2:
		return inputResult([]byte("\x1bOQ"), ev, k.term)
	case KeyF3:
		return inputResult([]byte("\x1bOR"), ev, k.term)
	case KeyF4:
		return inputResult([]byte("\x1bOS"), ev, k.term)
	case KeyF5:
		return inputResult([]byte("\x1b[15~"), ev, k.term)
	case KeyF6:
		return inputResult([]byte("\x1b[17~"), ev, k.term)
	case KeyF7:
		return inputResult([]byte("\x1b[18~"), ev, k.term)
	case KeyF8:
		return inputResult([]byte("\x1b[19~"), ev, k.term)
	case KeyF9:
		return inputResult([]byte("\x1b[20~"), ev, k.term)
	case KeyF10:
		return inputResult([]byte("\x1b[21~"), ev, k.term)
	case KeyF11:
		return inputResult([]byte("\x1b[23~"), ev, k.term)
	case KeyF12:
		return inputResult([]byte("\x1b[24~"), ev, k.term)

	case KeyRune:
		return k.translateRune(ev)
	}

	return KeyResult{Action: ActionNone}
}

// cursorKey builds the arrow/HOME/END sequence: SS3 under application
// cursor keys, CSI otherwise.
func (k *Keyboard) cursorKey(final byte, appCursor bool) []byte {
	if appCursor {
		return []byte{0x1B, 'O', final}
	}
	return []byte{0x1B, '[', final}
}

// translateRune encodes a printable key, applying ctrl masking and the
// alt/meta transforms.
func (k *Keyboard) translateRune(ev KeyEvent) KeyResult {
	r := ev.Rune
	if r == 0 {
		return KeyResult{Action: ActionNone}
	}

	if ev.Ctrl {
		if masked, ok := ctrlMask(r); ok {
			return inputResult([]byte{masked}, ev, k.term)
		}
	}

	buf := make([]byte, 0, 4)
	buf = appendRune(buf, r)
	return inputResult(buf, ev, k.term)
}

// ctrlMask maps Ctrl plus a letter or @[\]^_ to its C0 byte by clearing
// bits 6-7 (upper-case letter 65 becomes 1).
func ctrlMask(r rune) (byte, bool) {
	if r >= 'a' && r <= 'z' {
		r -= 0x20
	}
	if r >= '@' && r <= '_' {
		return byte(r) & 0x1F, true
	}
	if r == ' ' {
		return 0x00, true
	}
	return 0, false
}

// inputResult applies the alt/meta transforms to data: an ESC prefix when
// the matching sends-escape option is on, otherwise bit 7 on a lone byte.
func inputResult(data []byte, ev KeyEvent, term *Terminal) KeyResult {
	if ev.Alt {
		data = altTransform(data, term.cfg.altSendsEscape)
	}
	if ev.Meta {
		data = altTransform(data, term.cfg.metaSendsEscape)
	}
	return KeyResult{Action: ActionInput, Data: data}
}

func altTransform(data []byte, sendsEscape bool) []byte {
	if sendsEscape {
		return append([]byte{0x1B}, data...)
	}
	if len(data) == 1 && data[0] < 0x80 {
		return []byte{data[0] | 0x80}
	}
	return data
}

func bindingOf(ev KeyEvent) KeyBinding {
	b := KeyBinding{Key: ev.Key, Shift: ev.Shift, Ctrl: ev.Ctrl, Alt: ev.Alt, Meta: ev.Meta}
	if ev.Key == KeyRune {
		b.Rune = ev.Rune
	}
	return b
}

// appendRune appends the UTF-8 encoding of r.
func appendRune(buf []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(buf, byte(r))
	case r < 0x800:
		return append(buf, byte(0xC0|r>>6), byte(0x80|r&0x3F))
	case r < 0x10000:
		return append(buf, byte(0xE0|r>>12), byte(0x80|r>>6&0x3F), byte(0x80|r&0x3F))
	default:
		return append(buf, byte(0xF0|r>>18), byte(0x80|r>>12&0x3F), byte(0x80|r>>6&0x3F), byte(0x80|r&0x3F))
	}
}
