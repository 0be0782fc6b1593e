package vtterm

import (
	"strconv"
	"strings"
)

// paramOr returns the i-th CSI parameter, or def when missing or empty.
func (d *Decoder) paramOr(i, def int) int {
	if i < len(d.params) && d.params[i].HasValue {
		return d.params[i].Value
	}
	return def
}

// seqString renders the current CSI sequence for log messages.
func (d *Decoder) seqString(final byte) string {
	var b strings.Builder
	b.WriteString("CSI ")
	if d.private != 0 {
		b.WriteByte(d.private)
	}
	for i, p := range d.params {
		if i > 0 {
			b.WriteByte(';')
		}
		if p.HasValue {
			b.WriteString(strconv.Itoa(p.Value))
		}
		for _, s := range p.Sub {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(s))
		}
	}
	b.Write(d.intermediate)
	b.WriteByte(final)
	return b.String()
}

func (d *Decoder) dispatchCSI(final byte) {
	if len(d.intermediate) > 0 {
		d.dispatchCSIIntermediate(final)
		return
	}

	switch d.private {
	case '?':
		d.dispatchCSIPrivate(final)
		return
	case '>':
		if final == 'c' {
			d.handler.IdentifyTerminal('>')
			return
		}
		d.handler.UnknownSequence(d.seqString(final))
		return
	case 0:
	default:
		d.handler.UnknownSequence(d.seqString(final))
		return
	}

	switch final {
	case 'A':
		d.handler.MoveUp(d.paramOr(0, 1))
	case 'B', 'e':
		d.handler.MoveDown(d.paramOr(0, 1))
	case 'C', 'a':
		d.handler.MoveForward(d.paramOr(0, 1))
	case 'D':
		d.handler.MoveBackward(d.paramOr(0, 1))
	case 'E':
		d.handler.MoveDownCr(d.paramOr(0, 1))
	case 'F':
		d.handler.MoveUpCr(d.paramOr(0, 1))
	case 'G', '`':
		d.handler.GotoCol(d.paramOr(0, 1) - 1)
	case 'H', 'f':
		d.handler.Goto(d.paramOr(0, 1)-1, d.paramOr(1, 1)-1)
	case 'I':
		d.handler.MoveForwardTabs(d.paramOr(0, 1))
	case 'J':
		d.handler.ClearScreen(d.paramOr(0, 0))
	case 'K':
		d.handler.ClearLine(d.paramOr(0, 0))
	case 'L':
		d.handler.InsertBlankLines(d.paramOr(0, 1))
	case 'M':
		d.handler.DeleteLines(d.paramOr(0, 1))
	case 'P':
		d.handler.DeleteChars(d.paramOr(0, 1))
	case 'S':
		d.handler.ScrollUp(d.paramOr(0, 1))
	case 'T':
		d.handler.ScrollDown(d.paramOr(0, 1))
	case 'X':
		d.handler.EraseChars(d.paramOr(0, 1))
	case 'Z':
		d.handler.MoveBackwardTabs(d.paramOr(0, 1))
	case '@':
		d.handler.InsertBlank(d.paramOr(0, 1))
	case 'c':
		d.handler.IdentifyTerminal(0)
	case 'd':
		d.handler.GotoLine(d.paramOr(0, 1) - 1)
	case 'g':
		d.handler.ClearTabs(d.paramOr(0, 0))
	case 'h', 'l':
		for i := range d.params {
			if d.params[i].HasValue {
				d.handler.SetMode(d.params[i].Value, false, final == 'h')
			}
		}
	case 'm':
		d.handler.SetCharAttributes(d.params)
	case 'n':
		d.handler.DeviceStatus(d.paramOr(0, 0), false)
	case 'r':
		d.handler.SetScrollingRegion(d.paramOr(0, 1), d.paramOr(1, 0))
	case 's':
		d.handler.SaveCursor()
	case 't':
		var rest []int
		for _, p := range d.params[1:] {
			rest = append(rest, p.Value)
		}
		d.handler.WindowOp(d.paramOr(0, 0), rest)
	case 'u':
		d.handler.RestoreCursor()
	default:
		d.handler.UnknownSequence(d.seqString(final))
	}
}

func (d *Decoder) dispatchCSIPrivate(final byte) {
	switch final {
	case 'h', 'l':
		for i := range d.params {
			if d.params[i].HasValue {
				d.handler.SetMode(d.params[i].Value, true, final == 'h')
			}
		}
	case 'n':
		d.handler.DeviceStatus(d.paramOr(0, 0), true)
	default:
		d.handler.UnknownSequence(d.seqString(final))
	}
}

func (d *Decoder) dispatchCSIIntermediate(final byte) {
	switch string(d.intermediate) {
	case " ":
		if final == 'q' {
			d.handler.SetCursorStyle(d.paramOr(0, 0))
			return
		}
	case "!":
		if final == 'p' {
			d.handler.SoftReset()
			return
		}
	}
	d.handler.UnknownSequence(d.seqString(final))
}

// dispatchOSC parses "Ps ; Pt" and routes by command number.
func (d *Decoder) dispatchOSC(payload string) {
	cmdStr, rest, hasRest := strings.Cut(payload, ";")
	cmd, err := strconv.Atoi(cmdStr)
	if err != nil {
		d.logger.Debugf("OSC with bad command %q ignored", payload)
		return
	}

	switch cmd {
	case 0, 2:
		d.handler.SetTitle(rest)
	case 1:
		// Icon name only; not tracked.
	case 4:
		d.oscSetColors(rest)
	case 8:
		d.oscHyperlink(rest)
	case 52:
		d.oscClipboard(rest)
	case 104:
		if !hasRest || rest == "" {
			d.handler.ResetColor(-1)
			return
		}
		for _, idx := range strings.Split(rest, ";") {
			if i, err := strconv.Atoi(idx); err == nil {
				d.handler.ResetColor(i)
			}
		}
	default:
		d.handler.UnknownSequence("OSC " + cmdStr)
	}
}

// oscSetColors handles OSC 4's "index;spec" pair list.
func (d *Decoder) oscSetColors(args string) {
	parts := strings.Split(args, ";")
	for i := 0; i+1 < len(parts); i += 2 {
		index, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		d.handler.SetColor(index, parts[i+1])
	}
}

// oscHyperlink handles OSC 8 "params;uri". An empty URI ends the link
// region; an id=... param names the link.
func (d *Decoder) oscHyperlink(args string) {
	paramStr, uri, ok := strings.Cut(args, ";")
	if !ok {
		d.logger.Debugf("OSC 8 missing URI separator")
		return
	}
	if uri == "" {
		d.handler.SetHyperlink(nil)
		return
	}
	link := &Hyperlink{URI: uri}
	for _, kv := range strings.Split(paramStr, ":") {
		if k, v, found := strings.Cut(kv, "="); found && k == "id" {
			link.ID = v
		}
	}
	d.handler.SetHyperlink(link)
}

// oscClipboard handles OSC 52 "selection;data": "?" queries (the reply is
// always BEL-terminated), anything else stores base64 data.
func (d *Decoder) oscClipboard(args string) {
	selStr, data, ok := strings.Cut(args, ";")
	if !ok {
		return
	}
	selection := byte('c')
	if selStr != "" {
		selection = selStr[0]
	}
	if data == "?" {
		d.handler.ClipboardLoad(selection, "\x07")
		return
	}
	d.handler.ClipboardStore(selection, []byte(data))
}
