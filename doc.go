// Package vtterm implements the core of an xterm-compatible terminal
// emulator: the byte-stream parser, the character-cell grid model, and the
// keyboard encoder, with no rendering surface of its own.
//
// The package consumes the bytes a host application produces, interprets
// them against the VT100/VT220/xterm control vocabulary, and maintains an
// in-memory model of the display: cursor, attributes, primary and alternate
// screens, scrollback, tab stops, and the scroll region.
//
// # Quick Start
//
// Create a terminal and write escape-sequence bytes to it:
//
//	term := vtterm.New(
//	    vtterm.WithSize(24, 80),
//	    vtterm.WithScrollback(vtterm.NewRingScrollback(1000)),
//	    vtterm.WithResponse(ptyWriter),
//	)
//	term.WriteString("\x1b[31mhello\x1b[0m world\r\n")
//	fmt.Println(term.GetRowText(0)) // "hello world"
//
// # Architecture
//
// The package is organized around these core types:
//
//   - [Terminal]: owns both screens, the scrollback, modes, and tab stops,
//     and is driven by the internal decoder
//   - [Screen]: a grid of rows with a cursor and the active print style
//   - [Row]: one display line as a sequence of styled runs
//   - [Attributes]: the styled-cell model with its coalescing rules
//   - [Decoder]: the byte-stream state machine (UTF-8, C0/C1, ESC, CSI,
//     OSC, DCS)
//   - [Keyboard]: translates semantic key events into the byte sequences
//     the remote peer expects
//   - [Find]: a batched, case-insensitive search index over all rows
//
// # Collaborators
//
// Rendering, transport, and persistence stay outside the core. The
// renderer pulls rows by absolute index through [Terminal.GetRow] and
// [Terminal.RowCount]; replies and keyboard bytes flow out through the
// response provider; scrollback storage is pluggable via
// [ScrollbackProvider]. Each collaborator has a Noop implementation so a
// bare terminal works with zero wiring.
//
// # Concurrency
//
// The core is single-threaded by design: all mutation happens on the
// caller's goroutine, and every side effect of a byte is sequenced before
// the next byte is parsed. Hosts that parse on one goroutine and render on
// another must provide their own synchronization.
package vtterm
