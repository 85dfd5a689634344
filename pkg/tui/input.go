package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/blockpad/pkg/keymap"
)

// parseKeyInput converts one read from the terminal into key events.
// A read holding several characters (a paste) yields one event per rune.
func parseKeyInput(buf []byte) []keymap.KeyEvent {
	var events []keymap.KeyEvent

	for len(buf) > 0 {
		ev, n := parseOne(buf)
		if n <= 0 {
			break
		}
		if ev.Key != "" {
			events = append(events, ev)
		}
		buf = buf[n:]
	}

	return events
}

// parseOne decodes the first key in buf and returns the bytes it used.
func parseOne(buf []byte) (keymap.KeyEvent, int) {
	// Handle escape sequences (arrow keys, etc.)
	if buf[0] == 27 {
		return parseEscape(buf)
	}

	// Handle special keys
	switch buf[0] {
	case 9:
		return keymap.KeyEvent{Key: keymap.KeyTab}, 1
	case 13:
		return keymap.KeyEvent{Key: keymap.KeyEnter}, 1
	case 10:
		// Ctrl-J; terminals cannot report Shift-Enter
		return keymap.KeyEvent{Key: keymap.KeyEnter, Shift: true}, 1
	case 8, 127:
		return keymap.KeyEvent{Key: keymap.KeyBackspace}, 1
	case 0:
		return keymap.KeyEvent{}, 1
	}

	// Handle Ctrl combinations
	if buf[0] < 32 {
		return keymap.KeyEvent{Key: string(rune(buf[0] + 'a' - 1)), Ctrl: true}, 1
	}

	// Regular character
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		return keymap.KeyEvent{}, 1
	}

	return keymap.KeyEvent{
		Key:   string(r),
		Shift: r >= 'A' && r <= 'Z',
	}, size
}

// parseEscape decodes an escape sequence. Sequences that are not
// understood yield an empty event and consume only their own bytes.
func parseEscape(buf []byte) (keymap.KeyEvent, int) {
	if len(buf) == 1 {
		return keymap.KeyEvent{Key: keymap.KeyEscape}, 1
	}

	switch buf[1] {
	case 13:
		// Alt-Enter
		return keymap.KeyEvent{Key: keymap.KeyEnter, Shift: true}, 2
	case 'O':
		// SS3, sent for arrows in application cursor mode
		if len(buf) < 3 {
			return keymap.KeyEvent{}, len(buf)
		}
		return keymap.KeyEvent{Key: csiKey(buf[2], "")}, 3
	case '[':
	default:
		return keymap.KeyEvent{Key: keymap.KeyEscape}, 1
	}

	// CSI: parameter and intermediate bytes, then one final byte
	end := 2
	for end < len(buf) && (buf[end] < 0x40 || buf[end] > 0x7e) {
		end++
	}
	if end == len(buf) {
		// Truncated sequence
		return keymap.KeyEvent{}, len(buf)
	}

	params := string(buf[2:end])
	final := buf[end]

	// ESC [ 1 ; <mod> X carries modifiers; only Shift is kept
	shift := false
	if first, mod, ok := strings.Cut(params, ";"); ok {
		shift = mod == "2"
		params = first
	}

	return keymap.KeyEvent{Key: csiKey(final, params), Shift: shift}, end + 1
}

// csiKey names the key for a sequence's final byte and leading parameter,
// or returns "" for keys the editor does not use.
func csiKey(final byte, param string) string {
	switch final {
	case 'A':
		return keymap.KeyArrowUp
	case 'B':
		return keymap.KeyArrowDown
	case 'C':
		return keymap.KeyArrowRight
	case 'D':
		return keymap.KeyArrowLeft
	case 'H':
		return keymap.KeyHome
	case 'F':
		return keymap.KeyEnd
	case '~':
		switch param {
		case "1", "7":
			return keymap.KeyHome
		case "3":
			return keymap.KeyDelete
		case "4", "8":
			return keymap.KeyEnd
		}
	}
	return ""
}
