package keymap

import "unicode/utf8"

// Key names used for non-character keys.
const (
	KeyEnter      = "Enter"
	KeyBackspace  = "Backspace"
	KeyEscape     = "Escape"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyTab        = "Tab"
	KeyDelete     = "Delete"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeySlash      = "/"
)

// KeyEvent represents a keyboard input event.
// Key is either one of the Key* names or the typed character.
type KeyEvent struct {
	Key       string
	Ctrl      bool // Ctrl modifier
	Alt       bool // Alt modifier
	Meta      bool // Meta/Command modifier
	Shift     bool // Shift modifier
	Composing bool // Part of an IME composition
}

// HasModifier reports whether Ctrl, Alt or Meta is held.
// Shift is not counted; it changes the typed character instead.
func (e KeyEvent) HasModifier() bool {
	return e.Ctrl || e.Alt || e.Meta
}

// Rune returns the typed character for single-character keys.
func (e KeyEvent) Rune() (rune, bool) {
	if utf8.RuneCountInString(e.Key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(e.Key)
	return r, true
}

// IsPrintable reports whether the event inserts a character.
func (e KeyEvent) IsPrintable() bool {
	r, ok := e.Rune()
	return ok && !e.HasModifier() && r >= ' ' && r != 0x7f
}

// String returns a lookup form such as "Ctrl-s" or "Shift-Enter".
func (e KeyEvent) String() string {
	base := e.Key
	if e.Shift && !e.IsPrintable() {
		base = "Shift-" + base
	}
	if e.Meta {
		base = "Meta-" + base
	}
	if e.Alt {
		base = "Alt-" + base
	}
	if e.Ctrl {
		base = "Ctrl-" + base
	}
	return base
}
