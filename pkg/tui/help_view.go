package tui

import (
	"github.com/dshills/blockpad/pkg/keymap"
	"github.com/dshills/goterm"
)

// HelpKeyBinding represents a keyboard shortcut with its description
type HelpKeyBinding struct {
	Keys        string // Key combination as shown to the user
	Description string // What this key does
	Category    string // Category (e.g., "Blocks", "Slash menu")
}

// editingHelp documents keys handled by the editor itself rather than by
// registered shortcuts.
var editingHelp = []HelpKeyBinding{
	{Keys: "Enter", Description: "New paragraph below", Category: "Blocks"},
	{Keys: "Alt-Enter", Description: "Line break inside a code block", Category: "Blocks"},
	{Keys: "Backspace", Description: "Remove an empty block", Category: "Blocks"},
	{Keys: "Up/Down", Description: "Move between lines and blocks", Category: "Blocks"},
	{Keys: "Shift-Left/Right", Description: "Select text", Category: "Blocks"},
	{Keys: "Home/End", Description: "Jump to the start or end of the line", Category: "Blocks"},
	{Keys: "Delete", Description: "Delete the character after the caret", Category: "Blocks"},
	{Keys: "/", Description: "Open the command menu", Category: "Slash menu"},
	{Keys: "Up/Down", Description: "Move the highlight", Category: "Slash menu"},
	{Keys: "Enter", Description: "Apply the highlighted command", Category: "Slash menu"},
	{Keys: "Esc", Description: "Close the menu", Category: "Slash menu"},
}

// HelpView lists the editing keys and the registered shortcuts.
type HelpView struct {
	keyboard     *KeyboardHandler
	onClose      func() error
	scrollOffset int
}

// NewHelpView creates a help view. onClose runs when the user dismisses it.
func NewHelpView(keyboard *KeyboardHandler, onClose func() error) *HelpView {
	return &HelpView{keyboard: keyboard, onClose: onClose}
}

// Name returns the view identifier
func (h *HelpView) Name() string { return "help" }

// Init resets the scroll position
func (h *HelpView) Init() error {
	h.scrollOffset = 0
	return nil
}

// Cleanup releases nothing
func (h *HelpView) Cleanup() error { return nil }

// Bindings returns every help entry in display order.
func (h *HelpView) Bindings() []HelpKeyBinding {
	out := make([]HelpKeyBinding, 0, len(editingHelp)+8)
	out = append(out, editingHelp...)
	for _, b := range h.keyboard.GetBindings() {
		out = append(out, HelpKeyBinding{
			Keys:        FormatKeyEvent(b.Key),
			Description: b.Label,
			Category:    "Shortcuts",
		})
	}
	return out
}

// HandleKey scrolls the list and closes the view on Escape or Enter
func (h *HelpView) HandleKey(event keymap.KeyEvent) error {
	switch event.Key {
	case keymap.KeyArrowDown:
		h.scrollOffset++
	case keymap.KeyArrowUp:
		if h.scrollOffset > 0 {
			h.scrollOffset--
		}
	case keymap.KeyEscape, keymap.KeyEnter, "q":
		if h.onClose != nil {
			return h.onClose()
		}
	}
	return nil
}

// Render draws the help list grouped by category
func (h *HelpView) Render(screen *goterm.Screen) error {
	width, height := screen.Size()

	var lines []helpLine
	add := func(text string, fg goterm.Color, style goterm.Style) {
		lines = append(lines, helpLine{text: text, fg: fg, style: style})
	}

	category := ""
	for _, b := range h.Bindings() {
		if b.Category != category {
			if category != "" {
				add("", theme.Text, goterm.StyleNone)
			}
			category = b.Category
			add(category, theme.Accent, goterm.StyleBold)
		}
		add(padRight(b.Keys, 20)+b.Description, theme.Text, goterm.StyleNone)
	}

	screen.DrawText(gutterWidth, 0, "Help", theme.Text, theme.Background, goterm.StyleBold)
	body := max(height-3, 0)
	h.scrollOffset = min(h.scrollOffset, max(len(lines)-body, 0))

	for i := 0; i < body && h.scrollOffset+i < len(lines); i++ {
		l := lines[h.scrollOffset+i]
		drawClipped(screen, gutterWidth, i+2, l.text, l.fg, theme.Background, l.style, width)
	}

	if height > 0 {
		drawClipped(screen, gutterWidth, height-1, "Esc to return", theme.Muted, theme.Background, goterm.StyleDim, width)
	}
	return nil
}

type helpLine struct {
	text  string
	fg    goterm.Color
	style goterm.Style
}

func padRight(s string, n int) string {
	for len([]rune(s)) < n {
		s += " "
	}
	return s
}
