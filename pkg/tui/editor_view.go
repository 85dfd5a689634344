package tui

import (
	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/domain/types"
	"github.com/dshills/blockpad/pkg/editor"
	"github.com/dshills/blockpad/pkg/keymap"
)

// Layout constants in terminal cells.
const (
	gutterWidth = 2
	textColumn  = 6 // gutter plus block prefix
	menuWidth   = 40
)

// Inline formatting markers inserted by Format.
var formatMarkers = map[editor.FormatCommand]string{
	editor.FormatBold:   "**",
	editor.FormatItalic: "_",
	editor.FormatCode:   "`",
}

// EditorView renders the document and is the controller's editor.Host.
// It tracks the focused block, the caret and a selection inside that
// block. All methods run on the UI goroutine.
type EditorView struct {
	ctrl *editor.Controller

	width  int
	height int

	titleFocused bool
	focused      types.BlockID
	caret        int
	selAnchor    int
	scroll       int

	layout map[types.BlockID]editor.Rect
	status string
}

// NewEditorView creates an editor view. Attach must be called before the
// view handles keys or renders.
func NewEditorView() *EditorView {
	return &EditorView{layout: make(map[types.BlockID]editor.Rect)}
}

// Attach connects the view to its controller.
func (v *EditorView) Attach(ctrl *editor.Controller) {
	v.ctrl = ctrl
}

// Name returns the view identifier
func (v *EditorView) Name() string { return "editor" }

// Init initializes the view
func (v *EditorView) Init() error { return nil }

// Cleanup hides the toolbar while another view is shown
func (v *EditorView) Cleanup() error {
	v.collapse()
	return nil
}

// SetStatus shows a transient message in the status line.
func (v *EditorView) SetStatus(msg string) { v.status = msg }

// Focused returns the focused block and caret offset. ok is false while
// the title has focus.
func (v *EditorView) Focused() (id types.BlockID, caret int, ok bool) {
	if v.titleFocused {
		return "", v.caret, false
	}
	return v.focused, v.caret, true
}

// Focus implements editor.Host.
func (v *EditorView) Focus(id types.BlockID, caret keymap.Caret) bool {
	b, ok := v.ctrl.Document().Block(id)
	if !ok {
		return false
	}

	offset := 0
	if caret == keymap.CaretEnd {
		offset = len([]rune(b.Text))
	}
	v.moveFocus(id, offset)
	return true
}

// BlockRect implements editor.Host.
func (v *EditorView) BlockRect(id types.BlockID) (editor.Rect, bool) {
	r, ok := v.layout[id]
	return r, ok
}

// SelectionRect implements editor.Host.
func (v *EditorView) SelectionRect() (editor.Rect, bool) {
	if v.titleFocused || v.caret == v.selAnchor {
		return editor.Rect{}, false
	}
	block, ok := v.layout[v.focused]
	if !ok {
		return editor.Rect{}, false
	}
	b, ok := v.ctrl.Document().Block(v.focused)
	if !ok {
		return editor.Rect{}, false
	}

	text := []rune(b.Text)
	start, end := v.selection()
	startLine, startCol := lineCol(text, start)
	endLine, endCol := lineCol(text, end)

	if startLine == endLine {
		return editor.Rect{X: block.X + startCol, Y: block.Y + startLine, Width: endCol - startCol, Height: 1}, true
	}
	return editor.Rect{X: block.X, Y: block.Y + startLine, Width: block.Width, Height: endLine - startLine + 1}, true
}

// Format implements editor.Host by wrapping the selection, or the word at
// the caret, in markdown-style markers.
func (v *EditorView) Format(cmd editor.FormatCommand) {
	marker, ok := formatMarkers[cmd]
	if !ok || v.titleFocused {
		return
	}
	b, ok := v.ctrl.Document().Block(v.focused)
	if !ok {
		return
	}

	text := []rune(b.Text)
	start, end := v.selection()
	if start == end {
		start, end = wordRange(text, v.caret)
	}

	m := []rune(marker)
	wrapped := make([]rune, 0, end-start+2*len(m))
	wrapped = append(wrapped, m...)
	wrapped = append(wrapped, text[start:end]...)
	wrapped = append(wrapped, m...)

	next := splice(text, start, end, wrapped)
	if start == end {
		v.caret = start + len(m)
	} else {
		v.caret = start + len(wrapped)
	}
	v.selAnchor = v.caret

	v.ctrl.HandleInput(v.focused, string(next))
	v.ctrl.SelectionChanged()
}

// Viewport implements editor.Host. The last row holds the status line.
func (v *EditorView) Viewport() (int, int) {
	return v.width, max(v.height-1, 0)
}

// HandleKey routes a key to the controller first and performs the
// terminal's default editing when the controller leaves the key alone.
func (v *EditorView) HandleKey(ev keymap.KeyEvent) error {
	if v.ctrl == nil {
		return nil
	}

	doc := v.ctrl.Document()
	if v.titleFocused {
		v.handleTitleKey(doc, ev)
		return nil
	}

	b, ok := doc.Block(v.focused)
	if !ok {
		v.moveFocus(doc.Blocks[0].ID, 0)
		b = doc.Blocks[0]
	}

	if v.ctrl.HandleKey(b.ID, ev) {
		v.collapse()
		return nil
	}

	v.defaultKey(doc, b, ev)
	return nil
}

func (v *EditorView) defaultKey(doc document.Document, b document.Block, ev keymap.KeyEvent) {
	text := []rune(b.Text)

	switch {
	case ev.IsPrintable():
		v.replaceSelection(b.ID, text, []rune(ev.Key))
	case ev.Key == keymap.KeyEnter && !ev.HasModifier():
		v.replaceSelection(b.ID, text, []rune{'\n'})
	case ev.Key == keymap.KeyTab && document.IsCodeType(b.Type):
		v.replaceSelection(b.ID, text, []rune("  "))
	case ev.Key == keymap.KeyBackspace:
		start, end := v.selection()
		if start == end {
			if start == 0 {
				return
			}
			start--
		}
		v.replaceSelection(b.ID, text, nil, start, end)
	case ev.Key == keymap.KeyDelete:
		start, end := v.selection()
		if start == end {
			if end >= len(text) {
				return
			}
			end++
		}
		v.replaceSelection(b.ID, text, nil, start, end)
	case ev.Key == keymap.KeyHome, ev.Key == keymap.KeyEnd:
		line, _ := lineCol(text, v.caret)
		col := 0
		if ev.Key == keymap.KeyEnd {
			col = len(text) // offsetAt clamps to the line end
		}
		offset, _ := offsetAt(text, line, col)
		v.caret = offset
		if !ev.Shift {
			v.selAnchor = offset
		}
		v.ctrl.SelectionChanged()
	case ev.Key == keymap.KeyArrowLeft:
		v.moveHorizontal(doc, text, -1, ev.Shift)
	case ev.Key == keymap.KeyArrowRight:
		v.moveHorizontal(doc, text, 1, ev.Shift)
	case ev.Key == keymap.KeyArrowUp:
		v.moveVertical(doc, text, -1, ev.Shift)
	case ev.Key == keymap.KeyArrowDown:
		v.moveVertical(doc, text, 1, ev.Shift)
	case ev.Key == keymap.KeyEscape:
		v.collapse()
	}
}

// replaceSelection replaces the selection, or the explicit range when
// given, with insert and reports the new text to the controller.
func (v *EditorView) replaceSelection(id types.BlockID, text, insert []rune, bounds ...int) {
	start, end := v.selection()
	if len(bounds) == 2 {
		start, end = bounds[0], bounds[1]
	}
	start = clampOffset(text, start)
	end = clampOffset(text, end)

	next := splice(text, start, end, insert)
	v.caret = start + len(insert)
	v.selAnchor = v.caret

	v.ctrl.HandleInput(id, string(next))
	v.ctrl.SelectionChanged()
}

func (v *EditorView) moveHorizontal(doc document.Document, text []rune, delta int, extend bool) {
	next := v.caret + delta
	if next >= 0 && next <= len(text) {
		v.caret = next
		if !extend {
			v.selAnchor = next
		}
		v.ctrl.SelectionChanged()
		return
	}
	if extend {
		return
	}

	if delta < 0 {
		if prev, ok := doc.Prev(v.focused); ok {
			v.moveFocus(prev.ID, len([]rune(prev.Text)))
		} else {
			v.focusTitle(doc)
		}
		return
	}
	if nb, ok := doc.Next(v.focused); ok {
		v.moveFocus(nb.ID, 0)
	}
}

func (v *EditorView) moveVertical(doc document.Document, text []rune, delta int, extend bool) {
	line, col := lineCol(text, v.caret)
	if offset, ok := offsetAt(text, line+delta, col); ok {
		v.caret = offset
		if !extend {
			v.selAnchor = offset
		}
		v.ctrl.SelectionChanged()
		return
	}
	if extend {
		return
	}

	if delta < 0 {
		if prev, ok := doc.Prev(v.focused); ok {
			prevText := []rune(prev.Text)
			offset, _ := offsetAt(prevText, lineCount(prev.Text)-1, col)
			v.moveFocus(prev.ID, offset)
		} else {
			v.focusTitle(doc)
		}
		return
	}
	if nb, ok := doc.Next(v.focused); ok {
		offset, _ := offsetAt([]rune(nb.Text), 0, col)
		v.moveFocus(nb.ID, offset)
	}
}

func (v *EditorView) handleTitleKey(doc document.Document, ev keymap.KeyEvent) {
	title := []rune(doc.Title)
	v.caret = clampOffset(title, v.caret)

	switch {
	case ev.IsPrintable():
		title = splice(title, v.caret, v.caret, []rune(ev.Key))
		v.caret++
		v.ctrl.SetTitle(string(title))
	case ev.Key == keymap.KeyBackspace && v.caret > 0:
		title = splice(title, v.caret-1, v.caret, nil)
		v.caret--
		v.ctrl.SetTitle(string(title))
	case ev.Key == keymap.KeyArrowLeft && v.caret > 0:
		v.caret--
	case ev.Key == keymap.KeyArrowRight && v.caret < len(title):
		v.caret++
	case ev.Key == keymap.KeyEnter, ev.Key == keymap.KeyArrowDown:
		v.moveFocus(doc.Blocks[0].ID, 0)
	}
	v.selAnchor = v.caret
}

// moveFocus focuses a block directly. A slash menu left open on the
// previous block is closed.
func (v *EditorView) moveFocus(id types.BlockID, offset int) {
	if !v.titleFocused && v.focused != id && v.ctrl.Slash().IsOpenFor(v.focused) {
		v.ctrl.CloseSlashMenu()
	}
	v.titleFocused = false
	v.focused = id
	v.caret = offset
	v.selAnchor = offset
	v.ctrl.SelectionChanged()
}

func (v *EditorView) focusTitle(doc document.Document) {
	if v.ctrl.Slash().IsOpenFor(v.focused) {
		v.ctrl.CloseSlashMenu()
	}
	v.titleFocused = true
	v.caret = len([]rune(doc.Title))
	v.selAnchor = v.caret
	v.ctrl.SelectionChanged()
}

// selection returns the ordered selection bounds.
func (v *EditorView) selection() (start, end int) {
	return min(v.caret, v.selAnchor), max(v.caret, v.selAnchor)
}

func (v *EditorView) collapse() {
	if v.caret == v.selAnchor {
		return
	}
	v.selAnchor = v.caret
	if v.ctrl != nil {
		v.ctrl.SelectionChanged()
	}
}
