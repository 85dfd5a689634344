package tui

import (
	"fmt"
	"strings"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/domain/types"
	"github.com/dshills/blockpad/pkg/editor"
	"github.com/dshills/blockpad/pkg/slash"
	"github.com/dshills/goterm"
)

// Theme holds the editor colors.
type Theme struct {
	Text        goterm.Color
	Muted       goterm.Color
	Accent      goterm.Color
	Code        goterm.Color
	CodeBg      goterm.Color
	Background  goterm.Color
	SelectionBg goterm.Color
	StatusFg    goterm.Color
	StatusBg    goterm.Color
	MenuBg      goterm.Color
	MenuActive  goterm.Color
	MenuBorder  goterm.Color
}

// DefaultTheme returns the default editor colors
func DefaultTheme() Theme {
	return Theme{
		Text:        goterm.ColorRGB(220, 220, 220),
		Muted:       goterm.ColorRGB(120, 120, 120),
		Accent:      goterm.ColorRGB(100, 200, 255),
		Code:        goterm.ColorRGB(170, 220, 150),
		CodeBg:      goterm.ColorRGB(30, 30, 30),
		Background:  goterm.ColorDefault(),
		SelectionBg: goterm.ColorRGB(60, 80, 120),
		StatusFg:    goterm.ColorRGB(255, 255, 255),
		StatusBg:    goterm.ColorRGB(40, 40, 80),
		MenuBg:      goterm.ColorRGB(30, 30, 30),
		MenuActive:  goterm.ColorRGB(58, 58, 58),
		MenuBorder:  goterm.ColorRGB(136, 136, 136),
	}
}

var theme = DefaultTheme()

// row is one rendered line of the document.
type row struct {
	block  types.BlockID // empty for the title and spacer rows
	title  bool
	line   int
	prefix string
	text   string
	btype  document.BlockType
	hint   bool // text is a placeholder
}

// Render draws the document, the slash menu, the toolbar and the status
// line, and records where each block landed for BlockRect.
func (v *EditorView) Render(screen *goterm.Screen) error {
	if v.ctrl == nil {
		return nil
	}

	v.width, v.height = screen.Size()
	bodyHeight := max(v.height-1, 0)

	doc := v.ctrl.Document()
	v.clampFocus(doc)

	rows, starts := v.buildRows(doc)
	v.scrollToCaret(doc, starts, bodyHeight)

	clear(v.layout)
	for _, b := range doc.Blocks {
		y := starts[b.ID] - v.scroll
		h := lineCount(b.Text)
		if y+h <= 0 || y >= bodyHeight {
			continue
		}
		v.layout[b.ID] = editor.Rect{X: textColumn, Y: y, Width: max(v.width-textColumn, 0), Height: h}
	}

	for i := 0; i < bodyHeight; i++ {
		idx := v.scroll + i
		if idx >= len(rows) {
			break
		}
		v.drawRow(screen, i, rows[idx], doc)
	}

	if menu := v.ctrl.Slash(); menu.IsOpen() {
		drawSlashMenu(screen, menu, bodyHeight)
	}
	if tb := v.ctrl.Toolbar(); tb.Open {
		drawToolbar(screen, tb)
	}
	v.drawStatus(screen, doc)

	return nil
}

func (v *EditorView) buildRows(doc document.Document) ([]row, map[types.BlockID]int) {
	title := doc.Title
	titleHint := false
	if title == "" {
		title = document.DefaultTitle
		titleHint = true
	}

	rows := []row{{title: true, text: title, hint: titleHint}, {}}
	starts := make(map[types.BlockID]int, len(doc.Blocks))

	for _, b := range doc.Blocks {
		starts[b.ID] = len(rows)
		lines := strings.Split(b.Text, "\n")
		for i, line := range lines {
			r := row{block: b.ID, line: i, prefix: blockPrefix(b.Type, i), text: line, btype: b.Type}
			if b.Text == "" && b.ID == v.focused && !v.titleFocused {
				r.text = b.Type.Placeholder()
				r.hint = true
			}
			rows = append(rows, r)
		}
		rows = append(rows, row{})
	}

	return rows, starts
}

func blockPrefix(t document.BlockType, line int) string {
	switch t {
	case document.TypeHeading1:
		if line == 0 {
			return "#"
		}
	case document.TypeHeading2:
		if line == 0 {
			return "##"
		}
	case document.TypeBulletedList:
		return "•"
	case document.TypeNumberedList:
		return fmt.Sprintf("%d.", line+1)
	case document.TypeCode:
		return "│"
	}
	return ""
}

// clampFocus keeps the focus on an existing block and the caret inside its
// text.
func (v *EditorView) clampFocus(doc document.Document) {
	if v.titleFocused {
		title := []rune(doc.Title)
		v.caret = clampOffset(title, v.caret)
		v.selAnchor = clampOffset(title, v.selAnchor)
		return
	}

	b, ok := doc.Block(v.focused)
	if !ok {
		b = doc.Blocks[0]
		v.focused = b.ID
		v.caret, v.selAnchor = 0, 0
	}
	text := []rune(b.Text)
	v.caret = clampOffset(text, v.caret)
	v.selAnchor = clampOffset(text, v.selAnchor)
}

func (v *EditorView) scrollToCaret(doc document.Document, starts map[types.BlockID]int, bodyHeight int) {
	caretRow := 0
	if !v.titleFocused {
		b, _ := doc.Block(v.focused)
		line, _ := lineCol([]rune(b.Text), v.caret)
		caretRow = starts[v.focused] + line
	}

	if caretRow < v.scroll {
		v.scroll = caretRow
	}
	if bodyHeight > 0 && caretRow >= v.scroll+bodyHeight {
		v.scroll = caretRow - bodyHeight + 1
	}
}

func (v *EditorView) drawRow(screen *goterm.Screen, y int, r row, doc document.Document) {
	if r.title {
		style := goterm.StyleBold
		fg := theme.Text
		if r.hint {
			fg, style = theme.Muted, goterm.StyleDim
		}
		drawClipped(screen, gutterWidth, y, r.text, fg, theme.Background, style, v.width)
		if v.titleFocused {
			v.drawCaret(screen, gutterWidth, y, []rune(doc.Title), v.caret)
		}
		return
	}
	if r.block == "" {
		return
	}

	focused := !v.titleFocused && r.block == v.focused
	if focused {
		screen.SetCell(0, y, goterm.NewCell('▌', theme.Accent, theme.Background, goterm.StyleNone))
	}

	fg, bg, style := theme.Text, theme.Background, goterm.StyleNone
	switch r.btype {
	case document.TypeHeading1:
		fg, style = theme.Accent, goterm.StyleBold
	case document.TypeHeading2:
		style = goterm.StyleBold
	case document.TypeCode:
		fg, bg = theme.Code, theme.CodeBg
	}
	if r.hint {
		fg, style = theme.Muted, goterm.StyleDim
	}

	screen.DrawText(gutterWidth, y, r.prefix, theme.Muted, theme.Background, goterm.StyleNone)
	if r.btype == document.TypeCode {
		for x := textColumn; x < v.width; x++ {
			screen.SetCell(x, y, goterm.NewCell(' ', fg, bg, goterm.StyleNone))
		}
	}
	drawClipped(screen, textColumn, y, r.text, fg, bg, style, v.width)

	if !focused {
		return
	}

	b, _ := doc.Block(r.block)
	text := []rune(b.Text)
	v.drawSelection(screen, y, r, text)
	if line, _ := lineCol(text, v.caret); line == r.line {
		v.drawCaret(screen, textColumn, y, text, v.caret)
	}
}

// drawSelection highlights the selected part of one block line.
func (v *EditorView) drawSelection(screen *goterm.Screen, y int, r row, text []rune) {
	start, end := v.selection()
	if start == end {
		return
	}

	lineStart, ok := offsetAt(text, r.line, 0)
	if !ok {
		return
	}
	for off := max(start, lineStart); off < end && off < len(text) && text[off] != '\n'; off++ {
		x := textColumn + off - lineStart
		if x >= v.width {
			break
		}
		screen.SetCell(x, y, goterm.NewCell(text[off], theme.Text, theme.SelectionBg, goterm.StyleNone))
	}
}

func (v *EditorView) drawCaret(screen *goterm.Screen, x0, y int, text []rune, caret int) {
	_, col := lineCol(text, caret)
	x := x0 + col
	if x >= v.width {
		return
	}
	ch := ' '
	if caret < len(text) && text[caret] != '\n' {
		ch = text[caret]
	}
	screen.SetCell(x, y, goterm.NewCell(ch, theme.Text, theme.Background, goterm.StyleReverse))
}

func (v *EditorView) drawStatus(screen *goterm.Screen, doc document.Document) {
	if v.height == 0 {
		return
	}
	y := v.height - 1
	for x := 0; x < v.width; x++ {
		screen.SetCell(x, y, goterm.NewCell(' ', theme.StatusFg, theme.StatusBg, goterm.StyleNone))
	}

	state := "saved"
	if v.ctrl.Dirty() {
		state = "editing"
	}
	where := "Title"
	if !v.titleFocused {
		if b, ok := doc.Block(v.focused); ok {
			where = b.Type.Label()
		}
	}

	left := fmt.Sprintf(" blockpad | %s | %s", where, state)
	if v.status != "" {
		left += " | " + v.status
	}
	right := "^S save  ^R reset  ^G help  ^Q quit "

	drawClipped(screen, 0, y, left, theme.StatusFg, theme.StatusBg, goterm.StyleNone, v.width)
	if x := v.width - len([]rune(right)); x > len([]rune(left))+1 {
		screen.DrawText(x, y, right, theme.StatusFg, theme.StatusBg, goterm.StyleDim)
	}
}

// drawSlashMenu draws the command menu below its anchor, or above it when
// there is no room.
func drawSlashMenu(screen *goterm.Screen, menu slash.Menu, bodyHeight int) {
	width, _ := screen.Size()
	filtered := menu.Filtered()

	rows := max(len(filtered), 1)
	height := rows + 2
	w := min(menuWidth, width)

	anchor := menu.Anchor()
	x := min(max(anchor.X, 0), max(width-w, 0))
	y := anchor.Y
	if y+height > bodyHeight {
		y = anchor.Y - height - 1
	}
	y = max(y, 0)

	// Border
	for i := 0; i < w; i++ {
		top, bottom := '─', '─'
		switch i {
		case 0:
			top, bottom = '┌', '└'
		case w - 1:
			top, bottom = '┐', '┘'
		}
		screen.SetCell(x+i, y, goterm.NewCell(top, theme.MenuBorder, theme.MenuBg, goterm.StyleNone))
		screen.SetCell(x+i, y+height-1, goterm.NewCell(bottom, theme.MenuBorder, theme.MenuBg, goterm.StyleNone))
	}

	title := "/" + menu.Query()
	drawClipped(screen, x+2, y, title, theme.Text, theme.MenuBg, goterm.StyleBold, x+w-1)

	for i := 0; i < rows; i++ {
		cy := y + 1 + i
		bg := theme.MenuBg
		if i == menu.ActiveIndex() && len(filtered) > 0 {
			bg = theme.MenuActive
		}

		screen.SetCell(x, cy, goterm.NewCell('│', theme.MenuBorder, theme.MenuBg, goterm.StyleNone))
		for j := 1; j < w-1; j++ {
			screen.SetCell(x+j, cy, goterm.NewCell(' ', theme.Text, bg, goterm.StyleNone))
		}
		screen.SetCell(x+w-1, cy, goterm.NewCell('│', theme.MenuBorder, theme.MenuBg, goterm.StyleNone))

		if len(filtered) == 0 {
			drawClipped(screen, x+2, cy, "No matches", theme.Muted, bg, goterm.StyleDim, x+w-1)
			continue
		}

		cmd := filtered[i]
		drawClipped(screen, x+2, cy, cmd.Label, theme.Text, bg, goterm.StyleBold, x+w-1)
		hintX := x + 2 + len([]rune(cmd.Label)) + 2
		drawClipped(screen, hintX, cy, cmd.Hint, theme.Muted, bg, goterm.StyleNone, x+w-1)
	}
}

const toolbarLabel = " B  I  <> "

func drawToolbar(screen *goterm.Screen, tb editor.Toolbar) {
	width, _ := screen.Size()
	drawClipped(screen, tb.X, tb.Y, toolbarLabel, theme.StatusFg, theme.StatusBg, goterm.StyleBold, width)
}

// drawClipped draws text starting at x and stops before column limit.
func drawClipped(screen *goterm.Screen, x, y int, text string, fg, bg goterm.Color, style goterm.Style, limit int) {
	for _, ch := range text {
		if x >= limit {
			return
		}
		screen.SetCell(x, y, goterm.NewCell(ch, fg, bg, style))
		x++
	}
}
