package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dshills/blockpad/internal/testutil/mocks"
	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/keymap"
	"github.com/dshills/goterm"
	"github.com/rs/zerolog"
)

type testApp struct {
	*App
	t     *testing.T
	store *mocks.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := mocks.NewStore()
	app, err := newApp(goterm.NewScreen(80, 24), Config{
		Store:    store,
		Debounce: time.Hour,
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	t.Cleanup(app.ctrl.Close)

	ta := &testApp{App: app, t: t, store: store}
	ta.frame()
	return ta
}

// frame paints without touching the terminal and runs post-paint work
func (a *testApp) frame() {
	a.screen.Clear()
	if v := a.viewManager.GetCurrentView(); v != nil {
		if err := v.Render(a.screen); err != nil {
			a.t.Fatalf("render failed: %v", err)
		}
	}
	a.frames.Flush()
}

func (a *testApp) press(events ...keymap.KeyEvent) {
	for _, ev := range events {
		if err := a.handleKeyEvent(ev); err != nil {
			a.t.Fatalf("handleKeyEvent(%v) failed: %v", ev, err)
		}
		a.frame()
	}
}

func (a *testApp) typeText(s string) {
	for _, ev := range parseKeyInput([]byte(s)) {
		a.press(ev)
	}
}

func (a *testApp) focusedBlock() document.Block {
	id, _, ok := a.editorView.Focused()
	if !ok {
		a.t.Fatal("title has focus")
	}
	b, found := a.ctrl.Document().Block(id)
	if !found {
		a.t.Fatalf("focused block %s not in document", id)
	}
	return b
}

func key(k string) keymap.KeyEvent { return keymap.KeyEvent{Key: k} }

func ctrlKey(k string) keymap.KeyEvent { return keymap.KeyEvent{Key: k, Ctrl: true} }

// screenContainsText reports whether any screen row contains text
func screenContainsText(screen *goterm.Screen, text string) bool {
	w, h := screen.Size()
	for y := 0; y < h; y++ {
		var row strings.Builder
		for x := 0; x < w; x++ {
			row.WriteRune(screen.GetCell(x, y).Ch)
		}
		if strings.Contains(row.String(), text) {
			return true
		}
	}
	return false
}

func TestApp_InitialFrame(t *testing.T) {
	a := newTestApp(t)

	doc := a.ctrl.Document()
	first := doc.Blocks[0]

	got := a.focusedBlock()
	if got.ID != first.ID {
		t.Fatalf("focused %s, want first block %s", got.ID, first.ID)
	}
	if _, caret, _ := a.editorView.Focused(); caret != len([]rune(first.Text)) {
		t.Errorf("caret = %d, want end of block", caret)
	}

	for _, want := range []string{document.DefaultTitle, "Keyboard", "return 'world'", "blockpad"} {
		if !screenContainsText(a.screen, want) {
			t.Errorf("screen missing %q", want)
		}
	}
}

func TestApp_EnterAndTyping(t *testing.T) {
	a := newTestApp(t)
	first := a.focusedBlock()

	a.press(key(keymap.KeyEnter))
	if n := len(a.ctrl.Document().Blocks); n != 5 {
		t.Fatalf("got %d blocks, want 5", n)
	}

	inserted := a.focusedBlock()
	if inserted.ID == first.ID || inserted.Type != document.TypeParagraph {
		t.Fatalf("focus did not move to the new paragraph: %+v", inserted)
	}

	a.typeText("abc")
	if got := a.focusedBlock().Text; got != "abc" {
		t.Errorf("text = %q, want abc", got)
	}

	a.press(key(keymap.KeyBackspace))
	if got := a.focusedBlock().Text; got != "ab" {
		t.Errorf("text after backspace = %q, want ab", got)
	}
}

func TestApp_SlashCommandConvertsBlock(t *testing.T) {
	a := newTestApp(t)

	a.press(key(keymap.KeyEnter))
	id := a.focusedBlock().ID

	a.typeText("/head")
	menu := a.ctrl.Slash()
	if !menu.IsOpenFor(id) || menu.Query() != "head" {
		t.Fatalf("menu = open:%v query:%q", menu.IsOpen(), menu.Query())
	}
	for _, want := range []string{"/head", "Heading 1", "Heading 2"} {
		if !screenContainsText(a.screen, want) {
			t.Errorf("screen missing %q", want)
		}
	}

	a.press(key(keymap.KeyArrowDown), key(keymap.KeyEnter))

	b, _ := a.ctrl.Document().Block(id)
	if b.Type != document.TypeHeading2 || b.Text != "" {
		t.Errorf("block = %+v, want empty h2", b)
	}
	if a.ctrl.Slash().IsOpen() {
		t.Error("menu should close after applying a command")
	}
	if n := len(a.ctrl.Document().Blocks); n != 5 {
		t.Errorf("menu Enter must not insert a block, got %d blocks", n)
	}
}

func TestApp_EscapeClosesMenu(t *testing.T) {
	a := newTestApp(t)
	a.press(key(keymap.KeyEnter))
	a.typeText("/x")

	a.press(key(keymap.KeyEscape))
	if a.ctrl.Slash().IsOpen() {
		t.Error("Escape should close the menu")
	}
	if got := a.focusedBlock().Text; got != "/x" {
		t.Errorf("text = %q, want /x", got)
	}
}

func TestApp_BackspaceRemovesEmptyBlock(t *testing.T) {
	a := newTestApp(t)
	first := a.focusedBlock()

	a.press(key(keymap.KeyEnter), key(keymap.KeyBackspace))

	if n := len(a.ctrl.Document().Blocks); n != 4 {
		t.Fatalf("got %d blocks, want 4", n)
	}
	if got := a.focusedBlock(); got.ID != first.ID {
		t.Errorf("focus = %s, want previous block %s", got.ID, first.ID)
	}
	if _, caret, _ := a.editorView.Focused(); caret != len([]rune(first.Text)) {
		t.Errorf("caret = %d, want end of previous block", caret)
	}
}

func TestApp_ArrowNavigation(t *testing.T) {
	a := newTestApp(t)
	first := a.focusedBlock()

	a.press(key(keymap.KeyEnter))
	a.press(key(keymap.KeyArrowLeft))
	if got := a.focusedBlock(); got.ID != first.ID {
		t.Errorf("Left at block start should move to the previous block")
	}

	a.press(key(keymap.KeyArrowUp))
	if _, _, ok := a.editorView.Focused(); ok {
		t.Fatal("Up on the first line of the first block should focus the title")
	}

	a.typeText("!")
	if got := a.ctrl.Document().Title; got != document.DefaultTitle+"!" {
		t.Errorf("title = %q", got)
	}

	a.press(key(keymap.KeyArrowDown))
	if got := a.focusedBlock(); got.ID != first.ID {
		t.Error("Down from the title should focus the first block")
	}
}

func TestApp_FormatWrapsWord(t *testing.T) {
	a := newTestApp(t)
	a.press(key(keymap.KeyEnter))
	a.typeText("hello world")

	a.press(ctrlKey("b"))
	if got := a.focusedBlock().Text; got != "hello **world**" {
		t.Errorf("text = %q", got)
	}

	// Outside a word an empty marker pair is inserted around the caret
	a.press(ctrlKey("t"))
	if got := a.focusedBlock().Text; got != "hello **world**__" {
		t.Errorf("text = %q", got)
	}
	if _, caret, _ := a.editorView.Focused(); caret != len("hello **world**_") {
		t.Errorf("caret = %d, want between the markers", caret)
	}
}

func TestApp_SelectionShowsToolbar(t *testing.T) {
	a := newTestApp(t)
	a.press(key(keymap.KeyEnter))
	a.typeText("hello world")

	shiftLeft := keymap.KeyEvent{Key: keymap.KeyArrowLeft, Shift: true}
	for i := 0; i < 5; i++ {
		a.press(shiftLeft)
	}

	if !a.ctrl.Toolbar().Open {
		t.Fatal("toolbar should open for a selection")
	}
	if !screenContainsText(a.screen, "B  I  <>") {
		t.Error("toolbar not drawn")
	}

	a.press(ctrlKey("e"))
	if got := a.focusedBlock().Text; got != "hello `world`" {
		t.Errorf("text = %q", got)
	}
	if a.ctrl.Toolbar().Open {
		t.Error("toolbar should close once the selection collapses")
	}
}

func TestApp_TypingReplacesSelection(t *testing.T) {
	a := newTestApp(t)
	a.press(key(keymap.KeyEnter))
	a.typeText("hello")

	a.press(keymap.KeyEvent{Key: keymap.KeyArrowLeft, Shift: true}, keymap.KeyEvent{Key: keymap.KeyArrowLeft, Shift: true})
	a.typeText("p!")

	if got := a.focusedBlock().Text; got != "help!" {
		t.Errorf("text = %q, want help!", got)
	}
}

func TestApp_HomeEndAndDelete(t *testing.T) {
	a := newTestApp(t)
	a.press(key(keymap.KeyEnter))
	a.typeText("hello")

	a.press(key(keymap.KeyHome), key(keymap.KeyDelete))
	if got := a.focusedBlock().Text; got != "ello" {
		t.Fatalf("text after Home+Delete = %q, want ello", got)
	}

	a.press(key(keymap.KeyEnd), key(keymap.KeyDelete))
	a.typeText("!")
	if got := a.focusedBlock().Text; got != "ello!" {
		t.Errorf("text = %q, want ello!", got)
	}

	a.press(key(keymap.KeyHome), keymap.KeyEvent{Key: keymap.KeyEnd, Shift: true}, key(keymap.KeyDelete))
	if got := a.focusedBlock().Text; got != "" {
		t.Errorf("Delete over a selection left %q", got)
	}
}

func TestApp_SaveShortcut(t *testing.T) {
	a := newTestApp(t)
	a.press(key(keymap.KeyEnter))
	a.typeText("persist me")

	if _, ok := a.store.Raw(); ok {
		t.Fatal("nothing should be saved before the debounce")
	}

	a.press(ctrlKey("s"))

	saved, ok := a.store.Load(context.Background())
	if !ok {
		t.Fatal("Ctrl-S should save")
	}
	if saved.Blocks[1].Text != "persist me" {
		t.Errorf("saved text = %q", saved.Blocks[1].Text)
	}
	if !screenContainsText(a.screen, "saved") {
		t.Error("status line should confirm the save")
	}
}

func TestApp_SaveFailureShowsStatus(t *testing.T) {
	a := newTestApp(t)
	a.store.FailSaves(errors.New("disk full"))
	a.typeText("x")

	a.press(ctrlKey("s"))

	if a.store.Saves() != 1 {
		t.Errorf("save attempts = %d, want 1", a.store.Saves())
	}
	if !screenContainsText(a.screen, "save failed") {
		t.Error("status line should report the failed save")
	}
	if !strings.HasSuffix(a.ctrl.Document().Blocks[0].Text, "x") {
		t.Error("edits must survive a failed save")
	}
}

func TestApp_ResetShortcut(t *testing.T) {
	a := newTestApp(t)
	a.press(key(keymap.KeyEnter))
	a.typeText("gone soon")

	a.press(ctrlKey("r"))

	doc := a.ctrl.Document()
	if len(doc.Blocks) != 4 || doc.Title != document.DefaultTitle {
		t.Errorf("document not reset: %+v", doc)
	}
	if got := a.focusedBlock(); got.ID != doc.Blocks[0].ID {
		t.Error("reset should focus the first block")
	}
	if !screenContainsText(a.screen, "document reset") {
		t.Error("status line should report the reset")
	}
}

func TestApp_HelpView(t *testing.T) {
	a := newTestApp(t)

	a.press(ctrlKey("g"))
	if v := a.viewManager.GetCurrentView(); v.Name() != "help" {
		t.Fatalf("current view = %s, want help", v.Name())
	}
	for _, want := range []string{"Slash menu", "^S", "Save now"} {
		if !screenContainsText(a.screen, want) {
			t.Errorf("help missing %q", want)
		}
	}

	before := a.ctrl.Document()
	a.press(key("x"))
	if len(a.ctrl.Document().Blocks[0].Text) != len(before.Blocks[0].Text) {
		t.Error("keys in the help view must not edit the document")
	}

	a.press(key(keymap.KeyEscape))
	if v := a.viewManager.GetCurrentView(); v.Name() != "editor" {
		t.Errorf("current view = %s, want editor", v.Name())
	}
}

func TestApp_QuitCancelsContext(t *testing.T) {
	a := newTestApp(t)

	a.press(ctrlKey("q"))
	select {
	case <-a.ctx.Done():
	default:
		t.Error("Ctrl-Q should cancel the app context")
	}
}

func TestApp_MenuAnchoredBelowBlock(t *testing.T) {
	a := newTestApp(t)
	a.press(key(keymap.KeyEnter))
	id := a.focusedBlock().ID

	a.typeText("/")
	rect, ok := a.editorView.BlockRect(id)
	if !ok {
		t.Fatal("block not laid out")
	}
	anchor := a.ctrl.Slash().Anchor()
	if anchor.X != rect.X || anchor.Y != rect.Y+1 {
		t.Errorf("anchor = %+v, block rect = %+v", anchor, rect)
	}
}

func TestReadKeyboardInput_StopsOnEOF(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer r.Close()

	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()
	os.Stdin = r

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app := &App{ctx: ctx, cancel: cancel, inputChan: make(chan keymap.KeyEvent, 10)}

	done := make(chan struct{})
	go func() {
		app.readKeyboardInput()
		close(done)
	}()

	if _, err := w.Write([]byte("a\x1b[A")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	for _, want := range []string{"a", keymap.KeyArrowUp} {
		select {
		case ev := <-app.inputChan:
			if ev.Key != want {
				t.Errorf("event = %q, want %q", ev.Key, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	w.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader did not exit on EOF")
	}
}
