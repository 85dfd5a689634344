package tui

import (
	"errors"
	"testing"

	"github.com/dshills/blockpad/pkg/keymap"
)

func TestKeyboardHandler_RegisterAndHandle(t *testing.T) {
	kh := NewKeyboardHandler()

	calls := 0
	err := kh.RegisterBinding(keymap.KeyEvent{Key: "s", Ctrl: true}, func(keymap.KeyEvent) error {
		calls++
		return nil
	}, "Save")
	if err != nil {
		t.Fatalf("RegisterBinding failed: %v", err)
	}

	handled, err := kh.HandleKey(keymap.KeyEvent{Key: "s", Ctrl: true})
	if err != nil || !handled {
		t.Fatalf("HandleKey(Ctrl-s) = %v, %v; want handled", handled, err)
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}

	handled, _ = kh.HandleKey(keymap.KeyEvent{Key: "s"})
	if handled {
		t.Error("plain s must fall through to the editor")
	}
}

func TestKeyboardHandler_Conflict(t *testing.T) {
	kh := NewKeyboardHandler()
	noop := func(keymap.KeyEvent) error { return nil }

	if err := kh.RegisterBinding(keymap.KeyEvent{Key: "q", Ctrl: true}, noop, "Quit"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := kh.RegisterBinding(keymap.KeyEvent{Key: "q", Ctrl: true}, noop, "Again"); err == nil {
		t.Error("expected conflict error")
	}

	kh.UnregisterBinding(keymap.KeyEvent{Key: "q", Ctrl: true})
	if err := kh.RegisterBinding(keymap.KeyEvent{Key: "q", Ctrl: true}, noop, "Quit"); err != nil {
		t.Errorf("registration after unregister failed: %v", err)
	}
}

func TestKeyboardHandler_HandlerError(t *testing.T) {
	kh := NewKeyboardHandler()
	boom := errors.New("boom")

	_ = kh.RegisterBinding(keymap.KeyEvent{Key: "x", Ctrl: true}, func(keymap.KeyEvent) error { return boom }, "Fail")

	handled, err := kh.HandleKey(keymap.KeyEvent{Key: "x", Ctrl: true})
	if !handled || !errors.Is(err, boom) {
		t.Errorf("HandleKey = %v, %v; want handled with boom", handled, err)
	}
}

func TestKeyboardHandler_GetBindingsSorted(t *testing.T) {
	kh := NewKeyboardHandler()
	noop := func(keymap.KeyEvent) error { return nil }

	for _, k := range []string{"s", "b", "r"} {
		_ = kh.RegisterBinding(keymap.KeyEvent{Key: k, Ctrl: true}, noop, k)
	}

	bindings := kh.GetBindings()
	if len(bindings) != 3 {
		t.Fatalf("got %d bindings, want 3", len(bindings))
	}
	want := []string{"b", "r", "s"}
	for i, b := range bindings {
		if b.Label != want[i] {
			t.Errorf("binding %d = %q, want %q", i, b.Label, want[i])
		}
	}
}

func TestFormatKeyEvent(t *testing.T) {
	tests := []struct {
		event keymap.KeyEvent
		want  string
	}{
		{keymap.KeyEvent{Key: "s", Ctrl: true}, "^S"},
		{keymap.KeyEvent{Key: keymap.KeyEnter}, "Enter"},
		{keymap.KeyEvent{Key: "x", Ctrl: true, Alt: true}, "Ctrl-Alt-x"},
	}

	for _, tt := range tests {
		if got := FormatKeyEvent(tt.event); got != tt.want {
			t.Errorf("FormatKeyEvent(%+v) = %q, want %q", tt.event, got, tt.want)
		}
	}
}
