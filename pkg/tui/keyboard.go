package tui

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/blockpad/pkg/keymap"
)

// KeyHandler is a function that handles a key event
type KeyHandler func(event keymap.KeyEvent) error

// KeyBinding represents a registered application shortcut
type KeyBinding struct {
	Key     keymap.KeyEvent
	Handler KeyHandler
	Label   string // Description for the help line
}

// KeyboardHandler dispatches application shortcuts. Keys without a
// binding fall through to the editor.
type KeyboardHandler struct {
	mu       sync.RWMutex
	bindings map[string]*KeyBinding
}

// NewKeyboardHandler creates an empty keyboard handler
func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		bindings: make(map[string]*KeyBinding),
	}
}

// RegisterBinding registers a shortcut. Registering the same key twice is
// an error.
func (kh *KeyboardHandler) RegisterBinding(key keymap.KeyEvent, handler KeyHandler, label string) error {
	kh.mu.Lock()
	defer kh.mu.Unlock()

	keyStr := key.String()

	if _, exists := kh.bindings[keyStr]; exists {
		return fmt.Errorf("keybinding conflict: %s already registered", keyStr)
	}

	kh.bindings[keyStr] = &KeyBinding{
		Key:     key,
		Handler: handler,
		Label:   label,
	}

	return nil
}

// UnregisterBinding removes a shortcut
func (kh *KeyboardHandler) UnregisterBinding(key keymap.KeyEvent) {
	kh.mu.Lock()
	defer kh.mu.Unlock()

	delete(kh.bindings, key.String())
}

// HandleKey runs the shortcut bound to event. handled is false when no
// binding exists.
func (kh *KeyboardHandler) HandleKey(event keymap.KeyEvent) (handled bool, err error) {
	kh.mu.RLock()
	binding, exists := kh.bindings[event.String()]
	kh.mu.RUnlock()

	if !exists {
		return false, nil
	}

	// Handlers run unlocked so they may register or remove bindings
	return true, binding.Handler(event)
}

// GetBindings returns all bindings ordered by key
func (kh *KeyboardHandler) GetBindings() []*KeyBinding {
	kh.mu.RLock()
	defer kh.mu.RUnlock()

	bindings := make([]*KeyBinding, 0, len(kh.bindings))
	for _, binding := range kh.bindings {
		bindings = append(bindings, binding)
	}

	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Key.String() < bindings[j].Key.String()
	})

	return bindings
}

// FormatKeyEvent formats a key event for display, e.g. "^S" for Ctrl-s
func FormatKeyEvent(event keymap.KeyEvent) string {
	if event.Ctrl && !event.Alt && !event.Meta {
		if r, ok := event.Rune(); ok && r >= 'a' && r <= 'z' {
			return fmt.Sprintf("^%c", r-32)
		}
	}
	return event.String()
}
