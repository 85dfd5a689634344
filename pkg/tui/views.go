package tui

import (
	"fmt"
	"sync"

	"github.com/dshills/blockpad/pkg/keymap"
	"github.com/dshills/goterm"
)

// View is one full-screen surface of the editor
type View interface {
	// Name returns the unique identifier for this view
	Name() string

	// Init prepares the view each time it comes to the top
	Init() error

	// Cleanup runs when the view leaves the top
	Cleanup() error

	HandleKey(event keymap.KeyEvent) error
	Render(screen *goterm.Screen) error
}

// ViewManager keeps the base editor view with overlays such as help
// stacked above it. Only the top view receives keys and renders.
type ViewManager struct {
	mu    sync.RWMutex
	views map[string]View
	stack []View
}

// NewViewManager creates an empty view manager
func NewViewManager() *ViewManager {
	return &ViewManager{views: make(map[string]View)}
}

// RegisterView makes a view available to SwitchTo
func (vm *ViewManager) RegisterView(view View) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if view == nil || view.Name() == "" {
		return fmt.Errorf("view must be non-nil and named")
	}
	if _, exists := vm.views[view.Name()]; exists {
		return fmt.Errorf("view %q already registered", view.Name())
	}

	vm.views[view.Name()] = view
	return nil
}

// Initialize installs the base view. It fails once a base exists.
func (vm *ViewManager) Initialize(name string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if len(vm.stack) > 0 {
		return fmt.Errorf("view manager already initialized")
	}

	view, exists := vm.views[name]
	if !exists {
		return fmt.Errorf("initial view %q not found", name)
	}
	if err := view.Init(); err != nil {
		return fmt.Errorf("failed to initialize view %q: %w", name, err)
	}

	vm.stack = []View{view}
	return nil
}

// SwitchTo pushes the named view over the current one. Switching to the
// view already on top does nothing.
func (vm *ViewManager) SwitchTo(name string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	view, exists := vm.views[name]
	if !exists {
		return fmt.Errorf("view %q not found", name)
	}

	top := vm.top()
	if top == view {
		return nil
	}

	if top != nil {
		if err := top.Cleanup(); err != nil {
			return fmt.Errorf("failed to cleanup view %q: %w", top.Name(), err)
		}
	}

	if err := view.Init(); err != nil {
		if top != nil {
			_ = top.Init() // the previous view stays on top
		}
		return fmt.Errorf("failed to initialize view %q: %w", name, err)
	}

	vm.stack = append(vm.stack, view)
	return nil
}

// GoBack pops the top view. The base view cannot be popped.
func (vm *ViewManager) GoBack() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if len(vm.stack) < 2 {
		return fmt.Errorf("no previous view")
	}

	top := vm.stack[len(vm.stack)-1]
	if err := top.Cleanup(); err != nil {
		return fmt.Errorf("failed to cleanup view %q: %w", top.Name(), err)
	}
	vm.stack = vm.stack[:len(vm.stack)-1]

	prev := vm.stack[len(vm.stack)-1]
	if err := prev.Init(); err != nil {
		return fmt.Errorf("failed to initialize view %q: %w", prev.Name(), err)
	}
	return nil
}

// GetCurrentView returns the top view, or nil before Initialize
func (vm *ViewManager) GetCurrentView() View {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.top()
}

// Shutdown cleans up every stacked view, top first
func (vm *ViewManager) Shutdown() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	var firstErr error
	for i := len(vm.stack) - 1; i >= 0; i-- {
		if err := vm.stack[i].Cleanup(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to cleanup view %q: %w", vm.stack[i].Name(), err)
		}
	}
	vm.stack = nil
	return firstErr
}

func (vm *ViewManager) top() View {
	if len(vm.stack) == 0 {
		return nil
	}
	return vm.stack[len(vm.stack)-1]
}
