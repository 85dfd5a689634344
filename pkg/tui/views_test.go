package tui

import (
	"errors"
	"testing"

	"github.com/dshills/blockpad/pkg/keymap"
	"github.com/dshills/goterm"
)

// stubView records lifecycle calls
type stubView struct {
	name       string
	inits      int
	cleanups   int
	initErr    error
	cleanupErr error
}

func (v *stubView) Name() string { return v.name }
func (v *stubView) Init() error { v.inits++; return v.initErr }
func (v *stubView) Cleanup() error { v.cleanups++; return v.cleanupErr }
func (v *stubView) HandleKey(keymap.KeyEvent) error { return nil }
func (v *stubView) Render(*goterm.Screen) error { return nil }

func TestViewManager_RegisterView(t *testing.T) {
	tests := []struct {
		name    string
		view    View
		wantErr bool
	}{
		{"valid view", &stubView{name: "editor"}, false},
		{"nil view", nil, true},
		{"empty name", &stubView{name: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewViewManager()
			err := vm.RegisterView(tt.view)
			if (err != nil) != tt.wantErr {
				t.Errorf("RegisterView() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	vm := NewViewManager()
	_ = vm.RegisterView(&stubView{name: "editor"})
	if err := vm.RegisterView(&stubView{name: "editor"}); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestViewManager_OverlayAndGoBack(t *testing.T) {
	vm := NewViewManager()
	ed := &stubView{name: "editor"}
	help := &stubView{name: "help"}
	_ = vm.RegisterView(ed)
	_ = vm.RegisterView(help)

	if vm.GetCurrentView() != nil {
		t.Fatal("no view should be current before Initialize")
	}
	if err := vm.Initialize("editor"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := vm.GoBack(); err == nil {
		t.Error("the base view should not be popped")
	}

	if err := vm.SwitchTo("help"); err != nil {
		t.Fatalf("SwitchTo(help) failed: %v", err)
	}
	if vm.GetCurrentView() != help || ed.cleanups != 1 {
		t.Errorf("help should be on top and the editor cleaned up (cleanups=%d)", ed.cleanups)
	}
	if err := vm.SwitchTo("help"); err != nil || help.inits != 1 {
		t.Errorf("switching to the top view should do nothing (err=%v inits=%d)", err, help.inits)
	}

	if err := vm.GoBack(); err != nil {
		t.Fatalf("GoBack failed: %v", err)
	}
	if vm.GetCurrentView() != ed || help.cleanups != 1 || ed.inits != 2 {
		t.Errorf("GoBack should restore the editor (help cleanups=%d editor inits=%d)", help.cleanups, ed.inits)
	}
}

func TestViewManager_SwitchToErrors(t *testing.T) {
	vm := NewViewManager()
	ed := &stubView{name: "editor"}
	_ = vm.RegisterView(ed)
	_ = vm.RegisterView(&stubView{name: "broken", initErr: errors.New("boom")})
	_ = vm.Initialize("editor")

	if err := vm.SwitchTo("missing"); err == nil {
		t.Error("expected error for unknown view")
	}
	if err := vm.SwitchTo("broken"); err == nil {
		t.Error("expected init error")
	}
	if vm.GetCurrentView() != ed {
		t.Error("editor should stay on top after a failed switch")
	}
	if err := vm.GoBack(); err == nil {
		t.Error("a failed switch should not leave anything to go back to")
	}
}

func TestViewManager_InitializeTwice(t *testing.T) {
	vm := NewViewManager()
	_ = vm.RegisterView(&stubView{name: "editor"})

	if err := vm.Initialize("missing"); err == nil {
		t.Error("expected error for unknown initial view")
	}
	if err := vm.Initialize("editor"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := vm.Initialize("editor"); err == nil {
		t.Error("expected error on second Initialize")
	}
}

func TestViewManager_Shutdown(t *testing.T) {
	vm := NewViewManager()
	ed := &stubView{name: "editor"}
	help := &stubView{name: "help", cleanupErr: errors.New("stuck")}
	_ = vm.RegisterView(ed)
	_ = vm.RegisterView(help)
	_ = vm.Initialize("editor")
	_ = vm.SwitchTo("help")

	if err := vm.Shutdown(); err == nil {
		t.Error("Shutdown should report the cleanup failure")
	}
	if ed.cleanups != 2 || help.cleanups != 1 {
		t.Errorf("cleanups editor=%d help=%d, want every stacked view cleaned", ed.cleanups, help.cleanups)
	}
	if vm.GetCurrentView() != nil {
		t.Error("Shutdown should clear the stack")
	}
	if err := vm.Initialize("editor"); err != nil {
		t.Errorf("Initialize after Shutdown failed: %v", err)
	}
}
