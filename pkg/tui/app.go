package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/editor"
	"github.com/dshills/blockpad/pkg/keymap"
	"github.com/dshills/blockpad/pkg/storage"
	"github.com/dshills/goterm"
	"github.com/rs/zerolog"
)

// frameBudget is the render loop period (60 FPS)
const frameBudget = 16 * time.Millisecond

// Config configures the editor application
type Config struct {
	Store    storage.Store
	Debounce time.Duration
	Logger   zerolog.Logger
}

// App represents the TUI application root
type App struct {
	screen      *goterm.Screen
	viewManager *ViewManager
	keyboard    *KeyboardHandler
	ctrl        *editor.Controller
	editorView  *EditorView
	frames      *editor.FrameScheduler
	logger      zerolog.Logger
	running     bool
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	inputChan   chan keymap.KeyEvent
}

// NewApp initializes the terminal and creates the editor application
func NewApp(cfg Config) (*App, error) {
	screen, err := goterm.Init()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	app, err := newApp(screen, cfg)
	if err != nil {
		_ = screen.Close()
		return nil, err
	}
	return app, nil
}

// newApp wires the application around an existing screen
func newApp(screen *goterm.Screen, cfg Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	view := NewEditorView()
	frames := editor.NewFrameScheduler()
	ctrl := editor.New(cfg.Store, view,
		editor.WithScheduler(frames),
		editor.WithDebounce(cfg.Debounce),
		editor.WithLogger(cfg.Logger),
		editor.WithAnchorOffset(0, 1),
		editor.WithToolbarGeometry(editor.ToolbarGeometry{Width: len(toolbarLabel), Height: 1}),
	)
	view.Attach(ctrl)

	app := &App{
		screen:      screen,
		viewManager: NewViewManager(),
		keyboard:    NewKeyboardHandler(),
		ctrl:        ctrl,
		editorView:  view,
		frames:      frames,
		logger:      cfg.Logger,
		ctx:         ctx,
		cancel:      cancel,
		inputChan:   make(chan keymap.KeyEvent, 100),
	}

	// Edits replace any transient status message
	ctrl.OnChange(func(document.Document) { view.SetStatus("") })

	if err := app.registerViews(); err != nil {
		ctrl.Close()
		cancel()
		return nil, fmt.Errorf("failed to register views: %w", err)
	}

	if err := app.registerGlobalKeybindings(); err != nil {
		ctrl.Close()
		cancel()
		return nil, fmt.Errorf("failed to register keybindings: %w", err)
	}

	if err := app.viewManager.Initialize(view.Name()); err != nil {
		ctrl.Close()
		cancel()
		return nil, fmt.Errorf("failed to initialize view manager: %w", err)
	}

	app.focusFirstBlock(keymap.CaretEnd)
	return app, nil
}

// registerViews registers all available views
func (a *App) registerViews() error {
	if err := a.viewManager.RegisterView(a.editorView); err != nil {
		return fmt.Errorf("failed to register editor view: %w", err)
	}

	help := NewHelpView(a.keyboard, a.viewManager.GoBack)
	if err := a.viewManager.RegisterView(help); err != nil {
		return fmt.Errorf("failed to register help view: %w", err)
	}

	return nil
}

// registerGlobalKeybindings registers application-wide keybindings
func (a *App) registerGlobalKeybindings() error {
	quit := func(keymap.KeyEvent) error {
		a.cancel()
		return nil
	}

	bindings := []struct {
		key     string
		handler KeyHandler
		label   string
	}{
		{"c", quit, "Quit"},
		{"q", quit, "Quit"},
		{"s", a.save, "Save now"},
		{"r", a.reset, "Reset to the sample document"},
		{"g", a.toggleHelp, "Toggle help"},
		{"b", a.format(editor.FormatBold), "Bold"},
		{"t", a.format(editor.FormatItalic), "Italic"},
		{"e", a.format(editor.FormatCode), "Inline code"},
	}

	for _, b := range bindings {
		if err := a.keyboard.RegisterBinding(keymap.KeyEvent{Key: b.key, Ctrl: true}, b.handler, b.label); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) save(keymap.KeyEvent) error {
	if err := a.ctrl.Flush(); err != nil {
		a.logger.Warn().Err(err).Msg("save failed")
		a.editorView.SetStatus("save failed")
		return nil
	}
	a.editorView.SetStatus("saved")
	return nil
}

func (a *App) reset(keymap.KeyEvent) error {
	a.ctrl.Reset()
	a.focusFirstBlock(keymap.CaretStart)
	a.editorView.SetStatus("document reset")
	return nil
}

func (a *App) toggleHelp(keymap.KeyEvent) error {
	if current := a.viewManager.GetCurrentView(); current != nil && current.Name() == "help" {
		return a.viewManager.GoBack()
	}
	return a.viewManager.SwitchTo("help")
}

func (a *App) format(cmd editor.FormatCommand) KeyHandler {
	return func(keymap.KeyEvent) error {
		if current := a.viewManager.GetCurrentView(); current == a.editorView {
			a.ctrl.ApplyFormat(cmd)
		}
		return nil
	}
}

func (a *App) focusFirstBlock(caret keymap.Caret) {
	doc := a.ctrl.Document()
	a.ctrl.FocusBlock(doc.Blocks[0].ID, caret)
}

// Run starts the TUI application main loop
func (a *App) Run() error {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go a.readKeyboardInput()

	ticker := time.NewTicker(frameBudget)
	defer ticker.Stop()

	if err := a.render(); err != nil {
		return fmt.Errorf("initial render failed: %w", err)
	}

	for {
		select {
		case <-a.ctx.Done():
			return nil

		case <-sigChan:
			a.cancel()
			return nil

		case event := <-a.inputChan:
			if err := a.handleKeyEvent(event); err != nil {
				return err
			}
			// Render immediately after input
			if err := a.render(); err != nil {
				return err
			}

		case <-ticker.C:
			if err := a.render(); err != nil {
				return err
			}
		}
	}
}

// handleKeyEvent runs a shortcut, or passes the key to the current view
func (a *App) handleKeyEvent(event keymap.KeyEvent) error {
	handled, err := a.keyboard.HandleKey(event)
	if err != nil {
		return fmt.Errorf("keyboard handler error: %w", err)
	}
	if handled {
		return nil
	}

	currentView := a.viewManager.GetCurrentView()
	if currentView != nil {
		if err := currentView.HandleKey(event); err != nil {
			return fmt.Errorf("view key handler error: %w", err)
		}
	}

	return nil
}

// render draws the current view, then runs work deferred until after the
// paint (focus moves)
func (a *App) render() error {
	start := time.Now()

	currentView := a.viewManager.GetCurrentView()

	a.screen.Clear()

	if currentView != nil {
		if err := currentView.Render(a.screen); err != nil {
			return fmt.Errorf("view render failed: %w", err)
		}
	}

	if err := a.screen.Show(); err != nil {
		return fmt.Errorf("screen show failed: %w", err)
	}

	a.frames.Flush()

	if frameTime := time.Since(start); frameTime > frameBudget {
		a.logger.Debug().Dur("frame", frameTime).Msg("slow frame")
	}

	return nil
}

// readKeyboardInput reads keyboard input in a background goroutine
func (a *App) readKeyboardInput() {
	buf := make([]byte, 256)

	for {
		select {
		case <-a.ctx.Done():
			return
		default:
		}

		// Blocking read - terminal is already in raw mode from goterm
		n, err := os.Stdin.Read(buf)
		if err != nil {
			if err == io.EOF {
				return
			}
			continue
		}

		for _, event := range parseKeyInput(buf[:n]) {
			select {
			case a.inputChan <- event:
			case <-a.ctx.Done():
				return
			}
		}
	}
}

// Close saves pending edits, ends the editing session and restores the
// terminal. The store stays open.
func (a *App) Close() error {
	a.cancel()

	if err := a.ctrl.Flush(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to save on exit")
	}
	a.ctrl.Close()

	if err := a.viewManager.Shutdown(); err != nil {
		a.logger.Debug().Err(err).Msg("view shutdown failed")
	}

	if err := a.screen.Close(); err != nil {
		return fmt.Errorf("failed to close screen: %w", err)
	}

	return nil
}

// Controller returns the editing session
func (a *App) Controller() *editor.Controller {
	return a.ctrl
}
