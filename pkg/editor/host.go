package editor

import (
	"sync"

	"github.com/dshills/blockpad/pkg/domain/types"
	"github.com/dshills/blockpad/pkg/keymap"
)

// Rect is a screen rectangle in host units (pixels or terminal cells).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FormatCommand is an inline formatting command executed by the host
// against its current text selection.
type FormatCommand string

const (
	// FormatBold toggles bold on the selection
	FormatBold FormatCommand = "bold"
	// FormatItalic toggles italic on the selection
	FormatItalic FormatCommand = "italic"
	// FormatCode marks the selection as inline code
	FormatCode FormatCommand = "code"
)

// Host is the rich-text surface the controller drives. It owns the
// editable regions, the caret and the text selection.
type Host interface {
	// Focus moves input focus to the block's editable region and collapses
	// the caret to its start or end. It returns false if the block has no
	// live region.
	Focus(id types.BlockID, caret keymap.Caret) bool
	// BlockRect returns the on-screen bounds of the block's region.
	BlockRect(id types.BlockID) (Rect, bool)
	// SelectionRect returns the bounds of a non-collapsed text selection.
	SelectionRect() (Rect, bool)
	// Format applies an inline formatting command to the selection.
	Format(cmd FormatCommand)
	// Viewport returns the visible area size.
	Viewport() (width, height int)
}

// Scheduler defers work until after the host's next render pass.
type Scheduler interface {
	// AfterRender queues fn to run after the next render. The returned
	// function cancels fn if it has not run yet.
	AfterRender(fn func()) (cancel func())
}

// FrameScheduler is a Scheduler driven by the host's render loop, which
// calls Flush once per painted frame.
type FrameScheduler struct {
	mu      sync.Mutex
	nextID  int
	order   []int
	pending map[int]func()
}

// NewFrameScheduler creates an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{pending: make(map[int]func())}
}

// AfterRender queues fn for the next Flush.
func (s *FrameScheduler) AfterRender(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.pending[id] = fn
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.pending, id)
	}
}

// Flush runs every queued callback in scheduling order. Callbacks queued
// while flushing run on the following Flush.
func (s *FrameScheduler) Flush() {
	s.mu.Lock()
	order := s.order
	s.order = nil
	fns := make([]func(), 0, len(order))
	for _, id := range order {
		if fn, ok := s.pending[id]; ok {
			fns = append(fns, fn)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Pending returns the number of queued callbacks.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
