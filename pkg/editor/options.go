package editor

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after the last change before the
// document is saved.
const DefaultDebounce = 250 * time.Millisecond

// ToolbarGeometry sizes the inline formatting toolbar in host units.
type ToolbarGeometry struct {
	Width  int
	Height int
	Margin int // Minimum distance from the viewport edges
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the save debounce interval. Non-positive values keep
// the default.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithScheduler sets the scheduler used for deferred focus.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithAnchorOffset sets the slash menu position relative to the top-left
// corner of the block it was opened for.
func WithAnchorOffset(dx, dy int) Option {
	return func(c *Controller) {
		c.anchorDX = dx
		c.anchorDY = dy
	}
}

// WithToolbarGeometry sets the toolbar size used for positioning.
func WithToolbarGeometry(g ToolbarGeometry) Option {
	return func(c *Controller) {
		c.toolbarGeom = g
	}
}
