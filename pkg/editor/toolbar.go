package editor

// Toolbar is the inline formatting toolbar state. X and Y are the
// toolbar's top-left corner.
type Toolbar struct {
	Open bool
	X    int
	Y    int
}

var defaultToolbarGeometry = ToolbarGeometry{Width: 200, Height: 44, Margin: 12}

// placeToolbar centers the toolbar above sel and keeps it inside the
// viewport.
func placeToolbar(sel Rect, g ToolbarGeometry, vw, vh int) Toolbar {
	center := sel.X + sel.Width/2
	x := clampRange(center-g.Width/2, g.Margin, vw-g.Width-g.Margin)
	y := clampRange(sel.Y-g.Height, g.Margin, vh-g.Height-g.Margin)
	return Toolbar{Open: true, X: x, Y: y}
}

// clampRange prefers lo when the range is empty.
func clampRange(n, lo, hi int) int {
	if n > hi {
		n = hi
	}
	if n < lo {
		n = lo
	}
	return n
}

// Toolbar returns the current toolbar state.
func (c *Controller) Toolbar() Toolbar {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toolbar
}

// SelectionChanged recomputes the toolbar from the host's selection. A
// collapsed or missing selection hides it.
func (c *Controller) SelectionChanged() {
	sel, ok := c.host.SelectionRect()
	vw, vh := c.host.Viewport()

	c.mu.Lock()
	if !ok || (sel.Width == 0 && sel.Height == 0) {
		c.toolbar = Toolbar{}
	} else {
		c.toolbar = placeToolbar(sel, c.toolbarGeom, vw, vh)
	}
	c.mu.Unlock()
}

// ApplyFormat runs an inline formatting command on the host's selection.
func (c *Controller) ApplyFormat(cmd FormatCommand) {
	c.logger.Debug().Str("format", string(cmd)).Msg("applying inline format")
	c.host.Format(cmd)
}
