package editor

import (
	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/domain/types"
	"github.com/dshills/blockpad/pkg/keymap"
	"github.com/dshills/blockpad/pkg/slash"
)

// Slash returns the slash menu state.
func (c *Controller) Slash() slash.Menu {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menu
}

// OpenSlashMenu opens the menu for a block. The menu is anchored at an
// offset from the block's top-left corner, or at the viewport center when
// the block is not laid out.
func (c *Controller) OpenSlashMenu(id types.BlockID, query string) {
	anchor := c.anchorFor(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.doc.IndexOf(id) < 0 {
		return
	}
	c.menu = slash.Open(id, query, anchor)
}

func (c *Controller) anchorFor(id types.BlockID) slash.Anchor {
	if r, ok := c.host.BlockRect(id); ok {
		return slash.Anchor{X: r.X + c.anchorDX, Y: r.Y + c.anchorDY}
	}
	w, h := c.host.Viewport()
	return slash.Anchor{X: w / 2, Y: h / 2}
}

// CloseSlashMenu closes the menu.
func (c *Controller) CloseSlashMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menu = c.menu.Close()
}

// SetSlashQuery replaces the menu query and resets the highlight.
func (c *Controller) SetSlashQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menu = c.menu.WithQuery(query)
}

// HoverIndex highlights the i-th filtered command.
func (c *Controller) HoverIndex(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menu = c.menu.Hover(i)
}

// PickCommand applies cmd to the block the menu is open for.
func (c *Controller) PickCommand(cmd slash.Command) {
	c.mu.Lock()
	if !c.menu.IsOpen() {
		c.mu.Unlock()
		return
	}
	id := c.menu.BlockID()
	c.mu.Unlock()

	c.applyCommand(id, cmd)
}

// PointerDown closes the menu when the press landed outside it.
func (c *Controller) PointerDown(insideMenu bool) {
	if !insideMenu {
		c.CloseSlashMenu()
	}
}

// applyCommand converts the block to the command's type, strips the typed
// "/query" prefix, closes the menu and refocuses the block at its end.
func (c *Controller) applyCommand(id types.BlockID, cmd slash.Command) {
	c.update(func(d document.Document) (document.Document, bool) {
		b, ok := d.Block(id)
		if !ok {
			return d, false
		}
		return d.WithBlockType(id, cmd.Type).WithBlockText(id, slash.StripTrigger(b.Text)), true
	})

	c.CloseSlashMenu()
	c.FocusBlock(id, keymap.CaretEnd)

	c.logger.Debug().Str("block", id.String()).Str("command", cmd.ID).Msg("slash command applied")
}

// HandleKey handles a key press inside a block and reports whether the
// host must suppress its default handling of the key. While the menu is
// open for the block it sees navigation keys first.
func (c *Controller) HandleKey(id types.BlockID, ev keymap.KeyEvent) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	block, ok := c.doc.Block(id)
	if !ok {
		c.mu.Unlock()
		return false
	}

	menuOpen := c.menu.IsOpenFor(id)
	// Mid-composition only Escape may reach the menu
	if menuOpen && !ev.HasModifier() && (!ev.Composing || ev.Key == keymap.KeyEscape) {
		res := slash.HandleKey(c.menu, ev.Key)
		if res.Consumed {
			c.menu = res.Menu
			c.mu.Unlock()
			if res.Apply != nil {
				c.applyCommand(id, *res.Apply)
			}
			return true
		}
	}

	d := keymap.Decide(ev, block, c.doc, menuOpen)
	c.mu.Unlock()

	c.apply(id, d)
	return d.PreventDefault
}

func (c *Controller) apply(id types.BlockID, d keymap.Decision) {
	if d.Rule != "" {
		c.logger.Debug().Str("block", id.String()).Str("rule", d.Rule).Msg("key rule matched")
	}

	switch d.Slash {
	case keymap.SlashOpen:
		c.OpenSlashMenu(id, "")
	case keymap.SlashClose:
		c.CloseSlashMenu()
	}

	var inserted types.BlockID
	switch d.Mutation.Kind {
	case keymap.MutationInsertAfter:
		inserted = c.InsertBlockAfter(d.Mutation.BlockID, d.Mutation.Type)
	case keymap.MutationRemove:
		c.RemoveBlock(d.Mutation.BlockID)
	}

	if f := d.Focus; f != nil {
		target := f.BlockID
		if f.Inserted {
			target = inserted
		}
		if !target.IsZero() {
			c.FocusBlock(target, f.Caret)
		}
	}
}

// HandleInput records the text of a block after the host edited it and
// keeps the slash menu in step with a leading "/query".
func (c *Controller) HandleInput(id types.BlockID, text string) {
	text = document.NormalizeSpaces(text)

	c.mu.Lock()
	if c.closed || c.doc.IndexOf(id) < 0 {
		c.mu.Unlock()
		return
	}
	menuOpen := c.menu.IsOpenFor(id)
	c.mu.Unlock()

	c.SetBlockText(id, text)

	query, ok := slash.DeriveQuery(text)
	switch {
	case menuOpen:
		c.SetSlashQuery(query)
	case ok:
		c.OpenSlashMenu(id, query)
	}
}
