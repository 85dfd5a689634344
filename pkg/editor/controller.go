// Package editor owns the live document of an editing session.
//
// A Controller holds the document, the slash menu and the inline toolbar,
// turns key and input events into document changes through the keymap
// rules, saves the document after a quiet period and moves focus through a
// Host once the host has rendered the change.
package editor

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/domain/types"
	"github.com/dshills/blockpad/pkg/keymap"
	"github.com/dshills/blockpad/pkg/slash"
	"github.com/dshills/blockpad/pkg/storage"
	"github.com/rs/zerolog"
)

// Controller coordinates one editing session.
type Controller struct {
	store       storage.Store
	host        Host
	scheduler   Scheduler
	logger      zerolog.Logger
	debounce    time.Duration
	anchorDX    int
	anchorDY    int
	toolbarGeom ToolbarGeometry

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	doc       document.Document
	version   uint64
	menu      slash.Menu
	toolbar   Toolbar
	listeners []func(document.Document)
	closed    bool

	saveTimer *time.Timer
	saveGen   uint64
	dirty     bool

	focusSeq     int
	focusPending map[int]func()

	// saveMu orders writes to the store
	saveMu       sync.Mutex
	savedVersion uint64
}

// New creates a controller and loads the stored document once. When the
// store is nil or holds nothing usable the session starts from the seed
// document. A nil host is replaced by one that has no layout.
func New(store storage.Store, host Host, opts ...Option) *Controller {
	if host == nil {
		host = nopHost{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		store:        store,
		host:         host,
		scheduler:    NewFrameScheduler(),
		logger:       zerolog.Nop(),
		debounce:     DefaultDebounce,
		anchorDX:     80,
		anchorDY:     36,
		toolbarGeom:  defaultToolbarGeometry,
		ctx:          ctx,
		cancel:       cancel,
		doc:          document.Seed(),
		menu:         slash.Closed(),
		focusPending: make(map[int]func()),
	}

	for _, opt := range opts {
		opt(c)
	}

	if store != nil {
		if loaded, ok := store.Load(ctx); ok {
			loaded.Blocks = document.EnsureNonEmpty(loaded.Blocks)
			c.doc = loaded
			c.logger.Info().Int("blocks", len(loaded.Blocks)).Msg("loaded saved document")
		} else {
			c.logger.Info().Msg("no saved document, starting from seed")
		}
	}

	return c
}

// Scheduler returns the scheduler deferred focus goes through.
func (c *Controller) Scheduler() Scheduler {
	return c.scheduler
}

// Document returns a copy of the live document.
func (c *Controller) Document() document.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// Dirty reports whether a change is waiting to be saved.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// OnChange registers fn to be called with the new document after every
// change.
func (c *Controller) OnChange(fn func(document.Document)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// SetTitle replaces the document title.
func (c *Controller) SetTitle(title string) {
	c.update(func(d document.Document) (document.Document, bool) {
		return d.WithTitle(title), true
	})
}

// SetBlockText replaces a block's text. Unknown IDs are ignored.
func (c *Controller) SetBlockText(id types.BlockID, text string) {
	c.update(func(d document.Document) (document.Document, bool) {
		if d.IndexOf(id) < 0 {
			return d, false
		}
		return d.WithBlockText(id, text), true
	})
}

// SetBlockType changes a block's type. Unknown IDs and types are ignored.
func (c *Controller) SetBlockType(id types.BlockID, t document.BlockType) {
	if !t.Valid() {
		return
	}
	c.update(func(d document.Document) (document.Document, bool) {
		if d.IndexOf(id) < 0 {
			return d, false
		}
		return d.WithBlockType(id, t), true
	})
}

// InsertBlockAfter inserts an empty block of type t after afterID, or at
// the front when afterID is unknown, and returns the new block's ID.
func (c *Controller) InsertBlockAfter(afterID types.BlockID, t document.BlockType) types.BlockID {
	b := document.NewBlock(t, "")
	if !c.update(func(d document.Document) (document.Document, bool) {
		return d.InsertAfter(afterID, b), true
	}) {
		return ""
	}
	return b.ID
}

// RemoveBlock removes a block. Removing the last block leaves one empty
// paragraph behind.
func (c *Controller) RemoveBlock(id types.BlockID) {
	if !c.update(func(d document.Document) (document.Document, bool) {
		if d.IndexOf(id) < 0 {
			return d, false
		}
		return d.Remove(id), true
	}) {
		return
	}

	c.mu.Lock()
	if c.menu.IsOpenFor(id) {
		c.menu = c.menu.Close()
	}
	c.mu.Unlock()
}

// FocusBlock asks the host to focus a block after its next render. The
// request is dropped if the block is gone by then or the session closed.
func (c *Controller) FocusBlock(id types.BlockID, caret keymap.Caret) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	seq := c.focusSeq
	c.focusSeq++
	c.focusPending[seq] = func() {}
	c.mu.Unlock()

	cancel := c.scheduler.AfterRender(func() {
		c.mu.Lock()
		_, pending := c.focusPending[seq]
		delete(c.focusPending, seq)
		exists := c.doc.IndexOf(id) >= 0
		closed := c.closed
		c.mu.Unlock()

		if !pending || closed || !exists {
			return
		}
		if !c.host.Focus(id, caret) {
			c.logger.Debug().Str("block", id.String()).Msg("focus target has no region")
		}
	})

	c.mu.Lock()
	if _, ok := c.focusPending[seq]; ok {
		c.focusPending[seq] = cancel
	}
	c.mu.Unlock()
}

// Reset clears the stored document and starts over from the seed.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopSaveLocked()
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Clear(c.ctx); err != nil {
			c.logger.Warn().Err(err).Msg("failed to clear saved document")
		}
	}

	c.update(func(document.Document) (document.Document, bool) {
		return document.Seed(), true
	})

	c.mu.Lock()
	c.menu = slash.Closed()
	c.toolbar = Toolbar{}
	c.mu.Unlock()

	c.logger.Info().Msg("document reset")
}

// Flush saves a pending change immediately.
func (c *Controller) Flush() error {
	c.mu.Lock()
	if c.closed || !c.dirty {
		c.mu.Unlock()
		return nil
	}
	c.stopSaveLocked()
	doc, version := c.doc, c.version
	c.mu.Unlock()

	return c.persist(doc, version)
}

// Close ends the session. The pending save and every pending focus request
// are cancelled; nothing is written. The store is left open.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopSaveLocked()
	c.menu = c.menu.Close()
	cancels := make([]func(), 0, len(c.focusPending))
	for _, cancel := range c.focusPending {
		cancels = append(cancels, cancel)
	}
	clear(c.focusPending)
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	c.cancel()
}

// update applies fn to the document. When fn reports a change the version
// advances, a save is scheduled and listeners are notified. It returns
// whether a change was applied.
func (c *Controller) update(fn func(document.Document) (document.Document, bool)) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}

	next, changed := fn(c.doc)
	if !changed {
		c.mu.Unlock()
		return false
	}

	c.doc = next
	c.version++
	c.scheduleSaveLocked()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return true
}

func (c *Controller) scheduleSaveLocked() {
	c.dirty = true
	c.saveGen++
	gen := c.saveGen
	if c.saveTimer != nil {
		c.saveTimer.Stop()
	}
	c.saveTimer = time.AfterFunc(c.debounce, func() { c.saveSettled(gen) })
}

func (c *Controller) stopSaveLocked() {
	if c.saveTimer != nil {
		c.saveTimer.Stop()
		c.saveTimer = nil
	}
	c.saveGen++
	c.dirty = false
}

// saveSettled runs on the timer goroutine once the debounce expires.
func (c *Controller) saveSettled(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.saveGen || !c.dirty {
		c.mu.Unlock()
		return
	}
	c.dirty = false
	c.saveTimer = nil
	doc, version := c.doc, c.version
	c.mu.Unlock()

	if err := c.persist(doc, version); err != nil {
		c.logger.Warn().Err(err).Msg("failed to save document")
	}
}

// persist writes doc unless a newer version has already been written.
func (c *Controller) persist(doc document.Document, version uint64) error {
	if c.store == nil {
		return nil
	}

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	if version <= c.savedVersion {
		return nil
	}
	if err := c.store.Save(c.ctx, doc); err != nil {
		return err
	}
	c.savedVersion = version
	c.logger.Debug().Uint64("version", version).Msg("document saved")
	return nil
}

// nopHost has no layout and no focusable regions.
type nopHost struct{}

func (nopHost) Focus(types.BlockID, keymap.Caret) bool { return false }
func (nopHost) BlockRect(types.BlockID) (Rect, bool)   { return Rect{}, false }
func (nopHost) SelectionRect() (Rect, bool)            { return Rect{}, false }
func (nopHost) Format(FormatCommand)                   {}
func (nopHost) Viewport() (int, int)                   { return 0, 0 }
