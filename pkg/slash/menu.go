// Package slash implements the "/" command menu.
//
// The menu is a small value-typed state machine. It is either closed or open
// for exactly one block, carrying the free-text query typed after the slash,
// the screen anchor captured when it opened and the highlighted entry of the
// filtered command list. Every transition returns a new Menu; the zero value
// is the closed menu.
//
// The menu is transient view state. It is never persisted and never part of
// a document.
package slash

import (
	"regexp"

	"github.com/dshills/blockpad/pkg/domain/types"
)

// Anchor is the on-screen position the menu is drawn at.
type Anchor struct {
	X int
	Y int
}

// Menu is the slash menu state.
type Menu struct {
	open        bool
	blockID     types.BlockID
	query       string
	anchor      Anchor
	activeIndex int
}

// Closed returns the closed menu.
func Closed() Menu {
	return Menu{}
}

// Open returns a menu open for blockID with the given query.
// The anchor is fixed for the lifetime of this open state.
func Open(blockID types.BlockID, query string, anchor Anchor) Menu {
	return Menu{
		open:    true,
		blockID: blockID,
		query:   query,
		anchor:  anchor,
	}
}

// IsOpen reports whether the menu is open.
func (m Menu) IsOpen() bool { return m.open }

// IsOpenFor reports whether the menu is open for the given block.
func (m Menu) IsOpenFor(id types.BlockID) bool { return m.open && m.blockID == id }

// BlockID returns the block that opened the menu.
func (m Menu) BlockID() types.BlockID { return m.blockID }

// Query returns the current filter text.
func (m Menu) Query() string { return m.query }

// Anchor returns the position captured at open time.
func (m Menu) Anchor() Anchor { return m.anchor }

// ActiveIndex returns the highlighted position in Filtered().
func (m Menu) ActiveIndex() int { return m.activeIndex }

// Close returns the closed menu.
func (m Menu) Close() Menu {
	return Closed()
}

// WithQuery replaces the query and resets the highlight to the first entry.
// A closed menu stays closed.
func (m Menu) WithQuery(query string) Menu {
	if !m.open {
		return m
	}
	m.query = query
	m.activeIndex = 0
	return m
}

// Filtered returns the catalog entries matching the current query.
// A closed menu has no entries.
func (m Menu) Filtered() []Command {
	if !m.open {
		return nil
	}
	return Filter(catalog, m.query)
}

// MoveDown highlights the next entry, stopping at the last one.
func (m Menu) MoveDown() Menu {
	return m.withIndex(m.activeIndex + 1)
}

// MoveUp highlights the previous entry, stopping at the first one.
func (m Menu) MoveUp() Menu {
	return m.withIndex(m.activeIndex - 1)
}

// Hover highlights entry i, as reported by a pointer hovering over it.
func (m Menu) Hover(i int) Menu {
	return m.withIndex(i)
}

func (m Menu) withIndex(i int) Menu {
	if !m.open {
		return m
	}
	m.activeIndex = clamp(i, 0, max(0, len(m.Filtered())-1))
	return m
}

// Active returns the highlighted command, if the filtered list has one.
func (m Menu) Active() (Command, bool) {
	filtered := m.Filtered()
	if m.activeIndex < 0 || m.activeIndex >= len(filtered) {
		return Command{}, false
	}
	return filtered[m.activeIndex], true
}

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

// KeyResult is the outcome of routing a key to an open menu.
type KeyResult struct {
	Menu     Menu     // State after the key
	Apply    *Command // Command to apply, when Enter picked one
	Consumed bool     // Whether the key was handled by the menu
}

// HandleKey routes navigation keys to an open menu. Key names follow
// keymap.KeyEvent: "ArrowDown", "ArrowUp", "Enter", "Escape". Keys the menu
// does not handle, and every key while closed, are left unconsumed.
func HandleKey(m Menu, key string) KeyResult {
	if !m.open {
		return KeyResult{Menu: m}
	}

	switch key {
	case "Escape":
		return KeyResult{Menu: m.Close(), Consumed: true}
	case "ArrowDown":
		return KeyResult{Menu: m.MoveDown(), Consumed: true}
	case "ArrowUp":
		return KeyResult{Menu: m.MoveUp(), Consumed: true}
	case "Enter":
		cmd, ok := m.Active()
		if !ok {
			return KeyResult{Menu: m}
		}
		return KeyResult{Menu: m.Close(), Apply: &cmd, Consumed: true}
	}

	return KeyResult{Menu: m}
}

var (
	triggerPattern = regexp.MustCompile(`^/\S*\s?`)
	queryPattern   = regexp.MustCompile(`^/(\S*)`)
)

// StripTrigger removes a leading "/command" run and one following
// whitespace character from text.
func StripTrigger(text string) string {
	return triggerPattern.ReplaceAllString(text, "")
}

// DeriveQuery extracts the query from text that starts with "/".
// ok is false when text does not start with a slash.
func DeriveQuery(text string) (query string, ok bool) {
	m := queryPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
