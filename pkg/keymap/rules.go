// Package keymap decides what a key press inside a block does.
//
// The decision logic is an ordered rule table. Decide walks the table and
// the first rule whose condition matches produces a Decision describing the
// requested document mutation, focus transfer and slash-menu change, and
// whether the host's default handling of the key must be suppressed. Nothing
// here touches a document or a screen; callers apply the decision.
package keymap

import (
	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/domain/types"
)

// Caret is where the caret lands when a block receives focus.
type Caret string

const (
	// CaretStart collapses the caret to the start of the block
	CaretStart Caret = "start"
	// CaretEnd collapses the caret to the end of the block
	CaretEnd Caret = "end"
)

// MutationKind identifies a structural document change.
type MutationKind int

const (
	// MutationNone leaves the document untouched
	MutationNone MutationKind = iota
	// MutationInsertAfter inserts a new block after BlockID
	MutationInsertAfter
	// MutationRemove removes BlockID
	MutationRemove
)

// Mutation is a requested structural change.
type Mutation struct {
	Kind    MutationKind
	BlockID types.BlockID
	Type    document.BlockType // Type of the inserted block
}

// FocusRequest asks the host to move focus to a block.
// When Inserted is set the target is the block created by the decision's
// mutation and BlockID is empty.
type FocusRequest struct {
	BlockID  types.BlockID
	Caret    Caret
	Inserted bool
}

// SlashAction is a requested slash menu change.
type SlashAction int

const (
	// SlashNone leaves the menu as it is
	SlashNone SlashAction = iota
	// SlashOpen opens the menu for the block with an empty query
	SlashOpen
	// SlashClose closes the menu if it is open
	SlashClose
)

// Decision is the outcome of a key press.
type Decision struct {
	Rule           string // Name of the matching rule, empty when none matched
	Mutation       Mutation
	Focus          *FocusRequest
	Slash          SlashAction
	PreventDefault bool
}

// Input is everything a rule may look at.
type Input struct {
	Event     KeyEvent
	Block     document.Block
	Doc       document.Document
	SlashOpen bool // Menu is open for Block
}

// Rule is one row of the decision table.
type Rule struct {
	Name   string
	Match  func(in Input) bool
	Decide func(in Input) Decision
}

var rules = []Rule{
	{
		Name:  "escape-close-menu",
		Match: func(in Input) bool { return in.Event.Key == KeyEscape && in.SlashOpen },
		Decide: func(in Input) Decision {
			return Decision{Slash: SlashClose, PreventDefault: true}
		},
	},
	{
		// The slash is still typed; the caller derives the query from the
		// resulting text.
		Name:  "slash-open-menu",
		Match: func(in Input) bool { return in.Event.Key == KeySlash && !in.Event.HasModifier() },
		Decide: func(in Input) Decision {
			return Decision{Slash: SlashOpen}
		},
	},
	{
		Name: "code-newline",
		Match: func(in Input) bool {
			return in.Event.Key == KeyEnter && !in.Event.Composing &&
				document.IsCodeType(in.Block.Type) && in.Event.Shift
		},
		Decide: func(in Input) Decision {
			return Decision{}
		},
	},
	{
		Name:  "enter-new-block",
		Match: func(in Input) bool { return in.Event.Key == KeyEnter && !in.Event.Composing },
		Decide: func(in Input) Decision {
			return Decision{
				Mutation: Mutation{
					Kind:    MutationInsertAfter,
					BlockID: in.Block.ID,
					Type:    document.TypeParagraph,
				},
				Focus:          &FocusRequest{Caret: CaretStart, Inserted: true},
				Slash:          SlashClose,
				PreventDefault: true,
			}
		},
	},
	{
		Name: "backspace-remove-empty",
		Match: func(in Input) bool {
			return in.Event.Key == KeyBackspace && !in.Event.Composing && in.Block.IsBlank()
		},
		Decide: func(in Input) Decision {
			d := Decision{
				Mutation:       Mutation{Kind: MutationRemove, BlockID: in.Block.ID},
				Slash:          SlashClose,
				PreventDefault: true,
			}
			if prev, ok := in.Doc.Prev(in.Block.ID); ok {
				d.Focus = &FocusRequest{BlockID: prev.ID, Caret: CaretEnd}
			} else if next, ok := in.Doc.Next(in.Block.ID); ok {
				d.Focus = &FocusRequest{BlockID: next.ID, Caret: CaretEnd}
			}
			return d
		},
	},
	{
		Name: "arrow-up-empty",
		Match: func(in Input) bool {
			if in.Event.Key != KeyArrowUp || in.Event.Composing || !in.Block.IsBlank() {
				return false
			}
			_, ok := in.Doc.Prev(in.Block.ID)
			return ok
		},
		Decide: func(in Input) Decision {
			prev, _ := in.Doc.Prev(in.Block.ID)
			return Decision{
				Focus:          &FocusRequest{BlockID: prev.ID, Caret: CaretEnd},
				PreventDefault: true,
			}
		},
	},
	{
		Name: "arrow-down-empty",
		Match: func(in Input) bool {
			if in.Event.Key != KeyArrowDown || in.Event.Composing || !in.Block.IsBlank() {
				return false
			}
			_, ok := in.Doc.Next(in.Block.ID)
			return ok
		},
		Decide: func(in Input) Decision {
			next, _ := in.Doc.Next(in.Block.ID)
			return Decision{
				Focus:          &FocusRequest{BlockID: next.ID, Caret: CaretStart},
				PreventDefault: true,
			}
		},
	},
}

// Rules returns the decision table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Decide evaluates the rule table for a key press in block. The first
// matching rule wins; when nothing matches the zero Decision is returned and
// the key keeps its default behavior.
func Decide(ev KeyEvent, block document.Block, doc document.Document, slashOpen bool) Decision {
	in := Input{Event: ev, Block: block, Doc: doc, SlashOpen: slashOpen}
	for _, r := range rules {
		if r.Match(in) {
			d := r.Decide(in)
			d.Rule = r.Name
			return d
		}
	}
	return Decision{}
}
