// Package document defines the block document model.
//
// A Document is an ordered list of typed blocks plus a title. All operations
// are pure: every mutation returns a new Document backed by a freshly
// allocated block slice, so a previously observed Document never changes.
// Every mutation also preserves the invariant that a document holds at least
// one block.
package document

import (
	"github.com/dshills/blockpad/pkg/domain/types"
)

// DefaultTitle is the title given to new documents.
const DefaultTitle = "Untitled"

// Document is a titled, ordered sequence of blocks.
type Document struct {
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// Seed returns the fixed demonstration document.
func Seed() Document {
	return Document{
		Title: DefaultTitle,
		Blocks: []Block{
			NewBlock(TypeParagraph, "Type / to insert blocks. Hover left gutter for controls."),
			NewBlock(TypeHeading2, "Keyboard"),
			NewBlock(TypeBulletedList, "Enter → new block\nBackspace on empty → remove\nArrow keys → move between blocks"),
			NewBlock(TypeCode, "function hello() {\n  return 'world'\n}"),
		},
	}
}

// EnsureNonEmpty returns blocks unchanged unless it is empty, in which case
// it returns a single empty paragraph.
func EnsureNonEmpty(blocks []Block) []Block {
	if len(blocks) > 0 {
		return blocks
	}
	return []Block{NewBlock(TypeParagraph, "")}
}

// IndexOf returns the position of the block with the given ID, or -1.
func (d Document) IndexOf(id types.BlockID) int {
	for i, b := range d.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Block returns the block with the given ID.
func (d Document) Block(id types.BlockID) (Block, bool) {
	idx := d.IndexOf(id)
	if idx < 0 {
		return Block{}, false
	}
	return d.Blocks[idx], true
}

// Prev returns the block immediately before id.
func (d Document) Prev(id types.BlockID) (Block, bool) {
	idx := d.IndexOf(id)
	if idx <= 0 {
		return Block{}, false
	}
	return d.Blocks[idx-1], true
}

// Next returns the block immediately after id.
func (d Document) Next(id types.BlockID) (Block, bool) {
	idx := d.IndexOf(id)
	if idx < 0 || idx >= len(d.Blocks)-1 {
		return Block{}, false
	}
	return d.Blocks[idx+1], true
}

// Clone returns a copy that shares no block storage with d.
func (d Document) Clone() Document {
	blocks := make([]Block, len(d.Blocks))
	copy(blocks, d.Blocks)
	return Document{Title: d.Title, Blocks: blocks}
}

// WithTitle returns a copy of d with a new title.
func (d Document) WithTitle(title string) Document {
	next := d.Clone()
	next.Title = title
	return next
}

// WithBlockText returns a copy of d with the text of block id replaced.
// Unknown IDs leave the document unchanged.
func (d Document) WithBlockText(id types.BlockID, text string) Document {
	return d.update(id, func(b *Block) { b.Text = text })
}

// WithBlockType returns a copy of d with the type of block id replaced.
// Unknown IDs leave the document unchanged.
func (d Document) WithBlockType(id types.BlockID, t BlockType) Document {
	return d.update(id, func(b *Block) { b.Type = t })
}

func (d Document) update(id types.BlockID, fn func(b *Block)) Document {
	idx := d.IndexOf(id)
	if idx < 0 {
		return d
	}
	next := d.Clone()
	fn(&next.Blocks[idx])
	return next
}

// InsertAfter returns a copy of d with block placed immediately after
// afterID. When afterID is not present the block is placed first.
func (d Document) InsertAfter(afterID types.BlockID, block Block) Document {
	pos := d.IndexOf(afterID) + 1

	blocks := make([]Block, 0, len(d.Blocks)+1)
	blocks = append(blocks, d.Blocks[:pos]...)
	blocks = append(blocks, block)
	blocks = append(blocks, d.Blocks[pos:]...)

	return Document{Title: d.Title, Blocks: blocks}
}

// Remove returns a copy of d without block id. Removing the last block
// leaves a fresh empty paragraph in its place.
func (d Document) Remove(id types.BlockID) Document {
	blocks := make([]Block, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		if b.ID != id {
			blocks = append(blocks, b)
		}
	}
	return Document{Title: d.Title, Blocks: EnsureNonEmpty(blocks)}
}

// Normalize repairs a document read from outside the process: unknown block
// types become paragraphs, missing or duplicate IDs are regenerated and an
// empty block list gets one empty paragraph.
func (d Document) Normalize() Document {
	seen := make(map[types.BlockID]bool, len(d.Blocks))
	blocks := make([]Block, 0, len(d.Blocks))

	for _, b := range d.Blocks {
		if !b.Type.Valid() {
			b.Type = TypeParagraph
		}
		if b.ID.IsZero() || seen[b.ID] {
			b.ID = types.NewBlockID()
		}
		seen[b.ID] = true
		blocks = append(blocks, b)
	}

	return Document{Title: d.Title, Blocks: EnsureNonEmpty(blocks)}
}
