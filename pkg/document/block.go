package document

import (
	"strings"

	"github.com/dshills/blockpad/pkg/domain/types"
)

// BlockType identifies how a block's text is presented.
// The string values are the persisted wire tags.
type BlockType string

const (
	// TypeParagraph is plain text
	TypeParagraph BlockType = "p"
	// TypeHeading1 is a top-level section heading
	TypeHeading1 BlockType = "h1"
	// TypeHeading2 is a second-level section heading
	TypeHeading2 BlockType = "h2"
	// TypeBulletedList holds one bullet item per line
	TypeBulletedList BlockType = "ul"
	// TypeNumberedList holds one numbered item per line
	TypeNumberedList BlockType = "ol"
	// TypeCode is preformatted multi-line text
	TypeCode BlockType = "code"
)

// AllTypes lists every block type in catalog order.
var AllTypes = []BlockType{
	TypeParagraph,
	TypeHeading1,
	TypeHeading2,
	TypeBulletedList,
	TypeNumberedList,
	TypeCode,
}

// Valid reports whether t is one of the known block types.
func (t BlockType) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the human readable name of the block type.
func (t BlockType) Label() string {
	switch t {
	case TypeParagraph:
		return "Text"
	case TypeHeading1:
		return "Heading 1"
	case TypeHeading2:
		return "Heading 2"
	case TypeBulletedList:
		return "Bulleted list"
	case TypeNumberedList:
		return "Numbered list"
	case TypeCode:
		return "Code"
	default:
		return string(t)
	}
}

// Placeholder returns the hint a host shows inside an empty block of this type.
func (t BlockType) Placeholder() string {
	switch {
	case t == TypeHeading1:
		return "Heading 1"
	case t == TypeHeading2:
		return "Heading 2"
	case IsListType(t):
		return "List"
	case IsCodeType(t):
		return "Code"
	default:
		return "Type '/' for commands"
	}
}

// IsListType reports whether t renders its lines as list items.
func IsListType(t BlockType) bool {
	return t == TypeBulletedList || t == TypeNumberedList
}

// IsCodeType reports whether t is a code block.
func IsCodeType(t BlockType) bool {
	return t == TypeCode
}

// Block is a single typed unit of text in a document.
// List and code semantics are expressed by line breaks inside Text.
type Block struct {
	ID   types.BlockID `json:"id"`
	Type BlockType     `json:"type"`
	Text string        `json:"text"`
}

// NewBlock creates a block with a fresh unique ID.
func NewBlock(t BlockType, text string) Block {
	return Block{
		ID:   types.NewBlockID(),
		Type: t,
		Text: text,
	}
}

// IsBlank reports whether text is empty once non-breaking spaces are
// normalized and surrounding whitespace is trimmed.
func IsBlank(text string) bool {
	return strings.TrimSpace(NormalizeSpaces(text)) == ""
}

// NormalizeSpaces replaces non-breaking spaces with regular spaces.
func NormalizeSpaces(text string) string {
	return strings.ReplaceAll(text, "\u00a0", " ")
}

// IsBlank reports whether the block holds no visible text.
func (b Block) IsBlank() bool {
	return IsBlank(b.Text)
}
