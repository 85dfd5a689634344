// Package types defines core domain identifiers for blockpad.
package types

import "github.com/google/uuid"

// BlockID is a unique identifier for a block within a document.
// It is stable for the lifetime of the block.
type BlockID string

// NewBlockID generates a new unique block ID.
func NewBlockID() BlockID {
	return BlockID(uuid.NewString())
}

// String returns the string representation of a BlockID.
func (id BlockID) String() string {
	return string(id)
}

// IsZero returns true if the BlockID is the zero value.
func (id BlockID) IsZero() bool {
	return id == ""
}
