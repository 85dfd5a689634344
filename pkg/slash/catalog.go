package slash

import (
	"slices"
	"strings"

	"github.com/dshills/blockpad/pkg/document"
)

// Command is a static catalog entry that turns a block into another type.
type Command struct {
	ID    string             // Stable identifier: "text", "h1", ...
	Label string             // Display name
	Hint  string             // Short help text
	Type  document.BlockType // Block type produced
}

var catalog = []Command{
	{ID: "text", Label: "Text", Hint: "Start writing with plain text", Type: document.TypeParagraph},
	{ID: "h1", Label: "Heading 1", Hint: "Big section heading", Type: document.TypeHeading1},
	{ID: "h2", Label: "Heading 2", Hint: "Medium section heading", Type: document.TypeHeading2},
	{ID: "ul", Label: "Bulleted list", Hint: "Create a bullet list", Type: document.TypeBulletedList},
	{ID: "ol", Label: "Numbered list", Hint: "Create a numbered list", Type: document.TypeNumberedList},
	{ID: "code", Label: "Code", Hint: "Insert a code block", Type: document.TypeCode},
}

// Catalog returns the fixed command list in display order.
// The returned slice is a copy.
func Catalog() []Command {
	out := make([]Command, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog command with the given ID.
func Lookup(id string) (Command, bool) {
	for _, cmd := range catalog {
		if cmd.ID == id {
			return cmd, true
		}
	}
	return Command{}, false
}

// Filter returns the commands matching query, preserving input order.
// Matching is a case-insensitive substring test against the label or the
// block type tag. A blank query matches everything. The result never
// shares storage with commands.
func Filter(commands []Command, query string) []Command {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(commands)
	}

	filtered := []Command{}
	for _, cmd := range commands {
		if strings.Contains(strings.ToLower(cmd.Label), q) || strings.Contains(string(cmd.Type), q) {
			filtered = append(filtered, cmd)
		}
	}

	return filtered
}
