package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dshills/blockpad/pkg/query"
	"github.com/spf13/cobra"
)

// previewWidth bounds the text column of the blocks listing
const previewWidth = 48

// NewBlocksCommand creates the blocks command
func NewBlocksCommand() *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List the blocks of the document",
		Long: `List the blocks of the stored document, optionally filtered.

The --where expression sees each block as id, type, text, index and label,
and must evaluate to a boolean.

Examples:
  blockpad blocks
  blockpad blocks --where 'type == "h1" || type == "h2"'
  blockpad blocks --where 'text contains "TODO"'
  blockpad blocks --where 'lineCount(text) > 3'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := query.Compile(where)
			if err != nil {
				return fmt.Errorf("invalid --where expression: %w", err)
			}

			logger := newLogger(cmd.ErrOrStderr())
			store, err := openStore(logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			doc, _ := loadDocument(cmd.Context(), store)

			matches, err := filter.Select(cmd.Context(), doc)
			if err != nil {
				return fmt.Errorf("failed to filter blocks: %w", err)
			}

			if len(matches) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No matching blocks")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "#\tTYPE\tID\tTEXT")
			_, _ = fmt.Fprintln(w, "─\t────\t──\t────")
			for _, m := range matches {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.Index, m.Block.Type.Label(), m.Block.ID, preview(m.Block.Text))
			}
			_ = w.Flush()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d blocks\n", len(matches), len(doc.Blocks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&where, "where", "w", "", "Boolean filter expression")

	return cmd
}

// preview flattens block text onto one bounded line
func preview(text string) string {
	line := strings.ReplaceAll(text, "\n", " ⏎ ")
	runes := []rune(line)
	if len(runes) > previewWidth {
		return string(runes[:previewWidth-1]) + "…"
	}
	return line
}
