package cli

import (
	"fmt"
	"os"

	"github.com/dshills/blockpad/pkg/storage"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a JSON document payload",
		Long: `Check a JSON file against the rules used when loading the stored document.

A payload is accepted when it is a JSON object with a blocks array of
objects. Unknown block types and missing IDs are repaired on load, so the
verbose output shows the document as the editor would see it.

Examples:
  blockpad validate backup.json
  blockpad validate backup.json --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			doc, err := storage.Decode(raw)
			if err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "✗ Document payload invalid")
				if verbose {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  Error: %v\n", err)
				}
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Document payload valid")
			if verbose {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Title: %q\n", doc.Title)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Blocks: %d\n", len(doc.Blocks))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")

	return cmd
}
