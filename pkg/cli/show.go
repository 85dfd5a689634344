package cli

import (
	"fmt"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the document as markdown",
		Long: `Print the stored document as markdown. When nothing valid is stored,
the sample document is printed instead.

Examples:
  blockpad show
  blockpad show --store sqlite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr())

			store, err := openStore(logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			doc, stored := loadDocument(cmd.Context(), store)
			logger.Debug().Bool("stored", stored).Int("blocks", len(doc.Blocks)).Msg("loaded document")

			_, _ = fmt.Fprint(cmd.OutOrStdout(), document.Markdown(doc))
			return nil
		},
	}

	return cmd
}
