package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command
func NewResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the stored document",
		Long: `Remove the stored document. The next edit starts from the sample document.

Examples:
  blockpad reset
  blockpad reset --store sqlite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr())
			store, err := openStore(logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear stored document: %w", err)
			}

			logger.Debug().Str("backend", GlobalConfig.Backend()).Msg("cleared stored document")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Stored document cleared")
			return nil
		},
	}

	return cmd
}
