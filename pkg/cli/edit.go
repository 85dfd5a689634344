package cli

import (
	"fmt"

	"github.com/dshills/blockpad/pkg/tui"
	"github.com/spf13/cobra"
)

// NewEditCommand creates the edit command
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the document in the terminal",
		Long: `Launch the terminal editor on the stored document.

When nothing is stored yet, editing starts from a sample document. Changes
are saved a moment after you stop typing, and again on exit.

Keys:
  Enter           new block (newline inside code blocks with Alt-Enter)
  Backspace       remove an empty block
  Arrows          move between blocks
  /               open the block type menu
  Ctrl-B/T/E      bold, italic, inline code
  Ctrl-S          save now
  Ctrl-R          reset to the sample document
  Ctrl-G          help
  Ctrl-Q          quit

With --debug, logs go to blockpad.log in the config directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, logCloser, err := newFileLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logCloser.Close() }()

			store, err := openStore(logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			app, err := tui.NewApp(tui.Config{
				Store:    store,
				Debounce: GlobalConfig.Debounce(),
				Logger:   logger,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize TUI: %w", err)
			}

			runErr := app.Run()
			if err := app.Close(); err != nil && runErr == nil {
				runErr = err
			}
			if runErr != nil {
				return fmt.Errorf("editor error: %w", runErr)
			}

			return nil
		},
	}

	return cmd
}
