package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/storage"
	"github.com/spf13/cobra"
)

// Export formats
const (
	formatMarkdown = "md"
	formatJSON     = "json"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the document to a markdown or JSON file",
		Long: `Export the stored document to a file.

The format follows the file extension: .md and .markdown write markdown,
.json writes the same payload the file store keeps. Use --format to override.
A file name of - writes to stdout.

Examples:
  blockpad export notes.md
  blockpad export backup.json
  blockpad export - --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath := args[0]

			f := format
			if f == "" {
				f = formatForPath(outputPath)
			}
			if f == "" {
				return fmt.Errorf("cannot infer export format from %q; use --format md or --format json", outputPath)
			}

			logger := newLogger(cmd.ErrOrStderr())
			store, err := openStore(logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			doc, _ := loadDocument(cmd.Context(), store)

			data, err := render(doc, f)
			if err != nil {
				return err
			}

			if outputPath == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d blocks to %s\n", len(doc.Blocks), outputPath)

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: md or json (default: from extension)")

	return cmd
}

// formatForPath infers the export format from a file extension
func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return formatMarkdown
	case ".json":
		return formatJSON
	default:
		return ""
	}
}

func render(doc document.Document, format string) ([]byte, error) {
	switch format {
	case formatMarkdown:
		return []byte(document.Markdown(doc)), nil
	case formatJSON:
		data, err := storage.Encode(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode document: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
}
