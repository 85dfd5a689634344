package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/storage"
	"github.com/rs/zerolog"
)

// newLogger builds the command logger. Without --debug nothing is logged.
func newLogger(w io.Writer) zerolog.Logger {
	if !GlobalConfig.Debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

// newFileLogger logs to a file in the config directory. The terminal editor
// owns the screen, so its log output cannot go to stderr.
func newFileLogger() (zerolog.Logger, io.Closer, error) {
	if !GlobalConfig.Debug {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	path := filepath.Join(GlobalConfig.ConfigDir, logFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := zerolog.New(zerolog.SyncWriter(f)).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
	return logger, f, nil
}

// openStore opens the configured storage backend
func openStore(logger zerolog.Logger) (storage.Store, error) {
	store, err := storage.Open(storage.Config{
		Backend: GlobalConfig.Backend(),
		Dir:     GlobalConfig.ConfigDir,
		Key:     GlobalConfig.File.StorageKey,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", GlobalConfig.Backend(), err)
	}
	return store, nil
}

// loadDocument returns the stored document, or the seed when nothing valid
// is stored. The flag reports whether the document came from storage.
func loadDocument(ctx context.Context, store storage.Store) (document.Document, bool) {
	if doc, ok := store.Load(ctx); ok {
		doc.Blocks = document.EnsureNonEmpty(doc.Blocks)
		return doc, true
	}
	return document.Seed(), false
}
