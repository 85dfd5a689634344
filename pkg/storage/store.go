// Package storage persists a document to a durable key-value store.
//
// Persistence is best-effort. Load never fails: a missing, unreadable or
// malformed payload is reported as absent so the editor can fall back to
// its seed document. Save and Clear return errors for logging, but callers
// are expected to carry on when they fail.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/dshills/blockpad/pkg/validation"
	"github.com/rs/zerolog"
)

// DocumentKey is the fixed key the document is stored under. It namespaces
// the payload away from unrelated data sharing the same store.
const DocumentKey = "verita_editor_doc_v1"

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is the persistence port used by the editor.
type Store interface {
	// Load returns the stored document, or false when nothing valid is stored
	Load(ctx context.Context) (document.Document, bool)
	// Save replaces the stored document
	Save(ctx context.Context, doc document.Document) error
	// Clear removes the stored document
	Clear(ctx context.Context) error
	// Close releases resources held by the store
	Close() error
}

// Config selects and configures a store.
type Config struct {
	Backend string         // file, sqlite or memory; defaults to file
	Dir     string         // Directory for file and sqlite backends
	Key     string         // Storage key; defaults to DocumentKey
	Logger  zerolog.Logger // Receives reasons for rejected payloads
}

// Open creates the store described by cfg.
func Open(cfg Config) (Store, error) {
	if cfg.Key == "" {
		cfg.Key = DocumentKey
	}
	if err := validation.ValidateKey(cfg.Key); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file store requires a directory")
		}
		return NewFileStore(cfg.Dir, cfg.Key, cfg.Logger)
	case BackendSQLite:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("sqlite store requires a directory")
		}
		return NewSQLiteStore(filepath.Join(cfg.Dir, "blockpad.db"), cfg.Key, cfg.Logger)
	case BackendMemory:
		return NewMemoryStore(cfg.Key), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
