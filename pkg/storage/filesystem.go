package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/blockpad/pkg/document"
	blockerrors "github.com/dshills/blockpad/pkg/errors"
	"github.com/rs/zerolog"
)

// tempFilePrefix is the prefix used for temporary atomic write files.
const tempFilePrefix = "blockpad-tmp-"

// FileStore keeps the document as a JSON file named after the storage key.
type FileStore struct {
	dir    string
	key    string
	logger zerolog.Logger
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir, key string, logger zerolog.Logger) (*FileStore, error) {
	if key == "" {
		key = DocumentKey
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStore{dir: dir, key: key, logger: logger}, nil
}

// Path returns the file the document is stored in.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.key+".json")
}

// Load reads and decodes the stored document.
func (s *FileStore) Load(ctx context.Context) (document.Document, bool) {
	if ctx.Err() != nil {
		return document.Document{}, false
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Err(err).Str("path", s.Path()).Msg("document unreadable")
		}
		return document.Document{}, false
	}
	if len(data) == 0 {
		return document.Document{}, false
	}

	doc, err := Decode(data)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", s.Path()).Msg("stored document rejected")
		return document.Document{}, false
	}

	return doc, true
}

// Save writes the document atomically using a temp file and rename.
func (s *FileStore) Save(ctx context.Context, doc document.Document) error {
	if err := ctx.Err(); err != nil {
		return blockerrors.NewStorageError("save", BackendFile, s.key, err)
	}

	data, err := Encode(doc)
	if err != nil {
		return blockerrors.NewStorageError("save", BackendFile, s.key, err)
	}

	if err := writeFileAtomic(s.Path(), data, 0644); err != nil {
		return blockerrors.NewStorageError("save", BackendFile, s.key, err).WithAttr("bytes", len(data))
	}

	return nil
}

// Clear deletes the document file. A missing file is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return blockerrors.NewStorageError("clear", BackendFile, s.key, err)
	}

	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return blockerrors.NewStorageError("clear", BackendFile, s.key, err)
	}

	return nil
}

// Close is a no-op for file storage.
func (s *FileStore) Close() error {
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
