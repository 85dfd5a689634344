package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/blockpad/pkg/document"
	blockerrors "github.com/dshills/blockpad/pkg/errors"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore keeps the document as a row in a SQLite key-value table.
type SQLiteStore struct {
	db     *sql.DB
	key    string
	logger zerolog.Logger
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath, key string, logger zerolog.Logger) (*SQLiteStore, error) {
	if key == "" {
		key = DocumentKey
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := InitializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &SQLiteStore{db: db, key: key, logger: logger}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads and decodes the stored document.
func (s *SQLiteStore) Load(ctx context.Context) (document.Document, bool) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", s.key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug().Err(err).Str("key", s.key).Msg("document query failed")
		}
		return document.Document{}, false
	}

	doc, err := Decode([]byte(value))
	if err != nil {
		s.logger.Debug().Err(err).Str("key", s.key).Msg("stored document rejected")
		return document.Document{}, false
	}

	return doc, true
}

// Save upserts the serialized document.
func (s *SQLiteStore) Save(ctx context.Context, doc document.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return blockerrors.NewStorageError("save", BackendSQLite, s.key, err)
	}

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, s.key, string(data), time.Now().UTC()); err != nil {
		return blockerrors.NewStorageError("save", BackendSQLite, s.key, err).WithAttr("bytes", len(data))
	}

	return nil
}

// Clear deletes the stored document.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", s.key); err != nil {
		return blockerrors.NewStorageError("clear", BackendSQLite, s.key, err)
	}
	return nil
}

// SetRaw stores an arbitrary payload under the store's key.
// It bypasses encoding and exists for repair tooling and tests.
func (s *SQLiteStore) SetRaw(ctx context.Context, raw []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		s.key, string(raw), time.Now().UTC())
	if err != nil {
		return blockerrors.NewStorageError("save", BackendSQLite, s.key, err)
	}
	return nil
}
