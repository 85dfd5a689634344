package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/blockpad/pkg/document"
	blockerrors "github.com/dshills/blockpad/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawSetter lets the contract tests plant arbitrary payloads.
type rawSetter func(t *testing.T, raw []byte)

type backend struct {
	name   string
	open   func(t *testing.T) Store
	setRaw func(t *testing.T, s Store) rawSetter
}

func backends() []backend {
	return []backend{
		{
			name: BackendFile,
			open: func(t *testing.T) Store {
				s, err := NewFileStore(t.TempDir(), "", zerolog.Nop())
				require.NoError(t, err)
				return s
			},
			setRaw: func(t *testing.T, s Store) rawSetter {
				return func(t *testing.T, raw []byte) {
					require.NoError(t, os.WriteFile(s.(*FileStore).Path(), raw, 0644))
				}
			},
		},
		{
			name: BackendSQLite,
			open: func(t *testing.T) Store {
				s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), "", zerolog.Nop())
				require.NoError(t, err)
				return s
			},
			setRaw: func(t *testing.T, s Store) rawSetter {
				return func(t *testing.T, raw []byte) {
					require.NoError(t, s.(*SQLiteStore).SetRaw(context.Background(), raw))
				}
			},
		},
		{
			name: BackendMemory,
			open: func(t *testing.T) Store {
				return NewMemoryStore("")
			},
			setRaw: func(t *testing.T, s Store) rawSetter {
				return func(t *testing.T, raw []byte) {
					s.(*MemoryStore).SetRaw(raw)
				}
			},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer func() { _ = s.Close() }()

			_, ok := s.Load(ctx)
			assert.False(t, ok, "empty store loads absent")

			doc := document.Seed().WithTitle("Round trip")
			require.NoError(t, s.Save(ctx, doc))

			loaded, ok := s.Load(ctx)
			require.True(t, ok)
			assert.Equal(t, doc, loaded)

			updated := doc.Remove(doc.Blocks[0].ID)
			require.NoError(t, s.Save(ctx, updated))
			loaded, ok = s.Load(ctx)
			require.True(t, ok)
			assert.Equal(t, updated, loaded)

			require.NoError(t, s.Clear(ctx))
			_, ok = s.Load(ctx)
			assert.False(t, ok, "cleared store loads absent")

			require.NoError(t, s.Clear(ctx), "clearing twice is fine")
		})
	}
}

func TestStoreCorruptPayloads(t *testing.T) {
	ctx := context.Background()
	payloads := map[string]string{
		"not json":          `{"title": "x", "blocks": [`,
		"missing blocks":    `{"title": "x"}`,
		"blocks not array":  `{"title": "x", "blocks": {"id": "1"}}`,
		"blocks string":     `{"title": "x", "blocks": "nope"}`,
		"top level array":   `[{"id": "1"}]`,
		"null":              `null`,
		"block not object":  `{"title": "x", "blocks": [1, 2]}`,
		"text not a string": `{"title": "x", "blocks": [{"id": "1", "type": "p", "text": 3}]}`,
	}

	for _, b := range backends() {
		for name, raw := range payloads {
			t.Run(b.name+"/"+name, func(t *testing.T) {
				s := b.open(t)
				defer func() { _ = s.Close() }()

				b.setRaw(t, s)(t, []byte(raw))

				_, ok := s.Load(ctx)
				assert.False(t, ok)
			})
		}
	}
}

func TestStoreRepairsLoadedDocument(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer func() { _ = s.Close() }()

			b.setRaw(t, s)(t, []byte(`{"title": "kept", "blocks": []}`))

			doc, ok := s.Load(ctx)
			require.True(t, ok)
			assert.Equal(t, "kept", doc.Title)
			require.Len(t, doc.Blocks, 1)
			assert.Equal(t, document.TypeParagraph, doc.Blocks[0].Type)
		})
	}
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(`{"title":"t","blocks":[{"id":"a","type":"h1","text":"Hi"},{"id":"b","type":"weird"}]}`))
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, document.TypeHeading1, doc.Blocks[0].Type)
	assert.Equal(t, document.TypeParagraph, doc.Blocks[1].Type)
	assert.Equal(t, "", doc.Blocks[1].Text)

	_, err = Decode([]byte(`{"blocks": 1}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEncodeUsesWireTags(t *testing.T) {
	doc := document.Document{
		Title:  "t",
		Blocks: []document.Block{{ID: "1", Type: document.TypeBulletedList, Text: "a\nb"}},
	}

	data, err := Encode(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t","blocks":[{"id":"1","type":"ul","text":"a\nb"}]}`, string(data))
}

func TestFileStoreSaveFailure(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, "doc", zerolog.Nop())
	require.NoError(t, err)

	// A directory in place of the target file makes the rename fail
	require.NoError(t, os.Mkdir(s.Path(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path(), "child"), []byte("x"), 0644))

	err = s.Save(context.Background(), document.Seed())
	require.Error(t, err)

	var se *blockerrors.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "save", se.Op)
	assert.Equal(t, BackendFile, se.Backend)
	assert.Equal(t, "doc", se.Key)
}

func TestFileStoreKeyNamespacesPath(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, "", zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DocumentKey+".json"), s.Path())
}

func TestSQLiteStoreKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	first, err := NewSQLiteStore(dbPath, "first", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, document.Seed()))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(dbPath, "second", zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	_, ok := second.Load(ctx)
	assert.False(t, ok, "other keys are not visible")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Config{Backend: BackendFile, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(Config{Backend: BackendSQLite, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(Config{Backend: "redis", Dir: dir})
	assert.Error(t, err)

	_, err = Open(Config{Backend: BackendFile})
	assert.Error(t, err)

	_, err = Open(Config{Backend: BackendFile, Dir: dir, Key: "../escape"})
	assert.Error(t, err)
}
