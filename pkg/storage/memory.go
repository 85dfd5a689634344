package storage

import (
	"context"
	"sync"

	"github.com/dshills/blockpad/pkg/document"
	blockerrors "github.com/dshills/blockpad/pkg/errors"
)

// MemoryStore keeps the serialized document in process memory.
// Payloads go through Encode and Decode like the durable stores.
type MemoryStore struct {
	mu   sync.RWMutex
	key  string
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(key string) *MemoryStore {
	if key == "" {
		key = DocumentKey
	}
	return &MemoryStore{key: key, data: make(map[string][]byte)}
}

// Load decodes the stored payload.
func (s *MemoryStore) Load(ctx context.Context) (document.Document, bool) {
	s.mu.RLock()
	raw, ok := s.data[s.key]
	s.mu.RUnlock()

	if !ok || ctx.Err() != nil {
		return document.Document{}, false
	}

	doc, err := Decode(raw)
	if err != nil {
		return document.Document{}, false
	}
	return doc, true
}

// Save stores the encoded document.
func (s *MemoryStore) Save(ctx context.Context, doc document.Document) error {
	if err := ctx.Err(); err != nil {
		return blockerrors.NewStorageError("save", BackendMemory, s.key, err)
	}

	data, err := Encode(doc)
	if err != nil {
		return blockerrors.NewStorageError("save", BackendMemory, s.key, err)
	}

	s.SetRaw(data)
	return nil
}

// Clear forgets the stored payload.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, s.key)
	return nil
}

// Close is a no-op for memory storage.
func (s *MemoryStore) Close() error {
	return nil
}

// SetRaw stores an arbitrary payload under the store's key.
func (s *MemoryStore) SetRaw(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(raw))
	copy(buf, raw)
	s.data[s.key] = buf
}

// Raw returns the stored payload.
func (s *MemoryStore) Raw() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[s.key]
	return raw, ok
}
