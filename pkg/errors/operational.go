// Package errors defines operational error types shared by blockpad packages.
package errors

import (
	"fmt"
	"time"
)

// StorageError describes a failed persistence operation.
//
// It wraps the underlying error with the operation name, the storage key and
// the backend that failed. Persistence is best-effort, so callers usually log
// a StorageError and carry on.
type StorageError struct {
	Op         string                 // What operation was being performed (load, save, clear)
	Backend    string                 // Which store (file, sqlite, memory)
	Key        string                 // Storage key
	Timestamp  time.Time              // When error occurred
	Attributes map[string]interface{} // Additional context (optional)
	Cause      error                  // Underlying error
}

// NewStorageError creates a StorageError wrapping an error.
//
// Returns nil if cause is nil (no error to wrap).
//
// Example:
//
//	if err := os.Remove(path); err != nil {
//	    return NewStorageError("clear", "file", key, err)
//	}
func NewStorageError(op, backend, key string, cause error) *StorageError {
	if cause == nil {
		return nil
	}

	return &StorageError{
		Op:        op,
		Backend:   backend,
		Key:       key,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// WithAttr returns e with an extra attribute set.
func (e *StorageError) WithAttr(name string, value interface{}) *StorageError {
	if e == nil {
		return nil
	}
	if e.Attributes == nil {
		e.Attributes = make(map[string]interface{})
	}
	e.Attributes[name] = value
	return e
}

// Error implements the error interface.
//
// Format: "[timestamp] op: backend=name key=key: cause"
func (e *StorageError) Error() string {
	if e == nil {
		return "<nil StorageError>"
	}

	return fmt.Sprintf("[%s] %s: backend=%s key=%s: %v",
		e.Timestamp.Format(time.RFC3339),
		e.Op,
		e.Backend,
		e.Key,
		e.Cause)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
