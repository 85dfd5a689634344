package errors

import (
	stderrors "errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageErrorNilCause(t *testing.T) {
	assert.Nil(t, NewStorageError("save", "file", "k", nil))
}

func TestStorageErrorMessage(t *testing.T) {
	err := NewStorageError("save", "file", "doc", fs.ErrPermission)
	require.NotNil(t, err)

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "["))
	assert.Contains(t, msg, "save: backend=file key=doc: ")
	assert.Contains(t, msg, fs.ErrPermission.Error())
}

func TestStorageErrorUnwrap(t *testing.T) {
	var wrapped error = NewStorageError("clear", "sqlite", "doc", fs.ErrNotExist)

	assert.True(t, stderrors.Is(wrapped, fs.ErrNotExist))

	var se *StorageError
	require.True(t, stderrors.As(wrapped, &se))
	assert.Equal(t, "sqlite", se.Backend)
}

func TestStorageErrorAttrs(t *testing.T) {
	err := NewStorageError("save", "file", "doc", fs.ErrClosed).WithAttr("bytes", 42)
	assert.Equal(t, 42, err.Attributes["bytes"])

	var nilErr *StorageError
	assert.Nil(t, nilErr.WithAttr("x", 1))
	assert.Equal(t, "<nil StorageError>", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}
