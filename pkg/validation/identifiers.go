// Package validation checks user-provided names before they reach storage.
package validation

import "fmt"

// MaxKeyLength bounds storage keys so they stay usable as file names.
const MaxKeyLength = 128

// IsValidIdentifierChar reports whether ch may appear in a storage key
// (alphanumeric, hyphen, or underscore).
func IsValidIdentifierChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '_'
}

// ValidateKey rejects storage keys that are empty, too long, or contain
// characters that could escape the storage directory.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("storage key exceeds %d characters", MaxKeyLength)
	}
	for _, ch := range key {
		if !IsValidIdentifierChar(ch) {
			return fmt.Errorf("storage key %q contains invalid character %q", key, ch)
		}
	}
	return nil
}
