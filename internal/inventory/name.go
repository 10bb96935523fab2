// ABOUTME: Item name validation shared by every command that takes a name
// ABOUTME: Names must be non-empty and free of the persistence field delimiter

package inventory

import (
	"errors"
	"strings"
)

// Delimiter separates fields in the persistence and audit files.
const Delimiter = ","

var (
	// ErrEmptyName is returned for a blank item name.
	ErrEmptyName = errors.New("item name is empty")

	// ErrNameHasDelimiter is returned when an item name contains the field delimiter.
	ErrNameHasDelimiter = errors.New("item name contains a comma")
)

// ValidateName checks that name can be stored and written to disk.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.Contains(name, Delimiter) {
		return ErrNameHasDelimiter
	}
	return nil
}
