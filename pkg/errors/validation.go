package errors

import (
	"strings"
	"unicode"
)

// ValidateUpgradeID validates an upgrade identifier. Any non-empty string is
// a valid ID, including ones with spaces or slashes. Code that turns an ID
// into a file name or URL path must escape or hash it.
func ValidateUpgradeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "upgrade id cannot be empty")
	}
	return nil
}

// ValidateSlotName validates a save slot name. Slots are stored as files by
// the file store, so the name must be a simple basename.
func ValidateSlotName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "slot name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "slot name too long (max 128 characters)")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "slot name cannot contain path separators")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInput, "slot name cannot start with a dot")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "slot name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a relative file path, such as a catalog file named
// inside a configuration file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURI checks that uri is non-empty and uses one of the given schemes.
func ValidateURI(uri string, schemes ...string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "URI cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(uri, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URI %q must use one of the schemes %v", uri, schemes)
}
