package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateFormat checks that format is one of the supported output formats.
func ValidateFormat(format string, supported []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(supported, format) {
		return New(ErrCodeUnsupported, "unsupported format %q (want one of %s)", format, strings.Join(supported, ", "))
	}
	return nil
}

// ValidateDimensions validates a canvas size.
//
// Both sides must be positive and at most 16384 units, which is the largest
// surface the raster backend allocates.
func ValidateDimensions(width, height float64) error {
	const maxSide = 16384
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "canvas size must be positive, got %gx%g", width, height)
	}
	if width > maxSide || height > maxSide {
		return New(ErrCodeInvalidInput, "canvas size too large (max %d per side)", maxSide)
	}
	return nil
}

// ValidatePath validates an output path given on the command line or in a
// request.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) when relative paths are required
func ValidatePath(path string, relative bool) error {
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

	if relative {
		if strings.HasPrefix(path, "/") {
			return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
		}
		if strings.Contains(path, "..") {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
