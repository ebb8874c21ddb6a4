package errors

import (
	"strings"
	"unicode"
)

// ValidateMinSupport checks an absolute support threshold.
func ValidateMinSupport(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidThreshold, "min support must be at least 1, got %d", n)
	}
	return nil
}

// ValidateLimits checks the optional pattern-count and pattern-length caps.
// Zero disables a cap.
func ValidateLimits(topK, maxLength int) error {
	if topK < 0 {
		return New(ErrCodeInvalidThreshold, "top-k cannot be negative, got %d", topK)
	}
	if maxLength < 0 {
		return New(ErrCodeInvalidThreshold, "max length cannot be negative, got %d", maxLength)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed, case-insensitively,
// and returns it lowercased.
func ValidateFormat(format string, allowed ...string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
