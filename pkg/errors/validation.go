package errors

import (
	"strings"
	"unicode"
)

// maxHandleLength bounds window handles accepted from external input.
const maxHandleLength = 256

// ValidateWindowHandle validates a window handle received from outside the
// process (HTTP requests, scenario files).
//
// The validation rules are intentionally conservative:
//   - No empty handles
//   - No control characters or null bytes
//   - No path separators (handles appear in URL paths)
//   - Maximum length of 256 characters
func ValidateWindowHandle(h string) error {
	if h == "" {
		return New(ErrCodeInvalidHandle, "window handle cannot be empty")
	}

	if len(h) > maxHandleLength {
		return New(ErrCodeInvalidHandle, "window handle too long (max %d characters)", maxHandleLength)
	}

	for _, r := range h {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidHandle, "window handle contains invalid control characters")
		}
	}

	if strings.ContainsAny(h, "/\\") {
		return New(ErrCodeInvalidHandle, "window handle cannot contain path separators")
	}

	return nil
}

// ValidateCommand validates a layout command string before it reaches the
// engine. It only rejects malformed input; unknown but well-formed keywords
// are passed through and ignored by the engine.
func ValidateCommand(cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return New(ErrCodeInvalidCommand, "command cannot be empty")
	}

	if len(cmd) > 64 {
		return New(ErrCodeInvalidCommand, "command too long (max 64 characters)")
	}

	for _, r := range cmd {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCommand, "command contains invalid control characters")
		}
	}

	return nil
}
