package errors

import (
	"strings"
	"unicode"
)

// maxSessionIDLength bounds session identifiers accepted from transports.
const maxSessionIDLength = 128

// ValidateSessionID validates a session identifier received from a transport.
// Session IDs end up in file names and storage keys, so the rules are
// conservative:
//   - No empty IDs
//   - Maximum length of 128 bytes
//   - No control characters or whitespace
//   - No path separators or traversal sequences
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSessionID, "session id cannot be empty")
	}

	if len(id) > maxSessionIDLength {
		return New(ErrCodeInvalidSessionID, "session id too long (max %d characters)", maxSessionIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSessionID, "session id contains invalid characters")
		}
	}

	if strings.ContainsAny(id, `/\`) {
		return New(ErrCodeInvalidSessionID, "session id cannot contain path separators")
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidSessionID, "session id cannot contain path traversal sequences (..)")
	}

	return nil
}
