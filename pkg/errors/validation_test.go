package errors

import (
	"strings"
	"testing"
)

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "6f1c2b1e-8d4a-4f5e-9a53-0d6b3c7e2a10", false},
		{"numeric chat id", "123456789", false},
		{"prefixed", "telegram:42", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"slash", "foo/bar", true},
		{"backslash", `foo\bar`, true},
		{"traversal", "..", true},
		{"null byte", "foo\x00bar", true},
		{"space", "foo bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSessionID) {
				t.Errorf("ValidateSessionID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidSessionID)
			}
		})
	}
}
