package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("exit status 1")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidInput, "text is %s", "empty"), "INVALID_INPUT: text is empty"},
		{"wrapped", Wrap(ErrCodeRenderFailed, cause, "render png"), "RENDER_FAILED: render png: exit status 1"},
		{"located", Syntax(ErrCodeLabelTooLong, 3, "abcdefghijk", "%q is too long", "abcdefghijk"),
			`LABEL_TOO_LONG: line 3: "abcdefghijk" is too long`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("dot not found")
	err := Wrap(ErrCodeRenderFailed, cause, "render")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestSyntax(t *testing.T) {
	err := Syntax(ErrCodeLabelTooLong, 2, "averylongname", "too long")
	if err.Line != 2 || err.Token != "averylongname" {
		t.Errorf("Syntax() = %+v", err)
	}

	wrapped := fmt.Errorf("parse: %w", err)
	if got := LineOf(wrapped); got != 2 {
		t.Errorf("LineOf(wrapped) = %d, want 2", got)
	}
	if got := LineOf(New(ErrCodeTooManyLines, "51 lines")); got != 0 {
		t.Errorf("LineOf(unlocated) = %d, want 0", got)
	}
	if got := LineOf(errors.New("plain")); got != 0 {
		t.Errorf("LineOf(plain) = %d, want 0", got)
	}
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
	}{
		{"error", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput},
		{"outer code wins", Wrap(ErrCodeRenderFailed, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeRenderFailed},
		{"fmt wrapped", fmt.Errorf("ctx: %w", New(ErrCodeLabelTooLong, "x")), ErrCodeLabelTooLong},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if tt.wantCode != "" && !Is(tt.err, tt.wantCode) {
				t.Errorf("Is(%q) = false", tt.wantCode)
			}
			if Is(tt.err, ErrCodeUnsupported) {
				t.Error("Is(UNSUPPORTED) = true")
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", Wrap(ErrCodeRenderFailed, errors.New("boom"), "could not render"), "could not render"},
		{"located", Syntax(ErrCodeLabelTooLong, 7, "x", "name too long"), "line 7: name too long"},
		{"plain", errors.New("plain error"), "plain error"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsSyntax(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"too many lines", New(ErrCodeTooManyLines, "51 lines"), true},
		{"label too long", Syntax(ErrCodeLabelTooLong, 1, "x", "label"), true},
		{"wrapped label too long", fmt.Errorf("parse: %w", New(ErrCodeLabelTooLong, "label")), true},
		{"render failure", New(ErrCodeRenderFailed, "render"), false},
		{"plain error", errors.New("plain"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSyntax(tt.err); got != tt.want {
				t.Errorf("IsSyntax() = %v, want %v", got, tt.want)
			}
		})
	}
}
