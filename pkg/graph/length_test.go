package graph

import "testing"

func TestDisplayLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"cyrillic", "привет", 6},
		{"precomposed accent", "\u00e9", 1},
		{"combining accent", "e\u0301", 1},
		{"stacked combining marks", "a\u0301\u0308", 1},
		{"flag", "\U0001F1FA\U0001F1E6", 1},
		{"family emoji", "\U0001F468\u200D\U0001F469\u200D\U0001F467", 1},
		{"skin tone", "\U0001F44D\U0001F3FD", 1},
		{"hangul jamo", "\u1100\u1161\u11a8", 1},
		{"crlf", "\r\n", 1},
		{"mixed", "Café ☕", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayLength(tt.input); got != tt.want {
				t.Errorf("DisplayLength(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
