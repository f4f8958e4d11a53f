package tui

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{
			name: "shorter than max",
			in:   "hello",
			max:  10,
			want: "hello",
		},
		{
			name: "exactly max",
			in:   "hello",
			max:  5,
			want: "hello",
		},
		{
			name: "ascii cut",
			in:   "hello world",
			max:  8,
			want: "hello...",
		},
		{
			name: "multi-byte runes stay intact",
			in:   "héllö wörld désc",
			max:  8,
			want: "héllö...",
		},
		{
			name: "wide runes",
			in:   "日本語のテキストです",
			max:  6,
			want: "日本語...",
		},
		{
			name: "tiny max",
			in:   "hello",
			max:  2,
			want: "he",
		},
		{
			name: "empty",
			in:   "",
			max:  5,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tt.in, tt.max, got)
			}
		})
	}
}
