package utils

import "testing"

func TestNormalizeSongID(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Amazing Grace", "amazing-grace"},
		{"  Amazing   Grace ", "amazing-grace"},
		{"song-42", "song-42"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeSongID(tt.in); got != tt.expected {
			t.Errorf("NormalizeSongID(%q): expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  how   sweet\tthe sound "); got != "how sweet the sound" {
		t.Errorf("Expected collapsed string, got %q", got)
	}
}
