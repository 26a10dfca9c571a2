package utils

import "strings"

// NormalizeSongID canonicalizes a song identifier for use as a storage
// key: lowercased, trimmed, inner whitespace collapsed to single
// hyphens. "  Amazing   Grace " and "amazing grace" address the same
// presets.
func NormalizeSongID(id string) string {
	fields := strings.Fields(strings.ToLower(id))
	return strings.Join(fields, "-")
}

// CollapseWhitespace trims a string and folds runs of whitespace into
// single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
