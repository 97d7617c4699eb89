package util

import (
	"strings"

	"github.com/buildkite/shellwords"
)

// Tokenize splits a command line POSIX-style, so "say main 'a  b'" keeps the
// quoted words together. Unbalanced quotes fall back to whitespace splitting.
func Tokenize(line string) []string {
	parts, err := shellwords.SplitPosix(line)
	if err != nil {
		return strings.Fields(line)
	}
	return parts
}

// StripPrefix returns line without prefix and reports whether it was there.
// Leading whitespace after the prefix is dropped.
func StripPrefix(line, prefix string) (string, bool) {
	line = strings.TrimSpace(line)
	if prefix == "" || !strings.HasPrefix(line, prefix) {
		return "", false
	}
	rest := strings.TrimSpace(line[len(prefix):])
	return rest, rest != ""
}
