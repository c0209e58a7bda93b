// Package utils holds small helpers shared by the HTTP handlers.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 integer, returning def on empty or
// malformed input. Used for query-string pagination parameters.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// ParseUint parses s as an unsigned id. ok is false on empty, malformed, or
// zero input.
func ParseUint(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
