// Package textutil provides text processing helpers for the ingestion
// pipeline.
package textutil

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// NormalizeWhitespace collapses whitespace runs to single spaces and
// trims leading/trailing whitespace.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts a string to at most maxLen Unicode characters, keeping
// the left-anchored prefix.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}

// Fingerprint returns the MD5 hex digest of a string. It identifies
// document content, not a security boundary.
func Fingerprint(s string) string {
	hash := md5.Sum([]byte(s))
	return hex.EncodeToString(hash[:])
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
