// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives URL-safe identifiers from titles.
//
// # Rules
//
// Only ASCII letters, digits, spaces, underscores and hyphens survive. Everything
// else is dropped, not transliterated, so "Amélie" becomes "amlie". Casing uses
// ASCII rules only and never depends on the process locale.
package slug

import (
	"strconv"
	"strings"
)

// From strips disallowed characters, lowercases the rest and turns each space into a hyphen.
//
// Runs of spaces are not collapsed: "a  b" becomes "a--b".
func From(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			builder.WriteByte(c + ('a' - 'A'))
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
			builder.WriteByte(c)
		case c == ' ':
			builder.WriteByte('-')
		}
	}

	return builder.String()
}

// WithYear returns From(s) suffixed with "-{year}".
func WithYear(s string, year int) string {
	return From(s) + "-" + strconv.Itoa(year)
}
