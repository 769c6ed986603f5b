// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer converts between values and the optional pointers used for nullable fields.
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// NonZero returns nil for the zero value and a pointer to v otherwise.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
