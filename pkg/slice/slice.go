// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice adds the generic Map helper the standard [slices] package lacks.
package slice

// Map applies transform to every element. A nil input yields an empty, non-nil slice
// so JSON responses render [] rather than null.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}
