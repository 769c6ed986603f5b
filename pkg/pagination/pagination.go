// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination holds the page arithmetic and response envelope shared by list endpoints.
package pagination

import "math"

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// DefaultPageSize is the number of items per page when none is requested.
	DefaultPageSize = 10
	// MaxPageSize is the largest page size a client may request.
	MaxPageSize = 25
	// MaxPage is the largest page whose offset fits in an int at [MaxPageSize].
	MaxPage = math.MaxInt / MaxPageSize
)

// Offset returns the number of rows to skip before the given 1-indexed page.
func Offset(page, pageSize int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// Page is the envelope for a paginated list response.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	Total       int  `json:"total"`
	HasNextPage bool `json:"hasNextPage"`
}

// NewPage wraps items with their position in a result set of total rows.
func NewPage[T any](items []T, page, pageSize, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		HasNextPage: total > page*pageSize,
	}
}
