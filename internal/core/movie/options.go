// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/platform/validate"
	"github.com/taibuivan/cinemadb/pkg/pagination"
	"github.com/taibuivan/cinemadb/pkg/pointer"
)

// SortOrder is the direction of a list query.
type SortOrder int

const (
	// Unsorted keeps the store's default order.
	Unsorted SortOrder = iota
	Ascending
	Descending
)

// SortField names a sortable column.
type SortField string

const (
	SortNone  SortField = ""
	SortTitle SortField = "title"
	SortYear  SortField = "year"
)

// Options is a validated list query. Build it with [BuildOptions].
type Options struct {
	Title     *string
	Year      *int
	UserID    *uuid.UUID
	SortField SortField
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// WithUserID returns a copy of options that attaches ratings for userID.
func (options Options) WithUserID(userID *uuid.UUID) Options {
	options.UserID = userID
	return options
}

// Offset is the number of rows to skip for the requested page.
func (options Options) Offset() int {
	return pagination.Offset(options.Page, options.PageSize)
}

// ListQuery carries the raw list parameters as they arrived on the wire.
// Empty strings mean "not supplied".
type ListQuery struct {
	Title    string
	Year     string
	SortBy   string
	Page     string
	PageSize string
}

/*
BuildOptions parses and validates a raw list query.

Defaults: page 1, page size 10, unsorted. SortBy is an optional '+' or '-'
prefix followed by "title" or "year" (case-insensitive); no prefix is ascending.

Returns:
  - error: VALIDATION_ERROR aggregating every malformed or out-of-range parameter
*/
func BuildOptions(query ListQuery) (Options, error) {
	validator := &validate.Validator{}

	options := Options{
		Page:     pagination.DefaultPage,
		PageSize: pagination.DefaultPageSize,
	}

	options.Title = pointer.NonZero(query.Title)

	if query.Year != "" {
		year, err := strconv.Atoi(query.Year)
		validator.Custom(FieldYear, err != nil, "Must be a whole number")
		if err == nil {
			options.Year = &year
		}
	}

	if query.Page != "" {
		page, err := strconv.Atoi(query.Page)
		validator.Custom(FieldPage, err != nil, "Must be a whole number")
		if err == nil {
			options.Page = page
		}
	}

	if query.PageSize != "" {
		pageSize, err := strconv.Atoi(query.PageSize)
		validator.Custom(FieldPageSize, err != nil, "Must be a whole number")
		if err == nil {
			options.PageSize = pageSize
		}
	}

	options.SortField, options.SortOrder = parseSortBy(query.SortBy)

	checkOptions(validator, options)
	if err := validator.Err(); err != nil {
		return Options{}, err
	}
	return options, nil
}

// parseSortBy splits "[+|-]field". An unknown field is returned as-is for [checkOptions] to reject.
func parseSortBy(raw string) (SortField, SortOrder) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SortNone, Unsorted
	}

	order := Ascending
	switch raw[0] {
	case '-':
		order = Descending
		raw = raw[1:]
	case '+':
		raw = raw[1:]
	}

	return SortField(strings.ToLower(raw)), order
}

// ValidateOptions checks an [Options] value built outside [BuildOptions].
func ValidateOptions(options Options) error {
	return checkOptions(&validate.Validator{}, options).Err()
}

func checkOptions(validator *validate.Validator, options Options) *validate.Validator {
	validator.Custom(FieldSortBy,
		options.SortField != SortNone && options.SortField != SortTitle && options.SortField != SortYear,
		"You can only sort by 'title' or 'year'")
	validator.Custom(FieldSortBy,
		options.SortField == SortNone && options.SortOrder != Unsorted,
		"A sort direction requires a sort field")
	validator.Custom(FieldPage, options.Page < 1, "Must be at least 1")
	validator.Custom(FieldPage, options.Page > pagination.MaxPage, fmt.Sprintf("Must be at most %d", pagination.MaxPage))
	validator.Range(FieldPageSize, options.PageSize, 1, pagination.MaxPageSize)
	return validator
}
