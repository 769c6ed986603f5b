// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Business rules (title length, release year, slug uniqueness) run in the service
// layer through [Validator]. Request DTO shape checks run at the boundary through
// [Struct], which uses struct tags.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. Create one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, message)
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int, message string) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, message)
	}
	return v
}

// NotEmpty fails if the collection has no elements.
func NotEmpty[T any](v *Validator, field string, values []T, message string) *Validator {
	if len(values) == 0 {
		v.add(field, message)
	}
	return v
}

// AtMost fails if value is greater than max.
func (v *Validator) AtMost(field string, value, max int, message string) *Validator {
	if value > max {
		v.add(field, message)
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// NonNilUUID fails if id is the zero UUID.
func (v *Validator) NonNilUUID(field string, id uuid.UUID, message string) *Validator {
	if id == uuid.Nil {
		v.add(field, message)
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
//	v.Custom("slug", taken, "The movie already exists in the system")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a VALIDATION_ERROR [apperr.AppError] if any rule failed, nil otherwise.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// FieldErr is a shortcut for a single-field validation error.
func FieldErr(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
