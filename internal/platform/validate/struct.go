// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/cinemadb/internal/platform/apperr"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// engine returns the process-wide validator. Struct metadata is cached after first use.
func engine() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names instead of Go field names.
		structValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return structValidator
}

// Struct validates a request DTO against its `validate` tags.
//
// Failures are returned as a VALIDATION_ERROR with one detail per failing field,
// in the same shape as [Validator.Err].
func Struct(target any) error {
	err := engine().Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperr.Internal(fmt.Errorf("validate: %w", err))
	}

	details := make([]apperr.FieldError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, apperr.FieldError{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}

	return apperr.ValidationError("Validation failed", details...)
}

// describe turns a tag failure into a client-facing message.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min", "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Failed the %q rule", fe.Tag())
	}
}
