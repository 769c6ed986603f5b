// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/platform/validate"
)

// SlugLookup finds the movie currently holding slug, or returns nil when the slug is free.
type SlugLookup func(context context.Context, slug string) (*Movie, error)

// Clock reports the current time. Validation reads the year from it.
type Clock func() time.Time

// LookupBySlug adapts a [Repository] into a [SlugLookup].
func LookupBySlug(repository Repository) SlugLookup {
	return func(context context.Context, slug string) (*Movie, error) {
		found, err := repository.GetBySlug(context, slug, nil)
		if err != nil || found == nil {
			return nil, err
		}
		return &found.Movie, nil
	}
}

// Validator enforces the movie field rules and slug uniqueness.
//
// The uniqueness check is a read before the write. Two concurrent creates can
// both pass it, and the store's unique slug index decides the race.
type Validator struct {
	lookup SlugLookup
	now    Clock
}

// NewValidator creates a Validator. A nil clock means [time.Now].
func NewValidator(lookup SlugLookup, now Clock) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{lookup: lookup, now: now}
}

/*
ValidateMovie runs every rule against movie and reports all failures together.

The slug may already exist only when it belongs to a movie with the same id,
which is the update-in-place case.

Returns:
  - error: VALIDATION_ERROR with one detail per failed rule
  - error: the lookup's error when the slug query itself fails
*/
func (validator *Validator) ValidateMovie(context context.Context, movie Movie) error {
	checks := &validate.Validator{}

	checks.NonNilUUID(FieldID, movie.ID, "Id is required.")
	validate.NotEmpty(checks, FieldGenres, movie.Genres, "At least one genre is required.")
	checks.Required(FieldTitle, movie.Title, "Title is required.").
		MaxLen(FieldTitle, movie.Title, MaxTitleLength, fmt.Sprintf("Title must not exceed %d characters.", MaxTitleLength)).
		AtMost(FieldYearOfRelease, movie.YearOfRelease, validator.now().Year(), "Year of release cannot be in the future.")

	existing, err := validator.lookup(context, movie.Slug())
	if err != nil {
		return err
	}
	checks.Custom(FieldSlug, taken(existing, movie.ID), "The movie already exists in the system")

	return checks.Err()
}

func taken(existing *Movie, id uuid.UUID) bool {
	return existing != nil && existing.ID != id
}
