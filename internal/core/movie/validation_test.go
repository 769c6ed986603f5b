// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinemadb/internal/core/movie"
	"github.com/taibuivan/cinemadb/internal/platform/apperr"
)

// fixedClock pins validation to a date inside 2026.
func fixedClock() time.Time {
	return time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
}

func validMovie() movie.Movie {
	return movie.Movie{
		ID:            uuid.New(),
		Title:         "The Matrix",
		YearOfRelease: 1999,
		Genres:        []string{"Action"},
	}
}

func newValidator(repository *memoryRepository) *movie.Validator {
	return movie.NewValidator(movie.LookupBySlug(repository), fixedClock)
}

func TestValidateMovie_Valid(t *testing.T) {
	validator := newValidator(newMemoryRepository())
	assert.NoError(t, validator.ValidateMovie(context.Background(), validMovie()))
}

func TestValidateMovie_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*movie.Movie)
		field   string
		message string
	}{
		{"nil_id", func(m *movie.Movie) { m.ID = uuid.Nil }, movie.FieldID, "Id is required."},
		{"empty_title", func(m *movie.Movie) { m.Title = "" }, movie.FieldTitle, "Title is required."},
		{"title_101_chars", func(m *movie.Movie) { m.Title = strings.Repeat("a", 101) }, movie.FieldTitle, "Title must not exceed 100 characters."},
		{"no_genres", func(m *movie.Movie) { m.Genres = nil }, movie.FieldGenres, "At least one genre is required."},
		{"next_year", func(m *movie.Movie) { m.YearOfRelease = 2027 }, movie.FieldYearOfRelease, "Year of release cannot be in the future."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validMovie()
			tt.mutate(&candidate)

			err := newValidator(newMemoryRepository()).ValidateMovie(context.Background(), candidate)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.field, ae.Details[0].Field)
			assert.Equal(t, tt.message, ae.Details[0].Message)
		})
	}
}

func TestValidateMovie_BoundaryValues(t *testing.T) {
	candidate := validMovie()
	candidate.Title = strings.Repeat("é", 100)
	candidate.YearOfRelease = 2026

	assert.NoError(t, newValidator(newMemoryRepository()).ValidateMovie(context.Background(), candidate))
}

func TestValidateMovie_DuplicateSlug(t *testing.T) {
	existing := validMovie()
	validator := newValidator(newMemoryRepository(existing))

	duplicate := validMovie()
	duplicate.Title = "the matrix"

	err := validator.ValidateMovie(context.Background(), duplicate)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, movie.FieldSlug, ae.Details[0].Field)
	assert.Equal(t, "The movie already exists in the system", ae.Details[0].Message)
}

func TestValidateMovie_OwnSlugAllowed(t *testing.T) {
	existing := validMovie()
	validator := newValidator(newMemoryRepository(existing))

	sameRecord := existing
	sameRecord.Genres = []string{"Action", "Sci-Fi"}

	assert.NoError(t, validator.ValidateMovie(context.Background(), sameRecord))
}

func TestValidateMovie_AggregatesAll(t *testing.T) {
	err := newValidator(newMemoryRepository()).ValidateMovie(context.Background(), movie.Movie{YearOfRelease: 3000})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 4)
}

func TestValidateMovie_LookupFailure(t *testing.T) {
	boom := errors.New("connection refused")
	validator := movie.NewValidator(func(context.Context, string) (*movie.Movie, error) {
		return nil, boom
	}, fixedClock)

	err := validator.ValidateMovie(context.Background(), validMovie())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, apperr.As(err))
}

func TestValidateMovie_ClockDrivesYear(t *testing.T) {
	candidate := validMovie()
	candidate.YearOfRelease = 2027

	newYear := func() time.Time { return time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC) }
	validator := movie.NewValidator(movie.LookupBySlug(newMemoryRepository()), newYear)

	assert.NoError(t, validator.ValidateMovie(context.Background(), candidate))
}
