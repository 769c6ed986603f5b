// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package movie implements the movie catalog: the entity and its slug, list
options, validation, the service that orchestrates reads and writes, the
Postgres repository and the HTTP handler.

# Persisted core and enriched view

[Movie] is what the repository stores. [Rated] wraps a Movie with the rating
fields assembled at read time. Ratings are never written through this package.
*/
package movie

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/cinemadb/pkg/slug"
)

// Movie is a catalog entry. ID is immutable once assigned.
type Movie struct {
	ID            uuid.UUID
	Title         string
	YearOfRelease int
	Genres        []string
}

// Slug derives the movie's URL identifier from its title and year.
func (m Movie) Slug() string {
	return Slug(m.Title, m.YearOfRelease)
}

// normalized returns a copy with the title trimmed and in Unicode NFC form,
// so visually identical titles count and slug the same way.
func (m Movie) normalized() Movie {
	m.Title = norm.NFC.String(strings.TrimSpace(m.Title))
	m.Genres = append([]string(nil), m.Genres...)
	return m
}

// Rated is a Movie plus its read-time rating fields.
//
// Rating is the mean across all users and is nil when nobody has rated the movie.
// UserRating is the requesting user's own rating and is nil for anonymous reads.
type Rated struct {
	Movie
	Rating     *float32
	UserRating *int
}

// Slug returns the lowercase title with every character outside [0-9A-Za-z _-]
// removed and spaces turned into hyphens, suffixed with "-{year}".
//
//	Slug("The Matrix", 1999) == "the-matrix-1999"
//	Slug("???", 2020)        == "-2020"
func Slug(title string, year int) string {
	return slug.WithYear(title, year)
}

// Field names reported in validation details.
const (
	FieldID            = "id"
	FieldTitle         = "title"
	FieldYearOfRelease = "yearOfRelease"
	FieldGenres        = "genres"
	FieldSlug          = "slug"
	FieldYear          = "year"
	FieldSortBy        = "sortBy"
	FieldPage          = "page"
	FieldPageSize      = "pageSize"
)

// MaxTitleLength is the longest title accepted, in characters.
const MaxTitleLength = 100
