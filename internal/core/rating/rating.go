// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package rating stores per-user movie ratings and serves the aggregate reads
// the movie service merges into updated movies.
package rating

import "github.com/google/uuid"

// Bounds of a single rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Pair is the transient result of a rating read.
//
// Aggregate is the mean of all ratings rounded to one decimal, nil when there are none.
// UserRating is one user's rating, nil when that user has not rated the movie.
type Pair struct {
	Aggregate  *float32
	UserRating *int
}

// UserRating is one of a user's ratings, with the rated movie's slug for display.
type UserRating struct {
	MovieID uuid.UUID
	Slug    string
	Rating  int
}

// Field names reported in validation details.
const (
	FieldRating = "rating"
)
