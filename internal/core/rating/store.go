// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"

	"github.com/google/uuid"
)

// Aggregator reads rating figures for a movie.
type Aggregator interface {
	GetAggregateRating(context context.Context, movieID uuid.UUID) (*float32, error)
	GetRatingPair(context context.Context, movieID, userID uuid.UUID) (Pair, error)
}

// Repository persists ratings, one per user and movie.
//
// Rate returns false when the movie does not exist. DeleteRating returns false
// when the user had no rating for the movie.
type Repository interface {
	Aggregator

	Rate(context context.Context, movieID, userID uuid.UUID, value int) (bool, error)
	DeleteRating(context context.Context, movieID, userID uuid.UUID) (bool, error)
	ListForUser(context context.Context, userID uuid.UUID) ([]UserRating, error)
}
