// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"

	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/core/rating"
)

// Repository persists movies. Lookups return nil, nil when nothing matches.
//
// Reads attach the aggregate rating and, when userID is non-nil, that user's rating.
type Repository interface {
	Create(context context.Context, movie Movie) (bool, error)
	GetByID(context context.Context, id uuid.UUID, userID *uuid.UUID) (*Rated, error)
	GetBySlug(context context.Context, slug string, userID *uuid.UUID) (*Rated, error)
	GetAll(context context.Context, options Options) ([]Rated, error)
	Count(context context.Context, title *string, year *int) (int, error)
	ExistsByID(context context.Context, id uuid.UUID) (bool, error)
	Update(context context.Context, movie Movie) (bool, error)
	DeleteByID(context context.Context, id uuid.UUID) (bool, error)
}

// RatingAggregator reads the rating figures merged into an updated movie.
type RatingAggregator interface {
	GetAggregateRating(context context.Context, movieID uuid.UUID) (*float32, error)
	GetRatingPair(context context.Context, movieID, userID uuid.UUID) (rating.Pair, error)
}
