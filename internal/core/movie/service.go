// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/platform/apperr"
	"github.com/taibuivan/cinemadb/internal/platform/metrics"
)

// RatingMergeError reports that an update committed but its rating read failed.
//
// The write is not rolled back. Callers must treat the movie as changed
// (for example, evict cached reads) while still failing the request.
type RatingMergeError struct {
	Movie Movie
	Cause error
}

func (e *RatingMergeError) Error() string {
	return fmt.Sprintf("movie %s updated but rating merge failed: %v", e.Movie.ID, e.Cause)
}

func (e *RatingMergeError) Unwrap() error { return e.Cause }

/*
Service orchestrates validation, persistence and rating merges for movies.

Every operation is a strict sequence of store calls. Absence is reported as a
nil result or false, never as an error.
*/
type Service struct {
	repository Repository
	ratings    RatingAggregator
	validator  *Validator
	logger     *slog.Logger
}

// NewService creates a new movie Service.
func NewService(repository Repository, ratings RatingAggregator, validator *Validator, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		ratings:    ratings,
		validator:  validator,
		logger:     logger,
	}
}

// Create validates movie and stores it.
func (service *Service) Create(context context.Context, movie Movie) (bool, error) {
	movie = movie.normalized()

	if err := service.validator.ValidateMovie(context, movie); err != nil {
		record("create", err, true)
		return false, err
	}

	created, err := service.repository.Create(context, movie)
	record("create", err, created)
	if err != nil {
		return false, err
	}

	if created {
		service.logger.InfoContext(context, "movie_created",
			slog.String("movie_id", movie.ID.String()),
			slog.String("slug", movie.Slug()),
		)
	}
	return created, nil
}

// GetByID returns the movie with id, or nil.
func (service *Service) GetByID(context context.Context, id uuid.UUID, userID *uuid.UUID) (*Rated, error) {
	movie, err := service.repository.GetByID(context, id, userID)
	record("get", err, movie != nil)
	return movie, err
}

// GetBySlug returns the movie with slug, or nil.
func (service *Service) GetBySlug(context context.Context, slug string, userID *uuid.UUID) (*Rated, error) {
	movie, err := service.repository.GetBySlug(context, slug, userID)
	record("get", err, movie != nil)
	return movie, err
}

/*
Update validates and stores movie, then reads its ratings back.

Flow:
 1. Validate (the slug may collide only with the movie's own record).
 2. Return nil if no movie has the id. Nothing is written and no rating is read.
 3. Store the new title, year and genres.
 4. Read the aggregate rating, plus the caller's own rating when userID is set.

Returns:
  - *Rated: the stored movie with rating fields from the post-update read
  - error: *RatingMergeError when step 4 fails after step 3 committed
*/
func (service *Service) Update(context context.Context, movie Movie, userID *uuid.UUID) (*Rated, error) {
	movie = movie.normalized()

	if err := service.validator.ValidateMovie(context, movie); err != nil {
		record("update", err, true)
		return nil, err
	}

	exists, err := service.repository.ExistsByID(context, movie.ID)
	if err != nil || !exists {
		record("update", err, exists)
		return nil, err
	}

	updated, err := service.repository.Update(context, movie)
	if err != nil || !updated {
		record("update", err, updated)
		return nil, err
	}

	service.logger.InfoContext(context, "movie_updated",
		slog.String("movie_id", movie.ID.String()),
		slog.String("slug", movie.Slug()),
	)

	rated, err := service.mergeRating(context, movie, userID)
	if err != nil {
		service.logger.ErrorContext(context, "movie_rating_merge_failed",
			slog.String("movie_id", movie.ID.String()),
			slog.Any("error", err),
		)
		record("update", err, true)
		return nil, &RatingMergeError{Movie: movie, Cause: err}
	}

	record("update", nil, true)
	return rated, nil
}

func (service *Service) mergeRating(context context.Context, movie Movie, userID *uuid.UUID) (*Rated, error) {
	rated := &Rated{Movie: movie}

	if userID == nil {
		aggregate, err := service.ratings.GetAggregateRating(context, movie.ID)
		if err != nil {
			return nil, err
		}
		rated.Rating = aggregate
		return rated, nil
	}

	pair, err := service.ratings.GetRatingPair(context, movie.ID, *userID)
	if err != nil {
		return nil, err
	}
	rated.Rating = pair.Aggregate
	rated.UserRating = pair.UserRating
	return rated, nil
}

// Delete removes the movie with id. It returns false when there was none.
func (service *Service) Delete(context context.Context, id uuid.UUID) (bool, error) {
	deleted, err := service.repository.DeleteByID(context, id)
	record("delete", err, deleted)
	if err != nil {
		return false, err
	}

	if deleted {
		service.logger.WarnContext(context, "movie_deleted", slog.String("movie_id", id.String()))
	}
	return deleted, nil
}

// List returns one page of movies. Pair it with [Service.Count] using the same title and year.
func (service *Service) List(context context.Context, options Options) ([]Rated, error) {
	if err := ValidateOptions(options); err != nil {
		record("list", err, true)
		return nil, err
	}

	movies, err := service.repository.GetAll(context, options)
	record("list", err, true)
	return movies, err
}

// Count returns the number of movies matching the filters, ignoring pagination.
func (service *Service) Count(context context.Context, title *string, year *int) (int, error) {
	return service.repository.Count(context, title, year)
}

// record counts one operation outcome.
func record(operation string, err error, found bool) {
	switch {
	case apperr.HasCode(err, apperr.CodeValidation):
		metrics.RecordMovieOperation(operation, metrics.OutcomeInvalid)
	case err != nil:
		metrics.RecordMovieOperation(operation, metrics.OutcomeError)
	case !found:
		metrics.RecordMovieOperation(operation, metrics.OutcomeNotFound)
	default:
		metrics.RecordMovieOperation(operation, metrics.OutcomeOK)
	}
}
