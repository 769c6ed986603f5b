// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/platform/validate"
)

type Service struct {
	repository Repository
	logger     *slog.Logger
}

func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// Rate records userID's rating of movieID, replacing any earlier one.
// It returns false when the movie does not exist.
func (service *Service) Rate(context context.Context, movieID, userID uuid.UUID, value int) (bool, error) {
	validator := &validate.Validator{}
	validator.Range(FieldRating, value, MinRating, MaxRating)
	if err := validator.Err(); err != nil {
		return false, err
	}

	rated, err := service.repository.Rate(context, movieID, userID, value)
	if err != nil || !rated {
		return false, err
	}

	service.logger.InfoContext(context, "rating_submitted",
		slog.String("movie_id", movieID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("rating", value),
	)
	return true, nil
}

// DeleteRating removes userID's rating of movieID. It returns false when there was none.
func (service *Service) DeleteRating(context context.Context, movieID, userID uuid.UUID) (bool, error) {
	deleted, err := service.repository.DeleteRating(context, movieID, userID)
	if err != nil || !deleted {
		return false, err
	}

	service.logger.InfoContext(context, "rating_deleted",
		slog.String("movie_id", movieID.String()),
		slog.String("user_id", userID.String()),
	)
	return true, nil
}

func (service *Service) ListForUser(context context.Context, userID uuid.UUID) ([]UserRating, error) {
	return service.repository.ListForUser(context, userID)
}
