// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/platform/constants"
	"github.com/taibuivan/cinemadb/internal/platform/middleware"
	requestutil "github.com/taibuivan/cinemadb/internal/platform/request"
	"github.com/taibuivan/cinemadb/internal/platform/respond"
	"github.com/taibuivan/cinemadb/internal/platform/sec"
	"github.com/taibuivan/cinemadb/pkg/slice"
)

// CacheEvictor drops cached movie reads after a rating changes.
type CacheEvictor interface {
	EvictByTag(context context.Context, tag string)
}

type rateRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type userRatingResponse struct {
	MovieID uuid.UUID `json:"movieId"`
	Slug    string    `json:"slug"`
	Rating  int       `json:"rating"`
}

type Handler struct {
	service *Service
	cache   CacheEvictor
}

func NewHandler(service *Service, cache CacheEvictor) *Handler {
	return &Handler{service: service, cache: cache}
}

// RegisterMovieRoutes mounts the rating writes under the movie router.
func (handler *Handler) RegisterMovieRoutes(router chi.Router) {
	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireTier(sec.TierMember))

		member.Put("/{id}/ratings", handler.rateMovie)
		member.Delete("/{id}/ratings", handler.deleteRating)
	})
}

// RegisterRoutes mounts the caller's own rating listing.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequireTier(sec.TierMember)).Get("/me", handler.listMine)
}

func (handler *Handler) rateMovie(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	movieID, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input rateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rated, err := handler.service.Rate(request.Context(), movieID, userID, input.Rating)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !rated {
		respond.NotFound(writer, request, "Movie")
		return
	}

	handler.cache.EvictByTag(request.Context(), constants.CacheTagMovies)
	respond.NoContent(writer)
}

func (handler *Handler) deleteRating(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	movieID, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.service.DeleteRating(request.Context(), movieID, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !deleted {
		respond.NotFound(writer, request, "Rating")
		return
	}

	handler.cache.EvictByTag(request.Context(), constants.CacheTagMovies)
	respond.NoContent(writer)
}

func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ratings, err := handler.service.ListForUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, slice.Map(ratings, func(item UserRating) userRatingResponse {
		return userRatingResponse{MovieID: item.MovieID, Slug: item.Slug, Rating: item.Rating}
	}))
}
