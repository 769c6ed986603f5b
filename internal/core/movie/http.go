// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/platform/apperr"
	"github.com/taibuivan/cinemadb/internal/platform/constants"
	"github.com/taibuivan/cinemadb/internal/platform/middleware"
	"github.com/taibuivan/cinemadb/internal/platform/outputcache"
	requestutil "github.com/taibuivan/cinemadb/internal/platform/request"
	"github.com/taibuivan/cinemadb/internal/platform/respond"
	"github.com/taibuivan/cinemadb/internal/platform/sec"
	"github.com/taibuivan/cinemadb/pkg/pagination"
	"github.com/taibuivan/cinemadb/pkg/slice"
	uuidv7 "github.com/taibuivan/cinemadb/pkg/uuid"
)

// BasePath is where the movie routes are mounted.
const BasePath = "/api/v1/movies"

// ResponseCache is the output cache seen by the handler.
type ResponseCache interface {
	Middleware(policy outputcache.Policy) func(http.Handler) http.Handler
	EvictByTag(context context.Context, tag string)
}

// CachePolicy caches anonymous movie reads for ttl, keyed by the list query parameters.
func CachePolicy(ttl time.Duration) outputcache.Policy {
	return outputcache.Policy{
		Name:        "movies",
		TTL:         ttl,
		VaryByQuery: []string{"title", "year", "sortBy", "page", "pageSize"},
		Tags:        []string{constants.CacheTagMovies},
	}
}

// # DTOs

type movieRequest struct {
	Title         string   `json:"title"`
	YearOfRelease int      `json:"yearOfRelease"`
	Genres        []string `json:"genres"`
}

// Link is a hypermedia control attached to single-movie responses.
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
	Type string `json:"type"`
}

// Response is the wire form of a [Rated] movie.
type Response struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	YearOfRelease int       `json:"yearOfRelease"`
	Genres        []string  `json:"genres"`
	Rating        *float32  `json:"rating,omitempty"`
	UserRating    *int      `json:"userRating,omitempty"`
	Links         []Link    `json:"links,omitempty"`
}

func toResponse(rated Rated) Response {
	genres := rated.Genres
	if genres == nil {
		genres = []string{}
	}
	return Response{
		ID:            rated.ID,
		Title:         rated.Title,
		Slug:          rated.Slug(),
		YearOfRelease: rated.YearOfRelease,
		Genres:        genres,
		Rating:        rated.Rating,
		UserRating:    rated.UserRating,
	}
}

func withLinks(response Response) Response {
	href := BasePath + "/" + response.ID.String()
	response.Links = []Link{
		{Href: href, Rel: "self", Type: http.MethodGet},
		{Href: href, Rel: "self", Type: http.MethodPut},
		{Href: href, Rel: "self", Type: http.MethodDelete},
	}
	return response
}

// # Handler

// Handler serves the movie endpoints.
type Handler struct {
	service *Service
	cache   ResponseCache
	policy  outputcache.Policy
}

// NewHandler creates a new Handler. Reads are cached under policy and writes evict its tags.
func NewHandler(service *Service, cache ResponseCache, policy outputcache.Policy) *Handler {
	return &Handler{service: service, cache: cache, policy: policy}
}

// RegisterRoutes mounts the movie routes on a router already scoped to [BasePath].
func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public, cached
	router.Group(func(public chi.Router) {
		public.Use(handler.cache.Middleware(handler.policy))

		public.Get("/", handler.listMovies)
		public.Get("/{idOrSlug}", handler.getMovie)
	})

	// Trusted members
	router.Group(func(trusted chi.Router) {
		trusted.Use(middleware.RequireTier(sec.TierTrustedMember))

		trusted.Post("/", handler.createMovie)
		trusted.Put("/{id}", handler.updateMovie)
	})

	// Admin strict only
	router.With(middleware.RequireTier(sec.TierAdmin)).Delete("/{id}", handler.deleteMovie)
}

func (handler *Handler) createMovie(writer http.ResponseWriter, request *http.Request) {
	var input movieRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie := Movie{
		ID:            uuidv7.New(),
		Title:         input.Title,
		YearOfRelease: input.YearOfRelease,
		Genres:        input.Genres,
	}

	created, err := handler.service.Create(request.Context(), movie)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !created {
		respond.Error(writer, request, apperr.Internal(errors.New("movie: insert affected no rows")))
		return
	}
	handler.evict(request)

	response := withLinks(toResponse(Rated{Movie: movie.normalized()}))
	respond.Created(writer, BasePath+"/"+movie.ID.String(), response)
}

// getMovie resolves {idOrSlug} as an id when it parses as a UUID, otherwise as a slug.
func (handler *Handler) getMovie(writer http.ResponseWriter, request *http.Request) {
	idOrSlug := requestutil.Param(request, "idOrSlug")
	userID := requestutil.UserID(request)

	var (
		found *Rated
		err   error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		found, err = handler.service.GetByID(request.Context(), id, userID)
	} else {
		found, err = handler.service.GetBySlug(request.Context(), idOrSlug, userID)
	}

	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if found == nil {
		respond.NotFound(writer, request, "Movie")
		return
	}

	respond.OK(writer, withLinks(toResponse(*found)))
}

func (handler *Handler) listMovies(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	options, err := BuildOptions(ListQuery{
		Title:    query.Get("title"),
		Year:     query.Get("year"),
		SortBy:   query.Get("sortBy"),
		Page:     query.Get("page"),
		PageSize: query.Get("pageSize"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	options = options.WithUserID(requestutil.UserID(request))

	movies, err := handler.service.List(request.Context(), options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	total, err := handler.service.Count(request.Context(), options.Title, options.Year)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pagination.NewPage(slice.Map(movies, toResponse), options.Page, options.PageSize, total))
}

func (handler *Handler) updateMovie(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input movieRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie := Movie{
		ID:            id,
		Title:         input.Title,
		YearOfRelease: input.YearOfRelease,
		Genres:        input.Genres,
	}

	updated, err := handler.service.Update(request.Context(), movie, requestutil.UserID(request))

	var mergeErr *RatingMergeError
	if errors.As(err, &mergeErr) {
		handler.evict(request)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if updated == nil {
		respond.NotFound(writer, request, "Movie")
		return
	}

	handler.evict(request)
	respond.OK(writer, withLinks(toResponse(*updated)))
}

func (handler *Handler) deleteMovie(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.service.Delete(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !deleted {
		respond.NotFound(writer, request, "Movie")
		return
	}

	handler.evict(request)
	respond.NoContent(writer)
}

func (handler *Handler) evict(request *http.Request) {
	for _, tag := range handler.policy.Tags {
		handler.cache.EvictByTag(request.Context(), tag)
	}
}
