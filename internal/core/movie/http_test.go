// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinemadb/internal/core/movie"
	"github.com/taibuivan/cinemadb/internal/platform/apperr"
	"github.com/taibuivan/cinemadb/internal/platform/middleware"
	"github.com/taibuivan/cinemadb/internal/platform/outputcache"
	"github.com/taibuivan/cinemadb/internal/platform/sec"
)

const apiKey = "admin-key"

// passthroughCache serves every request fresh and records evictions.
type passthroughCache struct {
	evicted []string
}

func (cache *passthroughCache) Middleware(outputcache.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (cache *passthroughCache) EvictByTag(_ context.Context, tag string) {
	cache.evicted = append(cache.evicted, tag)
}

type httpFixture struct {
	router     http.Handler
	repository *memoryRepository
	aggregator *stubAggregator
	cache      *passthroughCache
	tokens     *sec.TokenService
}

func newHTTPFixture(t *testing.T, seed ...movie.Movie) *httpFixture {
	t.Helper()

	tokens, err := sec.NewTokenService("movie-test-key", "https://id.cinemadb.test", "https://movies.cinemadb.test")
	require.NoError(t, err)

	repository := newMemoryRepository(seed...)
	aggregator := &stubAggregator{}
	cache := &passthroughCache{}
	service := newService(repository, aggregator)
	handler := movie.NewHandler(service, cache, movie.CachePolicy(time.Minute))

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens, apiKey))
	router.Route(movie.BasePath, handler.RegisterRoutes)

	return &httpFixture{router: router, repository: repository, aggregator: aggregator, cache: cache, tokens: tokens}
}

func (f *httpFixture) token(t *testing.T, claims sec.AuthClaims) string {
	t.Helper()
	if claims.UserID == "" {
		claims.UserID = uuid.NewString()
	}
	token, err := f.tokens.IssueToken(claims, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *httpFixture) trusted(t *testing.T) string {
	return f.token(t, sec.AuthClaims{TrustedMember: "true"})
}

func (f *httpFixture) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var payload io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		payload = bytes.NewReader(raw)
	}
	request := httptest.NewRequest(method, path, payload)
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
	return out
}

var matrixBody = map[string]any{"title": "The Matrix", "yearOfRelease": 1999, "genres": []string{"Action"}}

func TestCreateMovie_Authorization(t *testing.T) {
	f := newHTTPFixture(t)

	anonymous := f.do(http.MethodPost, "/api/v1/movies", matrixBody, nil)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	member := f.do(http.MethodPost, "/api/v1/movies", matrixBody, bearer(f.token(t, sec.AuthClaims{})))
	assert.Equal(t, http.StatusForbidden, member.Code)

	assert.Zero(t, f.repository.writes)
}

func TestCreateMovie(t *testing.T) {
	f := newHTTPFixture(t)

	recorder := f.do(http.MethodPost, "/api/v1/movies", matrixBody, bearer(f.trusted(t)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	created := decode[movie.Response](t, recorder)
	assert.Equal(t, "the-matrix-1999", created.Slug)
	assert.Equal(t, []string{"Action"}, created.Genres)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, uuid.Version(7), created.ID.Version())
	assert.Equal(t, "/api/v1/movies/"+created.ID.String(), recorder.Header().Get("Location"))
	assert.Len(t, created.Links, 3)
	assert.Equal(t, []string{"movies"}, f.cache.evicted)

	duplicate := f.do(http.MethodPost, "/api/v1/movies", matrixBody, bearer(f.trusted(t)))
	assert.Equal(t, http.StatusBadRequest, duplicate.Code)
	assert.Contains(t, duplicate.Body.String(), "The movie already exists in the system")
}

func TestCreateMovie_Validation(t *testing.T) {
	f := newHTTPFixture(t)

	body := map[string]any{"title": "", "yearOfRelease": 1999, "genres": []string{}}
	recorder := f.do(http.MethodPost, "/api/v1/movies", body, bearer(f.trusted(t)))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	envelope := decode[struct {
		Code    string              `json:"code"`
		Details []apperr.FieldError `json:"details"`
	}](t, recorder)
	assert.Equal(t, apperr.CodeValidation, envelope.Code)
	assert.Len(t, envelope.Details, 2)
	assert.Empty(t, f.cache.evicted)
}

func TestGetMovie_ByIDOrSlug(t *testing.T) {
	matrix := validMovie()
	f := newHTTPFixture(t, matrix)

	byID := f.do(http.MethodGet, "/api/v1/movies/"+matrix.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, byID.Code)
	assert.Equal(t, matrix.ID, decode[movie.Response](t, byID).ID)

	bySlug := f.do(http.MethodGet, "/api/v1/movies/the-matrix-1999", nil, nil)
	require.Equal(t, http.StatusOK, bySlug.Code)
	response := decode[movie.Response](t, bySlug)
	assert.Equal(t, matrix.ID, response.ID)
	require.Len(t, response.Links, 3)
	assert.Equal(t, movie.Link{Href: "/api/v1/movies/" + matrix.ID.String(), Rel: "self", Type: "GET"}, response.Links[0])

	missing := f.do(http.MethodGet, "/api/v1/movies/nonexistent-0000", nil, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestGetMovie_UserRatingNeedsToken(t *testing.T) {
	matrix := validMovie()
	f := newHTTPFixture(t, matrix)
	userID := uuid.New()
	f.repository.ratings[matrix.ID] = map[uuid.UUID]int{userID: 5}

	anonymous := decode[map[string]any](t, f.do(http.MethodGet, "/api/v1/movies/the-matrix-1999", nil, nil))
	assert.EqualValues(t, 5, anonymous["rating"])
	assert.NotContains(t, anonymous, "userRating")

	token := f.token(t, sec.AuthClaims{UserID: userID.String()})
	personal := decode[map[string]any](t, f.do(http.MethodGet, "/api/v1/movies/the-matrix-1999", nil, bearer(token)))
	assert.EqualValues(t, 5, personal["userRating"])
}

func TestListMovies(t *testing.T) {
	f := newHTTPFixture(t)
	for _, title := range []string{"Alien", "Aliens", "Heat"} {
		f.repository.movies = append(f.repository.movies, movie.Movie{ID: uuid.New(), Title: title, YearOfRelease: 1986, Genres: []string{"Action"}})
	}

	recorder := f.do(http.MethodGet, "/api/v1/movies?title=alien&sortBy=-title&pageSize=1", nil, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	page := decode[struct {
		Items       []movie.Response `json:"items"`
		Page        int              `json:"page"`
		PageSize    int              `json:"pageSize"`
		Total       int              `json:"total"`
		HasNextPage bool             `json:"hasNextPage"`
	}](t, recorder)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Aliens", page.Items[0].Title)
	assert.Empty(t, page.Items[0].Links)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.PageSize)
	assert.Equal(t, 2, page.Total)
	assert.True(t, page.HasNextPage)
}

func TestListMovies_InvalidQuery(t *testing.T) {
	f := newHTTPFixture(t)

	recorder := f.do(http.MethodGet, "/api/v1/movies?sortBy=rating&pageSize=50", nil, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"field":"sortBy"`)
	assert.Contains(t, recorder.Body.String(), `"field":"pageSize"`)
}

func TestUpdateMovie(t *testing.T) {
	matrix := validMovie()
	f := newHTTPFixture(t, matrix)
	body := map[string]any{"title": "The Matrix", "yearOfRelease": 1999, "genres": []string{"Action", "Sci-Fi"}}

	recorder := f.do(http.MethodPut, "/api/v1/movies/"+matrix.ID.String(), body, bearer(f.trusted(t)))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, decode[movie.Response](t, recorder).Genres)
	assert.Equal(t, []string{"movies"}, f.cache.evicted)
	assert.Equal(t, 1, f.aggregator.pairCalls, "token carries a user id")

	unseen := map[string]any{"title": "Dark City", "yearOfRelease": 1998, "genres": []string{"Sci-Fi"}}
	missing := f.do(http.MethodPut, "/api/v1/movies/"+uuid.NewString(), unseen, bearer(f.trusted(t)))
	assert.Equal(t, http.StatusNotFound, missing.Code)

	// Validation runs before the existence check, so a taken slug on an unknown id is a 400.
	collision := f.do(http.MethodPut, "/api/v1/movies/"+uuid.NewString(), body, bearer(f.trusted(t)))
	assert.Equal(t, http.StatusBadRequest, collision.Code)
	assert.Contains(t, collision.Body.String(), `"field":"slug"`)

	malformed := f.do(http.MethodPut, "/api/v1/movies/not-a-uuid", body, bearer(f.trusted(t)))
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
}

func TestUpdateMovie_RatingMergeFailureStillEvicts(t *testing.T) {
	matrix := validMovie()
	f := newHTTPFixture(t, matrix)
	f.aggregator.err = apperr.Unavailable("Ratings are temporarily unavailable", errors.New("breaker open"))

	body := map[string]any{"title": "The Matrix Revisited", "yearOfRelease": 2001, "genres": []string{"Documentary"}}
	recorder := f.do(http.MethodPut, "/api/v1/movies/"+matrix.ID.String(), body, bearer(f.trusted(t)))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, []string{"movies"}, f.cache.evicted)
	assert.Equal(t, 1, f.repository.writes)
}

func TestDeleteMovie(t *testing.T) {
	matrix := validMovie()
	f := newHTTPFixture(t, matrix)
	path := "/api/v1/movies/" + matrix.ID.String()

	trusted := f.do(http.MethodDelete, path, nil, bearer(f.trusted(t)))
	assert.Equal(t, http.StatusForbidden, trusted.Code)

	admin := f.do(http.MethodDelete, path, nil, map[string]string{"x-api-key": apiKey})
	assert.Equal(t, http.StatusNoContent, admin.Code)
	assert.Equal(t, []string{"movies"}, f.cache.evicted)

	again := f.do(http.MethodDelete, path, nil, bearer(f.token(t, sec.AuthClaims{Admin: "true"})))
	assert.Equal(t, http.StatusNotFound, again.Code)
}
