// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/taibuivan/cinemadb/internal/core/movie"
	"github.com/taibuivan/cinemadb/internal/core/rating"
	"github.com/taibuivan/cinemadb/internal/platform/apperr"
)

// memoryRepository is an in-memory [movie.Repository] that keeps insertion order.
type memoryRepository struct {
	mu     sync.Mutex
	movies []movie.Movie

	// ratings feed the read joins: movie id -> user id -> rating
	ratings map[uuid.UUID]map[uuid.UUID]int

	writes int
	err    error
}

func newMemoryRepository(movies ...movie.Movie) *memoryRepository {
	return &memoryRepository{movies: movies, ratings: map[uuid.UUID]map[uuid.UUID]int{}}
}

func (repository *memoryRepository) indexOf(id uuid.UUID) int {
	for i, m := range repository.movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (repository *memoryRepository) rated(m movie.Movie, userID *uuid.UUID) movie.Rated {
	result := movie.Rated{Movie: m}
	byUser := repository.ratings[m.ID]
	if len(byUser) > 0 {
		sum := 0
		for _, v := range byUser {
			sum += v
		}
		mean := float32(sum) / float32(len(byUser))
		result.Rating = &mean
	}
	if userID != nil {
		if v, found := byUser[*userID]; found {
			result.UserRating = &v
		}
	}
	return result
}

func (repository *memoryRepository) Create(_ context.Context, m movie.Movie) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return false, repository.err
	}
	for _, existing := range repository.movies {
		if existing.Slug() == m.Slug() {
			return false, apperr.Conflict("The movie already exists in the system", nil)
		}
	}
	repository.writes++
	repository.movies = append(repository.movies, m)
	return true, nil
}

func (repository *memoryRepository) GetByID(_ context.Context, id uuid.UUID, userID *uuid.UUID) (*movie.Rated, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}
	if i := repository.indexOf(id); i >= 0 {
		found := repository.rated(repository.movies[i], userID)
		return &found, nil
	}
	return nil, nil
}

func (repository *memoryRepository) GetBySlug(_ context.Context, slug string, userID *uuid.UUID) (*movie.Rated, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}
	for _, m := range repository.movies {
		if m.Slug() == slug {
			found := repository.rated(m, userID)
			return &found, nil
		}
	}
	return nil, nil
}

func (repository *memoryRepository) filtered(title *string, year *int) []movie.Movie {
	var result []movie.Movie
	for _, m := range repository.movies {
		if title != nil && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(*title)) {
			continue
		}
		if year != nil && m.YearOfRelease != *year {
			continue
		}
		result = append(result, m)
	}
	return result
}

func (repository *memoryRepository) GetAll(_ context.Context, options movie.Options) ([]movie.Rated, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}

	matches := repository.filtered(options.Title, options.Year)

	if options.SortOrder != movie.Unsorted {
		before := func(a, b movie.Movie) bool {
			if options.SortField == movie.SortYear {
				return a.YearOfRelease < b.YearOfRelease
			}
			return a.Title < b.Title
		}
		sort.SliceStable(matches, func(i, j int) bool {
			if options.SortOrder == movie.Descending {
				return before(matches[j], matches[i])
			}
			return before(matches[i], matches[j])
		})
	}

	start := min(options.Offset(), len(matches))
	end := min(start+options.PageSize, len(matches))

	page := []movie.Rated{}
	for _, m := range matches[start:end] {
		page = append(page, repository.rated(m, options.UserID))
	}
	return page, nil
}

func (repository *memoryRepository) Count(_ context.Context, title *string, year *int) (int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return 0, repository.err
	}
	return len(repository.filtered(title, year)), nil
}

func (repository *memoryRepository) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return false, repository.err
	}
	return repository.indexOf(id) >= 0, nil
}

func (repository *memoryRepository) Update(_ context.Context, m movie.Movie) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return false, repository.err
	}
	i := repository.indexOf(m.ID)
	if i < 0 {
		return false, nil
	}
	repository.writes++
	repository.movies[i] = m
	return true, nil
}

func (repository *memoryRepository) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return false, repository.err
	}
	i := repository.indexOf(id)
	if i < 0 {
		return false, nil
	}
	repository.writes++
	repository.movies = append(repository.movies[:i], repository.movies[i+1:]...)
	return true, nil
}

// # Aggregator

// stubAggregator returns fixed figures and records which read was used.
type stubAggregator struct {
	aggregate  *float32
	userRating *int
	err        error

	aggregateCalls int
	pairCalls      int
}

func (aggregator *stubAggregator) GetAggregateRating(context.Context, uuid.UUID) (*float32, error) {
	aggregator.aggregateCalls++
	return aggregator.aggregate, aggregator.err
}

func (aggregator *stubAggregator) GetRatingPair(context.Context, uuid.UUID, uuid.UUID) (rating.Pair, error) {
	aggregator.pairCalls++
	return rating.Pair{Aggregate: aggregator.aggregate, UserRating: aggregator.userRating}, aggregator.err
}

func (aggregator *stubAggregator) calls() int {
	return aggregator.aggregateCalls + aggregator.pairCalls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
