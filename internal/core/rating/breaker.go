// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/taibuivan/cinemadb/internal/platform/apperr"
)

// Breaker settings for aggregator reads.
const (
	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
	breakerHalfOpenRequests = 1
)

// BreakerAggregator guards an [Aggregator] with a circuit breaker.
//
// After five consecutive failures reads fail fast with SERVICE_UNAVAILABLE for
// 30 seconds, then a single probe decides whether the breaker closes again.
// Cancelled requests do not count as failures.
type BreakerAggregator struct {
	next    Aggregator
	breaker *gobreaker.CircuitBreaker[Pair]
}

// NewBreakerAggregator wraps next. State changes are logged on logger.
func NewBreakerAggregator(next Aggregator, logger *slog.Logger) *BreakerAggregator {
	settings := gobreaker.Settings{
		Name:        "rating_aggregator",
		MaxRequests: breakerHalfOpenRequests,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit_breaker_state_changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &BreakerAggregator{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[Pair](settings),
	}
}

func (aggregator *BreakerAggregator) GetAggregateRating(context context.Context, movieID uuid.UUID) (*float32, error) {
	pair, err := aggregator.execute(func() (Pair, error) {
		aggregate, err := aggregator.next.GetAggregateRating(context, movieID)
		return Pair{Aggregate: aggregate}, err
	})
	return pair.Aggregate, err
}

func (aggregator *BreakerAggregator) GetRatingPair(context context.Context, movieID, userID uuid.UUID) (Pair, error) {
	return aggregator.execute(func() (Pair, error) {
		return aggregator.next.GetRatingPair(context, movieID, userID)
	})
}

// State reports the breaker state for health output.
func (aggregator *BreakerAggregator) State() string {
	return aggregator.breaker.State().String()
}

func (aggregator *BreakerAggregator) execute(read func() (Pair, error)) (Pair, error) {
	pair, err := aggregator.breaker.Execute(read)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Pair{}, apperr.Unavailable("Ratings are temporarily unavailable", err)
	}
	return pair, err
}
