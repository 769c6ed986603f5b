// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics holds the Prometheus collectors exposed on /metrics.

Categories:

  - HTTP: request counts and latency by route pattern and status.
  - Output cache: hits, misses, evictions, store errors.
  - Movies: service operation outcomes.

Collectors register on the default registry at init via promauto.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemadb_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemadb_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Output cache

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemadb_output_cache_lookups_total",
			Help: "Output cache lookups by policy and result (hit, miss)",
		},
		[]string{"policy", "result"},
	)

	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemadb_output_cache_evictions_total",
			Help: "Tag evictions issued against the output cache",
		},
		[]string{"tag"},
	)

	CacheErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemadb_output_cache_errors_total",
			Help: "Output cache store failures by operation",
		},
		[]string{"operation"},
	)

	// Movies

	MovieOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemadb_movie_operations_total",
			Help: "Movie service operations by name and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// Outcome labels for [RecordMovieOperation].
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// RecordMovieOperation counts one movie service call.
func RecordMovieOperation(operation, outcome string) {
	MovieOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordCacheLookup counts one output cache lookup.
func RecordCacheLookup(policy string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(policy, result).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// Instrument records request count and latency.
//
// The route label is the chi route pattern (e.g. /api/v1/movies/{idOrSlug}) so
// ids and slugs do not explode label cardinality.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		HTTPRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
		HTTPRequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())
	})
}
