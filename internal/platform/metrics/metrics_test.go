// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinemadb/internal/platform/metrics"
)

/*
TestInstrument_UsesRoutePattern labels requests by pattern, not raw path.
*/
func TestInstrument_UsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(metrics.Instrument)
	router.Get("/movies/{idOrSlug}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/movies/{idOrSlug}", "418")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/movies/heat-1995", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/movies/alien-1979", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestRecordHelpers(t *testing.T) {
	hit := metrics.CacheLookupsTotal.WithLabelValues("movies", "hit")
	created := metrics.MovieOperationsTotal.WithLabelValues("create", metrics.OutcomeOK)
	hitsBefore, createdBefore := testutil.ToFloat64(hit), testutil.ToFloat64(created)

	metrics.RecordCacheLookup("movies", true)
	metrics.RecordMovieOperation("create", metrics.OutcomeOK)

	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(hit))
	assert.Equal(t, createdBefore+1, testutil.ToFloat64(created))
}
