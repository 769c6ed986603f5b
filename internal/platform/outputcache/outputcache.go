// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package outputcache caches whole HTTP responses and evicts them by tag.

A [Policy] decides which requests are cacheable and how their key is built.
Entries are written with one or more tags, and [Cache.EvictByTag] drops every
entry carrying a tag. Handlers call it after a committed write so later reads
see fresh data.

A miss that overlaps an eviction of one of its tags is not stored. The check
is per process: an eviction issued by another instance can still race a
miss here, and such an entry lives at most one TTL.

Store failures never fail a request. A lookup error is served as a miss and
a write error leaves the response uncached.
*/
package outputcache

import (
	"bytes"
	stdctx "context"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/cinemadb/internal/platform/constants"
	"github.com/taibuivan/cinemadb/internal/platform/ctxutil"
	"github.com/taibuivan/cinemadb/internal/platform/metrics"
)

// Entry is a stored response.
type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Store persists entries under a key and indexes them by tag.
type Store interface {
	Get(context stdctx.Context, key string) (*Entry, error)
	Set(context stdctx.Context, key string, entry Entry, ttl time.Duration, tags []string) error
	EvictByTag(context stdctx.Context, tag string) error
}

// Policy describes one cacheable family of responses.
type Policy struct {
	Name string
	TTL  time.Duration

	// VaryByQuery lists the query keys that take part in the cache key. Others are ignored.
	VaryByQuery []string

	Tags []string
}

// Cache binds a [Store] to the middleware and eviction hooks.
type Cache struct {
	store Store

	mu          sync.Mutex
	generations map[string]uint64
}

// New creates a Cache on top of store.
func New(store Store) *Cache {
	return &Cache{store: store, generations: make(map[string]uint64)}
}

// generation sums the eviction counters of tags. It only grows.
func (cache *Cache) generation(tags []string) uint64 {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	var total uint64
	for _, tag := range tags {
		total += cache.generations[tag]
	}
	return total
}

// Key builds the cache key for request under policy: the path plus the sorted vary-by values.
func (policy Policy) Key(request *http.Request) string {
	query := request.URL.Query()
	keys := append([]string(nil), policy.VaryByQuery...)
	sort.Strings(keys)

	vary := url.Values{}
	for _, key := range keys {
		if values, found := query[key]; found {
			vary[key] = values
		}
	}

	var builder strings.Builder
	builder.WriteString(policy.Name)
	builder.WriteByte(':')
	builder.WriteString(request.URL.Path)
	if len(vary) > 0 {
		builder.WriteByte('?')
		builder.WriteString(vary.Encode())
	}
	return builder.String()
}

// cacheable reports whether request may be served from, or stored into, the cache.
// Authenticated requests carry per-user ratings and are never shared.
func cacheable(request *http.Request) bool {
	return request.Method == http.MethodGet && request.Header.Get(constants.HeaderAuthorization) == ""
}

// Middleware serves cached 200 responses for policy and stores fresh ones.
func (cache *Cache) Middleware(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !cacheable(request) {
				next.ServeHTTP(writer, request)
				return
			}

			key := policy.Key(request)

			entry, err := cache.store.Get(request.Context(), key)
			if err != nil {
				cache.storeFailed(request.Context(), "get", key, err)
			}

			if entry != nil {
				metrics.RecordCacheLookup(policy.Name, true)
				writer.Header().Set("Content-Type", entry.ContentType)
				writer.Header().Set(constants.HeaderXCache, "HIT")
				writer.WriteHeader(entry.Status)
				_, _ = writer.Write(entry.Body)
				return
			}

			metrics.RecordCacheLookup(policy.Name, false)
			writer.Header().Set(constants.HeaderXCache, "MISS")

			before := cache.generation(policy.Tags)
			recorder := &bodyRecorder{ResponseWriter: writer, status: http.StatusOK}
			next.ServeHTTP(recorder, request)

			if recorder.status != http.StatusOK {
				return
			}

			// Evicted while rendering: the body may predate the write.
			if cache.generation(policy.Tags) != before {
				return
			}

			fresh := Entry{
				Status:      recorder.status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			}
			if err := cache.store.Set(request.Context(), key, fresh, policy.TTL, policy.Tags); err != nil {
				cache.storeFailed(request.Context(), "set", key, err)
			}
		})
	}
}

// EvictByTag drops every entry tagged with tag. Failures are logged, never returned.
func (cache *Cache) EvictByTag(context stdctx.Context, tag string) {
	metrics.CacheEvictionsTotal.WithLabelValues(tag).Inc()

	cache.mu.Lock()
	cache.generations[tag]++
	cache.mu.Unlock()

	// Eviction outlives request cancellation.
	evictCtx, cancel := stdctx.WithTimeout(stdctx.WithoutCancel(context), 2*time.Second)
	defer cancel()

	if err := cache.store.EvictByTag(evictCtx, tag); err != nil {
		cache.storeFailed(context, "evict", tag, err)
	}
}

func (cache *Cache) storeFailed(context stdctx.Context, operation, key string, err error) {
	metrics.CacheErrorsTotal.WithLabelValues(operation).Inc()

	ctxutil.GetLogger(context).WarnContext(context, "output_cache_store_failed",
		slog.String("operation", operation),
		slog.String("key", key),
		slog.Any("error", err),
	)
}

// bodyRecorder tees the response body so it can be stored after the handler returns.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (recorder *bodyRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *bodyRecorder) Write(data []byte) (int, error) {
	if recorder.status == http.StatusOK {
		recorder.body.Write(data)
	}
	return recorder.ResponseWriter.Write(data)
}
