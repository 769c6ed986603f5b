// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package outputcache

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cinemadb/internal/platform/constants"
)

// RedisStore keeps entries as JSON strings with a TTL and indexes them in one set per tag.
//
// # Key Layout
//
//	outputcache:entry:{key}  -> JSON [Entry], expires after the policy TTL
//	outputcache:tag:{tag}    -> SET of entry keys, expiry refreshed on every write
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a [Store] backed by client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the entry stored under key, or nil when there is none.
func (store *RedisStore) Get(context stdctx.Context, key string) (*Entry, error) {
	raw, err := store.client.Get(context, constants.RedisPrefixCacheEntry+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("outputcache: get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("outputcache: decode %s: %w", key, err)
	}
	return &entry, nil
}

// Set writes entry and adds its key to every tag set in one transaction.
func (store *RedisStore) Set(context stdctx.Context, key string, entry Entry, ttl time.Duration, tags []string) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("outputcache: encode %s: %w", key, err)
	}

	entryKey := constants.RedisPrefixCacheEntry + key

	_, err = store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, entryKey, raw, ttl)
		for _, tag := range tags {
			tagKey := constants.RedisPrefixCacheTag + tag
			pipe.SAdd(context, tagKey, entryKey)
			pipe.Expire(context, tagKey, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("outputcache: set %s: %w", key, err)
	}
	return nil
}

// EvictByTag deletes every entry indexed under tag, then the tag set itself.
func (store *RedisStore) EvictByTag(context stdctx.Context, tag string) error {
	tagKey := constants.RedisPrefixCacheTag + tag

	members, err := store.client.SMembers(context, tagKey).Result()
	if err != nil {
		return fmt.Errorf("outputcache: members of %s: %w", tag, err)
	}

	keys := append(members, tagKey)
	if err := store.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("outputcache: evict %s: %w", tag, err)
	}
	return nil
}
