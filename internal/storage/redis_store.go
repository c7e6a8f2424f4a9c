package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"voice-of-kalki/internal/model"
)

// FeedCache caches fetched feeds per (language, region/city, genre) scope so
// filter flips within the TTL window do not burn content-service quota.
type FeedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFeedCache(rdb *redis.Client, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &FeedCache{rdb: rdb, ttl: ttl}
}

func feedKey(lang model.Language, region model.Region, city string, genre model.Genre) string {
	scope := string(region)
	if region == model.RegionCity {
		scope = strings.ToLower(strings.TrimSpace(city))
	}
	return fmt.Sprintf("vok:feed:%s:%s:%s", lang, scope, genre)
}

// Get returns the cached feed for a scope, or (nil, false) on miss. Cache
// errors count as misses; the cache is never load-bearing.
func (c *FeedCache) Get(ctx context.Context, lang model.Language, region model.Region, city string, genre model.Genre) ([]model.NewsItem, bool) {
	b, err := c.rdb.Get(ctx, feedKey(lang, region, city, genre)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []model.NewsItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, false
	}
	return items, true
}

// Set stores a fetched feed under its scope key with the configured TTL.
func (c *FeedCache) Set(ctx context.Context, lang model.Language, region model.Region, city string, genre model.Genre, items []model.NewsItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, feedKey(lang, region, city, genre), b, c.ttl).Err()
}
