package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "catalog:"

// CachedRepository is a read-through Redis cache in front of another Repository.
// Cache failures are logged and the request falls through to the wrapped repository.
type CachedRepository struct {
	next   Repository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedRepository(next Repository, rdb redis.Cmdable, ttl time.Duration, logger zerolog.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("component", "catalog_cache").Logger(),
	}
}

func listKey(f Filter) string {
	v := url.Values{}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.InStock != nil {
		v.Set("inStock", strconv.FormatBool(*f.InStock))
	}
	return cacheKeyPrefix + "list:" + v.Encode()
}

func productKey(id string) string {
	return cacheKeyPrefix + "product:" + id
}

func searchKey(q Query) string {
	v := url.Values{}
	v.Set("q", strings.ToLower(q.Text))
	if q.MinPrice != nil {
		v.Set("min", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("max", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	return cacheKeyPrefix + "search:" + v.Encode()
}

const categoriesKey = cacheKeyPrefix + "categories"

func (c *CachedRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	return readThrough(ctx, c, listKey(f), func() ([]Product, error) { return c.next.List(ctx, f) })
}

func (c *CachedRepository) Get(ctx context.Context, id string) (Product, error) {
	return readThrough(ctx, c, productKey(id), func() (Product, error) { return c.next.Get(ctx, id) })
}

func (c *CachedRepository) Categories(ctx context.Context) ([]string, error) {
	return readThrough(ctx, c, categoriesKey, func() ([]string, error) { return c.next.Categories(ctx) })
}

func (c *CachedRepository) Search(ctx context.Context, q Query) ([]Product, error) {
	return readThrough(ctx, c, searchKey(q), func() ([]Product, error) { return c.next.Search(ctx, q) })
}

// ReplaceAll writes through and then drops every cached catalog key.
func (c *CachedRepository) ReplaceAll(ctx context.Context, products []Product) error {
	if err := c.next.ReplaceAll(ctx, products); err != nil {
		return err
	}
	if err := c.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

func (c *CachedRepository) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func readThrough[T any](ctx context.Context, c *CachedRepository, key string, load func() (T, error)) (T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			return v, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return v, nil
}
