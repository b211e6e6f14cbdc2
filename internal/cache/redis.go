package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/meal-recommendation-service/internal/catalog"
	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// ProfileKey identifies a ranking request for an index version. Profile
// names are hashed as written because match records echo them; excluded
// names only filter, so they are canonicalized.
func ProfileKey(version int64, profile domain.Profile, exclude []string, limit int) string {
	d := xxhash.New()
	for _, e := range profile {
		_, _ = d.WriteString(e.Ingredient)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(strconv.FormatInt(e.Weight, 10))
		_, _ = d.WriteString("\x1e")
	}
	_, _ = d.WriteString("\x1d")
	for _, name := range exclude {
		_, _ = d.WriteString(catalog.Canonicalize(name))
		_, _ = d.WriteString("\x1e")
	}
	return fmt.Sprintf("rec:v%d:profile:%016x:limit:%d", version, d.Sum64(), limit)
}

func UserKey(version, userID int64, limit int) string {
	return fmt.Sprintf("rec:v%d:user:%d:limit:%d", version, userID, limit)
}

// Get recommendations from cache; found is false on a miss
func (c *Cache) Get(ctx context.Context, key string) ([]domain.RankedMeal, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get recommendations from cache: %w", err)
	}

	var recs []domain.RankedMeal
	if err := json.Unmarshal(val, &recs); err != nil {
		return nil, false, fmt.Errorf("unmarshal recommendations %s: %w", key, err)
	}
	return recs, true, nil
}

// Store recommendations in cache
func (c *Cache) Set(ctx context.Context, key string, recs []domain.RankedMeal) error {
	val, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("set recommendations in cache: %w", err)
	}
	return nil
}

// ClearUserCache drops a user's entries for every index version; used when preferences change.
func (c *Cache) ClearUserCache(ctx context.Context, userID int64) error {
	return c.deletePattern(ctx, fmt.Sprintf("rec:v*:user:%d:limit:*", userID))
}

// ClearAll drops every recommendation entry; used after a reload or corpus clear.
func (c *Cache) ClearAll(ctx context.Context) error {
	return c.deletePattern(ctx, "rec:*")
}

func (c *Cache) deletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
