//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/meal-recommendation-service/internal/cache"
	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
	"github.com/actuallystonmai/meal-recommendation-service/internal/testinfra"
)

func TestCacheAgainstRedis(t *testing.T) {
	ctx := context.Background()
	client := testinfra.StartRedis(t)
	c := cache.NewCache(client, time.Minute)

	recs := []domain.RankedMeal{{
		MealID:  2,
		Name:    "Rice & Broccoli",
		Score:   7,
		Matches: []domain.Match{{Ingredient: "rice", Weight: 7}},
	}}

	userKey := cache.UserKey(1, 5, 10)
	profileKey := cache.ProfileKey(1, domain.Profile{{Ingredient: "rice", Weight: 7}}, nil, 10)

	_, found, err := c.Get(ctx, userKey)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, userKey, recs))
	require.NoError(t, c.Set(ctx, cache.UserKey(1, 6, 10), recs))
	require.NoError(t, c.Set(ctx, profileKey, recs))

	got, found, err := c.Get(ctx, userKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, recs, got)

	ttl, err := client.TTL(ctx, userKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	require.NoError(t, c.ClearUserCache(ctx, 5))
	_, found, _ = c.Get(ctx, userKey)
	assert.False(t, found)
	_, found, _ = c.Get(ctx, cache.UserKey(1, 6, 10))
	assert.True(t, found)

	require.NoError(t, c.ClearAll(ctx))
	_, found, _ = c.Get(ctx, profileKey)
	assert.False(t, found)

	require.NoError(t, c.Ping(ctx))
}
