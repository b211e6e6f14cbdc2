package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

// MockCache is a testify mock of the recommendation cache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]domain.RankedMeal, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.RankedMeal), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key string, recs []domain.RankedMeal) error {
	args := m.Called(ctx, key, recs)
	return args.Error(0)
}

func (m *MockCache) ClearUserCache(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCache) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MapCache is a working in-memory cache for tests that care about hits, not calls.
type MapCache struct {
	mu      sync.Mutex
	entries map[string][]domain.RankedMeal
}

func NewMapCache() *MapCache {
	return &MapCache{entries: make(map[string][]domain.RankedMeal)}
}

func (c *MapCache) Get(_ context.Context, key string) ([]domain.RankedMeal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	recs, ok := c.entries[key]
	return recs, ok, nil
}

func (c *MapCache) Set(_ context.Context, key string, recs []domain.RankedMeal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = recs
	return nil
}

func (c *MapCache) ClearUserCache(context.Context, int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]domain.RankedMeal)
	return nil
}

func (c *MapCache) ClearAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]domain.RankedMeal)
	return nil
}

func (c *MapCache) Ping(context.Context) error {
	return nil
}

func (c *MapCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
