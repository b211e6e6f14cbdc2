package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
	"github.com/actuallystonmai/meal-recommendation-service/internal/engine"
)

const (
	defaultLimit     = 10
	maxLimit         = 50
	batchConcurrency = 10
	batchRecLimit    = 10
)

// Store is the repository surface the service needs.
type Store interface {
	engine.CorpusSource

	GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error)
	GetMeal(ctx context.Context, mealID int64) (*domain.Meal, error)
	ListMealIngredientLines(ctx context.Context, mealID int64) ([]string, error)

	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]domain.User, error)
	CountUsers(ctx context.Context) (int, error)
	GetUserPreferences(ctx context.Context, userID int64) (*domain.Preferences, error)
	ReplacePreferences(ctx context.Context, userID int64, prefs domain.Preferences) error
	GetUserAllergies(ctx context.Context, userID int64) ([]string, error)

	ClearCorpus(ctx context.Context) error
	Ping(ctx context.Context) error
	ServerVersion(ctx context.Context) (string, error)
}

// RecommendationCache stores ranked results by key.
type RecommendationCache interface {
	Get(ctx context.Context, key string) ([]domain.RankedMeal, bool, error)
	Set(ctx context.Context, key string, recs []domain.RankedMeal) error
	ClearUserCache(ctx context.Context, userID int64) error
	ClearAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

// SeedFunc refills the corpus tables for the repopulate action.
type SeedFunc func(ctx context.Context) error

type Options struct {
	LikeWeight      int64
	DislikeWeight   int64
	DefaultLimit    int
	MaxLimit        int
	LoadConcurrency int
	Seed            SeedFunc
}

type Service struct {
	store  Store
	cache  RecommendationCache
	engine *engine.Engine
	loader *engine.Loader
	opts   Options
	logger zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(store Store, cache RecommendationCache, eng *engine.Engine, opts Options, logger zerolog.Logger) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultLimit
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = max(maxLimit, opts.DefaultLimit)
	}
	return &Service{
		store:  store,
		cache:  cache,
		engine: eng,
		loader: engine.NewLoader(store, opts.LoadConcurrency, logger),
		opts:   opts,
		logger: logger.With().Str("component", "service").Logger(),
	}
}

// MaxLimit is the largest recommendation count a request may ask for.
func (s *Service) MaxLimit() int {
	return s.opts.MaxLimit
}

func (s *Service) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

// Handle response error
func categorizeError(err error) (string, string) {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return "not_found", fmt.Sprintf("%s not found", nf.Kind)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return "invalid_input", err.Error()
	}
	if errors.Is(err, domain.ErrIndexNotReady) {
		return "index_not_ready", "meal index has not been built yet"
	}
	return "internal_error", "an unexpected error occurred"
}
