package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/actuallystonmai/meal-recommendation-service/internal/catalog"
	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
	"github.com/actuallystonmai/meal-recommendation-service/internal/index"
)

const defaultLoadConcurrency = 8

// CorpusSource is the read side of the repository that snapshots are built from.
type CorpusSource interface {
	ListIngredients(ctx context.Context) ([]domain.Ingredient, error)
	ListMeals(ctx context.Context) ([]domain.Meal, error)
	ListMealIngredientTokens(ctx context.Context, mealID int64) ([]string, error)
}

type Loader struct {
	source      CorpusSource
	concurrency int
	logger      zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(source CorpusSource, concurrency int, logger zerolog.Logger) *Loader {
	if concurrency <= 0 {
		concurrency = defaultLoadConcurrency
	}
	return &Loader{
		source:      source,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "loader").Logger(),
	}
}

// Load reads the whole corpus and builds an unpublished snapshot. Any
// repository error aborts the load.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	ingredients, err := l.source.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}

	meals, err := l.source.ListMeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	corpus := make([]index.MealTokens, len(meals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, meal := range meals {
		g.Go(func() error {
			tokens, err := l.source.ListMealIngredientTokens(gctx, meal.ID)
			if err != nil {
				return fmt.Errorf("list tokens for meal %d: %w", meal.ID, err)
			}
			corpus[i] = index.MealTokens{MealID: meal.ID, Tokens: tokens}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cat := catalog.New(ingredients)
	idx, stats := index.Build(corpus, cat, l.logger)

	l.logger.Debug().
		Int("meals", stats.Meals).
		Int("tokens", stats.Tokens).
		Int("skipped_tokens", stats.SkippedTokens).
		Msg("corpus indexed")

	return NewSnapshot(cat, idx, meals, stats), nil
}
