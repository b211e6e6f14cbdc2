package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

type fakeSource struct {
	mu          sync.Mutex
	ingredients []domain.Ingredient
	meals       []domain.Meal
	tokens      map[int64][]string
	failTokens  bool
}

func (f *fakeSource) ListIngredients(context.Context) ([]domain.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Ingredient(nil), f.ingredients...), nil
}

func (f *fakeSource) ListMeals(context.Context) ([]domain.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Meal(nil), f.meals...), nil
}

func (f *fakeSource) ListMealIngredientTokens(_ context.Context, mealID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTokens {
		return nil, errors.New("connection reset")
	}
	return f.tokens[mealID], nil
}

// corpus = {meal 1: [chicken, rice], meal 2: [rice, broccoli], meal 3: [chicken]}
func exampleSource() *fakeSource {
	return &fakeSource{
		ingredients: []domain.Ingredient{
			{ID: 1, Name: "chicken"},
			{ID: 2, Name: "rice"},
			{ID: 3, Name: "broccoli"},
		},
		meals: []domain.Meal{
			{ID: 1, Name: "Chicken Rice Bowl"},
			{ID: 2, Name: "Rice & Broccoli"},
			{ID: 3, Name: "Roast Chicken"},
		},
		tokens: map[int64][]string{
			1: {"chicken", "rice"},
			2: {"rice", "broccoli"},
			3: {"chicken"},
		},
	}
}

func loadedEngine(t *testing.T, src CorpusSource) *Engine {
	t.Helper()
	e := New(zerolog.Nop())
	_, err := e.Reload(context.Background(), NewLoader(src, 2, zerolog.Nop()))
	require.NoError(t, err)
	return e
}

func ids(recs []domain.RankedMeal) []int64 {
	out := make([]int64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.MealID)
	}
	return out
}

func TestRecommendExample(t *testing.T) {
	e := loadedEngine(t, exampleSource())

	recs, err := e.Recommend(domain.Profile{{Ingredient: "chicken", Weight: 3}, {Ingredient: "rice", Weight: 5}}, 0)
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, []int64{1, 2, 3}, ids(recs))
	assert.Equal(t, int64(8), recs[0].Score)
	assert.Equal(t, int64(5), recs[1].Score)
	assert.Equal(t, int64(3), recs[2].Score)

	assert.Equal(t, "Chicken Rice Bowl", recs[0].Name)
	assert.Equal(t, []domain.Match{{Ingredient: "chicken", Weight: 3}, {Ingredient: "rice", Weight: 5}}, recs[0].Matches)
	assert.Equal(t, []domain.Match{{Ingredient: "rice", Weight: 5}}, recs[1].Matches)
}

func TestRecommendUnresolvedIngredientIgnored(t *testing.T) {
	e := loadedEngine(t, exampleSource())

	withUnknown, err := e.Recommend(domain.Profile{{Ingredient: "chicken", Weight: 3}, {Ingredient: "unknown_ingredient", Weight: 100}}, 0)
	require.NoError(t, err)
	alone, err := e.Recommend(domain.Profile{{Ingredient: "chicken", Weight: 3}}, 0)
	require.NoError(t, err)

	assert.Equal(t, alone, withUnknown)
	assert.Equal(t, []int64{1, 3}, ids(alone))
}

func TestRecommendEmptyProfile(t *testing.T) {
	e := loadedEngine(t, exampleSource())

	recs, err := e.Recommend(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendTieBreakByMealID(t *testing.T) {
	e := loadedEngine(t, exampleSource())

	// meal 1 and meal 3 both score 4 from chicken; meal 2 scores 4 from broccoli.
	recs, err := e.Recommend(domain.Profile{{Ingredient: "broccoli", Weight: 4}, {Ingredient: "chicken", Weight: 4}}, 0)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, ids(recs))
	for _, r := range recs {
		assert.Equal(t, int64(4), r.Score)
	}
}

func TestRecommendDropsNonPositiveScores(t *testing.T) {
	e := loadedEngine(t, exampleSource())

	// meal 1: 3 - 3 = 0, meal 2: -3, meal 3: 3
	recs, err := e.Recommend(domain.Profile{{Ingredient: "chicken", Weight: 3}, {Ingredient: "rice", Weight: -3}}, 0)
	require.NoError(t, err)

	assert.Equal(t, []int64{3}, ids(recs))
	for _, r := range recs {
		assert.Positive(t, r.Score)
	}
}

func TestRecommendTopK(t *testing.T) {
	e := loadedEngine(t, exampleSource())
	profile := domain.Profile{{Ingredient: "chicken", Weight: 3}, {Ingredient: "rice", Weight: 5}}

	recs, err := e.Recommend(profile, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(recs))

	recs, err = e.Recommend(profile, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestRecommendDuplicateEntriesAccumulate(t *testing.T) {
	e := loadedEngine(t, exampleSource())

	recs, err := e.Recommend(domain.Profile{{Ingredient: "chicken", Weight: 2}, {Ingredient: "Chicken ", Weight: 1}}, 0)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, int64(3), recs[0].Score)
	assert.Len(t, recs[0].Matches, 2)
}

func TestRecommendInvalidInputIsAtomic(t *testing.T) {
	e := loadedEngine(t, exampleSource())

	recs, err := e.Recommend(domain.Profile{{Ingredient: "chicken", Weight: 3}, {Ingredient: "  ", Weight: 1}}, 0)
	require.Error(t, err)
	assert.Nil(t, recs)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.Recommend(domain.Profile{{Ingredient: "chicken", Weight: 3}}, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecommendExcluding(t *testing.T) {
	e := loadedEngine(t, exampleSource())
	profile := domain.Profile{{Ingredient: "chicken", Weight: 3}, {Ingredient: "rice", Weight: 5}}

	recs, version, err := e.RecommendExcluding(profile, []string{"Broccoli", "peanuts"}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, []int64{1, 3}, ids(recs))
}

func TestRecommendBeforeLoad(t *testing.T) {
	e := New(zerolog.Nop())

	_, err := e.Recommend(domain.Profile{{Ingredient: "chicken", Weight: 1}}, 0)
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
	assert.Nil(t, e.Snapshot())
}

func TestScoreIsSumOfMatchedWeights(t *testing.T) {
	src := exampleSource()
	e := loadedEngine(t, src)
	profile := domain.Profile{
		{Ingredient: "chicken", Weight: 7},
		{Ingredient: "rice", Weight: -2},
		{Ingredient: "broccoli", Weight: 11},
		{Ingredient: "kale", Weight: 50},
	}

	recs, err := e.Recommend(profile, 0)
	require.NoError(t, err)

	got := make(map[int64]int64)
	for _, r := range recs {
		got[r.MealID] = r.Score
	}
	for mealID, tokens := range src.tokens {
		var want int64
		for _, entry := range profile {
			for _, tok := range tokens {
				if tok == entry.Ingredient {
					want += entry.Weight
					break
				}
			}
		}
		if want > 0 {
			assert.Equal(t, want, got[mealID], "meal %d", mealID)
		} else {
			assert.NotContains(t, got, mealID)
		}
	}
}

func TestDeterministicOutput(t *testing.T) {
	profile := domain.Profile{{Ingredient: "rice", Weight: 2}, {Ingredient: "chicken", Weight: 2}, {Ingredient: "broccoli", Weight: 1}}

	var first []byte
	for i := 0; i < 5; i++ {
		e := loadedEngine(t, exampleSource())
		recs, err := e.Recommend(profile, 0)
		require.NoError(t, err)
		b, err := json.Marshal(recs)
		require.NoError(t, err)
		if first == nil {
			first = b
			continue
		}
		assert.Equal(t, string(first), string(b))
	}
}

func TestReloadBumpsVersionAndSeesNewCorpus(t *testing.T) {
	src := exampleSource()
	e := loadedEngine(t, src)
	loader := NewLoader(src, 2, zerolog.Nop())
	profile := domain.Profile{{Ingredient: "broccoli", Weight: 1}}

	src.mu.Lock()
	src.meals = append(src.meals, domain.Meal{ID: 4, Name: "Broccoli Soup"})
	src.tokens[4] = []string{"broccoli", "broccoli"}
	src.mu.Unlock()

	snap, err := e.Reload(context.Background(), loader)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)

	recs, err := e.Recommend(profile, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, ids(recs))
}

func TestReloadFailureKeepsPreviousSnapshot(t *testing.T) {
	src := exampleSource()
	e := loadedEngine(t, src)
	before := e.Snapshot()

	src.mu.Lock()
	src.failTokens = true
	src.mu.Unlock()

	_, err := e.Reload(context.Background(), NewLoader(src, 2, zerolog.Nop()))
	require.Error(t, err)
	assert.Same(t, before, e.Snapshot())
}

func TestSwapAssignsVersions(t *testing.T) {
	e := loadedEngine(t, exampleSource())
	first := e.Snapshot()

	next, err := NewLoader(exampleSource(), 1, zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)

	prev := e.Swap(next)
	assert.Same(t, first, prev)
	assert.Equal(t, int64(2), e.Snapshot().Version)
	assert.True(t, first.Index.Equal(next.Index))
}

func TestConcurrentRecommendDuringReload(t *testing.T) {
	src := exampleSource()
	e := loadedEngine(t, src)
	loader := NewLoader(src, 4, zerolog.Nop())
	profile := domain.Profile{{Ingredient: "chicken", Weight: 3}, {Ingredient: "rice", Weight: 5}}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs, err := e.Recommend(profile, 0)
			if err != nil {
				errs <- err
				return
			}
			if len(recs) != 3 || recs[0].Score != 8 {
				errs <- fmt.Errorf("unexpected ranking %+v", recs)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Reload(context.Background(), loader); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, int64(5), e.Snapshot().Version)
}

func TestIndexStats(t *testing.T) {
	src := exampleSource()
	src.tokens[3] = []string{"chicken", "mystery spice"}
	e := loadedEngine(t, src)

	stats := e.Snapshot().IndexStats()
	assert.Equal(t, int64(1), stats.Version)
	assert.Equal(t, 3, stats.Ingredients)
	assert.Equal(t, 3, stats.Meals)
	assert.Equal(t, 3, stats.IndexedTerms)
	assert.Equal(t, 5, stats.Postings)
	assert.Equal(t, 1, stats.SkippedTokens)
}
