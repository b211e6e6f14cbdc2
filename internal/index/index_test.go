package index

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/meal-recommendation-service/internal/catalog"
	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

func testIngredients() []domain.Ingredient {
	return []domain.Ingredient{
		{ID: 1, Name: "chicken"},
		{ID: 2, Name: "rice"},
		{ID: 3, Name: "broccoli"},
		{ID: 4, Name: "garlic"},
	}
}

func testCatalog() *catalog.Catalog {
	return catalog.New(testIngredients())
}

func testCorpus() []MealTokens {
	return []MealTokens{
		{MealID: 3, Tokens: []string{"chicken"}},
		{MealID: 1, Tokens: []string{"chicken", "rice"}},
		{MealID: 2, Tokens: []string{"rice", "broccoli"}},
	}
}

func TestBuildPostings(t *testing.T) {
	idx, stats := Build(testCorpus(), testCatalog(), zerolog.Nop())

	assert.Equal(t, []int64{1, 3}, idx.Postings(1))
	assert.Equal(t, []int64{1, 2}, idx.Postings(2))
	assert.Equal(t, []int64{2}, idx.Postings(3))
	assert.Nil(t, idx.Postings(4))

	assert.Equal(t, []int64{1, 2, 3}, idx.Ingredients())
	assert.Equal(t, []int64{1, 2, 3}, idx.MealIDs())
	assert.Equal(t, 5, idx.PostingCount())
	assert.Equal(t, BuildStats{Meals: 3, Tokens: 5, SkippedTokens: 0}, stats)
}

func TestBuildCollapsesDuplicateTokens(t *testing.T) {
	corpus := []MealTokens{
		{MealID: 7, Tokens: []string{"garlic", "Garlic", " GARLIC ", "rice"}},
	}
	idx, stats := Build(corpus, testCatalog(), zerolog.Nop())

	assert.Equal(t, []int64{7}, idx.Postings(4))
	assert.Equal(t, []int64{2, 4}, idx.MealIngredients(7))
	assert.Equal(t, 4, stats.Tokens)
}

func TestBuildSkipsUnresolvedTokens(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	corpus := []MealTokens{
		{MealID: 1, Tokens: []string{"chicken", "dragon fruit"}},
		{MealID: 2, Tokens: []string{"unicorn"}},
	}
	idx, stats := Build(corpus, testCatalog(), logger)

	assert.Equal(t, 2, stats.SkippedTokens)
	assert.Equal(t, []int64{1}, idx.Postings(1))
	assert.Equal(t, []int64{1, 2}, idx.MealIDs(), "meals with no resolved tokens are still part of the corpus")
	assert.Empty(t, idx.MealIngredients(2))

	out := buf.String()
	assert.Contains(t, out, `"token":"dragon fruit"`)
	assert.Contains(t, out, `"meal_id":2`)
	assert.Equal(t, 2, strings.Count(out, "skipping unresolved ingredient token"))
}

type failingResolver struct{}

func (failingResolver) Resolve(string) (int64, error) {
	return 0, errors.New("lookup exploded")
}

func TestBuildNeverFails(t *testing.T) {
	idx, stats := Build(testCorpus(), failingResolver{}, zerolog.Nop())

	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 3, idx.MealCount())
	assert.Equal(t, 5, stats.SkippedTokens)
}

func TestBuildDeterministicAcrossInputOrder(t *testing.T) {
	corpus := testCorpus()
	reversed := []MealTokens{corpus[2], corpus[1], corpus[0]}

	a, _ := Build(corpus, testCatalog(), zerolog.Nop())
	b, _ := Build(reversed, testCatalog(), zerolog.Nop())

	assert.True(t, a.Equal(b))
	for _, id := range a.Ingredients() {
		assert.Equal(t, a.Postings(id), b.Postings(id))
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	corpus := testCorpus()
	Build(corpus, testCatalog(), zerolog.Nop())
	assert.Equal(t, int64(3), corpus[0].MealID)
}

func TestMembershipMatchesTokenLists(t *testing.T) {
	cat := testCatalog()
	corpus := []MealTokens{
		{MealID: 10, Tokens: []string{"chicken", "garlic", "chicken"}},
		{MealID: 11, Tokens: []string{"broccoli"}},
		{MealID: 12, Tokens: []string{"rice", "garlic", "broccoli"}},
		{MealID: 13, Tokens: nil},
	}
	idx, _ := Build(corpus, cat, zerolog.Nop())

	for _, ing := range testIngredients() {
		for _, row := range corpus {
			want := false
			for _, tok := range row.Tokens {
				if catalog.Canonicalize(tok) == ing.Name {
					want = true
				}
			}
			assert.Equal(t, want, idx.Contains(ing.ID, row.MealID), "ingredient %s meal %d", ing.Name, row.MealID)
			_, listed := slices.BinarySearch(idx.MealIngredients(row.MealID), ing.ID)
			assert.Equal(t, want, listed, "meal %d ingredients list %s", row.MealID, ing.Name)
		}
	}
}

func TestEqual(t *testing.T) {
	a, _ := Build(testCorpus(), testCatalog(), zerolog.Nop())
	b, _ := Build(testCorpus()[:2], testCatalog(), zerolog.Nop())

	require.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(nil))
}
