package seeds

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMealTokensMostlyKnown(t *testing.T) {
	known := make(map[string]bool, len(ingredientNames))
	for _, name := range ingredientNames {
		assert.False(t, known[name], "duplicate ingredient %s", name)
		known[name] = true
	}

	var unknown []string
	for _, m := range meals {
		assert.NotEmpty(t, m.lines, m.name)
		for _, l := range m.lines {
			if !known[l.token] {
				unknown = append(unknown, l.token)
			}
		}
	}
	assert.Equal(t, []string{"italian seasoning"}, unknown)
}

func TestAllergensAreIngredients(t *testing.T) {
	for _, a := range allergens {
		assert.Contains(t, ingredientNames, a)
	}
}

func TestPickDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	got := pickDistinct(rng, ingredientNames, 5)
	assert.Len(t, got, 5)
	seen := map[string]bool{}
	for _, g := range got {
		assert.False(t, seen[g])
		seen[g] = true
	}

	assert.Len(t, pickDistinct(rng, []string{"a", "b"}, 5), 2)
}
