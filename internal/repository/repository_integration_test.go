//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
	"github.com/actuallystonmai/meal-recommendation-service/internal/engine"
	"github.com/actuallystonmai/meal-recommendation-service/internal/repository"
	"github.com/actuallystonmai/meal-recommendation-service/internal/testinfra"
	"github.com/actuallystonmai/meal-recommendation-service/seeds"
)

func TestRepositoryAgainstSeededDatabase(t *testing.T) {
	ctx := context.Background()
	pool := testinfra.StartPostgres(t)
	require.NoError(t, seeds.Setup(ctx, pool, zerolog.Nop()))
	repo := repository.New(pool)

	t.Run("corpus", func(t *testing.T) {
		ingredients, err := repo.ListIngredients(ctx)
		require.NoError(t, err)
		assert.Len(t, ingredients, 30)
		assert.Equal(t, domain.Ingredient{ID: 1, Name: "chicken"}, ingredients[0])

		meals, err := repo.ListMeals(ctx)
		require.NoError(t, err)
		require.Len(t, meals, 12)
		assert.Equal(t, "One-Pan Chicken & Vegetables", meals[0].Name)
		assert.Positive(t, meals[0].Cost)

		tokens, err := repo.ListMealIngredientTokens(ctx, meals[0].ID)
		require.NoError(t, err)
		assert.Contains(t, tokens, "italian seasoning")

		lines, err := repo.ListMealIngredientLines(ctx, meals[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "2 chicken breasts", lines[0])

		_, err = repo.GetMeal(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = repo.GetIngredient(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("users", func(t *testing.T) {
		total, err := repo.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20, total)

		page, err := repo.ListUsers(ctx, 2, 5)
		require.NoError(t, err)
		require.Len(t, page, 5)
		assert.Equal(t, int64(6), page[0].ID)

		_, err = repo.GetUserByID(ctx, 4040)
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "user", nf.Kind)

		require.NoError(t, repo.ReplacePreferences(ctx, 1, domain.Preferences{
			Likes:    []string{"rice", "salmon"},
			Dislikes: []string{"beef"},
		}))
		prefs, err := repo.GetUserPreferences(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"rice", "salmon"}, prefs.Likes)
		assert.Equal(t, []string{"beef"}, prefs.Dislikes)

		require.NoError(t, repo.ReplacePreferences(ctx, 1, domain.Preferences{}))
		prefs, err = repo.GetUserPreferences(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, prefs.Likes)
		assert.Empty(t, prefs.Dislikes)

		allergies, err := repo.GetUserAllergies(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, allergies)
	})

	t.Run("index from repository", func(t *testing.T) {
		eng := engine.New(zerolog.Nop())
		snap, err := eng.Reload(ctx, engine.NewLoader(repo, 4, zerolog.Nop()))
		require.NoError(t, err)

		assert.Equal(t, 12, snap.Index.MealCount())
		assert.Equal(t, 1, snap.Stats.SkippedTokens)

		// garlic twice in the shrimp pasta still counts once
		recs, err := eng.Recommend(domain.Profile{{Ingredient: "Garlic", Weight: 1}}, 0)
		require.NoError(t, err)
		ids := make([]int64, len(recs))
		for i, r := range recs {
			ids[i] = r.MealID
			assert.Equal(t, int64(1), r.Score)
		}
		assert.Equal(t, []int64{1, 4, 7}, ids)
	})

	t.Run("clear corpus keeps users", func(t *testing.T) {
		require.NoError(t, repo.ClearCorpus(ctx))

		meals, err := repo.ListMeals(ctx)
		require.NoError(t, err)
		assert.Empty(t, meals)

		total, err := repo.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20, total)

		require.NoError(t, seeds.ReseedCorpus(ctx, pool, zerolog.Nop()))
		meals, err = repo.ListMeals(ctx)
		require.NoError(t, err)
		assert.Len(t, meals, 12)
	})

	t.Run("ping and version", func(t *testing.T) {
		require.NoError(t, repo.Ping(ctx))
		version, err := repo.ServerVersion(ctx)
		require.NoError(t, err)
		assert.Contains(t, version, "PostgreSQL")
	})
}
