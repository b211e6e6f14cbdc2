package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

const mealColumns = `id, name, category, difficulty, servings, calories, protein, carbs, fat,
	cost::float8, prep_time, cook_time, image_url, created_at`

func scanMeal(row pgx.Row, m *domain.Meal) error {
	return row.Scan(&m.ID, &m.Name, &m.Category, &m.Difficulty, &m.Servings, &m.Calories,
		&m.Protein, &m.Carbs, &m.Fat, &m.Cost, &m.PrepTime, &m.CookTime, &m.ImageURL, &m.CreatedAt)
}

func (r *Repository) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+mealColumns+` FROM meals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer rows.Close()

	var meals []domain.Meal
	for rows.Next() {
		var m domain.Meal
		if err := scanMeal(rows, &m); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return meals, nil
}

func (r *Repository) GetMeal(ctx context.Context, mealID int64) (*domain.Meal, error) {
	m := &domain.Meal{}
	err := scanMeal(r.pool.QueryRow(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = $1`, mealID), m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("meal", mealID)
		}
		return nil, fmt.Errorf("query meal id=%d: %w", mealID, err)
	}
	return m, nil
}

// ListMealIngredientTokens returns the meal's ingredient names in recipe order.
func (r *Repository) ListMealIngredientTokens(ctx context.Context, mealID int64) ([]string, error) {
	return r.listMealColumn(ctx, mealID, "ingredient_name")
}

// ListMealIngredientLines returns the human-readable recipe lines ("2 chicken breasts").
func (r *Repository) ListMealIngredientLines(ctx context.Context, mealID int64) ([]string, error) {
	return r.listMealColumn(ctx, mealID, "line")
}

func (r *Repository) listMealColumn(ctx context.Context, mealID int64, column string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+column+` FROM meal_ingredients WHERE meal_id = $1 ORDER BY position`, mealID,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s for meal %d: %w", column, mealID, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", column, err)
	}
	return out, nil
}
