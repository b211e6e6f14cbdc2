package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

func (r *Repository) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM ingredients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	var items []domain.Ingredient
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		items = append(items, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return items, nil
}

func (r *Repository) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing := &domain.Ingredient{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM ingredients WHERE id = $1`, id,
	).Scan(&ing.ID, &ing.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("ingredient", id)
		}
		return nil, fmt.Errorf("query ingredient id=%d: %w", id, err)
	}
	return ing, nil
}
