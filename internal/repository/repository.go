// Package repository is the Postgres store for meals, ingredients and users.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ClearCorpus removes every meal and ingredient. Users and their preferences stay.
func (r *Repository) ClearCorpus(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx,
		`TRUNCATE meal_ingredients, meals, ingredients RESTART IDENTITY CASCADE`,
	); err != nil {
		return fmt.Errorf("truncate corpus: %w", err)
	}
	return nil
}

// ServerVersion reports the Postgres version string.
func (r *Repository) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := r.pool.QueryRow(ctx, `SELECT version()`).Scan(&version); err != nil {
		return "", fmt.Errorf("query server version: %w", err)
	}
	return version, nil
}
