package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

// Get single user
func (r *Repository) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user := &domain.User{}

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("user", userID)
		}
		return nil, fmt.Errorf("query user id=%d: %w", userID, err)
	}

	return user, nil
}

// Get users for page, ordered by id
func (r *Repository) ListUsers(ctx context.Context, page, limit int) ([]domain.User, error) {
	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, created_at FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query users for page %d: %w", page, err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Count total users
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *Repository) GetUserPreferences(ctx context.Context, userID int64) (*domain.Preferences, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ingredient_name, kind FROM user_preferences
		 WHERE user_id = $1
		 ORDER BY kind, ingredient_name`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query preferences for user %d: %w", userID, err)
	}
	defer rows.Close()

	prefs := &domain.Preferences{Likes: []string{}, Dislikes: []string{}}
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		switch domain.PreferenceKind(kind) {
		case domain.PreferenceLike:
			prefs.Likes = append(prefs.Likes, name)
		case domain.PreferenceDislike:
			prefs.Dislikes = append(prefs.Dislikes, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return prefs, nil
}

// ReplacePreferences swaps the user's likes and dislikes in one transaction.
func (r *Repository) ReplacePreferences(ctx context.Context, userID int64, prefs domain.Preferences) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin preferences tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete preferences for user %d: %w", userID, err)
	}

	rows := make([][]any, 0, len(prefs.Likes)+len(prefs.Dislikes))
	for _, name := range prefs.Likes {
		rows = append(rows, []any{userID, name, string(domain.PreferenceLike)})
	}
	for _, name := range prefs.Dislikes {
		rows = append(rows, []any{userID, name, string(domain.PreferenceDislike)})
	}
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"user_preferences"},
			[]string{"user_id", "ingredient_name", "kind"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("insert preferences for user %d: %w", userID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}
	return nil
}

func (r *Repository) GetUserAllergies(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ingredient_name FROM user_allergies WHERE user_id = $1 ORDER BY ingredient_name`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query allergies for user %d: %w", userID, err)
	}
	defer rows.Close()

	allergies := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan allergy: %w", err)
		}
		allergies = append(allergies, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allergies: %w", err)
	}
	return allergies, nil
}
