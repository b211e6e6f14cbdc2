package service

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

func (s *Service) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// ListUsers returns one page of users and the total user count.
func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]domain.User, int, error) {
	users, err := s.store.ListUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch users: %w", err)
	}
	total, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, total, nil
}

func (s *Service) GetPreferences(ctx context.Context, userID int64) (*domain.Preferences, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetUserPreferences(ctx, userID)
}

func (s *Service) GetAllergies(ctx context.Context, userID int64) ([]string, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetUserAllergies(ctx, userID)
}

func (s *Service) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	items, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Ingredient{}
	}
	return items, nil
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return s.store.GetIngredient(ctx, id)
}

func (s *Service) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	meals, err := s.store.ListMeals(ctx)
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []domain.Meal{}
	}
	return meals, nil
}

// GetMeal returns the meal with its recipe lines.
func (s *Service) GetMeal(ctx context.Context, mealID int64) (*domain.MealDetail, error) {
	meal, err := s.store.GetMeal(ctx, mealID)
	if err != nil {
		return nil, err
	}
	lines, err := s.store.ListMealIngredientLines(ctx, mealID)
	if err != nil {
		return nil, fmt.Errorf("fetch ingredient lines: %w", err)
	}
	if lines == nil {
		lines = []string{}
	}
	return &domain.MealDetail{Meal: *meal, TotalMinutes: meal.TotalTime(), Ingredients: lines}, nil
}
