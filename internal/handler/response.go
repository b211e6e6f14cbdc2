package handler

import "github.com/actuallystonmai/meal-recommendation-service/internal/domain"

type RecommendationResponse struct {
	UserID          int64                     `json:"user_id,omitempty"`
	Recommendations []domain.RankedMeal       `json:"recommendations"`
	Metadata        domain.RecommendationMeta `json:"metadata"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type UsersResponse struct {
	Users []domain.User `json:"users"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
}

type IngredientsResponse struct {
	Ingredients []domain.Ingredient `json:"ingredients"`
	Count       int                 `json:"count"`
}

type MealsResponse struct {
	Meals []domain.Meal `json:"meals"`
	Count int           `json:"count"`
}

type AllergiesResponse struct {
	UserID    int64    `json:"user_id"`
	Allergies []string `json:"allergies"`
}

type PreferencesResponse struct {
	UserID int64 `json:"user_id"`
	domain.Preferences
}
