package handler

import "github.com/actuallystonmai/meal-recommendation-service/internal/domain"

// RecommendationRequest is the body of POST /recommendations.
type RecommendationRequest struct {
	Profile []domain.ProfileEntry `json:"profile" validate:"dive"`
	Limit   int                   `json:"limit" validate:"gte=0"`
	Exclude []string              `json:"exclude"`
}

type PreferencesRequest struct {
	Likes    []string `json:"likes" validate:"lte=100"`
	Dislikes []string `json:"dislikes" validate:"lte=100"`
}

type pageQuery struct {
	Page  int `validate:"gte=1,lte=10000"`
	Limit int `validate:"gte=1,lte=100"`
}
