package domain

import "time"

type Meal struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	Servings   int       `json:"servings"`
	Calories   int       `json:"calories"`
	Protein    int       `json:"protein"`
	Carbs      int       `json:"carbs"`
	Fat        int       `json:"fat"`
	Cost       float64   `json:"cost"`
	PrepTime   int       `json:"prep_time"`
	CookTime   int       `json:"cook_time"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TotalTime is prep plus cook time in minutes.
func (m Meal) TotalTime() int {
	return m.PrepTime + m.CookTime
}

// MealDetail is a meal with its raw ingredient lines.
type MealDetail struct {
	Meal
	TotalMinutes int      `json:"total_time"`
	Ingredients  []string `json:"ingredients"`
}
