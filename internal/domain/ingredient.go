package domain

type Ingredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
