package domain

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type PreferenceKind string

const (
	PreferenceLike    PreferenceKind = "like"
	PreferenceDislike PreferenceKind = "dislike"
)

type Preferences struct {
	Likes    []string `json:"likes"`
	Dislikes []string `json:"dislikes"`
}

type Allergy struct {
	Ingredient string `json:"ingredient"`
}
