// Package testutil holds in-memory fakes shared by service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

// MemStore is an in-memory implementation of the service store.
type MemStore struct {
	mu          sync.Mutex
	Ingredients []domain.Ingredient
	Meals       []domain.Meal
	Tokens      map[int64][]string
	Lines       map[int64][]string
	Users       []domain.User
	Prefs       map[int64]domain.Preferences
	Allergies   map[int64][]string

	// Err, when set, is returned by every corpus read.
	Err error
}

// NewExampleStore returns the three meal corpus used across tests:
// meal 1 [chicken, rice], meal 2 [rice, broccoli], meal 3 [chicken].
func NewExampleStore() *MemStore {
	return &MemStore{
		Ingredients: []domain.Ingredient{
			{ID: 1, Name: "chicken"},
			{ID: 2, Name: "rice"},
			{ID: 3, Name: "broccoli"},
			{ID: 4, Name: "peanuts"},
		},
		Meals: []domain.Meal{
			{ID: 1, Name: "Chicken Rice Bowl", PrepTime: 10, CookTime: 20},
			{ID: 2, Name: "Rice & Broccoli", PrepTime: 5, CookTime: 15},
			{ID: 3, Name: "Roast Chicken", PrepTime: 10, CookTime: 60},
		},
		Tokens: map[int64][]string{
			1: {"chicken", "rice"},
			2: {"rice", "broccoli"},
			3: {"chicken"},
		},
		Lines: map[int64][]string{
			1: {"2 chicken breasts", "1 cup rice"},
		},
		Users: []domain.User{
			{ID: 1, Name: "User 01", Email: "user01@example.com"},
			{ID: 2, Name: "User 02", Email: "user02@example.com"},
		},
		Prefs: map[int64]domain.Preferences{
			1: {Likes: []string{"rice"}, Dislikes: []string{"chicken"}},
			2: {Likes: []string{"chicken", "broccoli"}, Dislikes: []string{}},
		},
		Allergies: map[int64][]string{
			2: {"rice"},
		},
	}
}

func (s *MemStore) ListIngredients(context.Context) ([]domain.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]domain.Ingredient(nil), s.Ingredients...), nil
}

func (s *MemStore) GetIngredient(_ context.Context, id int64) (*domain.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ing := range s.Ingredients {
		if ing.ID == id {
			found := ing
			return &found, nil
		}
	}
	return nil, domain.NewNotFound("ingredient", id)
}

func (s *MemStore) ListMeals(context.Context) ([]domain.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]domain.Meal(nil), s.Meals...), nil
}

func (s *MemStore) GetMeal(_ context.Context, mealID int64) (*domain.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.Meals {
		if m.ID == mealID {
			found := m
			return &found, nil
		}
	}
	return nil, domain.NewNotFound("meal", mealID)
}

func (s *MemStore) ListMealIngredientTokens(_ context.Context, mealID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Tokens[mealID], nil
}

func (s *MemStore) ListMealIngredientLines(_ context.Context, mealID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Lines[mealID], nil
}

func (s *MemStore) GetUserByID(_ context.Context, userID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.ID == userID {
			found := u
			return &found, nil
		}
	}
	return nil, domain.NewNotFound("user", userID)
}

func (s *MemStore) ListUsers(_ context.Context, page, limit int) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := append([]domain.User(nil), s.Users...)
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	start := (page - 1) * limit
	if start >= len(users) {
		return nil, nil
	}
	return users[start:min(start+limit, len(users))], nil
}

func (s *MemStore) CountUsers(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Users), nil
}

func (s *MemStore) GetUserPreferences(_ context.Context, userID int64) (*domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.Prefs[userID]
	out := &domain.Preferences{
		Likes:    append([]string{}, p.Likes...),
		Dislikes: append([]string{}, p.Dislikes...),
	}
	return out, nil
}

func (s *MemStore) ReplacePreferences(_ context.Context, userID int64, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Prefs == nil {
		s.Prefs = make(map[int64]domain.Preferences)
	}
	s.Prefs[userID] = prefs
	return nil
}

func (s *MemStore) GetUserAllergies(_ context.Context, userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.Allergies[userID]...), nil
}

func (s *MemStore) ClearCorpus(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ingredients = nil
	s.Meals = nil
	s.Tokens = map[int64][]string{}
	s.Lines = map[int64][]string{}
	return nil
}

func (s *MemStore) Ping(context.Context) error {
	return nil
}

// MemStoreVersion is what MemStore reports as its server version.
const MemStoreVersion = "PostgreSQL 16.4 (in-memory)"

func (s *MemStore) ServerVersion(context.Context) (string, error) {
	return MemStoreVersion, nil
}

// AddMeal appends a meal and its tokens.
func (s *MemStore) AddMeal(meal domain.Meal, tokens ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Meals = append(s.Meals, meal)
	if s.Tokens == nil {
		s.Tokens = map[int64][]string{}
	}
	s.Tokens[meal.ID] = tokens
}

// SetErr makes corpus reads fail with err until cleared with nil.
func (s *MemStore) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}
