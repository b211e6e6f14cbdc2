package engine

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/actuallystonmai/meal-recommendation-service/internal/catalog"
	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
	"github.com/actuallystonmai/meal-recommendation-service/internal/index"
)

// Snapshot is an immutable view of the corpus that ranking passes read.
type Snapshot struct {
	Version int64
	Catalog *catalog.Catalog
	Index   *index.InvertedIndex
	Meals   map[int64]domain.Meal
	Stats   index.BuildStats
	BuiltAt time.Time
}

// NewSnapshot indexes meals by id. Version is assigned when the snapshot is swapped in.
func NewSnapshot(cat *catalog.Catalog, idx *index.InvertedIndex, meals []domain.Meal, stats index.BuildStats) *Snapshot {
	byID := make(map[int64]domain.Meal, len(meals))
	for _, m := range meals {
		byID[m.ID] = m
	}
	return &Snapshot{
		Catalog: cat,
		Index:   idx,
		Meals:   byID,
		Stats:   stats,
		BuiltAt: time.Now().UTC(),
	}
}

func (s *Snapshot) IndexStats() domain.IndexStats {
	return domain.IndexStats{
		Version:       s.Version,
		Ingredients:   s.Catalog.Len(),
		Meals:         s.Index.MealCount(),
		IndexedTerms:  s.Index.Len(),
		Postings:      s.Index.PostingCount(),
		SkippedTokens: s.Stats.SkippedTokens,
		BuiltAt:       s.BuiltAt.Format(time.RFC3339),
	}
}

// ValidateProfile rejects a profile before any scoring happens.
func ValidateProfile(profile domain.Profile) error {
	for i, entry := range profile {
		if strings.TrimSpace(entry.Ingredient) == "" {
			return domain.NewInvalidInput("profile", fmt.Sprintf("entry %d has an empty ingredient name", i))
		}
	}
	return nil
}

// Rank scores every meal against the profile and returns meals with a
// strictly positive score, best first, ties by ascending meal id. Meals
// containing any resolvable excluded ingredient are dropped. topK of zero
// returns the full ranking.
func (s *Snapshot) Rank(profile domain.Profile, exclude []string, topK int) ([]domain.RankedMeal, error) {
	if topK < 0 {
		return nil, domain.NewInvalidInput("limit", "must not be negative")
	}
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}

	scores := make(map[int64]int64, s.Index.MealCount())
	matches := make(map[int64][]domain.Match)
	for _, mealID := range s.Index.MealIDs() {
		scores[mealID] = 0
	}

	for _, entry := range profile {
		id, err := s.Catalog.Resolve(entry.Ingredient)
		if err != nil {
			continue
		}
		for _, mealID := range s.Index.Postings(id) {
			scores[mealID] += entry.Weight
			matches[mealID] = append(matches[mealID], domain.Match{
				Ingredient: entry.Ingredient,
				Weight:     entry.Weight,
			})
		}
	}

	excluded := s.resolveAll(exclude)

	ranked := make([]domain.RankedMeal, 0, len(matches))
	for mealID, score := range scores {
		if score <= 0 {
			continue
		}
		if s.containsAny(mealID, excluded) {
			continue
		}
		ranked = append(ranked, domain.RankedMeal{
			MealID:  mealID,
			Name:    s.Meals[mealID].Name,
			Score:   score,
			Matches: matches[mealID],
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].MealID < ranked[j].MealID
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

func (s *Snapshot) resolveAll(names []string) []int64 {
	if len(names) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		if id, err := s.Catalog.Resolve(name); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// containsAny checks the meal's own sorted ingredient ids.
func (s *Snapshot) containsAny(mealID int64, ingredientIDs []int64) bool {
	if len(ingredientIDs) == 0 {
		return false
	}
	own := s.Index.MealIngredients(mealID)
	for _, id := range ingredientIDs {
		if _, ok := slices.BinarySearch(own, id); ok {
			return true
		}
	}
	return false
}
