// Package index builds the ingredient -> meals inverted index.
//
// An InvertedIndex is built once from a whole corpus and never patched; a
// corpus change produces a new index. Posting lists are sorted ascending and
// hold each meal id at most once.
package index

import (
	"errors"
	"slices"
	"sort"

	"github.com/rs/zerolog"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

// Resolver maps a raw ingredient token to its catalog id.
type Resolver interface {
	Resolve(name string) (int64, error)
}

// MealTokens is one corpus row: a meal and its ordered ingredient tokens.
type MealTokens struct {
	MealID int64
	Tokens []string
}

type BuildStats struct {
	Meals         int
	Tokens        int
	SkippedTokens int
}

type InvertedIndex struct {
	postings map[int64][]int64
	terms    []int64
	meals    []int64
	tokens   map[int64][]int64
}

// Build indexes the corpus. Tokens the resolver cannot map are logged as
// data integrity errors and skipped; Build itself never fails.
func Build(corpus []MealTokens, resolver Resolver, logger zerolog.Logger) (*InvertedIndex, BuildStats) {
	rows := make([]MealTokens, len(corpus))
	copy(rows, corpus)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].MealID < rows[j].MealID })

	idx := &InvertedIndex{
		postings: make(map[int64][]int64),
		tokens:   make(map[int64][]int64, len(rows)),
	}
	var stats BuildStats

	for _, row := range rows {
		if n := len(idx.meals); n == 0 || idx.meals[n-1] != row.MealID {
			idx.meals = append(idx.meals, row.MealID)
			stats.Meals++
		}

		seen := make(map[int64]struct{}, len(row.Tokens))
		for _, token := range row.Tokens {
			stats.Tokens++
			id, err := resolver.Resolve(token)
			if err != nil {
				stats.SkippedTokens++
				integrity := &domain.DataIntegrityError{MealID: row.MealID, Token: token}
				ev := logger.Warn().Err(integrity).Int64("meal_id", row.MealID).Str("token", token)
				if !errors.Is(err, domain.ErrNotFound) {
					ev = ev.AnErr("cause", err)
				}
				ev.Msg("skipping unresolved ingredient token")
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			idx.postings[id] = append(idx.postings[id], row.MealID)
			idx.tokens[row.MealID] = append(idx.tokens[row.MealID], id)
		}
	}

	for id, list := range idx.postings {
		slices.Sort(list)
		idx.postings[id] = slices.Compact(list)
		idx.terms = append(idx.terms, id)
	}
	slices.Sort(idx.terms)
	for mealID, ids := range idx.tokens {
		slices.Sort(ids)
		idx.tokens[mealID] = slices.Compact(ids)
	}

	return idx, stats
}

// Postings returns the sorted meal ids containing the ingredient. The slice
// is shared with the index and must not be modified.
func (x *InvertedIndex) Postings(ingredientID int64) []int64 {
	return x.postings[ingredientID]
}

// Contains reports whether the meal's token list holds the ingredient.
func (x *InvertedIndex) Contains(ingredientID, mealID int64) bool {
	_, ok := slices.BinarySearch(x.postings[ingredientID], mealID)
	return ok
}

// MealIngredients returns the distinct ingredient ids of a meal, ascending.
func (x *InvertedIndex) MealIngredients(mealID int64) []int64 {
	return x.tokens[mealID]
}

// Ingredients returns the indexed ingredient ids in ascending order.
func (x *InvertedIndex) Ingredients() []int64 {
	return x.terms
}

// MealIDs returns every corpus meal, including meals with no resolved tokens.
func (x *InvertedIndex) MealIDs() []int64 {
	return x.meals
}

func (x *InvertedIndex) Len() int {
	return len(x.terms)
}

func (x *InvertedIndex) MealCount() int {
	return len(x.meals)
}

// PostingCount is the total number of (ingredient, meal) pairs.
func (x *InvertedIndex) PostingCount() int {
	n := 0
	for _, list := range x.postings {
		n += len(list)
	}
	return n
}

// Equal reports whether two indexes hold the same meals and posting lists.
func (x *InvertedIndex) Equal(other *InvertedIndex) bool {
	if x == nil || other == nil {
		return x == other
	}
	if !slices.Equal(x.meals, other.meals) || !slices.Equal(x.terms, other.terms) {
		return false
	}
	for _, id := range x.terms {
		if !slices.Equal(x.postings[id], other.postings[id]) {
			return false
		}
	}
	return true
}
