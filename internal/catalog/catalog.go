// Package catalog maps ingredient names to stable ids and back.
package catalog

import (
	"sort"
	"strings"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

// Catalog is immutable after New and safe for concurrent reads.
type Catalog struct {
	byName map[string]int64
	byID   map[int64]string
	ids    []int64
}

// Canonicalize trims, collapses inner whitespace and lowercases an ingredient name.
func Canonicalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// New indexes ingredients by canonical name. When two ingredients share a
// canonical name the lowest id wins.
func New(ingredients []domain.Ingredient) *Catalog {
	sorted := make([]domain.Ingredient, len(ingredients))
	copy(sorted, ingredients)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	c := &Catalog{
		byName: make(map[string]int64, len(sorted)),
		byID:   make(map[int64]string, len(sorted)),
		ids:    make([]int64, 0, len(sorted)),
	}
	for _, ing := range sorted {
		name := Canonicalize(ing.Name)
		if name == "" {
			continue
		}
		if _, dup := c.byName[name]; dup {
			continue
		}
		if _, dup := c.byID[ing.ID]; dup {
			continue
		}
		c.byName[name] = ing.ID
		c.byID[ing.ID] = name
		c.ids = append(c.ids, ing.ID)
	}
	return c
}

// Resolve returns the id of the ingredient whose canonical name equals
// Canonicalize(name).
func (c *Catalog) Resolve(name string) (int64, error) {
	key := Canonicalize(name)
	if id, ok := c.byName[key]; ok {
		return id, nil
	}
	return 0, domain.NewNotFound("ingredient", key)
}

func (c *Catalog) NameOf(id int64) (string, error) {
	if name, ok := c.byID[id]; ok {
		return name, nil
	}
	return "", domain.NewNotFound("ingredient", id)
}

func (c *Catalog) Len() int {
	return len(c.ids)
}
