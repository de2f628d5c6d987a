// Package catalog holds the ingredient and cocktail registries and the
// validation applied before anything is saved to them.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Simplici0/carte/internal/pricing"
)

// ErrNotFound is returned for unknown ids.
var ErrNotFound = errors.New("not found")

// IngredientRegistry is an ordered store of saved ingredients. It performs no
// validation; callers validate before Add.
type IngredientRegistry interface {
	Add(ctx context.Context, ing pricing.Ingredient) (pricing.Ingredient, error)
	Get(ctx context.Context, id string) (pricing.Ingredient, error)
	Update(ctx context.Context, id string, patch pricing.Patch) (pricing.Ingredient, error)
	Remove(ctx context.Context, id string) error
	ListByCategory(ctx context.Context, category pricing.Category) ([]pricing.Ingredient, error)
	All(ctx context.Context) ([]pricing.Ingredient, error)
}

// CocktailRegistry is an ordered store of saved cocktails.
type CocktailRegistry interface {
	Add(ctx context.Context, c pricing.Cocktail) (pricing.Cocktail, error)
	Get(ctx context.Context, id string) (pricing.Cocktail, error)
	All(ctx context.Context) ([]pricing.Cocktail, error)
}

// NewID returns a fresh registry identifier.
func NewID() string {
	return uuid.NewString()
}

// Group is the ingredients of one category.
type Group struct {
	Category    pricing.Category     `json:"category"`
	Label       string               `json:"label"`
	Ingredients []pricing.Ingredient `json:"ingredients"`
}

// GroupByCategory splits ingredients by category in menu order, keeping the
// relative order inside each group. Empty categories are omitted.
func GroupByCategory(ingredients []pricing.Ingredient) []Group {
	byCategory := make(map[pricing.Category][]pricing.Ingredient)
	for _, ing := range ingredients {
		byCategory[ing.Category] = append(byCategory[ing.Category], ing)
	}

	groups := make([]Group, 0, len(byCategory))
	for _, c := range pricing.Categories {
		if len(byCategory[c]) == 0 {
			continue
		}
		groups = append(groups, Group{Category: c, Label: c.Label(), Ingredients: byCategory[c]})
	}
	return groups
}
