package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/Simplici0/carte/internal/pricing"
)

// MemoryIngredients keeps ingredients in insertion order for the session.
type MemoryIngredients struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]pricing.Ingredient
}

func NewMemoryIngredients() *MemoryIngredients {
	return &MemoryIngredients{byID: make(map[string]pricing.Ingredient)}
}

func (m *MemoryIngredients) Add(_ context.Context, ing pricing.Ingredient) (pricing.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ing.ID == "" {
		ing.ID = NewID()
	}
	if _, exists := m.byID[ing.ID]; exists {
		return pricing.Ingredient{}, fmt.Errorf("ingredient %s already exists", ing.ID)
	}
	ing = ing.Clone()
	m.byID[ing.ID] = ing
	m.order = append(m.order, ing.ID)
	return ing.Clone(), nil
}

func (m *MemoryIngredients) Get(_ context.Context, id string) (pricing.Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ing, ok := m.byID[id]
	if !ok {
		return pricing.Ingredient{}, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	return ing.Clone(), nil
}

// Update applies patch in place. An unknown id or a rejected patch leaves the
// registry unchanged.
func (m *MemoryIngredients) Update(_ context.Context, id string, patch pricing.Patch) (pricing.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ing, ok := m.byID[id]
	if !ok {
		return pricing.Ingredient{}, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	updated, err := ing.Apply(patch)
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("update ingredient %s: %w", id, err)
	}
	m.byID[id] = updated
	return updated.Clone(), nil
}

func (m *MemoryIngredients) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	delete(m.byID, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryIngredients) ListByCategory(_ context.Context, category pricing.Category) ([]pricing.Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]pricing.Ingredient, 0)
	for _, id := range m.order {
		if ing := m.byID[id]; ing.Category == category {
			out = append(out, ing.Clone())
		}
	}
	return out, nil
}

func (m *MemoryIngredients) All(_ context.Context) ([]pricing.Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]pricing.Ingredient, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id].Clone())
	}
	return out, nil
}

// MemoryCocktails keeps cocktails in insertion order for the session.
type MemoryCocktails struct {
	mu        sync.RWMutex
	cocktails []pricing.Cocktail
}

func NewMemoryCocktails() *MemoryCocktails {
	return &MemoryCocktails{}
}

func (m *MemoryCocktails) Add(_ context.Context, c pricing.Cocktail) (pricing.Cocktail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = NewID()
	}
	for _, existing := range m.cocktails {
		if existing.ID == c.ID {
			return pricing.Cocktail{}, fmt.Errorf("cocktail %s already exists", c.ID)
		}
	}
	c = cloneCocktail(c)
	m.cocktails = append(m.cocktails, c)
	return cloneCocktail(c), nil
}

func (m *MemoryCocktails) Get(_ context.Context, id string) (pricing.Cocktail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.cocktails {
		if c.ID == id {
			return cloneCocktail(c), nil
		}
	}
	return pricing.Cocktail{}, fmt.Errorf("cocktail %s: %w", id, ErrNotFound)
}

func (m *MemoryCocktails) All(_ context.Context) ([]pricing.Cocktail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]pricing.Cocktail, 0, len(m.cocktails))
	for _, c := range m.cocktails {
		out = append(out, cloneCocktail(c))
	}
	return out, nil
}

func cloneCocktail(c pricing.Cocktail) pricing.Cocktail {
	lines := make([]pricing.CocktailIngredient, len(c.Ingredients))
	for i, ci := range c.Ingredients {
		lines[i] = pricing.CocktailIngredient{Ingredient: ci.Ingredient.Clone(), Quantity: ci.Quantity}
	}
	c.Ingredients = lines
	if c.Margin != nil {
		m := *c.Margin
		c.Margin = &m
	}
	return c
}
