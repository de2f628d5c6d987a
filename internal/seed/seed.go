// Package seed loads a demo bar into the ingredient registry.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/Simplici0/carte/internal/catalog"
	"github.com/Simplici0/carte/internal/pricing"
)

// Item is one demo ingredient.
type Item struct {
	Name          string
	Category      pricing.Category
	Format        pricing.Format
	PurchasePrice float64
	TaxRate       pricing.TaxRate
}

// Demo is the default demo bar.
var Demo = []Item{
	{Name: "Pression blonde", Category: pricing.CategoryBeer, Format: pricing.FormatKeg, PurchasePrice: 4, TaxRate: pricing.TaxStandard},
	{Name: "IPA 33cl", Category: pricing.CategoryBeer, Format: pricing.FormatBottle, PurchasePrice: 1.6, TaxRate: pricing.TaxStandard},
	{Name: "Côtes du Rhône", Category: pricing.CategoryWine, PurchasePrice: 8, TaxRate: pricing.TaxStandard},
	{Name: "Limonade", Category: pricing.CategorySoft, PurchasePrice: 0.9, TaxRate: pricing.TaxIntermediate},
	{Name: "Rhum blanc", Category: pricing.CategorySpirit, PurchasePrice: 18, TaxRate: pricing.TaxStandard},
	{Name: "Citron vert", Category: pricing.CategoryFruit, PurchasePrice: 4.5, TaxRate: pricing.TaxReduced},
	{Name: "Jus d'orange", Category: pricing.CategoryJuice, PurchasePrice: 2.2, TaxRate: pricing.TaxReduced},
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// Run adds every item whose name is not yet present in its category. It is
// idempotent.
func Run(ctx context.Context, registry catalog.IngredientRegistry, items []Item, multiplier float64) (Stats, error) {
	stats := Stats{}

	for _, item := range items {
		existing, err := registry.ListByCategory(ctx, item.Category)
		if err != nil {
			return stats, fmt.Errorf("list %s ingredients: %w", item.Category, err)
		}
		if containsName(existing, item.Name) {
			stats.Skipped++
			continue
		}

		ing, err := build(item, multiplier)
		if err != nil {
			return stats, err
		}
		if _, err := registry.Add(ctx, ing); err != nil {
			return stats, fmt.Errorf("insert %q: %w", item.Name, err)
		}
		stats.Inserts++
	}

	return stats, nil
}

func build(item Item, multiplier float64) (pricing.Ingredient, error) {
	product, err := pricing.NewProduct(item.Category, item.Format)
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("seed item %q: %w", item.Name, err)
	}
	d, err := pricing.NewDraft(product, multiplier).
		WithName(item.Name).
		WithPurchasePrice(item.PurchasePrice).
		WithTaxRate(item.TaxRate)
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("seed item %q: %w", item.Name, err)
	}
	if !d.Complete() {
		return pricing.Ingredient{}, fmt.Errorf("seed item %q: %w", item.Name, pricing.ErrInvalidAmount)
	}
	return d.Ingredient(catalog.NewID()), nil
}

func containsName(ingredients []pricing.Ingredient, name string) bool {
	for _, ing := range ingredients {
		if strings.EqualFold(ing.Name, name) {
			return true
		}
	}
	return false
}
