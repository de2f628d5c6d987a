package catalog

import (
	"context"
	"fmt"

	"github.com/Simplici0/carte/internal/log"
	"github.com/Simplici0/carte/internal/pricing"
)

// Service is what the UI shell calls: it validates input, runs the engines and
// writes to the registries.
type Service struct {
	ingredients          IngredientRegistry
	cocktails            CocktailRegistry
	validator            *Validator
	ingredientMultiplier float64
	cocktailMultiplier   float64
}

// Options configures a Service. Zero multipliers select the engine defaults.
type Options struct {
	IngredientMultiplier float64
	CocktailMultiplier   float64
}

func NewService(ingredients IngredientRegistry, cocktails CocktailRegistry, opts Options) *Service {
	if opts.IngredientMultiplier <= 0 {
		opts.IngredientMultiplier = pricing.DefaultMultiplier
	}
	if opts.CocktailMultiplier <= 0 {
		opts.CocktailMultiplier = pricing.CocktailMultiplier
	}
	return &Service{
		ingredients:          ingredients,
		cocktails:            cocktails,
		validator:            NewValidator(),
		ingredientMultiplier: opts.IngredientMultiplier,
		cocktailMultiplier:   opts.CocktailMultiplier,
	}
}

// PreviewIngredient derives prices from a partially filled form. Unparsable
// numbers leave the draft incomplete instead of failing; only an unknown
// category or format is an error.
func (s *Service) PreviewIngredient(form IngredientForm) (pricing.Draft, error) {
	product, err := productOf(form.Category, form.Format)
	if err != nil {
		return pricing.Draft{}, err
	}

	d := pricing.NewDraft(product, s.ingredientMultiplier).WithName(form.Name)
	if m, ok := ParseAmount(form.Multiplier); ok {
		d, _ = d.WithMultiplier(m)
	}
	if rate, err := pricing.ParseTaxRate(form.TaxRate); err == nil {
		d, _ = d.WithTaxRate(rate)
	}
	price, _ := ParseAmount(form.PurchasePrice)
	d = d.WithPurchasePrice(price)

	if form.Manual != nil {
		if inclusive, ok := ParseAmount(form.Manual.Inclusive); ok {
			d, _ = d.WithManualPrice(form.Manual.SubUnit, inclusive)
		}
	}
	for label, raw := range form.HappyHour {
		if hh, ok := ParseAmount(raw); ok {
			d, _ = d.WithHappyHourPrice(label, hh)
		}
	}
	return d, nil
}

// SaveIngredient validates the form and appends the ingredient to the registry.
func (s *Service) SaveIngredient(ctx context.Context, form IngredientForm) (pricing.Ingredient, error) {
	d, err := s.validator.Ingredient(form, s.ingredientMultiplier)
	if err != nil {
		log.Debug(ctx, "ingredient rejected", "error", err)
		return pricing.Ingredient{}, err
	}

	ing, err := s.ingredients.Add(ctx, d.Ingredient(NewID()))
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("add ingredient: %w", err)
	}
	log.Info(ctx, "ingredient saved", "ingredient_id", ing.ID, "category", ing.Category, "multiplier", ing.Multiplier)
	return ing, nil
}

// UpdateIngredient applies an edit form to a saved ingredient.
func (s *Service) UpdateIngredient(ctx context.Context, id string, form IngredientPatchForm) (pricing.Ingredient, error) {
	patch, err := s.validator.Patch(form)
	if err != nil {
		return pricing.Ingredient{}, err
	}
	ing, err := s.ingredients.Update(ctx, id, patch)
	if err != nil {
		return pricing.Ingredient{}, err
	}
	log.Info(ctx, "ingredient updated", "ingredient_id", id)
	return ing, nil
}

func (s *Service) RemoveIngredient(ctx context.Context, id string) error {
	if err := s.ingredients.Remove(ctx, id); err != nil {
		return err
	}
	log.Info(ctx, "ingredient removed", "ingredient_id", id)
	return nil
}

func (s *Service) Ingredient(ctx context.Context, id string) (pricing.Ingredient, error) {
	return s.ingredients.Get(ctx, id)
}

// Ingredients lists every ingredient, or one category when category is non-empty.
func (s *Service) Ingredients(ctx context.Context, category string) ([]pricing.Ingredient, error) {
	if category == "" {
		return s.ingredients.All(ctx)
	}
	c, err := pricing.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return s.ingredients.ListByCategory(ctx, c)
}

// Groups lists ingredients grouped by category.
func (s *Service) Groups(ctx context.Context) ([]Group, error) {
	all, err := s.ingredients.All(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(all), nil
}

func (s *Service) buildCocktail(ctx context.Context, form CocktailForm) (pricing.CocktailDraft, error) {
	d := pricing.NewCocktailDraft(s.cocktailMultiplier).WithName(form.Name)
	if form.TaxRate != "" {
		rate, err := pricing.ParseTaxRate(form.TaxRate)
		if err != nil {
			return d, err
		}
		if d, err = d.WithTaxRate(rate); err != nil {
			return d, err
		}
	}
	if override, ok := ParseAmount(form.Override); ok {
		d = d.WithOverride(override)
	}

	for _, line := range form.Lines {
		ing, err := s.ingredients.Get(ctx, line.IngredientID)
		if err != nil {
			return d, err
		}
		qty, ok := ParseAmount(line.Quantity)
		if !ok {
			qty = 0
		}
		if d, err = d.AddIngredient(ing, qty); err != nil {
			return d, err
		}
		for i := 0; i < line.Doses; i++ {
			if d, err = d.AddDose(len(d.Lines) - 1); err != nil {
				return d, err
			}
		}
	}
	return d, nil
}

// PreviewCocktail prices a recipe without saving it; the name may be empty.
func (s *Service) PreviewCocktail(ctx context.Context, form CocktailForm) (pricing.CocktailDraft, pricing.CocktailPricing, error) {
	d, err := s.buildCocktail(ctx, form)
	if err != nil {
		return pricing.CocktailDraft{}, pricing.CocktailPricing{}, err
	}
	return d, d.Pricing(), nil
}

// SaveCocktail validates the form, snapshots the referenced ingredients and
// appends the cocktail to the registry.
func (s *Service) SaveCocktail(ctx context.Context, form CocktailForm) (pricing.Cocktail, error) {
	if err := s.validator.Cocktail(form); err != nil {
		return pricing.Cocktail{}, err
	}
	d, err := s.buildCocktail(ctx, form)
	if err != nil {
		return pricing.Cocktail{}, err
	}
	c, err := d.Cocktail(NewID())
	if err != nil {
		return pricing.Cocktail{}, err
	}
	c, err = s.cocktails.Add(ctx, c)
	if err != nil {
		return pricing.Cocktail{}, fmt.Errorf("add cocktail: %w", err)
	}
	log.Info(ctx, "cocktail saved", "cocktail_id", c.ID, "lines", len(c.Ingredients), "cost", c.Cost)
	return c, nil
}

func (s *Service) Cocktail(ctx context.Context, id string) (pricing.Cocktail, error) {
	return s.cocktails.Get(ctx, id)
}

func (s *Service) Cocktails(ctx context.Context) ([]pricing.Cocktail, error) {
	return s.cocktails.All(ctx)
}
