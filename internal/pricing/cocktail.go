package pricing

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// CocktailMultiplier is the fixed markup applied to a cocktail's cost.
	CocktailMultiplier = 3.5
	// DoseCentilitres is the standard spirit pour.
	DoseCentilitres = 4
)

var (
	ErrIncompleteCocktail = errors.New("cocktail needs a name and at least one ingredient")
	ErrLineOutOfRange     = errors.New("recipe line out of range")
	ErrDoseNotApplicable  = errors.New("dose only applies to spirits")
)

// CocktailIngredient is one recipe line. The ingredient is a copy taken when the
// line was added; later edits to the registry do not reach it.
type CocktailIngredient struct {
	Ingredient Ingredient `json:"ingredient" msgpack:"ingredient"`
	Quantity   float64    `json:"quantity" msgpack:"quantity"`
}

// Unit returns the unit Quantity is expressed in.
func (ci CocktailIngredient) Unit() RecipeUnit {
	p, err := ci.Ingredient.Product()
	if err != nil {
		return Centilitre
	}
	return p.RecipeUnit()
}

// Cost returns the purchase cost of the line. Zero, negative or non-finite
// quantities contribute nothing.
func (ci CocktailIngredient) Cost() float64 {
	if !isPositive(ci.Quantity) || !isPositive(ci.Ingredient.PurchasePrice) {
		return 0
	}
	return ci.Ingredient.PurchasePrice * ci.Quantity / ci.Unit().PerPurchaseUnit
}

// ComputeCost sums the scaled purchase cost of every line.
func ComputeCost(ingredients []CocktailIngredient) float64 {
	var total float64
	for _, ci := range ingredients {
		total += ci.Cost()
	}
	return total
}

// ComputeSellingPrice derives the selling price from cost, or from a positive
// tax-inclusive override when one is given.
func ComputeSellingPrice(costPrice, taxRatePercent, multiplier, override float64) SellingPrice {
	if isPositive(override) {
		return SellingPrice{
			Exclusive: InclusiveToExclusive(override, taxRatePercent),
			Inclusive: override,
		}
	}
	exclusive := costPrice * multiplier
	return SellingPrice{
		Exclusive: exclusive,
		Inclusive: ExclusiveToInclusive(exclusive, taxRatePercent),
	}
}

// ComputeMargin returns the margin percentage of the tax-exclusive price. The
// second result is false when the margin is undefined.
func ComputeMargin(exclusiveSellingPrice, costPrice float64) (float64, bool) {
	if exclusiveSellingPrice == 0 || !isFinite(exclusiveSellingPrice) || !isFinite(costPrice) {
		return 0, false
	}
	return (exclusiveSellingPrice - costPrice) / exclusiveSellingPrice * 100, true
}

// CocktailPricing is the derived economics of a recipe.
type CocktailPricing struct {
	Cost    float64      `json:"cost"`
	Selling SellingPrice `json:"selling"`
	Margin  *float64     `json:"margin,omitempty"`
}

// PriceCocktail runs cost, selling price and margin in sequence.
func PriceCocktail(ingredients []CocktailIngredient, taxRatePercent, multiplier, override float64) CocktailPricing {
	cost := ComputeCost(ingredients)
	selling := ComputeSellingPrice(cost, taxRatePercent, multiplier, override)
	out := CocktailPricing{Cost: cost, Selling: selling}
	if m, ok := ComputeMargin(selling.Exclusive, cost); ok {
		out.Margin = &m
	}
	return out
}

// Cocktail is a saved recipe together with its pricing at save time.
type Cocktail struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Ingredients []CocktailIngredient `json:"ingredients"`
	TaxRate     TaxRate              `json:"tax_rate"`
	Override    float64              `json:"override,omitempty"`
	CocktailPricing
}

// CocktailDraft is the recipe being composed.
type CocktailDraft struct {
	Name       string               `json:"name"`
	Lines      []CocktailIngredient `json:"lines"`
	TaxRate    TaxRate              `json:"tax_rate"`
	Multiplier float64              `json:"multiplier"`
	Override   float64              `json:"override,omitempty"`
}

// NewCocktailDraft starts an empty recipe at the standard tax rate.
func NewCocktailDraft(multiplier float64) CocktailDraft {
	if !isPositive(multiplier) {
		multiplier = CocktailMultiplier
	}
	return CocktailDraft{TaxRate: TaxStandard, Multiplier: multiplier}
}

func (d CocktailDraft) WithName(name string) CocktailDraft {
	d.Name = strings.TrimSpace(name)
	return d
}

func (d CocktailDraft) cloneLines() []CocktailIngredient {
	return append([]CocktailIngredient(nil), d.Lines...)
}

// AddIngredient appends a copy of ing. Zero is accepted as a placeholder quantity.
func (d CocktailDraft) AddIngredient(ing Ingredient, quantity float64) (CocktailDraft, error) {
	if quantity != 0 && !isPositive(quantity) {
		return d, fmt.Errorf("quantity %v: %w", quantity, ErrInvalidAmount)
	}
	if _, err := ing.Product(); err != nil {
		return d, err
	}
	d.Lines = append(d.cloneLines(), CocktailIngredient{
		Ingredient: ing.Clone(),
		Quantity:   quantity,
	})
	return d, nil
}

func (d CocktailDraft) SetQuantity(index int, quantity float64) (CocktailDraft, error) {
	if index < 0 || index >= len(d.Lines) {
		return d, fmt.Errorf("%w: %d", ErrLineOutOfRange, index)
	}
	if quantity != 0 && !isPositive(quantity) {
		return d, fmt.Errorf("quantity %v: %w", quantity, ErrInvalidAmount)
	}
	d.Lines = d.cloneLines()
	d.Lines[index].Quantity = quantity
	return d, nil
}

// AddDose adds one standard pour to a spirit line.
func (d CocktailDraft) AddDose(index int) (CocktailDraft, error) {
	if index < 0 || index >= len(d.Lines) {
		return d, fmt.Errorf("%w: %d", ErrLineOutOfRange, index)
	}
	if d.Lines[index].Ingredient.Category != CategorySpirit {
		return d, ErrDoseNotApplicable
	}
	return d.SetQuantity(index, d.Lines[index].Quantity+DoseCentilitres)
}

func (d CocktailDraft) RemoveLine(index int) (CocktailDraft, error) {
	if index < 0 || index >= len(d.Lines) {
		return d, fmt.Errorf("%w: %d", ErrLineOutOfRange, index)
	}
	lines := make([]CocktailIngredient, 0, len(d.Lines)-1)
	lines = append(lines, d.Lines[:index]...)
	lines = append(lines, d.Lines[index+1:]...)
	d.Lines = lines
	return d, nil
}

func (d CocktailDraft) WithTaxRate(rate TaxRate) (CocktailDraft, error) {
	if !rate.Valid() {
		return d, fmt.Errorf("%w: %v", ErrInvalidTaxRate, float64(rate))
	}
	d.TaxRate = rate
	return d, nil
}

// WithOverride sets a tax-inclusive selling price; a non-positive value clears it.
func (d CocktailDraft) WithOverride(inclusive float64) CocktailDraft {
	if !isPositive(inclusive) {
		inclusive = 0
	}
	d.Override = inclusive
	return d
}

func (d CocktailDraft) Pricing() CocktailPricing {
	return PriceCocktail(d.Lines, d.TaxRate.Percent(), d.Multiplier, d.Override)
}

// Cocktail finalizes the draft under id.
func (d CocktailDraft) Cocktail(id string) (Cocktail, error) {
	if d.Name == "" || len(d.Lines) == 0 {
		return Cocktail{}, ErrIncompleteCocktail
	}
	return Cocktail{
		ID:              id,
		Name:            d.Name,
		Ingredients:     d.cloneLines(),
		TaxRate:         d.TaxRate,
		Override:        d.Override,
		CocktailPricing: d.Pricing(),
	}, nil
}
