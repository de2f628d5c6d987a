package pricing

import (
	"errors"
	"fmt"
)

// DefaultMultiplier is the markup applied to a fresh ingredient draft.
const DefaultMultiplier = 3.5

var (
	ErrInvalidAmount  = errors.New("amount must be a finite positive number")
	ErrUnknownSubUnit = errors.New("unknown sub-unit")
	ErrZeroCostBasis  = errors.New("cost basis is zero")
)

// Line is the derived pricing of one sub-unit.
type Line struct {
	SubUnit
	CostBasis float64      `json:"cost_basis"`
	Selling   SellingPrice `json:"selling"`
}

// Lines is the ordered set of sub-unit prices of one ingredient.
type Lines []Line

// Find returns the line for label.
func (ls Lines) Find(label string) (Line, bool) {
	for _, l := range ls {
		if l.Label == label {
			return l, true
		}
	}
	return Line{}, false
}

// DeriveSellingPrices computes cost basis and selling prices for every sub-unit of
// the product. A purchase price or multiplier that is not finite and positive
// yields no lines.
func DeriveSellingPrices(purchasePrice float64, product Product, multiplier float64, taxRatePercent float64) Lines {
	if !isPositive(purchasePrice) || !isPositive(multiplier) {
		return nil
	}

	subUnits := product.SubUnits()
	lines := make(Lines, 0, len(subUnits))
	for _, su := range subUnits {
		costBasis := purchasePrice * su.Fraction
		exclusive := costBasis * multiplier
		lines = append(lines, Line{
			SubUnit:   su,
			CostBasis: costBasis,
			Selling: SellingPrice{
				Exclusive: exclusive,
				Inclusive: ExclusiveToInclusive(exclusive, taxRatePercent),
			},
		})
	}
	return lines
}

// ImpliedMultiplier back-solves the multiplier that makes the given sub-unit sell at
// newInclusive.
func ImpliedMultiplier(purchasePrice float64, product Product, subUnitLabel string, newInclusive, taxRatePercent float64) (float64, error) {
	if !isPositive(newInclusive) {
		return 0, fmt.Errorf("selling price %v: %w", newInclusive, ErrInvalidAmount)
	}

	var (
		fraction float64
		found    bool
	)
	for _, su := range product.SubUnits() {
		if su.Label == subUnitLabel {
			fraction, found = su.Fraction, true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSubUnit, subUnitLabel)
	}

	costBasis := purchasePrice * fraction
	if !isPositive(costBasis) {
		return 0, fmt.Errorf("sub-unit %q: %w", subUnitLabel, ErrZeroCostBasis)
	}

	multiplier := InclusiveToExclusive(newInclusive, taxRatePercent) / costBasis
	if !isPositive(multiplier) {
		return 0, fmt.Errorf("implied multiplier %v: %w", multiplier, ErrInvalidAmount)
	}
	return multiplier, nil
}

// ApplyManualSellingPrice derives the multiplier implied by an edited tax-inclusive
// price and re-derives every sibling sub-unit with it.
func ApplyManualSellingPrice(purchasePrice float64, product Product, subUnitLabel string, newInclusive, taxRatePercent float64) (float64, Lines, error) {
	multiplier, err := ImpliedMultiplier(purchasePrice, product, subUnitLabel, newInclusive, taxRatePercent)
	if err != nil {
		return 0, nil, err
	}
	return multiplier, DeriveSellingPrices(purchasePrice, product, multiplier, taxRatePercent), nil
}
