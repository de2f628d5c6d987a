package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidTaxRate is returned when a tax rate is outside the enumerated set.
var ErrInvalidTaxRate = errors.New("invalid tax rate")

// TaxRate is a VAT percentage from the fixed set offered to the operator.
type TaxRate float64

const (
	TaxReduced      TaxRate = 5.5
	TaxIntermediate TaxRate = 10
	TaxStandard     TaxRate = 20
)

// TaxRates lists the selectable rates in display order.
var TaxRates = []TaxRate{TaxReduced, TaxIntermediate, TaxStandard}

// Percent returns the rate as a plain percentage.
func (t TaxRate) Percent() float64 { return float64(t) }

// Valid reports whether t belongs to the enumerated set.
func (t TaxRate) Valid() bool {
	for _, r := range TaxRates {
		if t == r {
			return true
		}
	}
	return false
}

func (t TaxRate) String() string {
	return strconv.FormatFloat(float64(t), 'f', -1, 64) + "%"
}

// ParseTaxRate accepts "5.5", "5,5", "20%" and similar spellings.
func ParseTaxRate(raw string) (TaxRate, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTaxRate, raw)
	}
	t := TaxRate(v)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTaxRate, raw)
	}
	return t, nil
}

// ExclusiveToInclusive adds tax to a tax-exclusive amount.
func ExclusiveToInclusive(amount, taxRatePercent float64) float64 {
	return amount * (1 + taxRatePercent/100)
}

// InclusiveToExclusive removes tax from a tax-inclusive amount.
func InclusiveToExclusive(amount, taxRatePercent float64) float64 {
	return amount / (1 + taxRatePercent/100)
}

// SellingPrice is a tax-exclusive / tax-inclusive pair.
type SellingPrice struct {
	Exclusive float64 `json:"exclusive"`
	Inclusive float64 `json:"inclusive"`
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
