package pricing

import (
	"fmt"
	"strings"
)

// Draft is the ingredient being edited before it is saved. Reducers return a new
// Draft; on failure they return the receiver unchanged along with the error.
type Draft struct {
	Name          string             `json:"name"`
	Product       Product            `json:"-"`
	PurchasePrice float64            `json:"purchase_price"`
	Multiplier    float64            `json:"multiplier"`
	TaxRate       TaxRate            `json:"tax_rate"`
	Lines         Lines              `json:"lines"`
	HappyHour     map[string]float64 `json:"happy_hour,omitempty"`
}

// NewDraft starts an empty draft. A non-positive multiplier selects DefaultMultiplier.
func NewDraft(product Product, multiplier float64) Draft {
	if !isPositive(multiplier) {
		multiplier = DefaultMultiplier
	}
	return Draft{
		Product:    product,
		Multiplier: multiplier,
		TaxRate:    TaxReduced,
	}
}

// Complete reports whether the draft carries derived prices.
func (d Draft) Complete() bool { return len(d.Lines) > 0 }

func (d Draft) rederive() Draft {
	d.Lines = DeriveSellingPrices(d.PurchasePrice, d.Product, d.Multiplier, d.TaxRate.Percent())
	if len(d.HappyHour) > 0 {
		kept := make(map[string]float64, len(d.HappyHour))
		for label, price := range d.HappyHour {
			if _, ok := d.Lines.Find(label); ok {
				kept[label] = price
			}
		}
		d.HappyHour = kept
	}
	return d
}

func (d Draft) WithName(name string) Draft {
	d.Name = strings.TrimSpace(name)
	return d
}

// WithFormat switches the product format and re-derives.
func (d Draft) WithFormat(format Format) (Draft, error) {
	p, err := NewProduct(d.Product.Category(), format)
	if err != nil {
		return d, err
	}
	d.Product = p
	return d.rederive(), nil
}

// WithPurchasePrice records the purchase price. An invalid price clears the derived
// lines so the draft reads as incomplete.
func (d Draft) WithPurchasePrice(price float64) Draft {
	d.PurchasePrice = price
	return d.rederive()
}

// WithMultiplier changes the markup; the tax rate is left untouched.
func (d Draft) WithMultiplier(multiplier float64) (Draft, error) {
	if !isPositive(multiplier) {
		return d, fmt.Errorf("multiplier %v: %w", multiplier, ErrInvalidAmount)
	}
	d.Multiplier = multiplier
	return d.rederive(), nil
}

// WithTaxRate changes the tax rate; the multiplier is left untouched.
func (d Draft) WithTaxRate(rate TaxRate) (Draft, error) {
	if !rate.Valid() {
		return d, fmt.Errorf("%w: %v", ErrInvalidTaxRate, float64(rate))
	}
	d.TaxRate = rate
	return d.rederive(), nil
}

// WithManualPrice applies an operator-edited tax-inclusive price to one sub-unit;
// every sibling sub-unit is rescaled by the implied multiplier.
func (d Draft) WithManualPrice(subUnitLabel string, inclusive float64) (Draft, error) {
	multiplier, lines, err := ApplyManualSellingPrice(d.PurchasePrice, d.Product, subUnitLabel, inclusive, d.TaxRate.Percent())
	if err != nil {
		return d, err
	}
	d.Multiplier = multiplier
	d.Lines = lines
	return d, nil
}

// WithHappyHourPrice sets the tax-inclusive happy-hour price of a sub-unit.
func (d Draft) WithHappyHourPrice(subUnitLabel string, inclusive float64) (Draft, error) {
	if _, ok := d.Lines.Find(subUnitLabel); !ok {
		return d, fmt.Errorf("%w: %q", ErrUnknownSubUnit, subUnitLabel)
	}
	if !isPositive(inclusive) {
		return d, fmt.Errorf("happy hour price %v: %w", inclusive, ErrInvalidAmount)
	}
	hh := make(map[string]float64, len(d.HappyHour)+1)
	for k, v := range d.HappyHour {
		hh[k] = v
	}
	hh[subUnitLabel] = inclusive
	d.HappyHour = hh
	return d, nil
}

// WithHappyHourFromRegular copies the current regular price of a sub-unit into its
// happy-hour price.
func (d Draft) WithHappyHourFromRegular(subUnitLabel string) (Draft, error) {
	line, ok := d.Lines.Find(subUnitLabel)
	if !ok {
		return d, fmt.Errorf("%w: %q", ErrUnknownSubUnit, subUnitLabel)
	}
	return d.WithHappyHourPrice(subUnitLabel, line.Selling.Inclusive)
}

// Ingredient finalizes the draft under id. Callers validate the draft first.
func (d Draft) Ingredient(id string) Ingredient {
	ing := Ingredient{
		ID:            id,
		Name:          d.Name,
		Category:      d.Product.Category(),
		Format:        d.Product.Format(),
		PurchasePrice: d.PurchasePrice,
		Multiplier:    d.Multiplier,
		TaxRate:       d.TaxRate,
		Prices:        append(Lines(nil), d.Lines...),
	}
	if len(d.HappyHour) > 0 {
		ing.HappyHour = make(map[string]float64, len(d.HappyHour))
		for k, v := range d.HappyHour {
			ing.HappyHour[k] = v
		}
	}
	return ing
}
