package pricing

import "fmt"

// Ingredient is a saved ingredient with its derived sub-unit prices.
type Ingredient struct {
	ID            string             `json:"id" msgpack:"id"`
	Name          string             `json:"name" msgpack:"name"`
	Category      Category           `json:"category" msgpack:"category"`
	Format        Format             `json:"format" msgpack:"format"`
	PurchasePrice float64            `json:"purchase_price" msgpack:"purchase_price"`
	Multiplier    float64            `json:"multiplier" msgpack:"multiplier"`
	TaxRate       TaxRate            `json:"tax_rate" msgpack:"tax_rate"`
	Prices        Lines              `json:"prices" msgpack:"prices"`
	HappyHour     map[string]float64 `json:"happy_hour,omitempty" msgpack:"happy_hour,omitempty"`
}

// Product returns the validated (category, format) pair of the ingredient.
func (i Ingredient) Product() (Product, error) {
	return NewProduct(i.Category, i.Format)
}

// Clone returns a deep copy.
func (i Ingredient) Clone() Ingredient {
	i.Prices = append(Lines(nil), i.Prices...)
	if i.HappyHour != nil {
		hh := make(map[string]float64, len(i.HappyHour))
		for k, v := range i.HappyHour {
			hh[k] = v
		}
		i.HappyHour = hh
	}
	return i
}

// Draft reopens the ingredient for editing.
func (i Ingredient) Draft() (Draft, error) {
	p, err := i.Product()
	if err != nil {
		return Draft{}, fmt.Errorf("ingredient %s: %w", i.ID, err)
	}
	d := Draft{
		Name:          i.Name,
		Product:       p,
		PurchasePrice: i.PurchasePrice,
		Multiplier:    i.Multiplier,
		TaxRate:       i.TaxRate,
	}
	d = d.rederive()
	for label, price := range i.HappyHour {
		if next, err := d.WithHappyHourPrice(label, price); err == nil {
			d = next
		}
	}
	return d, nil
}

// ManualPrice is an operator-edited tax-inclusive price for one sub-unit.
type ManualPrice struct {
	SubUnit   string  `json:"sub_unit"`
	Inclusive float64 `json:"inclusive"`
}

// Patch lists the editable fields of a saved ingredient. Nil fields are kept.
type Patch struct {
	Name          *string      `json:"name,omitempty"`
	PurchasePrice *float64     `json:"purchase_price,omitempty"`
	Multiplier    *float64     `json:"multiplier,omitempty"`
	TaxRate       *TaxRate     `json:"tax_rate,omitempty"`
	ManualPrice   *ManualPrice `json:"manual_price,omitempty"`
}

// Apply returns the ingredient with the patch applied and every sub-unit re-derived.
// Any invalid field rejects the whole patch.
func (i Ingredient) Apply(p Patch) (Ingredient, error) {
	d, err := i.Draft()
	if err != nil {
		return i, err
	}

	if p.Name != nil {
		d = d.WithName(*p.Name)
	}
	if p.TaxRate != nil {
		if d, err = d.WithTaxRate(*p.TaxRate); err != nil {
			return i, err
		}
	}
	if p.Multiplier != nil {
		if d, err = d.WithMultiplier(*p.Multiplier); err != nil {
			return i, err
		}
	}
	if p.PurchasePrice != nil {
		if !isPositive(*p.PurchasePrice) {
			return i, fmt.Errorf("purchase price %v: %w", *p.PurchasePrice, ErrInvalidAmount)
		}
		d = d.WithPurchasePrice(*p.PurchasePrice)
	}
	if p.ManualPrice != nil {
		if d, err = d.WithManualPrice(p.ManualPrice.SubUnit, p.ManualPrice.Inclusive); err != nil {
			return i, err
		}
	}

	return d.Ingredient(i.ID), nil
}
