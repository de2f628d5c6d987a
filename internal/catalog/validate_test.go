package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/carte/internal/pricing"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		want float64
		ok   bool
	}{
		"4":      {4, true},
		" 4,50 ": {4.5, true},
		"12.25":  {12.25, true},
		"":       {0, false},
		"abc":    {0, false},
		"NaN":    {0, false},
		"Inf":    {0, false},
	}
	for raw, tc := range cases {
		got, ok := ParseAmount(raw)
		assert.Equal(t, tc.ok, ok, raw)
		assert.Equal(t, tc.want, got, raw)
	}
}

func TestValidatorIngredient_AcceptsDecimalComma(t *testing.T) {
	v := NewValidator()

	d, err := v.Ingredient(IngredientForm{
		Name:          "Bordeaux",
		Category:      "Vin",
		PurchasePrice: "10,00",
		Multiplier:    "4",
		TaxRate:       "5,5",
	}, pricing.DefaultMultiplier)
	require.NoError(t, err)
	assert.Equal(t, 4.0, d.Multiplier)
	assert.Equal(t, pricing.TaxReduced, d.TaxRate)
	assert.Equal(t, pricing.FormatStandard, d.Product.Format())
}

func TestValidatorIngredient_FieldErrors(t *testing.T) {
	v := NewValidator()

	_, err := v.Ingredient(IngredientForm{
		Name:          "Pression",
		Category:      "cidre",
		PurchasePrice: "4",
		TaxRate:       "19.6",
		HappyHour:     map[string]string{"pinte": "beaucoup"},
	}, pricing.DefaultMultiplier)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "catégorie inconnue", verr.Fields["category"])
	assert.Equal(t, "doit être 5.5, 10 ou 20", verr.Fields["tax_rate"])
	assert.Equal(t, "doit être numérique", verr.Fields["happy_hour[pinte]"])
	assert.Contains(t, err.Error(), "category: catégorie inconnue")
}

func TestValidatorIngredient_RejectsUnknownSubUnits(t *testing.T) {
	v := NewValidator()

	_, err := v.Ingredient(IngredientForm{
		Name:          "Pression",
		Category:      "beer",
		PurchasePrice: "4",
		TaxRate:       "20",
		Manual:        &ManualPriceForm{SubUnit: "verre", Inclusive: "3"},
		HappyHour:     map[string]string{"magnum": "3"},
	}, pricing.DefaultMultiplier)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "manual")
	assert.Contains(t, verr.Fields, "happy_hour.magnum")
}

func TestValidatorPatch(t *testing.T) {
	v := NewValidator()

	p, err := v.Patch(IngredientPatchForm{PurchasePrice: "5,5", Multiplier: "3"})
	require.NoError(t, err)
	require.NotNil(t, p.PurchasePrice)
	assert.Equal(t, 5.5, *p.PurchasePrice)
	require.NotNil(t, p.Multiplier)
	assert.Equal(t, 3.0, *p.Multiplier)
	assert.Nil(t, p.Name)
	assert.Nil(t, p.TaxRate)

	blank := "  "
	_, err = v.Patch(IngredientPatchForm{Name: &blank})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "est requis", verr.Fields["name"])
}

func TestValidatorCocktail(t *testing.T) {
	v := NewValidator()

	err := v.Cocktail(CocktailForm{Name: "Mojito", Lines: []CocktailLineForm{{Quantity: "x", Doses: -1}}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "est requis", verr.Fields["lines[0].ingredient_id"])
	assert.Equal(t, "doit être numérique", verr.Fields["lines[0].quantity"])
	assert.Equal(t, "doit être positif ou nul", verr.Fields["lines[0].doses"])

	assert.NoError(t, v.Cocktail(CocktailForm{Name: "Mojito", Lines: []CocktailLineForm{{IngredientID: "abc", Quantity: "4"}}}))
}
