package menu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/carte/internal/catalog"
	"github.com/Simplici0/carte/internal/pricing"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "4.20 €", Money(4.2))
	assert.Equal(t, "1.34 €", Money(1.344))
	assert.Equal(t, "0.00 €", Money(0))
	assert.Equal(t, "71.43 %", Percent(71.428571))
}

func TestRender(t *testing.T) {
	d := pricing.NewDraft(pricing.MustProduct(pricing.CategoryBeer, pricing.FormatKeg), 0).
		WithName("Pression").
		WithPurchasePrice(4)
	d, err := d.WithTaxRate(pricing.TaxStandard)
	require.NoError(t, err)
	d, err = d.WithHappyHourPrice("pinte", 6)
	require.NoError(t, err)
	beer := d.Ingredient("b1")

	rum := pricing.NewDraft(pricing.MustProduct(pricing.CategorySpirit, ""), 0).WithName("Rhum").WithPurchasePrice(4).Ingredient("r1")
	cd, err := pricing.NewCocktailDraft(0).WithName("Ti-punch").AddIngredient(rum, 8)
	require.NoError(t, err)
	punch, err := cd.Cocktail("c1")
	require.NoError(t, err)
	empty := pricing.Cocktail{ID: "c2", Name: "Eau"}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, catalog.GroupByCategory([]pricing.Ingredient{rum, beer}), []pricing.Cocktail{punch, empty}))
	out := buf.String()

	assert.Contains(t, out, "Carte des boissons\n")
	assert.Contains(t, out, "== Bière ==\nPression (fût)\n")
	assert.Contains(t, out, "4.20 €\n")
	assert.Contains(t, out, "8.40 €   happy hour 6.00 €\n")
	assert.Contains(t, out, "== Alcool fort ==\nRhum\n")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Bière")), bytes.Index(buf.Bytes(), []byte("Alcool fort")))
	assert.Contains(t, out, "Ti-punch\n  coût 0.32 €  HT 1.12 €  TTC 1.34 €  marge 71.43 %\n")
	assert.Contains(t, out, "Eau\n  coût 0.00 €  HT 0.00 €  TTC 0.00 €  marge n/d\n")
}
