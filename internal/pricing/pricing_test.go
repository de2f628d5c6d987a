package pricing

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func mustLine(t *testing.T, lines Lines, label string) Line {
	t.Helper()
	line, ok := lines.Find(label)
	if !ok {
		t.Fatalf("missing line %q in %+v", label, lines)
	}
	return line
}

func TestTaxRoundTrip(t *testing.T) {
	for _, rate := range []float64{0, 5.5, 10, 20, 33.3, 99.9} {
		for _, amount := range []float64{0, 0.01, 1, 4.2, 1234.5678} {
			got := InclusiveToExclusive(ExclusiveToInclusive(amount, rate), rate)
			nearlyEqual(t, "round trip", got, amount)
		}
	}
}

func TestParseTaxRate(t *testing.T) {
	cases := map[string]TaxRate{"5.5": TaxReduced, "5,5": TaxReduced, "10%": TaxIntermediate, " 20 ": TaxStandard}
	for raw, want := range cases {
		got, err := ParseTaxRate(raw)
		if err != nil {
			t.Fatalf("ParseTaxRate(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseTaxRate(%q) = %v, want %v", raw, got, want)
		}
	}
	for _, raw := range []string{"", "abc", "19.6", "0"} {
		if _, err := ParseTaxRate(raw); !errors.Is(err, ErrInvalidTaxRate) {
			t.Fatalf("ParseTaxRate(%q) err = %v, want ErrInvalidTaxRate", raw, err)
		}
	}
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(CategoryBeer, "")
	if err != nil || p.Format() != FormatKeg {
		t.Fatalf("beer default format = %v (%v), want keg", p.Format(), err)
	}
	if _, err := NewProduct(CategoryBeer, FormatStandard); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("beer/standard err = %v, want ErrInvalidFormat", err)
	}
	p, err = NewProduct(CategoryWine, FormatBottle)
	if err != nil || p.Format() != FormatStandard {
		t.Fatalf("wine format = %v (%v), want standard", p.Format(), err)
	}
	if _, err := NewProduct("cider", FormatStandard); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("unknown category err = %v", err)
	}
	if _, err := NewProduct(CategorySoft, "can"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("unknown format err = %v", err)
	}
}

func TestParseCategoryAcceptsLabels(t *testing.T) {
	got, err := ParseCategory("alcool fort")
	if err != nil || got != CategorySpirit {
		t.Fatalf("ParseCategory = %v (%v), want spirit", got, err)
	}
}

func TestTableCoversEveryCategory(t *testing.T) {
	seen := map[Category]bool{}
	for _, row := range Table() {
		if len(row.SubUnits) == 0 {
			t.Fatalf("row %s/%s has no sub-units", row.Category, row.Format)
		}
		seen[row.Category] = true
	}
	for _, c := range Categories {
		if !seen[c] {
			t.Fatalf("category %s missing from table", c)
		}
	}
}

func TestDeriveSellingPrices_BeerKeg(t *testing.T) {
	lines := DeriveSellingPrices(4.00, MustProduct(CategoryBeer, FormatKeg), 3.5, 20)
	if len(lines) != 2 || lines[0].Label != "demi" || lines[1].Label != "pinte" {
		t.Fatalf("unexpected lines: %+v", lines)
	}

	demi := lines[0]
	nearlyEqual(t, "demi cost", demi.CostBasis, 1.00)
	nearlyEqual(t, "demi HT", demi.Selling.Exclusive, 3.50)
	nearlyEqual(t, "demi TTC", demi.Selling.Inclusive, 4.20)

	pinte := lines[1]
	nearlyEqual(t, "pinte cost", pinte.CostBasis, 2.00)
	nearlyEqual(t, "pinte HT", pinte.Selling.Exclusive, 7.00)
	nearlyEqual(t, "pinte TTC", pinte.Selling.Inclusive, 8.40)
}

func TestDeriveSellingPrices_Wine(t *testing.T) {
	lines := DeriveSellingPrices(10.00, MustProduct(CategoryWine, ""), 3.5, 20)

	verre := mustLine(t, lines, "verre")
	nearlyEqual(t, "verre cost", verre.CostBasis, 1.25)
	nearlyEqual(t, "verre HT", verre.Selling.Exclusive, 4.375)
	nearlyEqual(t, "verre TTC", verre.Selling.Inclusive, 5.25)

	bouteille := mustLine(t, lines, "bouteille")
	nearlyEqual(t, "bouteille cost", bouteille.CostBasis, 7.50)
	nearlyEqual(t, "bouteille HT", bouteille.Selling.Exclusive, 26.25)
	nearlyEqual(t, "bouteille TTC", bouteille.Selling.Inclusive, 31.50)
}

func TestDeriveSellingPrices_InvalidPurchasePrice(t *testing.T) {
	p := MustProduct(CategorySpirit, "")
	for _, price := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		if lines := DeriveSellingPrices(price, p, 3.5, 20); len(lines) != 0 {
			t.Fatalf("price %v produced lines %+v", price, lines)
		}
	}
}

func TestApplyManualSellingPrice_PinteRoundTrip(t *testing.T) {
	multiplier, lines, err := ApplyManualSellingPrice(4.00, MustProduct(CategoryBeer, FormatKeg), "pinte", 8.40, 20)
	if err != nil {
		t.Fatalf("ApplyManualSellingPrice: %v", err)
	}
	nearlyEqual(t, "multiplier", multiplier, 3.5)
	nearlyEqual(t, "pinte HT", mustLine(t, lines, "pinte").Selling.Exclusive, 7.00)
}

func TestApplyManualSellingPrice_RoundTripEveryRow(t *testing.T) {
	for _, row := range Table() {
		p := MustProduct(row.Category, row.Format)
		for _, rate := range TaxRates {
			lines := DeriveSellingPrices(12.34, p, 2.75, rate.Percent())
			for _, line := range lines {
				got, err := ImpliedMultiplier(12.34, p, line.Label, line.Selling.Inclusive, rate.Percent())
				if err != nil {
					t.Fatalf("%s/%s %s: %v", row.Category, row.Format, line.Label, err)
				}
				nearlyEqual(t, string(row.Category)+" "+line.Label, got, 2.75)
			}
		}
	}
}

func TestManualPricePropagatesToSiblings(t *testing.T) {
	d := NewDraft(MustProduct(CategoryBeer, FormatKeg), 3.5).WithPurchasePrice(4)
	d, err := d.WithTaxRate(TaxStandard)
	if err != nil {
		t.Fatalf("WithTaxRate: %v", err)
	}
	before := mustLine(t, d.Lines, "pinte").Selling.Inclusive

	edited, err := d.WithManualPrice("demi", 5.04)
	if err != nil {
		t.Fatalf("WithManualPrice: %v", err)
	}

	nearlyEqual(t, "multiplier", edited.Multiplier, 4.2)
	nearlyEqual(t, "demi TTC", mustLine(t, edited.Lines, "demi").Selling.Inclusive, 5.04)
	nearlyEqual(t, "pinte ratio", mustLine(t, edited.Lines, "pinte").Selling.Inclusive/before, 4.2/3.5)
}

func TestManualPriceRejectsInvalidInputWithoutChange(t *testing.T) {
	d := NewDraft(MustProduct(CategoryWine, ""), 3.5).WithPurchasePrice(10)

	cases := []struct {
		label string
		price float64
		want  error
	}{
		{"verre", 0, ErrInvalidAmount},
		{"verre", -3, ErrInvalidAmount},
		{"verre", math.NaN(), ErrInvalidAmount},
		{"magnum", 12, ErrUnknownSubUnit},
	}
	for _, tc := range cases {
		got, err := d.WithManualPrice(tc.label, tc.price)
		if !errors.Is(err, tc.want) {
			t.Fatalf("WithManualPrice(%q, %v) err = %v, want %v", tc.label, tc.price, err, tc.want)
		}
		if !reflect.DeepEqual(got, d) {
			t.Fatalf("draft changed on rejected input: %+v", got)
		}
	}
}

func TestManualPriceWithZeroCostBasis(t *testing.T) {
	d := NewDraft(MustProduct(CategoryJuice, ""), 3.5)
	if _, err := d.WithManualPrice("verre (20cl)", 3); !errors.Is(err, ErrZeroCostBasis) {
		t.Fatalf("err = %v, want ErrZeroCostBasis", err)
	}
}

func TestTaxAndMultiplierAreIndependent(t *testing.T) {
	d := NewDraft(MustProduct(CategorySpirit, ""), 3.5).WithPurchasePrice(25)

	taxed, err := d.WithTaxRate(TaxIntermediate)
	if err != nil {
		t.Fatalf("WithTaxRate: %v", err)
	}
	nearlyEqual(t, "multiplier after tax change", taxed.Multiplier, 3.5)
	nearlyEqual(t, "dose TTC", taxed.Lines[0].Selling.Inclusive, 25*0.04*3.5*1.1)

	marked, err := taxed.WithMultiplier(5)
	if err != nil {
		t.Fatalf("WithMultiplier: %v", err)
	}
	if marked.TaxRate != TaxIntermediate {
		t.Fatalf("tax rate changed to %v", marked.TaxRate)
	}
	nearlyEqual(t, "dose HT", marked.Lines[0].Selling.Exclusive, 5)

	if _, err := marked.WithMultiplier(0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero multiplier err = %v", err)
	}
	if _, err := marked.WithTaxRate(19.6); !errors.Is(err, ErrInvalidTaxRate) {
		t.Fatalf("bad tax err = %v", err)
	}
}

func TestDraftInvalidPurchasePriceIsIncomplete(t *testing.T) {
	d := NewDraft(MustProduct(CategoryBeer, FormatBottle), 0).WithPurchasePrice(2)
	if !d.Complete() {
		t.Fatalf("expected complete draft")
	}
	nearlyEqual(t, "default multiplier", d.Multiplier, DefaultMultiplier)
	if d.WithPurchasePrice(math.NaN()).Complete() {
		t.Fatalf("expected incomplete draft for NaN price")
	}
}

func TestHappyHourPrices(t *testing.T) {
	d := NewDraft(MustProduct(CategoryBeer, FormatKeg), 3.5).WithPurchasePrice(4)

	d, err := d.WithHappyHourPrice("pinte", 5)
	if err != nil {
		t.Fatalf("WithHappyHourPrice: %v", err)
	}
	d, err = d.WithHappyHourFromRegular("demi")
	if err != nil {
		t.Fatalf("WithHappyHourFromRegular: %v", err)
	}
	nearlyEqual(t, "demi happy hour", d.HappyHour["demi"], mustLine(t, d.Lines, "demi").Selling.Inclusive)
	nearlyEqual(t, "multiplier untouched", d.Multiplier, 3.5)

	if _, err := d.WithHappyHourPrice("pinte", -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative happy hour err = %v", err)
	}

	bottled, err := d.WithFormat(FormatBottle)
	if err != nil {
		t.Fatalf("WithFormat: %v", err)
	}
	if len(bottled.HappyHour) != 0 {
		t.Fatalf("stale happy hour prices kept: %+v", bottled.HappyHour)
	}
}

func TestIngredientApply(t *testing.T) {
	d := NewDraft(MustProduct(CategoryWine, ""), 3.5).WithName("Côtes du Rhône").WithPurchasePrice(10)
	d, _ = d.WithTaxRate(TaxStandard)
	ing := d.Ingredient("wine-1")

	price := 12.0
	updated, err := ing.Apply(Patch{PurchasePrice: &price})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	nearlyEqual(t, "verre HT", mustLine(t, updated.Prices, "verre").Selling.Exclusive, 12*0.125*3.5)

	updated, err = updated.Apply(Patch{ManualPrice: &ManualPrice{SubUnit: "bouteille", Inclusive: 36}})
	if err != nil {
		t.Fatalf("Apply manual: %v", err)
	}
	nearlyEqual(t, "multiplier", updated.Multiplier, 30/9.0)

	bad := -1.0
	same, err := updated.Apply(Patch{PurchasePrice: &bad})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if !reflect.DeepEqual(same, updated) {
		t.Fatalf("ingredient changed on rejected patch")
	}
}
