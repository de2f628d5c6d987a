package pricing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidFormat   = errors.New("invalid format for category")
)

// Category is the closed set of ingredient families.
type Category string

const (
	CategoryBeer   Category = "beer"
	CategoryWine   Category = "wine"
	CategorySoft   Category = "soft"
	CategorySpirit Category = "spirit"
	CategoryFruit  Category = "fruit"
	CategoryJuice  Category = "juice"
)

// Categories lists every category in menu order.
var Categories = []Category{
	CategoryBeer,
	CategoryWine,
	CategorySoft,
	CategorySpirit,
	CategoryFruit,
	CategoryJuice,
}

var categoryLabels = map[Category]string{
	CategoryBeer:   "Bière",
	CategoryWine:   "Vin",
	CategorySoft:   "Soft",
	CategorySpirit: "Alcool fort",
	CategoryFruit:  "Fruits",
	CategoryJuice:  "Jus",
}

// Label returns the French display label.
func (c Category) Label() string { return categoryLabels[c] }

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory accepts both the key ("spirit") and the display label ("Alcool fort").
func ParseCategory(raw string) (Category, error) {
	s := strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Label()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// Format is the purchasing format of an ingredient.
type Format string

const (
	FormatKeg      Format = "fût"
	FormatBottle   Format = "bouteille"
	FormatStandard Format = "standard"
)

// ParseFormat maps free text to a known Format. Empty input yields "".
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "fût", "fut", "keg":
		return FormatKeg, nil
	case "bouteille", "bottle":
		return FormatBottle, nil
	case "standard":
		return FormatStandard, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, raw)
}

// RecipeUnit is the unit cocktail quantities of an ingredient are given in.
// PerPurchaseUnit is how many of them make one purchased unit.
type RecipeUnit struct {
	Symbol          string  `json:"symbol"`
	PerPurchaseUnit float64 `json:"per_purchase_unit"`
}

var (
	Centilitre = RecipeUnit{Symbol: "cl", PerPurchaseUnit: 100}
	Gram       = RecipeUnit{Symbol: "g", PerPurchaseUnit: 1000}
	Piece      = RecipeUnit{Symbol: "unité", PerPurchaseUnit: 1}
)

// SubUnit is a sellable portion of the purchased unit.
type SubUnit struct {
	Label    string  `json:"label"`
	Fraction float64 `json:"fraction"`
}

type conversion struct {
	subUnits []SubUnit
	recipe   RecipeUnit
}

type productKey struct {
	category Category
	format   Format
}

// conversions is the single source of truth for category unit economics.
var conversions = map[productKey]conversion{
	{CategoryBeer, FormatKeg}: {
		subUnits: []SubUnit{{"demi", 0.25}, {"pinte", 0.5}},
		recipe:   Centilitre,
	},
	{CategoryBeer, FormatBottle}: {
		subUnits: []SubUnit{{"unité", 1}},
		recipe:   Piece,
	},
	{CategoryWine, FormatStandard}: {
		subUnits: []SubUnit{{"verre", 0.125}, {"bouteille", 0.75}},
		recipe:   Centilitre,
	},
	{CategorySoft, FormatStandard}: {
		subUnits: []SubUnit{{"unité", 1}},
		recipe:   Piece,
	},
	{CategorySpirit, FormatStandard}: {
		subUnits: []SubUnit{{"dose (4cl)", 0.04}},
		recipe:   Centilitre,
	},
	{CategoryFruit, FormatStandard}: {
		subUnits: []SubUnit{{"100g", 0.1}},
		recipe:   Gram,
	},
	{CategoryJuice, FormatStandard}: {
		subUnits: []SubUnit{{"verre (20cl)", 0.2}},
		recipe:   Centilitre,
	},
}

// Product is a validated (category, format) pair. The zero value is invalid.
type Product struct {
	category Category
	format   Format
}

// NewProduct validates the pair. Beer takes fût (default) or bouteille; every other
// category is normalized to the standard format.
func NewProduct(category Category, format Format) (Product, error) {
	if !category.Valid() {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	switch format {
	case "", FormatKeg, FormatBottle, FormatStandard:
	default:
		return Product{}, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	if category == CategoryBeer {
		switch format {
		case "":
			format = FormatKeg
		case FormatStandard:
			return Product{}, fmt.Errorf("%w: beer requires %s or %s", ErrInvalidFormat, FormatKeg, FormatBottle)
		}
	} else {
		format = FormatStandard
	}

	return Product{category: category, format: format}, nil
}

// MustProduct is NewProduct for static tables; it panics on an invalid pair.
func MustProduct(category Category, format Format) Product {
	p, err := NewProduct(category, format)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Product) Category() Category { return p.category }
func (p Product) Format() Format     { return p.format }
func (p Product) IsZero() bool       { return p.category == "" }

// SubUnits returns the sellable sub-units in display order.
func (p Product) SubUnits() []SubUnit {
	conv, ok := conversions[productKey{p.category, p.format}]
	if !ok {
		return nil
	}
	out := make([]SubUnit, len(conv.subUnits))
	copy(out, conv.subUnits)
	return out
}

// RecipeUnit returns the unit cocktail quantities are expressed in.
func (p Product) RecipeUnit() RecipeUnit {
	return conversions[productKey{p.category, p.format}].recipe
}

// Formats returns the formats a category accepts.
func Formats(category Category) []Format {
	if category == CategoryBeer {
		return []Format{FormatKeg, FormatBottle}
	}
	return []Format{FormatStandard}
}

// TableRow is one entry of the conversion table.
type TableRow struct {
	Category   Category   `json:"category"`
	Format     Format     `json:"format"`
	SubUnits   []SubUnit  `json:"sub_units"`
	RecipeUnit RecipeUnit `json:"recipe_unit"`
}

// Table returns the conversion table in menu order.
func Table() []TableRow {
	rows := make([]TableRow, 0, len(conversions))
	for _, c := range Categories {
		for _, f := range Formats(c) {
			p := MustProduct(c, f)
			rows = append(rows, TableRow{
				Category:   c,
				Format:     f,
				SubUnits:   p.SubUnits(),
				RecipeUnit: p.RecipeUnit(),
			})
		}
	}
	return rows
}
