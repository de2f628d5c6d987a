// Package menu renders the plain-text menu card.
package menu

import (
	"bufio"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/carte/internal/catalog"
	"github.com/Simplici0/carte/internal/pricing"
)

const title = "Carte des boissons"

// Money formats a price with two decimals and the euro sign.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + " €"
}

// Percent formats a margin with two decimals.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + " %"
}

// Render writes the card: ingredient groups in menu order, then cocktails.
func Render(w io.Writer, groups []catalog.Group, cocktails []pricing.Cocktail) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, title)
	for _, g := range groups {
		fmt.Fprintf(bw, "\n== %s ==\n", g.Label)
		for _, ing := range g.Ingredients {
			writeIngredient(bw, ing)
		}
	}

	if len(cocktails) > 0 {
		fmt.Fprint(bw, "\n== Cocktails ==\n")
		for _, c := range cocktails {
			writeCocktail(bw, c)
		}
	}

	return bw.Flush()
}

func writeIngredient(w io.Writer, ing pricing.Ingredient) {
	if ing.Format == pricing.FormatStandard {
		fmt.Fprintln(w, ing.Name)
	} else {
		fmt.Fprintf(w, "%s (%s)\n", ing.Name, ing.Format)
	}
	for _, line := range ing.Prices {
		fmt.Fprintf(w, "  %-14s %10s", line.Label, Money(line.Selling.Inclusive))
		if hh, ok := ing.HappyHour[line.Label]; ok {
			fmt.Fprintf(w, "   happy hour %s", Money(hh))
		}
		fmt.Fprintln(w)
	}
}

func writeCocktail(w io.Writer, c pricing.Cocktail) {
	margin := "n/d"
	if c.Margin != nil {
		margin = Percent(*c.Margin)
	}
	fmt.Fprintln(w, c.Name)
	fmt.Fprintf(w, "  coût %s  HT %s  TTC %s  marge %s\n",
		Money(c.Cost), Money(c.Selling.Exclusive), Money(c.Selling.Inclusive), margin)
}
