package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Simplici0/carte/internal/catalog"
	"github.com/Simplici0/carte/internal/pricing"
)

const cocktailColumns = `id, name, tax_rate, override, cost_price, selling_exclusive, selling_inclusive, margin, lines_blob`

// Cocktails is a catalog.CocktailRegistry backed by the cocktails table. Recipe
// lines, with their ingredient snapshots, are stored as one msgpack blob.
type Cocktails struct {
	db *sql.DB
}

func NewCocktails(db *sql.DB) *Cocktails {
	return &Cocktails{db: db}
}

var _ catalog.CocktailRegistry = (*Cocktails)(nil)

func scanCocktail(row rowScanner) (pricing.Cocktail, error) {
	var (
		c       pricing.Cocktail
		taxRate float64
		margin  sql.NullFloat64
		blob    []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &taxRate, &c.Override, &c.Cost, &c.Selling.Exclusive, &c.Selling.Inclusive, &margin, &blob); err != nil {
		return pricing.Cocktail{}, err
	}
	c.TaxRate = pricing.TaxRate(taxRate)
	if margin.Valid {
		m := margin.Float64
		c.Margin = &m
	}
	if err := msgpack.Unmarshal(blob, &c.Ingredients); err != nil {
		return pricing.Cocktail{}, fmt.Errorf("decode lines of %s: %w", c.ID, err)
	}
	return c, nil
}

func (s *Cocktails) Add(ctx context.Context, c pricing.Cocktail) (pricing.Cocktail, error) {
	if c.ID == "" {
		c.ID = catalog.NewID()
	}
	blob, err := msgpack.Marshal(c.Ingredients)
	if err != nil {
		return pricing.Cocktail{}, fmt.Errorf("encode cocktail lines: %w", err)
	}
	var margin sql.NullFloat64
	if c.Margin != nil {
		margin = sql.NullFloat64{Float64: *c.Margin, Valid: true}
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO cocktails (`+cocktailColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, float64(c.TaxRate), c.Override, c.Cost, c.Selling.Exclusive, c.Selling.Inclusive, margin, blob); err != nil {
		return pricing.Cocktail{}, fmt.Errorf("insert cocktail: %w", err)
	}
	return c, nil
}

func (s *Cocktails) Get(ctx context.Context, id string) (pricing.Cocktail, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cocktailColumns+` FROM cocktails WHERE id = ?`, id)
	c, err := scanCocktail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Cocktail{}, fmt.Errorf("cocktail %s: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return pricing.Cocktail{}, fmt.Errorf("query cocktail: %w", err)
	}
	return c, nil
}

func (s *Cocktails) All(ctx context.Context) ([]pricing.Cocktail, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+cocktailColumns+` FROM cocktails ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query cocktails: %w", err)
	}
	defer rows.Close()

	out := make([]pricing.Cocktail, 0)
	for rows.Next() {
		c, err := scanCocktail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cocktail: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cocktails: %w", err)
	}
	return out, nil
}
