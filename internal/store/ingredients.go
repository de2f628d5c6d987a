// Package store persists the registries in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/carte/internal/catalog"
	"github.com/Simplici0/carte/internal/pricing"
)

const ingredientColumns = `id, name, category, format, purchase_price, multiplier, tax_rate, prices_json, happy_hour_json`

// Ingredients is a catalog.IngredientRegistry backed by the ingredients table.
type Ingredients struct {
	db *sql.DB
}

func NewIngredients(db *sql.DB) *Ingredients {
	return &Ingredients{db: db}
}

var _ catalog.IngredientRegistry = (*Ingredients)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row rowScanner) (pricing.Ingredient, error) {
	var (
		ing                pricing.Ingredient
		taxRate            float64
		pricesJSON, hhJSON string
	)
	if err := row.Scan(&ing.ID, &ing.Name, &ing.Category, &ing.Format, &ing.PurchasePrice, &ing.Multiplier, &taxRate, &pricesJSON, &hhJSON); err != nil {
		return pricing.Ingredient{}, err
	}
	ing.TaxRate = pricing.TaxRate(taxRate)
	if err := json.Unmarshal([]byte(pricesJSON), &ing.Prices); err != nil {
		return pricing.Ingredient{}, fmt.Errorf("decode prices of %s: %w", ing.ID, err)
	}
	if err := json.Unmarshal([]byte(hhJSON), &ing.HappyHour); err != nil {
		return pricing.Ingredient{}, fmt.Errorf("decode happy hour of %s: %w", ing.ID, err)
	}
	if len(ing.HappyHour) == 0 {
		ing.HappyHour = nil
	}
	return ing, nil
}

func encodeIngredient(ing pricing.Ingredient) (prices, happyHour string, err error) {
	p, err := json.Marshal(ing.Prices)
	if err != nil {
		return "", "", fmt.Errorf("encode prices: %w", err)
	}
	hh := ing.HappyHour
	if hh == nil {
		hh = map[string]float64{}
	}
	h, err := json.Marshal(hh)
	if err != nil {
		return "", "", fmt.Errorf("encode happy hour: %w", err)
	}
	return string(p), string(h), nil
}

func (s *Ingredients) Add(ctx context.Context, ing pricing.Ingredient) (pricing.Ingredient, error) {
	if ing.ID == "" {
		ing.ID = catalog.NewID()
	}
	prices, hh, err := encodeIngredient(ing)
	if err != nil {
		return pricing.Ingredient{}, err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (`+ingredientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ing.ID, ing.Name, ing.Category, ing.Format, ing.PurchasePrice, ing.Multiplier, float64(ing.TaxRate), prices, hh); err != nil {
		return pricing.Ingredient{}, fmt.Errorf("insert ingredient: %w", err)
	}
	return ing.Clone(), nil
}

func (s *Ingredients) Get(ctx context.Context, id string) (pricing.Ingredient, error) {
	return getIngredient(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getIngredient(ctx context.Context, q queryRower, id string) (pricing.Ingredient, error) {
	row := q.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id)
	ing, err := scanIngredient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Ingredient{}, fmt.Errorf("ingredient %s: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("query ingredient: %w", err)
	}
	return ing, nil
}

// Update applies patch inside a transaction. A rejected patch rolls back and
// leaves the row unchanged.
func (s *Ingredients) Update(ctx context.Context, id string, patch pricing.Patch) (pricing.Ingredient, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("begin update transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getIngredient(ctx, tx, id)
	if err != nil {
		return pricing.Ingredient{}, err
	}
	updated, err := current.Apply(patch)
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("update ingredient %s: %w", id, err)
	}
	prices, hh, err := encodeIngredient(updated)
	if err != nil {
		return pricing.Ingredient{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE ingredients
		SET name = ?, purchase_price = ?, multiplier = ?, tax_rate = ?, prices_json = ?, happy_hour_json = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
	`, updated.Name, updated.PurchasePrice, updated.Multiplier, float64(updated.TaxRate), prices, hh, id); err != nil {
		return pricing.Ingredient{}, fmt.Errorf("update ingredient: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return pricing.Ingredient{}, fmt.Errorf("commit update transaction: %w", err)
	}
	return updated, nil
}

func (s *Ingredients) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ingredient %s: %w", id, catalog.ErrNotFound)
	}
	return nil
}

func (s *Ingredients) ListByCategory(ctx context.Context, category pricing.Category) ([]pricing.Ingredient, error) {
	return s.list(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE category = ? ORDER BY seq`, category)
}

func (s *Ingredients) All(ctx context.Context) ([]pricing.Ingredient, error) {
	return s.list(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY seq`)
}

func (s *Ingredients) list(ctx context.Context, query string, args ...any) ([]pricing.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	out := make([]pricing.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return out, nil
}
