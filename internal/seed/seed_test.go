package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Simplici0/carte/internal/catalog"
	"github.com/Simplici0/carte/internal/db"
	"github.com/Simplici0/carte/internal/migrations"
	"github.com/Simplici0/carte/internal/pricing"
	"github.com/Simplici0/carte/internal/store"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	ctx := context.Background()
	registry := store.NewIngredients(database)

	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, registry, Demo, pricing.DefaultMultiplier)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != len(Demo) {
				t.Fatalf("expected %d inserts in first run, got %d", len(Demo), stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	all, err := registry.All(ctx)
	if err != nil {
		t.Fatalf("list ingredients: %v", err)
	}
	if len(all) != len(Demo) {
		t.Fatalf("expected %d ingredients, got %d", len(Demo), len(all))
	}
	for _, ing := range all {
		if len(ing.Prices) == 0 {
			t.Fatalf("expected derived prices for %q", ing.Name)
		}
	}
}

func TestRunRejectsInvalidItem(t *testing.T) {
	t.Parallel()

	registry := catalog.NewMemoryIngredients()
	_, err := Run(context.Background(), registry, []Item{
		{Name: "Bière fantôme", Category: pricing.CategoryBeer, Format: pricing.FormatStandard, PurchasePrice: 4, TaxRate: pricing.TaxStandard},
	}, 0)
	if err == nil {
		t.Fatal("expected error for beer without keg or bottle format")
	}

	all, _ := registry.All(context.Background())
	if len(all) != 0 {
		t.Fatalf("expected empty registry, got %d", len(all))
	}
}
