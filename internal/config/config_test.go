package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads; envconfig treats an empty but
// present variable as a value, not as missing.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_ENV", "PORT", "DB_PATH", "SESSION_SECRET", "LOG_LEVEL", "SEED_DEMO", "INGREDIENT_MULTIPLIER", "COCKTAIL_MULTIPLIER", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, 3.5, cfg.IngredientMultiplier)
	assert.Equal(t, 3.5, cfg.CocktailMultiplier)
	assert.Equal(t, 300, cfg.RateLimitPerMinute)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, []string{"SESSION_SECRET is not set"}, cfg.Warnings())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("COCKTAIL_MULTIPLIER", "4")
	t.Setenv("SEED_DEMO", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4.0, cfg.CocktailMultiplier)
	assert.True(t, cfg.SeedDemo)
	assert.False(t, cfg.IsDev())
	assert.Empty(t, cfg.Warnings())
}

func TestLoadRejectsNonPositiveMultiplier(t *testing.T) {
	clearEnv(t)
	t.Setenv("INGREDIENT_MULTIPLIER", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("PORT=7070\nSEED_DEMO=true\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.True(t, cfg.SeedDemo)
}
