package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv        string `envconfig:"APP_ENV" default:"development"`
	Port          string `envconfig:"PORT" default:"8080"`
	DBPath        string `envconfig:"DB_PATH" default:":memory:"`
	SessionSecret string `envconfig:"SESSION_SECRET"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	SeedDemo      bool   `envconfig:"SEED_DEMO" default:"false"`

	IngredientMultiplier float64 `envconfig:"INGREDIENT_MULTIPLIER" default:"3.5"`
	CocktailMultiplier   float64 `envconfig:"COCKTAIL_MULTIPLIER" default:"3.5"`
	RateLimitPerMinute   int     `envconfig:"RATE_LIMIT_PER_MINUTE" default:"300"`
}

// Load reads a local .env file (if any) and then the environment.
func Load() (Config, error) {
	// Best-effort: production injects real environment variables.
	_, _ = loadDotEnv(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	if cfg.IngredientMultiplier <= 0 {
		return Config{}, fmt.Errorf("INGREDIENT_MULTIPLIER must be greater than 0")
	}
	if cfg.CocktailMultiplier <= 0 {
		return Config{}, fmt.Errorf("COCKTAIL_MULTIPLIER must be greater than 0")
	}
	return cfg, nil
}

// IsDev reports whether the application runs in development mode.
func (c Config) IsDev() bool {
	return c.AppEnv == "" || c.AppEnv == "development"
}

// Warnings lists settings that are usable but should be fixed.
func (c Config) Warnings() []string {
	var out []string
	if c.SessionSecret == "" {
		out = append(out, "SESSION_SECRET is not set")
	}
	return out
}
