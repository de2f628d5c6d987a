package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/Simplici0/carte/internal/catalog"
	"github.com/Simplici0/carte/internal/config"
	"github.com/Simplici0/carte/internal/db"
	"github.com/Simplici0/carte/internal/log"
	"github.com/Simplici0/carte/internal/migrations"
	"github.com/Simplici0/carte/internal/seed"
	"github.com/Simplici0/carte/internal/store"
)

type server struct {
	auth    *authService
	catalog *catalog.Service
}

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		log.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	for _, w := range cfg.Warnings() {
		log.Info(ctx, "configuration warning", "warning", w)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return err
	}

	ingredients := store.NewIngredients(database)
	svc := catalog.NewService(ingredients, store.NewCocktails(database), catalog.Options{
		IngredientMultiplier: cfg.IngredientMultiplier,
		CocktailMultiplier:   cfg.CocktailMultiplier,
	})

	if cfg.SeedDemo {
		stats, err := seed.Run(ctx, ingredients, seed.Demo, cfg.IngredientMultiplier)
		if err != nil {
			return err
		}
		log.Info(ctx, "demo seed applied", "inserts", stats.Inserts, "skipped", stats.Skipped)
	}

	srv := &server{auth: newAuthService(cfg.SessionSecret), catalog: svc}
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", httpServer.Addr, "db_path", cfg.DBPath, "env", cfg.AppEnv)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return httpServer.Shutdown(shutdownCtx)
}

func (s *server) routes(cfg config.Config) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      cfg.IsDev(),
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(secureMiddleware.Handler)
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.Limit(cfg.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}

	r.Get("/healthz", handleHealth)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/units", s.handleUnits)
		r.Get("/menu.txt", s.handleMenu)

		r.Post("/preview/ingredient", s.handlePreviewIngredient)
		r.Get("/ingredients", s.handleIngredientsList)
		r.Post("/ingredients", s.handleIngredientCreate)
		r.Get("/ingredients/{id}", s.handleIngredientGet)
		r.Patch("/ingredients/{id}", s.handleIngredientUpdate)
		r.Delete("/ingredients/{id}", s.handleIngredientDelete)

		r.Post("/preview/cocktail", s.handlePreviewCocktail)
		r.Get("/cocktails", s.handleCocktailsList)
		r.Post("/cocktails", s.handleCocktailCreate)
		r.Get("/cocktails/{id}", s.handleCocktailGet)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
