package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/carte/internal/catalog"
	"github.com/Simplici0/carte/internal/httpx"
	"github.com/Simplici0/carte/internal/log"
	"github.com/Simplici0/carte/internal/menu"
	"github.com/Simplici0/carte/internal/pricing"
)

func operatorFrom(ctx context.Context) string {
	operator, _ := ctx.Value(operatorKey).(string)
	return operator
}

type ingredientPreview struct {
	pricing.Draft
	Category pricing.Category `json:"category"`
	Format   pricing.Format   `json:"format"`
	Complete bool             `json:"complete"`
}

type cocktailPreview struct {
	pricing.CocktailDraft
	Pricing pricing.CocktailPricing `json:"pricing"`
}

func (s *server) handleUnits(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, pricing.Table())
}

func (s *server) handleMenu(w http.ResponseWriter, r *http.Request) {
	groups, err := s.catalog.Groups(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	cocktails, err := s.catalog.Cocktails(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := menu.Render(w, groups, cocktails); err != nil {
		log.Error(r.Context(), "render menu", "error", err)
	}
}

func (s *server) handlePreviewIngredient(w http.ResponseWriter, r *http.Request) {
	var form catalog.IngredientForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	d, err := s.catalog.PreviewIngredient(form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ingredientPreview{
		Draft:    d,
		Category: d.Product.Category(),
		Format:   d.Product.Format(),
		Complete: d.Complete(),
	})
}

func (s *server) handleIngredientsList(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.catalog.Ingredients(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ingredients)
}

func (s *server) handleIngredientCreate(w http.ResponseWriter, r *http.Request) {
	var form catalog.IngredientForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	ing, err := s.catalog.SaveIngredient(r.Context(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	log.Debug(r.Context(), "ingredient created", "ingredient_id", ing.ID, "operator", operatorFrom(r.Context()))
	httpx.JSON(w, http.StatusCreated, ing)
}

func (s *server) handleIngredientGet(w http.ResponseWriter, r *http.Request) {
	ing, err := s.catalog.Ingredient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ing)
}

func (s *server) handleIngredientUpdate(w http.ResponseWriter, r *http.Request) {
	var form catalog.IngredientPatchForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	ing, err := s.catalog.UpdateIngredient(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ing)
}

func (s *server) handleIngredientDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalog.RemoveIngredient(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	log.Debug(r.Context(), "ingredient deleted", "ingredient_id", id, "operator", operatorFrom(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handlePreviewCocktail(w http.ResponseWriter, r *http.Request) {
	var form catalog.CocktailForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	d, p, err := s.catalog.PreviewCocktail(r.Context(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cocktailPreview{CocktailDraft: d, Pricing: p})
}

func (s *server) handleCocktailsList(w http.ResponseWriter, r *http.Request) {
	cocktails, err := s.catalog.Cocktails(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cocktails)
}

func (s *server) handleCocktailCreate(w http.ResponseWriter, r *http.Request) {
	var form catalog.CocktailForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	c, err := s.catalog.SaveCocktail(r.Context(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	log.Debug(r.Context(), "cocktail created", "cocktail_id", c.ID, "operator", operatorFrom(r.Context()))
	httpx.JSON(w, http.StatusCreated, c)
}

func (s *server) handleCocktailGet(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.Cocktail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
