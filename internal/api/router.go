// Package api implements the recipe REST API using chi.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/recipes/internal/recipeservice"
)

// NewRouter creates a chi router with the recipe routes. It is meant to be
// mounted at /recipes, which makes both /recipes and /recipes/ reach the
// collection handlers. A trailing slash on a recipe path is ignored.
func NewRouter(svc *recipeservice.Service, legacyNotFound bool) chi.Router {
	h := NewHandler(svc, legacyNotFound)

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Get("/", h.ListRecipes)
	r.Post("/", h.CreateRecipe)
	r.Get("/{id}", h.GetRecipe)

	return r
}
