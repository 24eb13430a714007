package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/recipes/internal/apperr"
	"github.com/starford/recipes/internal/recipeservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc            *recipeservice.Service
	notFoundStatus int
}

// NewHandler creates a new Handler. legacyNotFound answers unknown recipe ids
// with 400 instead of 404.
func NewHandler(svc *recipeservice.Service, legacyNotFound bool) *Handler {
	status := http.StatusNotFound
	if legacyNotFound {
		status = http.StatusBadRequest
	}
	return &Handler{svc: svc, notFoundStatus: status}
}

// CreateRecipe handles POST /recipes/.
//
//	@Summary		Create a recipe with its ingredients
//	@Tags			recipes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateRecipeRequest	true	"Recipe to create"
//	@Success		200		{object}	RecipeDetail
//	@Failure		413		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Router			/recipes/ [post]
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req CreateRecipeRequest
	if status, errBody := decodeJSON(w, r, &req); errBody != nil {
		writeJSON(w, status, errBody)
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	recipe, err := h.svc.CreateRecipe(r.Context(), req.ToInput())
	if err != nil {
		slog.Error("create recipe failed", slog.String("title", *req.Title), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// ListRecipes handles GET /recipes/. Every listed recipe's views are
// incremented; the response shows the counts from before the increment.
//
//	@Summary		List recipes by popularity
//	@Tags			recipes
//	@Produce		json
//	@Success		200		{array}		RecipeSummary
//	@Router			/recipes/ [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListRecipes(r.Context())
	if err != nil {
		slog.Error("list recipes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetRecipe handles GET /recipes/{id}.
//
//	@Summary		Get a recipe with its ingredients
//	@Tags			recipes
//	@Produce		json
//	@Param			id		path		int		true	"Recipe ID"
//	@Success		200		{object}	RecipeDetail
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Router			/recipes/{id} [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{
			Error:  "validation failed",
			Fields: map[string]string{"id": "must be an integer"},
		})
		return
	}

	recipe, err := h.svc.GetRecipe(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, h.notFoundStatus, errorBody("recipe not found"))
		} else {
			slog.Error("get recipe failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{Error: "validation failed", Fields: verrs})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
}
