// Package recipeservice implements the recipe operations on top of the storage gateway.
package recipeservice

import (
	"context"

	"github.com/starford/recipes/internal/metrics"
	"github.com/starford/recipes/internal/models"
	"github.com/starford/recipes/internal/store"
)

// IngredientInput is one ingredient of a recipe being created.
type IngredientInput struct {
	Title       string
	Quantity    int
	Unit        string
	Description string
}

// CreateRecipeInput carries an already validated create payload.
type CreateRecipeInput struct {
	Title           string
	PreparationTime int
	Views           int
	Description     string
	Ingredients     []IngredientInput
}

// RecipeSummary is a recipe as shown in the list view.
type RecipeSummary struct {
	Title           string `json:"title"`
	PreparationTime int    `json:"preparation_time"`
	Views           int    `json:"views"`
}

// IngredientDetail is an ingredient nested inside RecipeDetail.
type IngredientDetail struct {
	Title       string `json:"title"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// RecipeDetail is the full representation of a recipe.
type RecipeDetail struct {
	ID              int64              `json:"id"`
	Title           string             `json:"title"`
	PreparationTime int                `json:"preparation_time"`
	Views           int                `json:"views"`
	Description     string             `json:"description"`
	Ingredients     []IngredientDetail `json:"ingredients"`
}

// Service runs every operation inside exactly one unit of work.
type Service struct {
	gw store.Gateway
}

// NewService creates a new recipe service.
func NewService(gw store.Gateway) *Service {
	return &Service{gw: gw}
}

// CreateRecipe inserts the recipe and all of its ingredients atomically.
func (s *Service) CreateRecipe(ctx context.Context, in CreateRecipeInput) (*RecipeDetail, error) {
	recipe := models.Recipe{
		Title:           in.Title,
		PreparationTime: in.PreparationTime,
		Description:     in.Description,
		Views:           in.Views,
	}
	ingredients := make([]models.Ingredient, len(in.Ingredients))

	err := s.gw.WithSession(ctx, func(sess store.Session) error {
		if err := sess.InsertRecipe(ctx, &recipe); err != nil {
			return err
		}
		for i, ing := range in.Ingredients {
			ingredients[i] = models.Ingredient{
				Title:       ing.Title,
				Quantity:    ing.Quantity,
				Unit:        ing.Unit,
				Description: ing.Description,
				RecipeID:    recipe.ID,
			}
			if err := sess.InsertIngredient(ctx, &ingredients[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordCreated()
	return buildDetail(recipe, ingredients), nil
}

// ListRecipes returns all recipes ordered by views desc, preparation time asc,
// then increments every recipe's views. The returned counts are the ones
// read before the increment.
func (s *Service) ListRecipes(ctx context.Context) ([]RecipeSummary, error) {
	var (
		rows    []models.Recipe
		touched int64
	)
	err := s.gw.WithSession(ctx, func(sess store.Session) error {
		var err error
		if rows, err = sess.ListRecipes(ctx); err != nil {
			return err
		}
		touched, err = sess.IncrementAllViews(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordViews(touched)

	items := make([]RecipeSummary, len(rows))
	for i, r := range rows {
		items[i] = RecipeSummary{
			Title:           r.Title,
			PreparationTime: r.PreparationTime,
			Views:           r.Views,
		}
	}
	return items, nil
}

// GetRecipe increments the recipe's views and returns it with its
// ingredients. The returned views include this read. Unknown ids yield
// apperr.ErrNotFound and change nothing.
func (s *Service) GetRecipe(ctx context.Context, id int64) (*RecipeDetail, error) {
	var (
		recipe      *models.Recipe
		ingredients []models.Ingredient
	)
	err := s.gw.WithSession(ctx, func(sess store.Session) error {
		var err error
		if recipe, err = sess.GetRecipe(ctx, id); err != nil {
			return err
		}
		if err = sess.IncrementViews(ctx, id); err != nil {
			return err
		}
		recipe.Views++
		ingredients, err = sess.IngredientsByRecipe(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordViews(1)
	return buildDetail(*recipe, ingredients), nil
}

func buildDetail(r models.Recipe, ingredients []models.Ingredient) *RecipeDetail {
	out := &RecipeDetail{
		ID:              r.ID,
		Title:           r.Title,
		PreparationTime: r.PreparationTime,
		Views:           r.Views,
		Description:     r.Description,
		Ingredients:     make([]IngredientDetail, len(ingredients)),
	}
	for i, ing := range ingredients {
		out.Ingredients[i] = IngredientDetail{
			Title:       ing.Title,
			Quantity:    ing.Quantity,
			Unit:        ing.Unit,
			Description: ing.Description,
		}
	}
	return out
}
