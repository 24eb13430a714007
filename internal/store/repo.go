package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/recipes/internal/apperr"
	"github.com/starford/recipes/internal/models"
)

// InsertRecipe inserts r and sets r.ID to the assigned identity.
func (s *session) InsertRecipe(ctx context.Context, r *models.Recipe) error {
	res, err := s.tx.ExecContext(ctx, `
		INSERT INTO recipes (title, preparation_time, description, views)
		VALUES (?, ?, ?, ?)
	`, r.Title, r.PreparationTime, r.Description, r.Views)
	if err != nil {
		return fmt.Errorf("store: insert recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: recipe id: %w", err)
	}
	r.ID = id
	return nil
}

// InsertIngredient inserts ing bound to ing.RecipeID and sets ing.ID.
func (s *session) InsertIngredient(ctx context.Context, ing *models.Ingredient) error {
	res, err := s.tx.ExecContext(ctx, `
		INSERT INTO ingredients (title, quantity, unit, description, recipe_id)
		VALUES (?, ?, ?, ?, ?)
	`, ing.Title, ing.Quantity, ing.Unit, ing.Description, ing.RecipeID)
	if err != nil {
		return fmt.Errorf("store: insert ingredient: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: ingredient id: %w", err)
	}
	ing.ID = id
	return nil
}

// ListRecipes returns every recipe ordered by views desc, preparation time asc.
// Only id, title, preparation_time and views are populated.
func (s *session) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	out := []models.Recipe{}
	err := s.tx.SelectContext(ctx, &out, `
		SELECT id, title, preparation_time, views
		FROM recipes
		ORDER BY views DESC, preparation_time ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list recipes: %w", err)
	}
	return out, nil
}

// IncrementAllViews bumps the view counter of every recipe and returns the
// number of rows touched.
func (s *session) IncrementAllViews(ctx context.Context) (int64, error) {
	res, err := s.tx.ExecContext(ctx, `UPDATE recipes SET views = views + 1`)
	if err != nil {
		return 0, fmt.Errorf("store: increment all views: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: increment all views: %w", err)
	}
	return n, nil
}

// GetRecipe returns the recipe with the given id or apperr.ErrNotFound.
func (s *session) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	var r models.Recipe
	err := s.tx.GetContext(ctx, &r, `
		SELECT id, title, preparation_time, description, views
		FROM recipes
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get recipe %d: %w", id, err)
	}
	return &r, nil
}

// IncrementViews bumps a single recipe's view counter.
func (s *session) IncrementViews(ctx context.Context, id int64) error {
	res, err := s.tx.ExecContext(ctx, `UPDATE recipes SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: increment views %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: increment views %d: %w", id, err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// IngredientsByRecipe returns the ingredients of recipeID in insertion order.
func (s *session) IngredientsByRecipe(ctx context.Context, recipeID int64) ([]models.Ingredient, error) {
	out := []models.Ingredient{}
	err := s.tx.SelectContext(ctx, &out, `
		SELECT id, title, quantity, unit, description, recipe_id
		FROM ingredients
		WHERE recipe_id = ?
		ORDER BY id ASC
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("store: ingredients of %d: %w", recipeID, err)
	}
	return out, nil
}
