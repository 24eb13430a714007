package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/starford/recipes/internal/models"
)

// Session is a transactional unit of work. It is only valid inside the
// WithSession body that received it.
type Session interface {
	InsertRecipe(ctx context.Context, r *models.Recipe) error
	InsertIngredient(ctx context.Context, ing *models.Ingredient) error
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	IncrementAllViews(ctx context.Context) (int64, error)
	GetRecipe(ctx context.Context, id int64) (*models.Recipe, error)
	IncrementViews(ctx context.Context, id int64) error
	IngredientsByRecipe(ctx context.Context, recipeID int64) ([]models.Ingredient, error)
}

// Gateway hands out units of work.
type Gateway interface {
	WithSession(ctx context.Context, fn func(Session) error) error
}

// Verify implementations at compile time.
var (
	_ Gateway = (*DB)(nil)
	_ Session = (*session)(nil)
)

// WithSession runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back on error or panic.
func (db *DB) WithSession(ctx context.Context, fn func(Session) error) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(&session{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

type session struct {
	tx *sqlx.Tx
}
