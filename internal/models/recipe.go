// Package models defines the persisted entities of the recipe book.
package models

// Recipe is a row in the recipes table.
type Recipe struct {
	ID              int64  `db:"id"`
	Title           string `db:"title"`
	PreparationTime int    `db:"preparation_time"`
	Description     string `db:"description"`
	Views           int    `db:"views"`
}

// Ingredient is a row in the ingredients table. RecipeID is the owning recipe.
type Ingredient struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Quantity    int    `db:"quantity"`
	Unit        string `db:"unit"`
	Description string `db:"description"`
	RecipeID    int64  `db:"recipe_id"`
}
