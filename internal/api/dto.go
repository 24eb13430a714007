package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/recipes/internal/recipeservice"
)

// IngredientRequest is one ingredient in a CreateRecipeRequest.
// Pointer fields distinguish an absent field from its zero value.
type IngredientRequest struct {
	Title       *string `json:"title" example:"Flour" validate:"required"`
	Quantity    *int    `json:"quantity" example:"200" validate:"required"`
	Unit        *string `json:"unit" example:"g" validate:"required"`
	Description *string `json:"description,omitempty" example:"all-purpose"`
}

// Validate checks that the required fields are present.
func (r IngredientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NotNil),
		validation.Field(&r.Quantity, validation.NotNil),
		validation.Field(&r.Unit, validation.NotNil),
	)
}

// CreateRecipeRequest is the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title           *string             `json:"title" example:"Pasta" validate:"required"`
	PreparationTime *int                `json:"preparation_time" example:"20" validate:"required"`
	Views           *int                `json:"views,omitempty" example:"0"`
	Description     *string             `json:"description,omitempty" example:"Fresh egg pasta"`
	Ingredients     []IngredientRequest `json:"ingredients" validate:"required"`
}

// Validate checks the shape of the payload, including every ingredient.
func (r CreateRecipeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NotNil),
		validation.Field(&r.PreparationTime, validation.NotNil),
		validation.Field(&r.Ingredients, validation.NotNil),
	)
}

// ToInput converts a validated request into service input, applying defaults.
func (r CreateRecipeRequest) ToInput() recipeservice.CreateRecipeInput {
	in := recipeservice.CreateRecipeInput{
		Title:           deref(r.Title),
		PreparationTime: deref(r.PreparationTime),
		Views:           deref(r.Views),
		Description:     deref(r.Description),
		Ingredients:     make([]recipeservice.IngredientInput, len(r.Ingredients)),
	}
	for i, ing := range r.Ingredients {
		in.Ingredients[i] = recipeservice.IngredientInput{
			Title:       deref(ing.Title),
			Quantity:    deref(ing.Quantity),
			Unit:        deref(ing.Unit),
			Description: deref(ing.Description),
		}
	}
	return in
}

// RecipeSummary is a list item (aliased from the domain layer).
type RecipeSummary = recipeservice.RecipeSummary

// RecipeDetail is the full recipe response (aliased from the domain layer).
type RecipeDetail = recipeservice.RecipeDetail

// IngredientDetail is an ingredient nested in RecipeDetail (aliased from the domain layer).
type IngredientDetail = recipeservice.IngredientDetail

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
