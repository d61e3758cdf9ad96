package recipe

import (
	"time"

	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/pkg/pagination"
)

// ListFilter represents recipe list query parameters
type ListFilter struct {
	pagination.Params
	Author           uint     `form:"author"`
	Tags             []string `form:"tags" binding:"dive,slug"`
	IsFavorited      bool     `form:"is_favorited"`
	IsInShoppingCart bool     `form:"is_in_shopping_cart"`
}

// IngredientAmount is one ingredient line of a create/update request
type IngredientAmount struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"min=1,max=32000"`
}

// CreateRequest represents recipe creation data.
// Image is a base64 data URL (data:image/png;base64,...).
type CreateRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []uint             `json:"tags" binding:"required,min=1"`
	Image       string             `json:"image" binding:"required"`
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"min=1,max=32000"`
}

// UpdateRequest represents recipe update data. Tags and ingredients are replaced wholesale;
// an empty image keeps the current one.
type UpdateRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []uint             `json:"tags" binding:"required,min=1"`
	Image       string             `json:"image"`
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"min=1,max=32000"`
}

// IngredientInRecipe is an ingredient with the amount a recipe uses
type IngredientInRecipe struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// Response is a recipe as seen by a viewer
type Response struct {
	ID               uint                 `json:"id"`
	Tags             []Tag                `json:"tags"`
	Author           user.Profile         `json:"author"`
	Ingredients      []IngredientInRecipe `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	PubDate          time.Time            `json:"pub_date"`
}

// ListResponse represents a page of recipes
type ListResponse struct {
	Recipes    []Response            `json:"results"`
	Pagination pagination.Pagination `json:"pagination"`
}

// ShortRecipe is the compact form used by favorites, cart and subscriptions
type ShortRecipe struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}
