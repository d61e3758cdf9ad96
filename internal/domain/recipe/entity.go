// internal/domain/recipe/entity.go
package recipe

import (
	"time"

	"github.com/your-org/foodgram-backend/internal/domain/user"
)

// Ingredient is immutable reference data imported by cmd/loaddata
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"not null;size:200;uniqueIndex:idx_ingredients_name_unit" json:"name"`
	MeasurementUnit string `gorm:"not null;size:200;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
}

// Tag labels recipes (breakfast, lunch, dinner)
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Color string `gorm:"uniqueIndex;not null;size:7" json:"color"` // #RRGGBB
	Slug  string `gorm:"uniqueIndex;not null;size:200" json:"slug"`
}

// Recipe represents a published recipe
type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Name        string    `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Image       string    `gorm:"not null;size:500" json:"image"` // stored file name
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"` // minutes
	PubDate     time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
	UpdatedAt   time.Time `json:"-"`

	// Relationships
	Author      user.User          `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"ingredients"`
}

// RecipeIngredient is one (ingredient, amount) line of a recipe
type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredients_recipe_ingredient;index" json:"ingredient_id"`
	Amount       int  `gorm:"not null" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"ingredient"`
}

// Tables owned by the favorite and cart packages that recipe queries and cascades into.
// Those packages import recipe, so the names are referenced here rather than their types.
const (
	favoritesTable    = "favorites"
	shoppingCartTable = "shopping_cart"
	recipeTagsTable   = "recipe_tags"
)

// TableName overrides
func (Ingredient) TableName() string       { return "ingredients" }
func (Tag) TableName() string              { return "tags" }
func (Recipe) TableName() string           { return "recipes" }
func (RecipeIngredient) TableName() string { return "recipe_ingredients" }
