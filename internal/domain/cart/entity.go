// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/domain/user"
)

// CartEntry records that a recipe is in a user's shopping cart
type CartEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	User   user.User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Recipe recipe.Recipe `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// TableName overrides the table name
func (CartEntry) TableName() string {
	return "shopping_cart"
}

// CartIngredient is one (recipe, ingredient) row reachable from a user's cart
type CartIngredient struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int64
}

// ShoppingItem is one aggregated line of the shopping list
type ShoppingItem struct {
	IngredientID    uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int64  `json:"total"`
}
