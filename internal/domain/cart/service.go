// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"gorm.io/gorm"
)

var (
	ErrAlreadyInCart = errors.New("recipe already added to shopping cart")
	ErrNotInCart     = errors.New("recipe is not in shopping cart")
)

// Service handles shopping cart business logic
type Service struct {
	db      *gorm.DB
	recipes *recipe.Service
	source  IngredientSource
	logger  logrus.FieldLogger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, recipes *recipe.Service, source IngredientSource, logger logrus.FieldLogger) *Service {
	return &Service{
		db:      db,
		recipes: recipes,
		source:  source,
		logger:  logger.WithField("service", "cart"),
	}
}

// Add puts a recipe into the user's cart
func (s *Service) Add(ctx context.Context, userID, recipeID uint) (*recipe.ShortRecipe, error) {
	// Validate recipe exists
	short, err := s.recipes.Short(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	// Check if item already exists in cart
	var count int64
	if err := db.Model(&CartEntry{}).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check shopping cart: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyInCart
	}

	if err := db.Omit("User", "Recipe").Create(&CartEntry{UserID: userID, RecipeID: recipeID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInCart
		}
		return nil, fmt.Errorf("failed to add recipe to shopping cart: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "recipe_id": recipeID}).Debug("recipe added to cart")
	return short, nil
}

// Remove takes a recipe out of the user's cart
func (s *Service) Remove(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.recipes.Short(ctx, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&CartEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove recipe from shopping cart: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotInCart
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "recipe_id": recipeID}).Debug("recipe removed from cart")
	return nil
}

// ShoppingList aggregates the ingredients of every recipe in the user's cart
func (s *Service) ShoppingList(ctx context.Context, userID uint) ([]ShoppingItem, error) {
	rows, err := s.source.IngredientsForCartOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := Aggregate(rows)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "rows": len(rows), "lines": len(items)}).Debug("shopping list aggregated")
	return items, nil
}
