package favorite

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"gorm.io/gorm"
)

var (
	ErrAlreadyFavorited = errors.New("recipe already added to favorites")
	ErrNotFavorited     = errors.New("recipe is not in favorites")
)

// Service handles favorite business logic
type Service struct {
	db      *gorm.DB
	recipes *recipe.Service
	logger  logrus.FieldLogger
}

// NewService creates a new favorite service
func NewService(db *gorm.DB, recipes *recipe.Service, logger logrus.FieldLogger) *Service {
	return &Service{
		db:      db,
		recipes: recipes,
		logger:  logger.WithField("service", "favorite"),
	}
}

// Add stars a recipe for the user
func (s *Service) Add(ctx context.Context, userID, recipeID uint) (*recipe.ShortRecipe, error) {
	// Validate recipe exists
	short, err := s.recipes.Short(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	// Check if already favorited
	var count int64
	if err := db.Model(&Favorite{}).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check favorites: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyFavorited
	}

	if err := db.Omit("User", "Recipe").Create(&Favorite{UserID: userID, RecipeID: recipeID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFavorited
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "recipe_id": recipeID}).Debug("recipe favorited")
	return short, nil
}

// Remove unstars a recipe for the user
func (s *Service) Remove(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.recipes.Short(ctx, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFavorited
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "recipe_id": recipeID}).Debug("recipe unfavorited")
	return nil
}
