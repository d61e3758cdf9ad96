// internal/domain/recipe/service.go
package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/pkg/pagination"
	"github.com/your-org/foodgram-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrNotAuthor       = errors.New("only the author can modify this recipe")
	ErrRecipeNameTaken = errors.New("a recipe with that name already exists")

	// ErrBadImage is wrapped by image stores when the submitted image itself is unusable
	ErrBadImage = errors.New("invalid image")
)

// ImageStore persists recipe images
type ImageStore interface {
	// Save decodes a base64 data URL and returns the stored file name
	Save(ctx context.Context, dataURL string) (string, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// Service handles recipe business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	users  *user.Service
	images ImageStore
	logger logrus.FieldLogger
}

// NewService creates a new recipe service
func NewService(db *gorm.DB, cfg *config.Config, users *user.Service, images ImageStore, logger logrus.FieldLogger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		users:  users,
		images: images,
		logger: logger.WithField("service", "recipe"),
	}
}

// List retrieves recipes newest first with filtering and pagination.
// Favorite and cart filters apply only to an authenticated viewer.
func (s *Service) List(ctx context.Context, filter *ListFilter, viewerID uint) (*ListResponse, error) {
	params := filter.Params.Normalize(s.config.Pagination.DefaultLimit, s.config.Pagination.MaxLimit)
	db := s.db.WithContext(ctx)

	// Build query
	query := db.Model(&Recipe{})

	if filter.Author > 0 {
		query = query.Where("recipes.author_id = ?", filter.Author)
	}

	if len(filter.Tags) > 0 {
		tagged := db.Table(recipeTagsTable).
			Select(recipeTagsTable+".recipe_id").
			Joins("JOIN tags ON tags.id = "+recipeTagsTable+".tag_id").
			Where("tags.slug IN ?", filter.Tags)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if viewerID > 0 && filter.IsFavorited {
		query = query.Where("recipes.id IN (?)",
			db.Table(favoritesTable).Select("recipe_id").Where("user_id = ?", viewerID))
	}

	if viewerID > 0 && filter.IsInShoppingCart {
		query = query.Where("recipes.id IN (?)",
			db.Table(shoppingCartTable).Select("recipe_id").Where("user_id = ?", viewerID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []Recipe
	if err := s.withDetails(query).
		Order("recipes.pub_date DESC, recipes.id DESC").
		Offset(params.Offset()).Limit(params.Limit).
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve recipes: %w", err)
	}

	responses, err := s.toResponses(ctx, recipes, viewerID)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Recipes:    responses,
		Pagination: pagination.New(params, total),
	}, nil
}

// Get retrieves a single recipe as seen by viewerID (0 for anonymous)
func (s *Service) Get(ctx context.Context, id, viewerID uint) (*Response, error) {
	r, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	responses, err := s.toResponses(ctx, []Recipe{*r}, viewerID)
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Short retrieves the compact form of a recipe
func (s *Service) Short(ctx context.Context, id uint) (*ShortRecipe, error) {
	var r Recipe
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to retrieve recipe: %w", err)
	}
	short := s.ToShort(&r)
	return &short, nil
}

// ToShort converts a recipe to its compact form
func (s *Service) ToShort(r *Recipe) ShortRecipe {
	return ShortRecipe{
		ID:          r.ID,
		Name:        r.Name,
		Image:       s.images.URL(r.Image),
		CookingTime: r.CookingTime,
	}
}

// Create publishes a new recipe. The recipe, its tag links and ingredient rows are written in one transaction.
func (s *Service) Create(ctx context.Context, authorID uint, req *CreateRequest) (*Response, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	tags, err := s.checkComposition(db, req.Ingredients, req.Tags)
	if err != nil {
		return nil, err
	}

	if err := s.checkNameAvailable(db, req.Name, 0); err != nil {
		return nil, err
	}

	image, err := s.saveImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(req.Name),
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Tags:        tags,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Ingredients").Create(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRecipeNameTaken
			}
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return createIngredientRows(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		s.discardImage(ctx, image)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"recipe_id": recipe.ID, "author_id": authorID}).Info("recipe created")

	return s.Get(ctx, recipe.ID, authorID)
}

// Update replaces a recipe's fields, tags and ingredient rows. Only the author may update.
func (s *Service) Update(ctx context.Context, id, authorID uint, req *UpdateRequest) (*Response, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var recipe Recipe
	if err := db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to retrieve recipe: %w", err)
	}

	if recipe.AuthorID != authorID {
		return nil, ErrNotAuthor
	}

	tags, err := s.checkComposition(db, req.Ingredients, req.Tags)
	if err != nil {
		return nil, err
	}

	if err := s.checkNameAvailable(db, req.Name, recipe.ID); err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	newImage := ""
	if req.Image != "" {
		newImage, err = s.saveImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"name":         strings.TrimSpace(req.Name),
		"text":         req.Text,
		"cooking_time": req.CookingTime,
	}
	if newImage != "" {
		updates["image"] = newImage
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRecipeNameTaken
			}
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("failed to replace recipe tags: %w", err)
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}

		return createIngredientRows(tx, recipe.ID, req.Ingredients)
	})
	if err != nil {
		if newImage != "" {
			s.discardImage(ctx, newImage)
		}
		return nil, err
	}

	if newImage != "" {
		s.discardImage(ctx, oldImage)
	}

	s.logger.WithField("recipe_id", recipe.ID).Info("recipe updated")

	return s.Get(ctx, recipe.ID, authorID)
}

// Delete removes a recipe together with its cart entries, favorites, tag links and ingredient rows
func (s *Service) Delete(ctx context.Context, id, authorID uint) error {
	db := s.db.WithContext(ctx)

	var recipe Recipe
	if err := db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to retrieve recipe: %w", err)
	}

	if recipe.AuthorID != authorID {
		return ErrNotAuthor
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{shoppingCartTable, favoritesTable, recipeTagsTable} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE recipe_id = ?", recipe.ID).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}

		if err := tx.Delete(&recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.discardImage(ctx, recipe.Image)
	s.logger.WithField("recipe_id", recipe.ID).Info("recipe deleted")
	return nil
}

// Helper methods

func (s *Service) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC")
		}).
		Preload("Ingredients.Ingredient")
}

func (s *Service) load(db *gorm.DB, id uint) (*Recipe, error) {
	var r Recipe
	if err := s.withDetails(db).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to retrieve recipe: %w", err)
	}
	return &r, nil
}

// checkComposition rejects duplicate or unknown ingredients and tags, returning the referenced tags
func (s *Service) checkComposition(db *gorm.DB, items []IngredientAmount, tagIDs []uint) ([]Tag, error) {
	ingredientIDs := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			return nil, validation.NewError("ingredients", fmt.Sprintf("ingredient %d is listed more than once", item.ID))
		}
		seen[item.ID] = true
		ingredientIDs = append(ingredientIDs, item.ID)
	}

	var found int64
	if err := db.Model(&Ingredient{}).Where("id IN ?", ingredientIDs).Count(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to check ingredients: %w", err)
	}
	if found != int64(len(ingredientIDs)) {
		return nil, validation.NewError("ingredients", "unknown ingredient")
	}

	seen = make(map[uint]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			return nil, validation.NewError("tags", fmt.Sprintf("tag %d is listed more than once", id))
		}
		seen[id] = true
	}

	var tags []Tag
	if err := db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to check tags: %w", err)
	}
	if len(tags) != len(tagIDs) {
		return nil, validation.NewError("tags", "unknown tag")
	}

	return tags, nil
}

func (s *Service) checkNameAvailable(db *gorm.DB, name string, exceptID uint) error {
	var count int64
	query := db.Model(&Recipe{}).Where("name = ?", strings.TrimSpace(name))
	if exceptID > 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check recipe name: %w", err)
	}
	if count > 0 {
		return ErrRecipeNameTaken
	}
	return nil
}

func createIngredientRows(tx *gorm.DB, recipeID uint, items []IngredientAmount) error {
	rows := make([]RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		}
	}
	if err := tx.Omit("Ingredient").Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create recipe ingredients: %w", err)
	}
	return nil
}

// saveImage reports unusable images as field errors; storage failures stay internal
func (s *Service) saveImage(ctx context.Context, dataURL string) (string, error) {
	name, err := s.images.Save(ctx, dataURL)
	if err != nil {
		if errors.Is(err, ErrBadImage) {
			return "", validation.NewError("image", err.Error())
		}
		return "", fmt.Errorf("failed to store recipe image: %w", err)
	}
	return name, nil
}

func (s *Service) discardImage(ctx context.Context, name string) {
	if err := s.images.Delete(ctx, name); err != nil {
		s.logger.WithError(err).WithField("image", name).Warn("failed to delete recipe image")
	}
}

// toResponses attaches viewer flags with one query per flag for the whole batch
func (s *Service) toResponses(ctx context.Context, recipes []Recipe, viewerID uint) ([]Response, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	favorited, err := s.memberships(ctx, favoritesTable, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.memberships(ctx, shoppingCartTable, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.users.SubscribedAuthors(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]Response, len(recipes))
	for i := range recipes {
		r := &recipes[i]

		ingredients := make([]IngredientInRecipe, len(r.Ingredients))
		for j, ri := range r.Ingredients {
			ingredients[j] = IngredientInRecipe{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			}
		}

		tags := r.Tags
		if tags == nil {
			tags = []Tag{}
		}

		responses[i] = Response{
			ID:               r.ID,
			Tags:             tags,
			Author:           user.NewProfile(&r.Author, subscribed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            s.images.URL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
	}
	return responses, nil
}

// memberships reports which of recipeIDs appear in table for the viewer
func (s *Service) memberships(ctx context.Context, table string, viewerID uint, recipeIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(recipeIDs))
	if viewerID == 0 || len(recipeIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := s.db.WithContext(ctx).Table(table).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}

	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
