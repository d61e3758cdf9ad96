package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var ErrIngredientNotFound = errors.New("ingredient not found")

// IngredientService serves the ingredient catalogue
type IngredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new ingredient service
func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List searches ingredients by name (case-insensitive). Names starting with the query come
// first, then names containing it elsewhere; each group is ordered by id.
func (s *IngredientService) List(ctx context.Context, search string) ([]Ingredient, error) {
	db := s.db.WithContext(ctx)
	ingredients := []Ingredient{}

	search = strings.TrimSpace(search)
	if search == "" {
		if err := db.Order("id ASC").Find(&ingredients).Error; err != nil {
			return nil, fmt.Errorf("failed to retrieve ingredients: %w", err)
		}
		return ingredients, nil
	}

	pattern := escapeLike(strings.ToLower(search))
	if err := db.Where("LOWER(name) LIKE ? ESCAPE '\\'", pattern+"%").
		Order("id ASC").
		Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve ingredients: %w", err)
	}

	var contains []Ingredient
	if err := db.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+pattern+"%").
		Where("LOWER(name) NOT LIKE ? ESCAPE '\\'", pattern+"%").
		Order("id ASC").
		Find(&contains).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve ingredients: %w", err)
	}

	return append(ingredients, contains...), nil
}

// Get retrieves an ingredient by ID
func (s *IngredientService) Get(ctx context.Context, id uint) (*Ingredient, error) {
	var ingredient Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to retrieve ingredient: %w", err)
	}
	return &ingredient, nil
}

// GetOrCreate returns the ingredient with the given name and unit, creating it when absent.
// The boolean reports whether a row was created.
func (s *IngredientService) GetOrCreate(ctx context.Context, name, unit string) (*Ingredient, bool, error) {
	ingredient := Ingredient{Name: strings.TrimSpace(name), MeasurementUnit: strings.TrimSpace(unit)}
	if ingredient.Name == "" || ingredient.MeasurementUnit == "" {
		return nil, false, fmt.Errorf("ingredient name and measurement unit are required")
	}

	db := s.db.WithContext(ctx)

	// Check if it already exists
	var existing Ingredient
	err := db.Where("name = ? AND measurement_unit = ?", ingredient.Name, ingredient.MeasurementUnit).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up ingredient %q: %w", ingredient.Name, err)
	}

	if err := db.Create(&ingredient).Error; err != nil {
		return nil, false, fmt.Errorf("failed to save ingredient %q: %w", ingredient.Name, err)
	}
	return &ingredient, true, nil
}

// escapeLike makes % and _ in user input match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
