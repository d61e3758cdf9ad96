package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"gorm.io/gorm"
)

var ErrQuantityOverflow = errors.New("ingredient total exceeds the representable range")

// IngredientSource fetches every ingredient row of every recipe in a user's cart
type IngredientSource interface {
	IngredientsForCartOf(ctx context.Context, userID uint) ([]CartIngredient, error)
}

// Aggregate groups rows by ingredient and sums their amounts.
// The result is ordered by ingredient id; an empty input yields an empty list.
func Aggregate(rows []CartIngredient) ([]ShoppingItem, error) {
	index := make(map[uint]int, len(rows))
	items := make([]ShoppingItem, 0, len(rows))

	for _, row := range rows {
		i, ok := index[row.IngredientID]
		if !ok {
			index[row.IngredientID] = len(items)
			items = append(items, ShoppingItem{
				IngredientID:    row.IngredientID,
				Name:            row.Name,
				MeasurementUnit: row.MeasurementUnit,
			})
			i = len(items) - 1
		}

		total := items[i].Total
		if (row.Amount > 0 && total > math.MaxInt64-row.Amount) ||
			(row.Amount < 0 && total < math.MinInt64-row.Amount) {
			return nil, fmt.Errorf("%w: %s", ErrQuantityOverflow, row.Name)
		}
		items[i].Total = total + row.Amount
	}

	sort.Slice(items, func(a, b int) bool {
		return items[a].IngredientID < items[b].IngredientID
	})
	return items, nil
}

// RenderText formats items as "<name> - <total> <unit>" lines joined by newlines, without a trailing newline
func RenderText(items []ShoppingItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%s - %d %s", item.Name, item.Total, item.MeasurementUnit)
	}
	return strings.Join(lines, "\n")
}

// GormIngredientSource reads cart ingredients with a single join over shopping_cart, recipe_ingredients and ingredients
type GormIngredientSource struct {
	db *gorm.DB
}

// NewGormIngredientSource creates an IngredientSource backed by the relational store
func NewGormIngredientSource(db *gorm.DB) *GormIngredientSource {
	return &GormIngredientSource{db: db}
}

// IngredientsForCartOf implements IngredientSource
func (g *GormIngredientSource) IngredientsForCartOf(ctx context.Context, userID uint) ([]CartIngredient, error) {
	cartTable := CartEntry{}.TableName()
	linesTable := recipe.RecipeIngredient{}.TableName()
	ingredientsTable := recipe.Ingredient{}.TableName()

	var rows []CartIngredient
	err := g.db.WithContext(ctx).
		Table(cartTable).
		Select(fmt.Sprintf("%[1]s.id AS ingredient_id, %[1]s.name AS name, %[1]s.measurement_unit AS measurement_unit, %[2]s.amount AS amount",
			ingredientsTable, linesTable)).
		Joins(fmt.Sprintf("JOIN %[1]s ON %[1]s.recipe_id = %[2]s.recipe_id", linesTable, cartTable)).
		Joins(fmt.Sprintf("JOIN %[1]s ON %[1]s.id = %[2]s.ingredient_id", ingredientsTable, linesTable)).
		Where(cartTable+".user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart ingredients: %w", err)
	}
	return rows, nil
}
