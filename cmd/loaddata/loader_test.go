package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/testutil"
)

func TestReadIngredients(t *testing.T) {
	csvRows, err := ReadIngredients(strings.NewReader("абрикосовое варенье,г\n\"соль, морская\", по вкусу\n"), "ingredients.csv")
	require.NoError(t, err)
	assert.Equal(t, []IngredientRow{
		{Name: "абрикосовое варенье", MeasurementUnit: "г"},
		{Name: "соль, морская", MeasurementUnit: "по вкусу"},
	}, csvRows)

	jsonRows, err := ReadIngredients(strings.NewReader(`[{"name":"мука","measurement_unit":"г"}]`), "data/ingredients.JSON")
	require.NoError(t, err)
	assert.Equal(t, []IngredientRow{{Name: "мука", MeasurementUnit: "г"}}, jsonRows)

	_, err = ReadIngredients(strings.NewReader("a,b,c\n"), "bad.csv")
	assert.Error(t, err)

	_, err = ReadIngredients(strings.NewReader(""), "ingredients.xml")
	assert.Error(t, err)
}

func TestImportIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	logger, hook := testutil.Logger()
	store := recipe.NewIngredientService(db)
	ctx := context.Background()

	rows := []IngredientRow{
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "мука", MeasurementUnit: "кг"},
		{Name: " ", MeasurementUnit: "г"},
		{Name: "мука", MeasurementUnit: "г"},
	}

	stats, err := Import(ctx, store, rows, logger)
	require.NoError(t, err)
	assert.Equal(t, Stats{Created: 2, Existing: 1}, stats)

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "skipping ingredient with empty name or unit" {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)

	stats, err = Import(ctx, store, rows, logger)
	require.NoError(t, err)
	assert.Equal(t, Stats{Created: 0, Existing: 3}, stats)

	var count int64
	require.NoError(t, db.Model(&recipe.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
