package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
)

// IngredientRow is one entry of the ingredient file
type IngredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// Stats counts what an import did
type Stats struct {
	Created  int
	Existing int
}

// IngredientStore creates ingredients that are not stored yet
type IngredientStore interface {
	GetOrCreate(ctx context.Context, name, unit string) (*recipe.Ingredient, bool, error)
}

// ReadIngredients parses CSV (name,unit per line, no header) or a JSON array, chosen by file extension
func ReadIngredients(r io.Reader, name string) ([]IngredientRow, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		var rows []IngredientRow
		if err := json.NewDecoder(r).Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
		return rows, nil
	case ".csv":
		return readCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}

func readCSV(r io.Reader) ([]IngredientRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var rows []IngredientRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, IngredientRow{Name: record[0], MeasurementUnit: record[1]})
	}
}

// Import get-or-creates every row. Blank rows are skipped with a warning.
func Import(ctx context.Context, store IngredientStore, rows []IngredientRow, logger logrus.FieldLogger) (Stats, error) {
	var stats Stats

	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		unit := strings.TrimSpace(row.MeasurementUnit)
		if name == "" || unit == "" {
			logger.WithField("line", i+1).Warn("skipping ingredient with empty name or unit")
			continue
		}

		_, created, err := store.GetOrCreate(ctx, name, unit)
		if err != nil {
			return stats, fmt.Errorf("line %d (%s, %s): %w", i+1, name, unit, err)
		}

		if created {
			stats.Created++
		} else {
			stats.Existing++
			logger.WithFields(logrus.Fields{"name": name, "unit": unit}).Debug("ingredient already exists")
		}
	}

	return stats, nil
}
