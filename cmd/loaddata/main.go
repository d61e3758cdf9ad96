// cmd/loaddata/main.go loads the ingredient reference data into the database
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/foodgram-backend/internal/pkg/logger"
)

func main() {
	path := flag.String("file", "data/ingredients.csv", "Ingredient file (.csv rows of name,unit or .json array)")
	timeout := flag.Duration("timeout", 5*time.Minute, "Import timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.NewMigration(db.GetDB(), log).RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Ingredient file not found: %v", err)
	}
	defer file.Close()

	rows, err := ReadIngredients(file, *path)
	if err != nil {
		log.Fatalf("Failed to read ingredients: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	stats, err := Import(ctx, recipe.NewIngredientService(db.GetDB()), rows, log)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.WithField("created", stats.Created).
		WithField("existing", stats.Existing).
		Info("✅ Ingredients loaded")
}
