// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/cart"
	"github.com/your-org/foodgram-backend/internal/domain/favorite"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"gorm.io/gorm"
)

// DefaultTags are the tags every installation starts with
var DefaultTags = []recipe.Tag{
	{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Обед", Color: "#49B64E", Slug: "lunch"},
	{Name: "Ужин", Color: "#8775D2", Slug: "dinner"},
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		// User domain - Base tables
		&user.User{},
		&user.Subscription{},

		// Recipe domain
		&recipe.Ingredient{},
		&recipe.Tag{},
		&recipe.Recipe{},
		&recipe.RecipeIngredient{},

		// Membership tables
		&favorite.Favorite{},
		&cart.CartEntry{},
	}
}

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		logger: logger.WithField("component", "migration"),
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for the list and aggregation queries
func (m *Migration) CreateIndexes() error {
	m.logger.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		// Recipe list ordering and author filter
		"CREATE INDEX IF NOT EXISTS idx_recipes_pub_date_id ON recipes(pub_date DESC, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_recipes_author_pub_date ON recipes(author_id, pub_date DESC)",

		// Ingredient prefix search
		"CREATE INDEX IF NOT EXISTS idx_ingredients_name_lower ON ingredients(LOWER(name))",

		// Tag filter
		"CREATE INDEX IF NOT EXISTS idx_recipe_tags_tag ON recipe_tags(tag_id, recipe_id)",

		// Shopping list join
		"CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe ON recipe_ingredients(recipe_id, ingredient_id, amount)",

		// Users list
		"CREATE INDEX IF NOT EXISTS idx_users_username_active ON users(username, is_active)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warnf("⚠️ Failed to create index: %s", indexSQL)
			failCount++
			continue
		}
		successCount++
	}

	m.logger.Infof("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	m.logger.Info("🌱 Seeding initial data...")

	if err := m.seedTags(); err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}

	m.logger.Info("✅ Initial data seeded successfully")
	return nil
}

// seedTags creates the default recipe tags
func (m *Migration) seedTags() error {
	for _, tag := range DefaultTags {
		var existing recipe.Tag
		result := m.db.Where("slug = ?", tag.Slug).Limit(1).Find(&existing)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			m.logger.Debugf("⏭️ Tag already exists: %s", tag.Slug)
			continue
		}

		if err := m.db.Create(&tag).Error; err != nil {
			return err
		}
		m.logger.Infof("✅ Created tag: %s", tag.Slug)
	}
	return nil
}

// Run performs migrations, indexes and seeding in order
func (m *Migration) Run() error {
	if err := m.RunAutoMigrations(); err != nil {
		return err
	}
	if err := m.CreateIndexes(); err != nil {
		return err
	}
	return m.SeedInitialData()
}
