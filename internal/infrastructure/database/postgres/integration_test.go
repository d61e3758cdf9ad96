//go:build integration

package postgres_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/your-org/foodgram-backend/internal/domain/cart"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/foodgram-backend/internal/testutil"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startPostgres runs a throwaway PostgreSQL and returns a migrated connection to it
func startPostgres(t *testing.T) *postgres.Database {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "foodgram_test",
				"POSTGRES_USER":     "foodgram",
				"POSTGRES_PASSWORD": "foodgram",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForListeningPort("5432/tcp"),
			),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := testutil.Config(t)
	cfg.Database.Host = host
	cfg.Database.Port = port.Port()
	cfg.Database.Name = "foodgram_test"
	cfg.Database.User = "foodgram"
	cfg.Database.Password = "foodgram"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxOpenConns = 5
	cfg.Database.MaxIdleConns = 2
	cfg.Database.MaxLifetime = time.Minute
	cfg.Database.LogLevel = "silent"

	logger, _ := testutil.Logger()
	db, err := postgres.NewConnection(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.NewMigration(db.GetDB(), logger).Run())
	return db
}

func TestPostgresShoppingList(t *testing.T) {
	db := startPostgres(t)
	gdb := db.GetDB()
	ctx := context.Background()
	cfg := testutil.Config(t)
	logger, _ := testutil.Logger()

	require.NoError(t, db.Health(ctx))

	// Migration is idempotent and seeds tags once
	require.NoError(t, postgres.NewMigration(gdb, logger).Run())
	var tags int64
	require.NoError(t, gdb.Model(&recipe.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(len(postgres.DefaultTags)), tags)

	users := user.NewService(gdb, cfg, logger)
	recipes := recipe.NewService(gdb, cfg, users, testutil.NewMemoryImages(), logger)
	carts := cart.NewService(gdb, recipes, cart.NewGormIngredientSource(gdb), logger)

	cook := testutil.CreateUser(t, gdb)
	author := testutil.CreateUser(t, gdb)
	egg := testutil.CreateIngredient(t, gdb, "egg", "pcs")
	flour := testutil.CreateIngredient(t, gdb, "flour", "g")
	sugar := testutil.CreateIngredient(t, gdb, "sugar", "g")

	a := testutil.CreateRecipe(t, gdb, author.ID, []testutil.Line{{Ingredient: flour, Amount: 200}, {Ingredient: egg, Amount: 2}})
	b := testutil.CreateRecipe(t, gdb, author.ID, []testutil.Line{{Ingredient: flour, Amount: 100}, {Ingredient: sugar, Amount: 50}})

	_, err := carts.Add(ctx, cook.ID, a.ID)
	require.NoError(t, err)
	_, err = carts.Add(ctx, cook.ID, b.ID)
	require.NoError(t, err)

	// The unique index rejects a second row for the same pair
	err = gdb.Omit("User", "Recipe").Create(&cart.CartEntry{UserID: cook.ID, RecipeID: a.ID}).Error
	assert.Error(t, err)

	items, err := carts.ShoppingList(ctx, cook.ID)
	require.NoError(t, err)
	assert.Equal(t, "egg - 2 pcs\nflour - 300 g\nsugar - 50 g", cart.RenderText(items))

	// Deleting a recipe drops it from every cart
	require.NoError(t, recipes.Delete(ctx, a.ID, author.ID))
	items, err = carts.ShoppingList(ctx, cook.ID)
	require.NoError(t, err)
	assert.Equal(t, "flour - 100 g\nsugar - 50 g", cart.RenderText(items))
}

func TestPostgresIngredientSearch(t *testing.T) {
	db := startPostgres(t)
	gdb := db.GetDB()
	ctx := context.Background()

	flour := testutil.CreateIngredient(t, gdb, "Мука пшеничная", "г")
	nutmeg := testutil.CreateIngredient(t, gdb, "мускатный орех", "г")
	testutil.CreateIngredient(t, gdb, "100% cocoa", "g")
	walnut := testutil.CreateIngredient(t, gdb, "Грецкий Орех", "г")

	svc := recipe.NewIngredientService(gdb)

	found, err := svc.List(ctx, "МУ")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, flour.ID, found[0].ID)
	assert.Equal(t, nutmeg.ID, found[1].ID)

	found, err = svc.List(ctx, "ПШЕНИЧ")
	require.NoError(t, err)
	require.Len(t, found, 1, "case-insensitive substring match on cyrillic")
	assert.Equal(t, flour.ID, found[0].ID)

	found, err = svc.List(ctx, "орех")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, nutmeg.ID, found[0].ID)
	assert.Equal(t, walnut.ID, found[1].ID)

	found, err = svc.List(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% cocoa", found[0].Name)
}
