package testutil

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodgram-backend/internal/domain/cart"
	"github.com/your-org/foodgram-backend/internal/domain/favorite"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/infrastructure/database/postgres"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain text password of every user created by CreateUser
const Password = "S0up-and-Bread!"

var passwordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// CreateUser inserts an active user with fake personal data
func CreateUser(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()

	u := &user.User{
		Email:     gofakeit.Email(),
		Username:  gofakeit.Username() + gofakeit.DigitN(4),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Password:  passwordHash,
		IsActive:  true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateIngredient inserts an ingredient
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *recipe.Ingredient {
	t.Helper()

	ing := &recipe.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// SeedTags inserts the default tags and returns them in insertion order
func SeedTags(t *testing.T, db *gorm.DB) []recipe.Tag {
	t.Helper()

	tags := make([]recipe.Tag, len(postgres.DefaultTags))
	copy(tags, postgres.DefaultTags)
	require.NoError(t, db.Create(&tags).Error)
	return tags
}

// Line is an ingredient with the amount a test recipe uses
type Line struct {
	Ingredient *recipe.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with the given ingredient lines and tags, bypassing validation
func CreateRecipe(t *testing.T, db *gorm.DB, authorID uint, lines []Line, tags ...recipe.Tag) *recipe.Recipe {
	t.Helper()

	r := &recipe.Recipe{
		AuthorID:    authorID,
		Name:        gofakeit.Dessert() + " " + gofakeit.LetterN(8),
		Image:       "recipes/" + gofakeit.UUID() + ".png",
		Text:        gofakeit.Paragraph(1, 3, 12, " "),
		CookingTime: gofakeit.Number(5, 120),
		Tags:        tags,
	}
	require.NoError(t, db.Omit("Author", "Ingredients").Create(r).Error)

	for _, line := range lines {
		row := recipe.RecipeIngredient{RecipeID: r.ID, IngredientID: line.Ingredient.ID, Amount: line.Amount}
		require.NoError(t, db.Omit("Ingredient").Create(&row).Error)
	}
	return r
}

// AddToCart puts a recipe into a user's shopping cart
func AddToCart(t *testing.T, db *gorm.DB, userID, recipeID uint) {
	t.Helper()
	require.NoError(t, db.Omit("User", "Recipe").Create(&cart.CartEntry{UserID: userID, RecipeID: recipeID}).Error)
}

// AddFavorite stars a recipe for a user
func AddFavorite(t *testing.T, db *gorm.DB, userID, recipeID uint) {
	t.Helper()
	require.NoError(t, db.Omit("User", "Recipe").Create(&favorite.Favorite{UserID: userID, RecipeID: recipeID}).Error)
}

// Subscribe makes userID follow authorID
func Subscribe(t *testing.T, db *gorm.DB, userID, authorID uint) {
	t.Helper()
	require.NoError(t, db.Omit("User", "Author").Create(&user.Subscription{UserID: userID, AuthorID: authorID}).Error)
}
