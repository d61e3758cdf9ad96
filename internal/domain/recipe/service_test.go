package recipe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/foodgram-backend/internal/domain/cart"
	"github.com/your-org/foodgram-backend/internal/domain/favorite"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/pkg/pagination"
	"github.com/your-org/foodgram-backend/internal/pkg/validation"
	"github.com/your-org/foodgram-backend/internal/testutil"
	"gorm.io/gorm"
)

type RecipeServiceSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	images  *testutil.MemoryImages
	service *recipe.Service

	author *user.User
	viewer *user.User
	tags   []recipe.Tag
	flour  *recipe.Ingredient
	egg    *recipe.Ingredient
	sugar  *recipe.Ingredient
}

func TestRecipeServiceSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceSuite))
}

func (s *RecipeServiceSuite) SetupTest() {
	t := s.T()
	s.ctx = context.Background()
	s.db = testutil.NewDB(t)
	s.images = testutil.NewMemoryImages()

	cfg := testutil.Config(t)
	logger, _ := testutil.Logger()
	users := user.NewService(s.db, cfg, logger)
	s.service = recipe.NewService(s.db, cfg, users, s.images, logger)

	s.author = testutil.CreateUser(t, s.db)
	s.viewer = testutil.CreateUser(t, s.db)
	s.tags = testutil.SeedTags(t, s.db)
	s.flour = testutil.CreateIngredient(t, s.db, "flour", "g")
	s.egg = testutil.CreateIngredient(t, s.db, "egg", "pcs")
	s.sugar = testutil.CreateIngredient(t, s.db, "sugar", "g")
}

func (s *RecipeServiceSuite) createRequest() *recipe.CreateRequest {
	return &recipe.CreateRequest{
		Ingredients: []recipe.IngredientAmount{{ID: s.flour.ID, Amount: 200}, {ID: s.egg.ID, Amount: 2}},
		Tags:        []uint{s.tags[0].ID, s.tags[2].ID},
		Image:       testutil.PNGDataURL(s.T(), 2, 2),
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}
}

func (s *RecipeServiceSuite) TestCreate() {
	resp, err := s.service.Create(s.ctx, s.author.ID, s.createRequest())
	s.Require().NoError(err)

	s.NotZero(resp.ID)
	s.Equal("Pancakes", resp.Name)
	s.Equal(20, resp.CookingTime)
	s.Equal(s.author.ID, resp.Author.ID)
	s.False(resp.IsFavorited)
	s.False(resp.IsInShoppingCart)
	s.Contains(resp.Image, "/media/recipes/")
	s.Len(resp.Tags, 2)

	s.Require().Len(resp.Ingredients, 2)
	s.Equal(recipe.IngredientInRecipe{ID: s.flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 200}, resp.Ingredients[0])
	s.Equal(recipe.IngredientInRecipe{ID: s.egg.ID, Name: "egg", MeasurementUnit: "pcs", Amount: 2}, resp.Ingredients[1])
	s.Len(s.images.Stored, 1)
}

func (s *RecipeServiceSuite) TestCreateValidation() {
	cases := map[string]struct {
		mutate func(r *recipe.CreateRequest)
		field  string
	}{
		"no ingredients": {func(r *recipe.CreateRequest) { r.Ingredients = nil }, "ingredients"},
		"duplicate ingredient": {func(r *recipe.CreateRequest) {
			r.Ingredients = []recipe.IngredientAmount{{ID: s.flour.ID, Amount: 1}, {ID: s.flour.ID, Amount: 2}}
		}, "ingredients"},
		"zero amount": {func(r *recipe.CreateRequest) {
			r.Ingredients = []recipe.IngredientAmount{{ID: s.flour.ID, Amount: 0}}
		}, "ingredients[0].amount"},
		"unknown ingredient": {func(r *recipe.CreateRequest) {
			r.Ingredients = []recipe.IngredientAmount{{ID: 9999, Amount: 1}}
		}, "ingredients"},
		"no tags":          {func(r *recipe.CreateRequest) { r.Tags = nil }, "tags"},
		"unknown tag":      {func(r *recipe.CreateRequest) { r.Tags = []uint{9999} }, "tags"},
		"duplicate tag":    {func(r *recipe.CreateRequest) { r.Tags = []uint{s.tags[0].ID, s.tags[0].ID} }, "tags"},
		"zero cooking":     {func(r *recipe.CreateRequest) { r.CookingTime = 0 }, "cooking_time"},
		"missing image":    {func(r *recipe.CreateRequest) { r.Image = "" }, "image"},
		"invalid image":    {func(r *recipe.CreateRequest) { r.Image = "not a data url" }, "image"},
		"missing text":     {func(r *recipe.CreateRequest) { r.Text = "" }, "text"},
		"missing name":     {func(r *recipe.CreateRequest) { r.Name = "" }, "name"},
	}

	for name, tc := range cases {
		s.Run(name, func() {
			req := s.createRequest()
			tc.mutate(req)

			_, err := s.service.Create(s.ctx, s.author.ID, req)

			var verr *validation.Error
			s.Require().ErrorAs(err, &verr)
			s.Contains(verr.Fields, tc.field)
		})
	}

	var count int64
	s.db.Model(&recipe.Recipe{}).Count(&count)
	s.Zero(count)
}

func (s *RecipeServiceSuite) TestCreateImageStoreFailure() {
	diskFull := errors.New("write recipes/a.png: no space left on device")
	s.images.SaveErr = diskFull

	_, err := s.service.Create(s.ctx, s.author.ID, s.createRequest())
	s.Require().Error(err)
	s.ErrorIs(err, diskFull)

	var verr *validation.Error
	s.False(errors.As(err, &verr), "storage failures are not the client's fault")

	var count int64
	s.db.Model(&recipe.Recipe{}).Count(&count)
	s.Zero(count)
}

func (s *RecipeServiceSuite) TestUpdateImageStoreFailure() {
	created, err := s.service.Create(s.ctx, s.author.ID, s.createRequest())
	s.Require().NoError(err)

	s.images.SaveErr = errors.New("disk unavailable")
	req := &recipe.UpdateRequest{
		Ingredients: []recipe.IngredientAmount{{ID: s.sugar.ID, Amount: 5}},
		Tags:        []uint{s.tags[0].ID},
		Image:       testutil.PNGDataURL(s.T(), 4, 4),
		Name:        "renamed",
		Text:        "text",
		CookingTime: 5,
	}
	_, err = s.service.Update(s.ctx, created.ID, s.author.ID, req)
	s.Require().Error(err)

	var verr *validation.Error
	s.False(errors.As(err, &verr))

	got, err := s.service.Get(s.ctx, created.ID, 0)
	s.Require().NoError(err)
	s.Equal(created.Name, got.Name, "recipe unchanged")
}

func (s *RecipeServiceSuite) TestCreateDuplicateName() {
	_, err := s.service.Create(s.ctx, s.author.ID, s.createRequest())
	s.Require().NoError(err)

	_, err = s.service.Create(s.ctx, s.viewer.ID, s.createRequest())
	s.ErrorIs(err, recipe.ErrRecipeNameTaken)
	s.Len(s.images.Stored, 1, "image of the rejected recipe must not be stored")
}

func (s *RecipeServiceSuite) TestUpdateReplacesIngredientsAndTags() {
	created, err := s.service.Create(s.ctx, s.author.ID, s.createRequest())
	s.Require().NoError(err)

	updated, err := s.service.Update(s.ctx, created.ID, s.author.ID, &recipe.UpdateRequest{
		Ingredients: []recipe.IngredientAmount{{ID: s.sugar.ID, Amount: 50}},
		Tags:        []uint{s.tags[1].ID},
		Name:        "Sweet pancakes",
		Text:        "Mix, fry and sprinkle.",
		CookingTime: 25,
	})
	s.Require().NoError(err)

	s.Equal("Sweet pancakes", updated.Name)
	s.Equal(25, updated.CookingTime)
	s.Equal(created.Image, updated.Image, "image is kept when none is sent")
	s.Require().Len(updated.Tags, 1)
	s.Equal(s.tags[1].Slug, updated.Tags[0].Slug)
	s.Equal([]recipe.IngredientInRecipe{{ID: s.sugar.ID, Name: "sugar", MeasurementUnit: "g", Amount: 50}}, updated.Ingredients)

	var rows int64
	s.db.Model(&recipe.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&rows)
	s.Equal(int64(1), rows)
}

func (s *RecipeServiceSuite) TestUpdateReplacesImage() {
	created, err := s.service.Create(s.ctx, s.author.ID, s.createRequest())
	s.Require().NoError(err)

	req := &recipe.UpdateRequest{
		Ingredients: []recipe.IngredientAmount{{ID: s.flour.ID, Amount: 100}},
		Tags:        []uint{s.tags[0].ID},
		Image:       testutil.PNGDataURL(s.T(), 3, 3),
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}
	updated, err := s.service.Update(s.ctx, created.ID, s.author.ID, req)
	s.Require().NoError(err)

	s.NotEqual(created.Image, updated.Image)
	s.Len(s.images.Stored, 1)
	s.Len(s.images.Deleted, 1)
}

func (s *RecipeServiceSuite) TestOnlyAuthorMayModify() {
	created, err := s.service.Create(s.ctx, s.author.ID, s.createRequest())
	s.Require().NoError(err)

	_, err = s.service.Update(s.ctx, created.ID, s.viewer.ID, &recipe.UpdateRequest{
		Ingredients: []recipe.IngredientAmount{{ID: s.flour.ID, Amount: 1}},
		Tags:        []uint{s.tags[0].ID},
		Name:        "Stolen",
		Text:        "x",
		CookingTime: 1,
	})
	s.ErrorIs(err, recipe.ErrNotAuthor)

	s.ErrorIs(s.service.Delete(s.ctx, created.ID, s.viewer.ID), recipe.ErrNotAuthor)
	s.ErrorIs(s.service.Delete(s.ctx, 9999, s.author.ID), recipe.ErrRecipeNotFound)
}

func (s *RecipeServiceSuite) TestDeleteCascades() {
	created, err := s.service.Create(s.ctx, s.author.ID, s.createRequest())
	s.Require().NoError(err)

	testutil.AddToCart(s.T(), s.db, s.viewer.ID, created.ID)
	testutil.AddFavorite(s.T(), s.db, s.viewer.ID, created.ID)

	s.Require().NoError(s.service.Delete(s.ctx, created.ID, s.author.ID))

	for name, model := range map[string]interface{}{
		"cart entries":       &cart.CartEntry{},
		"favorites":          &favorite.Favorite{},
		"ingredient rows":    &recipe.RecipeIngredient{},
		"recipes":            &recipe.Recipe{},
	} {
		var count int64
		s.db.Model(model).Count(&count)
		s.Zerof(count, "%s left behind", name)
	}

	var links int64
	s.db.Table("recipe_tags").Count(&links)
	s.Zero(links)
	s.Empty(s.images.Stored)

	_, err = s.service.Get(s.ctx, created.ID, 0)
	s.ErrorIs(err, recipe.ErrRecipeNotFound)
}

func (s *RecipeServiceSuite) TestListFiltersAndFlags() {
	t := s.T()
	breakfast, lunch, dinner := s.tags[0], s.tags[1], s.tags[2]

	r1 := testutil.CreateRecipe(t, s.db, s.author.ID, []testutil.Line{{Ingredient: s.flour, Amount: 100}}, breakfast)
	r2 := testutil.CreateRecipe(t, s.db, s.author.ID, []testutil.Line{{Ingredient: s.egg, Amount: 1}}, lunch)
	r3 := testutil.CreateRecipe(t, s.db, s.viewer.ID, []testutil.Line{{Ingredient: s.sugar, Amount: 5}}, dinner, breakfast)

	testutil.AddFavorite(t, s.db, s.viewer.ID, r1.ID)
	testutil.AddToCart(t, s.db, s.viewer.ID, r2.ID)
	testutil.Subscribe(t, s.db, s.viewer.ID, s.author.ID)

	ids := func(resp *recipe.ListResponse) []uint {
		out := make([]uint, len(resp.Recipes))
		for i, r := range resp.Recipes {
			out[i] = r.ID
		}
		return out
	}

	all, err := s.service.List(s.ctx, &recipe.ListFilter{}, s.viewer.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), all.Pagination.Total)
	s.ElementsMatch([]uint{r1.ID, r2.ID, r3.ID}, ids(all))

	for _, r := range all.Recipes {
		s.Equal(r.ID == r1.ID, r.IsFavorited, "is_favorited of %d", r.ID)
		s.Equal(r.ID == r2.ID, r.IsInShoppingCart, "is_in_shopping_cart of %d", r.ID)
		s.Equal(r.Author.ID == s.author.ID, r.Author.IsSubscribed)
	}

	byAuthor, err := s.service.List(s.ctx, &recipe.ListFilter{Author: s.author.ID}, 0)
	s.Require().NoError(err)
	s.ElementsMatch([]uint{r1.ID, r2.ID}, ids(byAuthor))

	byTags, err := s.service.List(s.ctx, &recipe.ListFilter{Tags: []string{"breakfast", "lunch"}}, 0)
	s.Require().NoError(err)
	s.ElementsMatch([]uint{r1.ID, r2.ID, r3.ID}, ids(byTags))

	dinnerOnly, err := s.service.List(s.ctx, &recipe.ListFilter{Tags: []string{"dinner"}}, 0)
	s.Require().NoError(err)
	s.Equal([]uint{r3.ID}, ids(dinnerOnly))

	favorited, err := s.service.List(s.ctx, &recipe.ListFilter{IsFavorited: true}, s.viewer.ID)
	s.Require().NoError(err)
	s.Equal([]uint{r1.ID}, ids(favorited))

	inCart, err := s.service.List(s.ctx, &recipe.ListFilter{IsInShoppingCart: true}, s.viewer.ID)
	s.Require().NoError(err)
	s.Equal([]uint{r2.ID}, ids(inCart))

	anonymous, err := s.service.List(s.ctx, &recipe.ListFilter{IsFavorited: true, IsInShoppingCart: true}, 0)
	s.Require().NoError(err)
	s.Len(anonymous.Recipes, 3, "membership filters are ignored for anonymous viewers")
	for _, r := range anonymous.Recipes {
		s.False(r.IsFavorited)
		s.False(r.IsInShoppingCart)
	}
}

func TestListOrderingAndPagination(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config(t)
	logger, _ := testutil.Logger()
	svc := recipe.NewService(db, cfg, user.NewService(db, cfg, logger), testutil.NewMemoryImages(), logger)

	author := testutil.CreateUser(t, db)
	salt := testutil.CreateIngredient(t, db, "salt", "g")

	var created []uint
	for i := 0; i < 8; i++ {
		r := testutil.CreateRecipe(t, db, author.ID, []testutil.Line{{Ingredient: salt, Amount: 1}})
		created = append(created, r.ID)
	}

	first, err := svc.List(context.Background(), &recipe.ListFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, first.Recipes, 6, "default page size")
	assert.True(t, first.Pagination.HasNext)
	assert.Equal(t, created[7], first.Recipes[0].ID, "newest first")

	second, err := svc.List(context.Background(), &recipe.ListFilter{Params: pagination.Params{Page: 2, Limit: 6}}, 0)
	require.NoError(t, err)
	require.Len(t, second.Recipes, 2)
	assert.Equal(t, created[0], second.Recipes[1].ID)
	assert.False(t, second.Pagination.HasNext)
}
