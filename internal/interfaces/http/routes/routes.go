// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/domain/cart"
	"github.com/your-org/foodgram-backend/internal/domain/favorite"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/domain/subscription"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/interfaces/http/handlers"
	"github.com/your-org/foodgram-backend/internal/interfaces/http/middleware"
	"github.com/your-org/foodgram-backend/internal/pkg/metrics"
	"github.com/your-org/foodgram-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// Dependencies are the shared collaborators the API handlers are built from
type Dependencies struct {
	DB      *gorm.DB
	Config  *config.Config
	Images  recipe.ImageStore
	PDF     *pdf.Service
	Metrics *metrics.Metrics
	Logger  logrus.FieldLogger
}

// Handlers groups every API handler
type Handlers struct {
	Users     *handlers.UserHandler
	Catalog   *handlers.CatalogHandler
	Recipes   *handlers.RecipeHandler
	Favorites *handlers.FavoriteHandler
	Cart      *handlers.CartHandler
}

// NewHandlers wires domain services into handlers
func NewHandlers(deps Dependencies) *Handlers {
	db, cfg, logger := deps.DB, deps.Config, deps.Logger

	userService := user.NewService(db, cfg, logger)
	recipeService := recipe.NewService(db, cfg, userService, deps.Images, logger)
	subscriptionService := subscription.NewService(db, cfg, userService, recipeService, logger)
	favoriteService := favorite.NewService(db, recipeService, logger)
	cartService := cart.NewService(db, recipeService, cart.NewGormIngredientSource(db), logger)

	return &Handlers{
		Users:     handlers.NewUserHandler(userService, subscriptionService, logger),
		Catalog:   handlers.NewCatalogHandler(recipe.NewTagService(db), recipe.NewIngredientService(db), logger),
		Recipes:   handlers.NewRecipeHandler(recipeService, logger),
		Favorites: handlers.NewFavoriteHandler(favoriteService, logger),
		Cart:      handlers.NewCartHandler(cartService, userService, deps.PDF, deps.Metrics, logger),
	}
}

// SetupRoutes registers every API v1 route
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	SetupUserRoutes(rg, h, cfg)
	SetupCatalogRoutes(rg, h)
	SetupRecipeRoutes(rg, h, cfg)
}

// SetupUserRoutes sets up user and subscription routes
func SetupUserRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	users := rg.Group("/users")
	{
		// Public endpoints, personalized when a token is present
		public := users.Group("")
		public.Use(middleware.OptionalAuthMiddleware(cfg))
		{
			public.GET("", h.Users.List)
			public.POST("", h.Users.Register)
			public.GET("/:id", h.Users.Get)
		}

		// Protected endpoints
		protected := users.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/me", h.Users.Me)
			protected.POST("/set_password", h.Users.SetPassword)
			protected.GET("/subscriptions", h.Users.Subscriptions)
			protected.POST("/:id/subscribe", h.Users.Subscribe)
			protected.DELETE("/:id/subscribe", h.Users.Unsubscribe)
		}
	}
}

// SetupCatalogRoutes sets up tag and ingredient routes
func SetupCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	tags := rg.Group("/tags")
	{
		tags.GET("", h.Catalog.ListTags)
		tags.GET("/:id", h.Catalog.GetTag)
	}

	ingredients := rg.Group("/ingredients")
	{
		ingredients.GET("", h.Catalog.ListIngredients)
		ingredients.GET("/:id", h.Catalog.GetIngredient)
	}
}

// SetupRecipeRoutes sets up recipe, favorite and shopping cart routes
func SetupRecipeRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	recipes := rg.Group("/recipes")
	{
		public := recipes.Group("")
		public.Use(middleware.OptionalAuthMiddleware(cfg))
		{
			public.GET("", h.Recipes.List)
			public.GET("/:id", h.Recipes.Get)
		}

		protected := recipes.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("", h.Recipes.Create)
			protected.PATCH("/:id", h.Recipes.Update)
			protected.DELETE("/:id", h.Recipes.Delete)

			protected.POST("/:id/favorite", h.Favorites.Add)
			protected.DELETE("/:id/favorite", h.Favorites.Remove)

			protected.POST("/:id/shopping_cart", h.Cart.Add)
			protected.DELETE("/:id/shopping_cart", h.Cart.Remove)
			protected.GET("/download_shopping_cart", h.Cart.Download)
		}
	}
}
