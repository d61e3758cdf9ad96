// internal/interfaces/http/handlers/recipes.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/interfaces/http/middleware"
)

// RecipeHandler handles recipe endpoints
type RecipeHandler struct {
	recipeService *recipe.Service
	logger        logrus.FieldLogger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipes *recipe.Service, logger logrus.FieldLogger) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipes,
		logger:        logger.WithField("handler", "recipe"),
	}
}

// List handles GET /recipes
func (h *RecipeHandler) List(c *gin.Context) {
	var filter recipe.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	recipes, err := h.recipeService.List(c.Request.Context(), &filter, middleware.ViewerID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipes retrieved successfully",
		"data":    recipes,
	})
}

// Get handles GET /recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	r, err := h.recipeService.Get(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe retrieved successfully",
		"data":    r,
	})
}

// Create handles POST /recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req recipe.CreateRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.recipeService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create recipe")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"data":    r,
	})
}

// Update handles PATCH /recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req recipe.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.recipeService.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe updated successfully",
		"data":    r,
	})
}

// Delete handles DELETE /recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.logger, err, "Failed to delete recipe")
		return
	}

	c.Status(http.StatusNoContent)
}
