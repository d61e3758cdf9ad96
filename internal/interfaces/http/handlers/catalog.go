package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
)

// CatalogHandler serves the read-only tag and ingredient reference data
type CatalogHandler struct {
	tagService        *recipe.TagService
	ingredientService *recipe.IngredientService
	logger            logrus.FieldLogger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(tags *recipe.TagService, ingredients *recipe.IngredientService, logger logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{
		tagService:        tags,
		ingredientService: ingredients,
		logger:            logger.WithField("handler", "catalog"),
	}
}

// ListTags handles GET /tags
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tags retrieved successfully",
		"data":    tags,
	})
}

// GetTag handles GET /tags/:id
func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tag, err := h.tagService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tag retrieved successfully",
		"data":    tag,
	})
}

// ListIngredients handles GET /ingredients?name=<query>
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve ingredients")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ingredients retrieved successfully",
		"data":    ingredients,
	})
}

// GetIngredient handles GET /ingredients/:id
func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ingredient, err := h.ingredientService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve ingredient")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ingredient retrieved successfully",
		"data":    ingredient,
	})
}
