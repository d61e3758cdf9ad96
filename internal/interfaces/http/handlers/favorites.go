package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/favorite"
)

// FavoriteHandler handles favorite endpoints
type FavoriteHandler struct {
	favoriteService *favorite.Service
	logger          logrus.FieldLogger
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favorites *favorite.Service, logger logrus.FieldLogger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favorites,
		logger:          logger.WithField("handler", "favorite"),
	}
}

// Add handles POST /recipes/:id/favorite
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	short, err := h.favoriteService.Add(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add recipe to favorites")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe added to favorites successfully",
		"data":    short,
	})
}

// Remove handles DELETE /recipes/:id/favorite
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, h.logger, err, "Failed to remove recipe from favorites")
		return
	}

	c.Status(http.StatusNoContent)
}
