// internal/interfaces/http/handlers/common.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/cart"
	"github.com/your-org/foodgram-backend/internal/domain/favorite"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/domain/subscription"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/interfaces/http/middleware"
	"github.com/your-org/foodgram-backend/internal/pkg/validation"
)

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Not found",
		})
		return 0, false
	}
	return uint(id), true
}

// requireUser returns the authenticated user id or writes 401
func requireUser(c *gin.Context) (uint, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return 0, false
	}
	return userID, true
}

// bindJSON binds and validates the body, writing 400 with field details on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verr *validation.Error
		if errors.As(validation.FromValidator(err), &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"details": verr.Fields,
			})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, recipe.ErrRecipeNotFound),
		errors.Is(err, recipe.ErrIngredientNotFound),
		errors.Is(err, recipe.ErrTagNotFound):
		return http.StatusNotFound
	case errors.Is(err, recipe.ErrNotAuthor):
		return http.StatusForbidden
	case errors.Is(err, recipe.ErrRecipeNameTaken):
		return http.StatusConflict
	case errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, user.ErrUsernameTaken),
		errors.Is(err, favorite.ErrAlreadyFavorited),
		errors.Is(err, favorite.ErrNotFavorited),
		errors.Is(err, cart.ErrAlreadyInCart),
		errors.Is(err, cart.ErrNotInCart),
		errors.Is(err, subscription.ErrSelfSubscription),
		errors.Is(err, subscription.ErrAlreadySubscribed),
		errors.Is(err, subscription.ErrNotSubscribed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Unexpected errors are logged and hidden from the client.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error, fallback string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": verr.Fields,
		})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.ContextRequestID),
			"path":       c.FullPath(),
		}).WithError(err).Error(fallback)

		c.JSON(status, gin.H{
			"error": fallback,
		})
		return
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}

// recipesLimit parses the optional recipes_limit query parameter; 0 means no limit
func recipesLimit(c *gin.Context) int {
	if raw := c.Query("recipes_limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
