// internal/interfaces/http/handlers/users.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/subscription"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/interfaces/http/middleware"
	"github.com/your-org/foodgram-backend/internal/pkg/pagination"
)

// UserHandler handles user and subscription endpoints
type UserHandler struct {
	userService         *user.Service
	subscriptionService *subscription.Service
	logger              logrus.FieldLogger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *user.Service, subscriptions *subscription.Service, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		userService:         users,
		subscriptionService: subscriptions,
		logger:              logger.WithField("handler", "user"),
	}
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	users, err := h.userService.List(c.Request.Context(), params, middleware.ViewerID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Users retrieved successfully",
		"data":    users,
	})
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"data":    profile,
	})
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User retrieved successfully",
		"data":    profile,
	})
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    profile,
	})
}

// SetPassword handles POST /users/set_password
func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req user.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.SetPassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, h.logger, err, "Failed to change password")
		return
	}

	c.Status(http.StatusNoContent)
}

// Subscriptions handles GET /users/subscriptions
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	authors, err := h.subscriptionService.List(c.Request.Context(), userID, params, recipesLimit(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve subscriptions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subscriptions retrieved successfully",
		"data":    authors,
	})
}

// Subscribe handles POST /users/:id/subscribe
func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	card, err := h.subscriptionService.Subscribe(c.Request.Context(), userID, authorID, recipesLimit(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to subscribe")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Subscribed successfully",
		"data":    card,
	})
}

// Unsubscribe handles DELETE /users/:id/subscribe
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, h.logger, err, "Failed to unsubscribe")
		return
	}

	c.Status(http.StatusNoContent)
}
