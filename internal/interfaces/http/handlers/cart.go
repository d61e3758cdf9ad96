// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/domain/cart"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/pkg/metrics"
	"github.com/your-org/foodgram-backend/internal/pkg/pdf"
)

const (
	formatText = "txt"
	formatPDF  = "pdf"
)

// CartHandler handles shopping cart endpoints
type CartHandler struct {
	cartService *cart.Service
	userService *user.Service
	pdf         *pdf.Service
	metrics     *metrics.Metrics
	logger      logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service, users *user.Service, pdfService *pdf.Service, m *metrics.Metrics, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		cartService: carts,
		userService: users,
		pdf:         pdfService,
		metrics:     m,
		logger:      logger.WithField("handler", "cart"),
	}
}

// Add handles POST /recipes/:id/shopping_cart
func (h *CartHandler) Add(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	short, err := h.cartService.Add(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add recipe to shopping cart")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe added to shopping cart successfully",
		"data":    short,
	})
}

// Remove handles DELETE /recipes/:id/shopping_cart
func (h *CartHandler) Remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.cartService.Remove(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, h.logger, err, "Failed to remove recipe from shopping cart")
		return
	}

	c.Status(http.StatusNoContent)
}

// Download handles GET /recipes/download_shopping_cart?format=txt|pdf
func (h *CartHandler) Download(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", formatText)
	if format != formatText && format != formatPDF {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unsupported format, use txt or pdf",
		})
		return
	}

	items, err := h.cartService.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to build shopping list")
		return
	}

	if format == formatPDF {
		h.downloadPDF(c, userID, items)
		return
	}

	h.metrics.ObserveShoppingList(formatText, len(items))
	c.Header("Content-Disposition", "attachment; filename=shopping_cart.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(cart.RenderText(items)))
}

func (h *CartHandler) downloadPDF(c *gin.Context, userID uint, items []cart.ShoppingItem) {
	owner, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to build shopping list")
		return
	}

	// Generate PDF
	buf, err := h.pdf.GenerateShoppingList(owner.Username, items)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate PDF")
		return
	}

	h.metrics.ObserveShoppingList(formatPDF, len(items))
	c.Header("Content-Disposition", "attachment; filename=shopping_cart.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
