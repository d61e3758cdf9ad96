package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/foodgram-backend/internal/domain/cart"
	"github.com/your-org/foodgram-backend/internal/domain/favorite"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/domain/subscription"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/pkg/validation"
	"github.com/your-org/foodgram-backend/internal/testutil"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		recipe.ErrRecipeNotFound:         http.StatusNotFound,
		user.ErrUserNotFound:             http.StatusNotFound,
		recipe.ErrNotAuthor:              http.StatusForbidden,
		recipe.ErrRecipeNameTaken:        http.StatusConflict,
		favorite.ErrAlreadyFavorited:     http.StatusBadRequest,
		cart.ErrNotInCart:                http.StatusBadRequest,
		subscription.ErrSelfSubscription: http.StatusBadRequest,
		cart.ErrQuantityOverflow:         http.StatusInternalServerError,
		errors.New("connection reset"):   http.StatusInternalServerError,
	}

	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}

	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("wrapped: %w", user.ErrEmailTaken)))
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := testutil.Logger()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, logger, errors.New("pq: relation does not exist"), "Failed to retrieve recipes")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to retrieve recipes"}`, w.Body.String())
	if assert.NotNil(t, hook.LastEntry()) {
		assert.Equal(t, "Failed to retrieve recipes", hook.LastEntry().Message)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondError(c, logger, validation.NewError("name", "this field is required"), "unused")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request data","details":{"name":"this field is required"}}`, w.Body.String())
}
