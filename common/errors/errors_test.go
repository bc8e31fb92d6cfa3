package errors_test

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	wrapped := fmt.Errorf("loading cart: %w", apperrors.NotFound("Product not found!"))
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(wrapped))
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(stderrors.New("boom")))

	cause := stderrors.New("mongo timeout")
	internal := apperrors.Internal("Failed to load orders", cause)
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, "Failed to load orders: mongo timeout", internal.Error())
}

func TestErrorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware())
	r.GET("/conflict", func(c *gin.Context) {
		apperrors.Abort(c, apperrors.Conflict("Category already exists"))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(stderrors.New("driver exploded"))
	})
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(apperrors.BadRequest("ignored"))
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	})

	tests := []struct {
		path    string
		code    int
		message string
	}{
		{"/conflict", http.StatusConflict, "Category already exists"},
		{"/plain", http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code, "a written response is left alone")
}
