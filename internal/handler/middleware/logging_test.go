//go:build unit

package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"library-rental/internal/handler/httperr"
	"library-rental/internal/handler/middleware"
	"library-rental/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := middleware.NewLogger(config.LogConfig{Level: "error", TimeZone: "UTC", TimeFormat: "2006-01-02"})

	r := gin.New()
	r.Use(middleware.CustomRecovery(), logger.LoggingMiddleware(), middleware.ErrorHandler())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, middleware.GetRequestID(c)) })
	r.GET("/fail", func(c *gin.Context) {
		httperr.AbortWithError(c, http.StatusNotFound, errors.New("missing"), "Rental not found", nil)
	})
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	r := newRouter()

	t.Run("generates an id when none is sent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		id := w.Header().Get(middleware.RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("reuses a valid client id", func(t *testing.T) {
		sent := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(middleware.RequestIDHeader, sent)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, sent, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("replaces a malformed client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(middleware.RequestIDHeader, "not-a-uuid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEqual(t, "not-a-uuid", w.Header().Get(middleware.RequestIDHeader))
	})
}

func TestErrorEnvelope_CarriesRequestID(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body httperr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Rental not found", body.Error.Message)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), body.RequestID)
}

func TestCustomRecovery(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
