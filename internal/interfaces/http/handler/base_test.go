package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	router := gin.New()
	var h BaseHandler
	router.GET("/", func(c *gin.Context) {
		h.HandleError(c, err)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	t.Run("maps domain not found to 404", func(t *testing.T) {
		rec, resp := performError(t, shared.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("unwraps wrapped domain errors", func(t *testing.T) {
		rec, resp := performError(t, fmt.Errorf("loading stock: %w", shared.ErrInsufficientStock))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
	})

	t.Run("maps concurrency conflicts to 409", func(t *testing.T) {
		rec, resp := performError(t, shared.ErrConcurrencyConflict)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, dto.ErrCodeConcurrencyConflict, resp.Error.Code)
	})

	t.Run("maps custom domain codes by prefix", func(t *testing.T) {
		rec, resp := performError(t, shared.NewDomainError("INVALID_PERIOD", "period must be YYYY-MM"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
		assert.Equal(t, "period must be YYYY-MM", resp.Error.Message)
	})

	t.Run("hides unexpected errors behind 500", func(t *testing.T) {
		rec, resp := performError(t, fmt.Errorf("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "pq:")
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	router := gin.New()
	var h BaseHandler
	router.GET("/:id", func(c *gin.Context) {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		h.Success(c, id.String())
	})

	t.Run("accepts a UUID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/0f9a6d52-68a8-4a9e-9e1e-22e273e0f3a1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a non-UUID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forty-two", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_VALIDATION")
	})
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(nil, "test")

	router := gin.New()
	router.GET("/healthz", h.Live)
	router.GET("/readyz", h.Ready)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
