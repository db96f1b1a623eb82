package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Success(c, gin.H{"name": "Widget"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_Created(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Created(c, gin.H{"id": uuid.New().String()})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestBaseHandler_NoContent(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.NoContent(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_ErrorResponses(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		call       func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bad request",
			call:       func(c *gin.Context) { h.BadRequest(c, "Invalid request body") },
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeBadRequest,
		},
		{
			name:       "not found",
			call:       func(c *gin.Context) { h.NotFound(c, "Product not found") },
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "unauthorized",
			call:       func(c *gin.Context) { h.Unauthorized(c, "Authentication required") },
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrCodeUnauthorized,
		},
		{
			name:       "forbidden",
			call:       func(c *gin.Context) { h.Forbidden(c, "Admin access required") },
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrCodeForbidden,
		},
		{
			name:       "internal error",
			call:       func(c *gin.Context) { h.InternalError(c, "An internal error occurred") },
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			tt.call(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_ErrorIncludesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)
	c.Set("request_id", "req-42")

	h.BadRequest(c, "nope")

	resp := decodeResponse(t, w)
	assert.Equal(t, "req-42", resp.RequestID)
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "domain error keeps its message",
			err:         shared.NewDomainError("INSUFFICIENT_STOCK", "Only 0 items available in stock"),
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    dto.ErrCodeInsufficientStock,
			wantMessage: "Only 0 items available in stock",
		},
		{
			name:        "expired coupon maps to 400",
			err:         shared.NewDomainError("EXPIRED", "Coupon has expired"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    dto.ErrCodeExpired,
			wantMessage: "Coupon has expired",
		},
		{
			name:        "invalid credentials map to 401",
			err:         shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password"),
			wantStatus:  http.StatusUnauthorized,
			wantCode:    dto.ErrCodeUnauthorized,
			wantMessage: "Invalid email or password",
		},
		{
			name:        "not found sentinel maps to 404",
			err:         shared.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    dto.ErrCodeNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "unknown error hides detail",
			err:         assert.AnError,
			wantStatus:  http.StatusInternalServerError,
			wantCode:    dto.ErrCodeInternal,
			wantMessage: "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}

func TestBaseHandler_GetUserID(t *testing.T) {
	h := &BaseHandler{}

	t.Run("returns the authenticated user", func(t *testing.T) {
		c, _ := newTestContext(t)
		id := uuid.New()
		c.Set(middleware.ContextKeyUserID, id.String())

		got, ok := h.getUserID(c)
		require.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("writes 401 when unauthenticated", func(t *testing.T) {
		c, w := newTestContext(t)

		_, ok := h.getUserID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBaseHandler_GetActor(t *testing.T) {
	h := &BaseHandler{}

	t.Run("admin role sets IsAdmin", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(middleware.ContextKeyUserID, uuid.New().String())
		c.Set(middleware.ContextKeyRole, "admin")

		actor, ok := h.getActor(c)
		require.True(t, ok)
		assert.True(t, actor.IsAdmin)
	})

	t.Run("regular role is not admin", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(middleware.ContextKeyUserID, uuid.New().String())
		c.Set(middleware.ContextKeyRole, "regular")

		actor, ok := h.getActor(c)
		require.True(t, ok)
		assert.False(t, actor.IsAdmin)
	})
}

func TestBaseHandler_BindID(t *testing.T) {
	h := &BaseHandler{}

	t.Run("parses a valid uuid", func(t *testing.T) {
		c, _ := newTestContext(t)
		id := uuid.New()
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		got, ok := h.bindID(c)
		require.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		c, w := newTestContext(t)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		_, ok := h.bindID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
