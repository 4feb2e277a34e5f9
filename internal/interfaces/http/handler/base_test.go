package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, "ERR_CONCURRENCY_CONFLICT"},
		{
			"status transition rule",
			shared.NewDomainError("SAME_STATUS", "Order is already in this status"),
			http.StatusUnprocessableEntity,
			"ERR_SAME_STATUS",
		},
		{
			"refund exceeds balance",
			shared.NewDomainError("REFUND_EXCEEDS_BALANCE", "Refund exceeds remaining balance"),
			http.StatusUnprocessableEntity,
			"ERR_REFUND_EXCEEDS_BALANCE",
		},
		{"opaque error", errors.New("boom"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestGetActorID(t *testing.T) {
	t.Run("missing claims", func(t *testing.T) {
		c, _ := newTestContext(t)
		_, err := getActorID(c)
		assert.Error(t, err)
	})

	t.Run("valid user ID", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set("jwt_user_id", "6ba7b810-9dad-11d1-80b4-00c04fd430c8")

		id, err := getActorID(c)
		require.NoError(t, err)
		assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id.String())
	})
}
