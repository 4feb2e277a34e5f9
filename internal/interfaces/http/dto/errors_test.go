package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"same status", ErrCodeSameStatus, http.StatusUnprocessableEntity},
		{"refund exceeds balance", ErrCodeRefundExceedsBalance, http.StatusUnprocessableEntity},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"invalid credentials", ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{"account locked", ErrCodeAccountLocked, http.StatusForbidden},
		{"storage unavailable", ErrCodeStorageUnavailable, http.StatusServiceUnavailable},
		{"unknown code falls back to 500", "ERR_NO_SUCH_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"domain not found", "NOT_FOUND", ErrCodeNotFound},
		{"domain same status", "SAME_STATUS", ErrCodeSameStatus},
		{"domain concurrent modification", "CONCURRENT_MODIFICATION", ErrCodeConcurrencyConflict},
		{"domain refund exceeds balance", "REFUND_EXCEEDS_BALANCE", ErrCodeRefundExceedsBalance},
		{"already normalized", ErrCodeNotFound, ErrCodeNotFound},
		{"unknown passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeErrorCode(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
