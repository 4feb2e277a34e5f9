package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler(nil)
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler(nil)

	c, w := newTestContext(t)
	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestSystemHandler_Ready_WithoutDatabase(t *testing.T) {
	h := NewSystemHandler(nil)

	c, w := newTestContext(t)
	h.Ready(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSystemHandler_Info(t *testing.T) {
	h := NewSystemHandler(nil)

	c, w := newTestContext(t)
	h.Info(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Data)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "HarvestHub Admin API", data["name"])
	assert.NotEmpty(t, data["go_version"])

	uptime := data["uptime"].(string)
	_, err := time.ParseDuration(uptime)
	assert.NoError(t, err)
}
