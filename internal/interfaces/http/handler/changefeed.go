package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/interfaces/http/dto"
	"github.com/harvesthub/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// watchableTables lists the tables clients may subscribe to.
var watchableTables = map[string]bool{
	"orders":          true,
	"order_items":     true,
	"transactions":    true,
	"products":        true,
	"categories":      true,
	"inventory_items": true,
	"profiles":        true,
	"activity_logs":   true,
}

// SSEMessage represents a message framed for an SSE stream
type SSEMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
	ID    string `json:"id,omitempty"`
}

// ChangeFeedHandler streams table change notifications to console
// clients over Server-Sent Events. Clients re-query on each event
// rather than patching state from the payload.
type ChangeFeedHandler struct {
	BaseHandler
	notifier    shared.Notifier
	logger      *zap.Logger
	heartbeat   time.Duration
	maxClients  int64
	clientCount atomic.Int64
}

// ChangeFeedOption is a functional option for configuring the handler
type ChangeFeedOption func(*ChangeFeedHandler)

// WithChangeFeedLogger sets the logger for the handler
func WithChangeFeedLogger(logger *zap.Logger) ChangeFeedOption {
	return func(h *ChangeFeedHandler) {
		h.logger = logger
	}
}

// WithChangeFeedHeartbeat sets the heartbeat interval
func WithChangeFeedHeartbeat(interval time.Duration) ChangeFeedOption {
	return func(h *ChangeFeedHandler) {
		h.heartbeat = interval
	}
}

// WithChangeFeedMaxClients caps the number of concurrent SSE connections
func WithChangeFeedMaxClients(max int64) ChangeFeedOption {
	return func(h *ChangeFeedHandler) {
		h.maxClients = max
	}
}

// NewChangeFeedHandler creates a new ChangeFeedHandler
func NewChangeFeedHandler(notifier shared.Notifier, opts ...ChangeFeedOption) *ChangeFeedHandler {
	h := &ChangeFeedHandler{
		notifier:   notifier,
		logger:     zap.NewNop(),
		heartbeat:  30 * time.Second,
		maxClients: 1000,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// parseTables resolves the ?tables= query parameter to a validated list.
// An empty parameter subscribes to every watchable table.
func parseTables(raw string) ([]string, error) {
	if raw == "" {
		tables := make([]string, 0, len(watchableTables))
		for table := range watchableTables {
			tables = append(tables, table)
		}
		return tables, nil
	}

	seen := make(map[string]bool)
	var tables []string
	for _, part := range strings.Split(raw, ",") {
		table := strings.TrimSpace(part)
		if table == "" {
			continue
		}
		if !watchableTables[table] {
			return nil, fmt.Errorf("unknown table %q", table)
		}
		if !seen[table] {
			seen[table] = true
			tables = append(tables, table)
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables requested")
	}
	return tables, nil
}

// Stream establishes an SSE connection delivering change notifications
// for the requested tables until the client disconnects
func (h *ChangeFeedHandler) Stream(c *gin.Context) {
	if h.maxClients > 0 && h.clientCount.Load() >= h.maxClients {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
			"MAX_CONNECTIONS_REACHED",
			"Maximum number of change feed connections reached",
			getRequestID(c),
		))
		return
	}

	tables, err := parseTables(c.Query("tables"))
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reqCtx := c.Request.Context()

	// Fan the per-table subscriptions into one channel for this client.
	events := make(chan string, 64)
	var wg sync.WaitGroup
	var cancels []func()
	for _, table := range tables {
		ch, cancel, err := h.notifier.Subscribe(reqCtx, table)
		if err != nil {
			for _, cancel := range cancels {
				cancel()
			}
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, "Change feed is unavailable")
			return
		}
		cancels = append(cancels, cancel)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for table := range ch {
				select {
				case events <- table:
				default:
					h.logger.Warn("change feed client too slow, dropping event",
						zap.String("table", table))
				}
			}
		}()
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
		go func() {
			wg.Wait()
			close(events)
		}()
	}()

	h.clientCount.Add(1)
	defer h.clientCount.Add(-1)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	clientID := uuid.New().String()
	h.logger.Info("change feed client connected",
		zap.String("client_id", clientID),
		zap.String("user_id", middleware.GetJWTUserID(c)),
		zap.Strings("tables", tables))

	h.sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"client_id":"%s","timestamp":%d}`, clientID, time.Now().Unix()),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-reqCtx.Done():
			h.logger.Info("change feed client disconnected",
				zap.String("client_id", clientID))
			return
		case <-ticker.C:
			h.sendEvent(c.Writer, SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		case table := <-events:
			h.sendEvent(c.Writer, SSEMessage{
				Event: "change",
				Data:  fmt.Sprintf(`{"table":"%s","timestamp":%d}`, table, time.Now().Unix()),
			})
			c.Writer.Flush()
		}
	}
}

// sendEvent writes an SSE event to the response writer
func (h *ChangeFeedHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

// ClientCount returns the number of connected change feed clients
func (h *ChangeFeedHandler) ClientCount() int64 {
	return h.clientCount.Load()
}
