package handlers

import (
	"net/http"
	"time"

	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/messaging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/observability/logging"
	"github.com/JdarlingGT/portoJD-fresh/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

// StreamHandlers pushes live store-change notifications over a websocket
type StreamHandlers struct {
	broadcaster messaging.Broadcaster
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewStreamHandlers creates stream handlers with injected dependencies
func NewStreamHandlers(broadcaster messaging.Broadcaster, logger *logging.ChanneledLogger) *StreamHandlers {
	return &StreamHandlers{
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The CORS middleware already constrains origins for the REST
			// surface; the upgrade request carries the same origin header.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetStream handles GET /api/v1/stream - upgrades to a websocket and relays
// every append and clear notification as a JSON frame.
func (h *StreamHandlers) GetStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Stream().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	// Short random id correlating this connection's log lines.
	connID, _ := security.GenerateSecureToken(6)

	ch, cancel := h.broadcaster.Subscribe()
	h.logger.Stream().Info("Stream client connected", "conn", connID, "subscribers", h.broadcaster.SubscriberCount())

	done := make(chan struct{})

	// Reader goroutine: we never expect frames from the client, but reading
	// is how websocket close and error states surface.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
		h.logger.Stream().Info("Stream client disconnected", "conn", connID, "subscribers", h.broadcaster.SubscriberCount())
	}()

	for {
		select {
		case n, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(n); err != nil {
				h.logger.Stream().Debug("Stream write failed", "error", err.Error())
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
