package restapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pool_monitor/internal/domain/entity"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{ //nolint:gochecknoglobals
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// StreamMessage is one frame on the live update socket.
type StreamMessage struct {
	Type     string                  `json:"type"`
	Snapshot *entity.RefreshSnapshot `json:"snapshot,omitempty"`
	Event    *entity.RefreshEvent    `json:"event,omitempty"`
}

const (
	streamSnapshot = "snapshot"
	streamEvent    = "event"
)

// Stream godoc
// @Summary      Live refresh events
// @Description  Sends a snapshot frame, then one event frame per state change and wallet update.
// @Tags         wallets
// @Router       /ws [get]
func (h *Handler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, unsubscribe := h.coordinator.Subscribe()
	defer unsubscribe()

	// The read loop only handles control frames and detects the client going away.
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snap := h.coordinator.Snapshot()
	if err := writeFrame(conn, StreamMessage{Type: streamSnapshot, Snapshot: &snap}); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeFrame(conn, StreamMessage{Type: streamEvent, Event: &ev}); err != nil {
				h.logger.Debug("WebSocket write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, msg StreamMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteMessage(websocket.TextMessage, body)
}
