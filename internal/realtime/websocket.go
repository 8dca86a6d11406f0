package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebsocketHandler upgrades HTTP requests to websocket connections
// subscribed to the products topic.
type WebsocketHandler struct {
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWebsocketHandler creates a handler bound to the given hub
func NewWebsocketHandler(hub *Hub, allowedOrigins []string, logger *zap.Logger) *WebsocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return &WebsocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin header.
				return origin == "" || allowed[origin]
			},
		},
	}
}

// ServeHTTP upgrades the connection, subscribes it to the hub and pumps
// events until the client goes away.
func (h *WebsocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}

	sub := h.hub.Subscribe()
	h.logger.Info("Websocket subscriber connected",
		zap.String("subscriber_id", sub.ID),
		zap.String("remote_addr", r.RemoteAddr),
	)

	go h.writePump(conn, sub)
	go h.readPump(conn, sub)
}

// writePump forwards hub events to the connection and keeps it alive
// with pings.
func (h *WebsocketHandler) writePump(conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the subscription.
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("Websocket write failed",
					zap.String("subscriber_id", sub.ID),
					zap.Error(err),
				)
				h.hub.Unsubscribe(sub.ID)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.hub.Unsubscribe(sub.ID)
				return
			}
		}
	}
}

// readPump discards inbound messages; its job is to notice the close
// handshake and detach the subscriber.
func (h *WebsocketHandler) readPump(conn *websocket.Conn, sub *Subscription) {
	defer func() {
		h.hub.Unsubscribe(sub.ID)
		conn.Close()
		h.logger.Info("Websocket subscriber disconnected", zap.String("subscriber_id", sub.ID))
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
