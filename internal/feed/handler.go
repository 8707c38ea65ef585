package feed

import (
	"log/slog"
	"net/http"

	"github.com/ashureev/mechanics-site/internal/identity"
	"github.com/coder/websocket"
)

// Handler upgrades requests to a live comment feed for the caller's device.
type Handler struct {
	hub            *Hub
	originPatterns []string
}

// NewHandler creates a feed handler. originPatterns are host patterns
// accepted for cross-origin upgrades; nil allows same-origin only.
func NewHandler(hub *Hub, originPatterns []string) *Handler {
	return &Handler{hub: hub, originPatterns: originPatterns}
}

// ServeHTTP accepts the WebSocket and holds it open until the client leaves.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deviceID := identity.DeviceIDFromContext(r.Context())
	tabID := identity.TabIDFromContext(r.Context())
	if deviceID == "" {
		http.Error(w, `{"error":"missing device identity"}`, http.StatusUnauthorized)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "device_id", deviceID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "device_id", deviceID)
		}
	}()

	h.hub.Register(deviceID, tabID, ws)
	defer h.hub.Unregister(deviceID, tabID, ws)

	// The feed is one-way; CloseRead discards client frames and cancels
	// ctx when the peer goes away.
	ctx := ws.CloseRead(r.Context())
	<-ctx.Done()
	slog.Info("Comment feed ended", "device_id", deviceID, "tab_id", tabID)
}
