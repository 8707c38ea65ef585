// Package feed pushes newly added comments to a device's other open tabs
// over WebSocket, the way a browser fires storage events between tabs.
package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/mechanics-site/internal/domain"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const writeTimeout = 5 * time.Second

// Event is the message written to subscribers.
type Event struct {
	Type    string         `json:"type"`
	Comment domain.Comment `json:"comment"`
}

// Conn is the subset of *websocket.Conn the hub writes to.
type Conn interface {
	Close(code websocket.StatusCode, reason string) error
}

// Writer sends one event to a connection.
type Writer func(ctx context.Context, conn Conn, ev Event) error

// Hub tracks live feed connections per device and tab.
type Hub struct {
	mu     sync.RWMutex
	active map[string]map[string]Conn
	write  Writer
}

// NewHub creates a hub that writes JSON messages to *websocket.Conn.
func NewHub() *Hub {
	return NewHubWithWriter(writeJSON)
}

// NewHubWithWriter creates a hub with a custom writer.
func NewHubWithWriter(w Writer) *Hub {
	return &Hub{
		active: make(map[string]map[string]Conn),
		write:  w,
	}
}

func writeJSON(ctx context.Context, conn Conn, ev Event) error {
	c, ok := conn.(*websocket.Conn)
	if !ok {
		return nil
	}
	return wsjson.Write(ctx, c, ev)
}

// Register adds a connection for a device tab, closing any connection it
// replaces.
func (h *Hub) Register(deviceID, tabID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.active[deviceID]; !exists {
		h.active[deviceID] = make(map[string]Conn)
	}

	if existing, exists := h.active[deviceID][tabID]; exists && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "feed replaced")
	}

	h.active[deviceID][tabID] = conn
	slog.Info("Comment feed registered", "device_id", deviceID, "tab_id", tabID)
}

// Unregister removes conn if it is still the current connection for the tab.
func (h *Hub) Unregister(deviceID, tabID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if tabs, ok := h.active[deviceID]; ok {
		if current, exists := tabs[tabID]; exists && current == conn {
			delete(tabs, tabID)
			if len(tabs) == 0 {
				delete(h.active, deviceID)
			}
			slog.Info("Comment feed unregistered", "device_id", deviceID, "tab_id", tabID)
		}
	}
}

// Count returns the number of open connections for a device.
func (h *Hub) Count(deviceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.active[deviceID])
}

// Publish sends c to every tab of deviceID except fromTab. Connections
// that fail to accept the write are closed and dropped.
func (h *Hub) Publish(deviceID, fromTab string, c domain.Comment) {
	h.mu.RLock()
	targets := make(map[string]Conn, len(h.active[deviceID]))
	for tab, conn := range h.active[deviceID] {
		if tab != fromTab {
			targets[tab] = conn
		}
	}
	h.mu.RUnlock()

	ev := Event{Type: "comment", Comment: c}
	for tab, conn := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := h.write(ctx, conn, ev)
		cancel()
		if err != nil {
			slog.Warn("Dropping comment feed", "device_id", deviceID, "tab_id", tab, "error", err)
			_ = conn.Close(websocket.StatusInternalError, "write failed")
			h.Unregister(deviceID, tab, conn)
		}
	}
}
