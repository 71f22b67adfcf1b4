package push

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
	"github.com/thorsten-l/l9g-accountinfo/internal/metrics"
)

// SubprotocolName is the marker token a pad must present as the first
// element of its Sec-WebSocket-Protocol header; the second element is the
// pad UUID.
const SubprotocolName = "SIGNATURE_PAD_UUID"

// AdmissionCheck decides whether the pad may connect. It runs before the
// HTTP connection is upgraded.
type AdmissionCheck func(ctx context.Context, padUUID string) error

// connection wraps one pad WebSocket. The mutex serializes writes; gorilla
// connections allow only one concurrent writer.
type connection struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *connection) send(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(event)
}

// Hub tracks one WebSocket connection per pad UUID. A new connection for
// the same pad replaces the old one.
type Hub struct {
	mu    sync.Mutex
	conns map[string]*connection

	upgrader websocket.Upgrader
	check    AdmissionCheck
	metrics  metrics.BusinessMetrics
	logger   *slog.Logger
}

// NewHub creates a hub with the given admission check.
func NewHub(check AdmissionCheck, m metrics.BusinessMetrics, logger *slog.Logger) *Hub {
	return &Hub{
		conns: make(map[string]*connection),
		upgrader: websocket.Upgrader{
			// Pads are native clients, not browsers; origin checks do not apply.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		check:   check,
		metrics: m,
		logger:  logger,
	}
}

// HandleConnection admits, upgrades, and serves one pad connection. It
// blocks until the pad disconnects. Admission failures are answered before
// the upgrade, so rejected pads receive a plain HTTP error.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) error {
	padUUID, err := ParseSubprotocol(r.Header.Get("Sec-WebSocket-Protocol"))
	if err != nil {
		return err
	}

	if err := h.check(r.Context(), padUUID); err != nil {
		return err
	}

	ws, err := h.upgrader.Upgrade(w, r, http.Header{
		"Sec-WebSocket-Protocol": {SubprotocolName},
	})
	if err != nil {
		return apperrors.Wrap(err, "websocket upgrade failed")
	}

	h.register(padUUID, ws)
	defer h.unregister(padUUID, ws)

	if h.logger != nil {
		h.logger.Info("pad connected", slog.String("pad_uuid", padUUID))
	}

	// Pads never send application data; the read loop only surfaces
	// disconnects and answers protocol control frames.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if h.logger != nil {
				h.logger.Info("pad disconnected",
					slog.String("pad_uuid", padUUID),
					slog.Any("error", err),
				)
			}
			return nil
		}
	}
}

// FireEventToPad delivers an event to one connected pad. Returns
// ErrNotFound when the pad has no open connection. A failed write drops
// the connection.
func (h *Hub) FireEventToPad(padUUID string, event Event) error {
	h.mu.Lock()
	conn, ok := h.conns[padUUID]
	h.mu.Unlock()
	if !ok {
		return apperrors.Wrap(apperrors.ErrNotFound, fmt.Sprintf("pad %s not connected", padUUID))
	}

	if err := conn.send(event); err != nil {
		h.drop(padUUID, conn)
		return apperrors.Wrap(err, "failed to push event")
	}
	return nil
}

// FireEventToAll delivers an event to every connected pad, dropping
// connections whose write fails.
func (h *Hub) FireEventToAll(event Event) {
	h.mu.Lock()
	targets := make(map[string]*connection, len(h.conns))
	for padUUID, conn := range h.conns {
		targets[padUUID] = conn
	}
	h.mu.Unlock()

	for padUUID, conn := range targets {
		if err := conn.send(event); err != nil {
			h.drop(padUUID, conn)
		}
	}
}

// RunHeartbeat pushes a heartbeat event to all pads at the given interval
// until ctx is done.
func (h *Hub) RunHeartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.FireEventToAll(NewEvent(EventHeartbeat, ""))
		}
	}
}

// Connected reports whether the pad has an open connection.
func (h *Hub) Connected(padUUID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.conns[padUUID]
	return ok
}

// Count returns the number of connected pads.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close disconnects every pad.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]*connection)
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.ws.Close()
	}
	if h.metrics != nil {
		h.metrics.RecordConnectionDelta(context.Background(), -int64(len(conns)))
	}
}

// register stores the connection, replacing and closing a previous one for
// the same pad.
func (h *Hub) register(padUUID string, ws *websocket.Conn) {
	conn := &connection{ws: ws}

	h.mu.Lock()
	old := h.conns[padUUID]
	h.conns[padUUID] = conn
	h.mu.Unlock()

	if old != nil {
		_ = old.ws.Close()
	} else if h.metrics != nil {
		h.metrics.RecordConnectionDelta(context.Background(), 1)
	}
}

// unregister removes the connection if it is still the registered one.
func (h *Hub) unregister(padUUID string, ws *websocket.Conn) {
	h.mu.Lock()
	conn, ok := h.conns[padUUID]
	if ok && conn.ws == ws {
		delete(h.conns, padUUID)
	} else {
		ok = false
	}
	h.mu.Unlock()

	_ = ws.Close()
	if ok && h.metrics != nil {
		h.metrics.RecordConnectionDelta(context.Background(), -1)
	}
}

// drop closes and removes a connection after a failed write.
func (h *Hub) drop(padUUID string, conn *connection) {
	h.mu.Lock()
	current, ok := h.conns[padUUID]
	if ok && current == conn {
		delete(h.conns, padUUID)
	} else {
		ok = false
	}
	h.mu.Unlock()

	_ = conn.ws.Close()
	if ok && h.metrics != nil {
		h.metrics.RecordConnectionDelta(context.Background(), -1)
	}
}

// ParseSubprotocol extracts the pad UUID from a Sec-WebSocket-Protocol
// header of the form "SIGNATURE_PAD_UUID, <uuid>".
func ParseSubprotocol(header string) (string, error) {
	parts := strings.Split(header, ",")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != SubprotocolName {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "missing pad subprotocol")
	}

	padUUID := strings.TrimSpace(parts[1])
	if padUUID == "" {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "missing pad uuid")
	}
	return padUUID, nil
}
