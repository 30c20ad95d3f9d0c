package http

import (
	"context"
	"sync"

	"stocktrack/internal/inventory/usecase"
	"stocktrack/internal/shared/eventbus"
	"stocktrack/internal/shared/logger"
	"stocktrack/internal/shared/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// WSHub pushes inventory change events to connected clients so a
// browser can trigger its reload without polling. Delivery is best
// effort; the reconciliation path never depends on it.
type WSHub struct {
	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]struct{}
	log   logger.Logger
}

// NewWSHub creates the hub and subscribes it to change events.
func NewWSHub(bus eventbus.EventBusInterface, log logger.Logger) *WSHub {
	hub := &WSHub{
		conns: make(map[string]map[*websocket.Conn]struct{}),
		log:   log.WithComponent("inventory-ws"),
	}
	bus.Subscribe(usecase.ChangeEventType, hub.handleEvent)
	return hub
}

// SetupRoutes registers the websocket endpoint behind the session gate.
func (h *WSHub) SetupRoutes(router fiber.Router, gate fiber.Handler) {
	router.Get("/ws/inventory", gate, h.upgradeRequired, websocket.New(h.serve))
}

// upgradeRequired rejects plain HTTP requests and carries the caller's
// identity into the upgraded connection's locals.
func (h *WSHub) upgradeRequired(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if uid, err := utils.GetUserIDFromContext(c.UserContext()); err == nil {
		c.Locals("user_id", uid)
	}
	return c.Next()
}

func (h *WSHub) serve(conn *websocket.Conn) {
	ownerID, _ := conn.Locals("user_id").(string)
	if ownerID == "" {
		conn.Close()
		return
	}

	h.register(ownerID, conn)
	defer h.unregister(ownerID, conn)

	// Drain client frames until the connection closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WSHub) handleEvent(ctx context.Context, event eventbus.Event) error {
	payload, ok := event.Data().(usecase.ChangePayload)
	if !ok {
		return nil
	}
	h.broadcast(payload)
	return nil
}

func (h *WSHub) broadcast(payload usecase.ChangePayload) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns[payload.OwnerID]))
	for conn := range h.conns[payload.OwnerID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(payload); err != nil {
			h.log.Debugf("Dropping websocket client for owner %s: %v", payload.OwnerID, err)
			h.unregister(payload.OwnerID, conn)
			conn.Close()
		}
	}
}

func (h *WSHub) register(ownerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[ownerID] == nil {
		h.conns[ownerID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[ownerID][conn] = struct{}{}
}

func (h *WSHub) unregister(ownerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[ownerID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, ownerID)
		}
	}
}
