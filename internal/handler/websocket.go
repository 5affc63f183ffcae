package handler

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/dto"
	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ============================================================================
// WEBSOCKET HUB
// ============================================================================

// Client represents a connected dashboard session
type Client struct {
	Conn   *websocket.Conn
	UserID uuid.UUID
	Send   chan []byte
}

// Hub maintains the set of connected dashboards and pushes review events
type Hub struct {
	// Registered clients by user ID
	clients map[uuid.UUID]*Client

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Broadcast to specific users
	broadcast chan *BroadcastMessage

	// Mutex for thread safety
	mu sync.RWMutex
}

// BroadcastMessage represents an event to send to specific users
type BroadcastMessage struct {
	UserIDs []uuid.UUID
	Event   dto.WSEvent
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// Close existing connection if any
			if existing, ok := h.clients[client.UserID]; ok {
				close(existing.Send)
			}
			h.clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("[WS] User %s connected", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("[WS] User %s disconnected", client.UserID)

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Event)
			if err != nil {
				log.Printf("[WS] Error marshaling event: %v", err)
				continue
			}

			h.mu.RLock()
			for _, userID := range msg.UserIDs {
				if client, ok := h.clients[userID]; ok {
					select {
					case client.Send <- data:
					default:
						// Buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToUsers sends an event to specific users
func (h *Hub) SendToUsers(userIDs []uuid.UUID, event dto.WSEvent) {
	h.broadcast <- &BroadcastMessage{
		UserIDs: userIDs,
		Event:   event,
	}
}

// IsUserOnline checks if a user is currently connected
func (h *Hub) IsUserOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// ============================================================================
// WEBSOCKET HANDLER
// ============================================================================

type WebSocketHandler struct {
	Hub *Hub
}

func NewWebSocketHandler() *WebSocketHandler {
	hub := NewHub()
	go hub.Run()

	return &WebSocketHandler{Hub: hub}
}

// HandleWebSocket handles an upgraded dashboard connection
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	// Set by the upgrade middleware before the connection was accepted
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	client := &Client{
		Conn:   c,
		UserID: userID,
		Send:   make(chan []byte, 256),
	}

	h.Hub.register <- client

	go h.writePump(client)
	h.readPump(client)
}

// readPump pumps messages from the WebSocket connection to the hub
func (h *WebSocketHandler) readPump(client *Client) {
	defer func() {
		h.Hub.unregister <- client
		client.Conn.Close()
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Error reading message: %v", err)
			}
			break
		}

		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}

		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "ping":
			pong := dto.WSEvent{Type: "pong", Payload: nil}
			data, _ := json.Marshal(pong)
			client.Send <- data
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (h *WebSocketHandler) writePump(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				// Channel closed
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			// Send ping to keep connection alive
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastReviewCreated pushes a freshly submitted review to the owner's dashboard
func (h *WebSocketHandler) BroadcastReviewCreated(ownerID uuid.UUID, review dto.ReviewDTO, questionnaireTitle string) {
	event := dto.WSEvent{
		Type: "review.created",
		Payload: dto.WSReviewCreated{
			Review:             review,
			QuestionnaireTitle: questionnaireTitle,
		},
	}
	h.Hub.SendToUsers([]uuid.UUID{ownerID}, event)
}

// ============================================================================
// FIBER UPGRADE HANDLER
// ============================================================================

// WebSocketUpgrade upgrades HTTP connections to WebSocket after verifying
// the access token and the live feed entitlement
func (h *WebSocketHandler) WebSocketUpgrade(authMiddleware *middleware.AuthMiddleware) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
				"UNAUTHORIZED", "Token is required for WebSocket",
			))
		}

		claims, err := authMiddleware.GetJWTService().ValidateAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
				"INVALID_TOKEN", "Token is not valid",
			))
		}

		if claims.Role != string(domain.RoleAdmin) &&
			!domain.PlanHasFeature(domain.PlanTier(claims.Plan), domain.FeatureLiveFeed) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse(
				"PLAN_UPGRADE_REQUIRED", "The live review feed requires the business plan",
			))
		}

		userID, err := uuid.Parse(claims.Sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
				"INVALID_TOKEN", "Token is not valid",
			))
		}
		c.Locals("user_id", userID)

		return c.Next()
	}
}
