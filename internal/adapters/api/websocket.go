package api

import (
	"encoding/json"
	"sync"

	"ipwatch/internal/domain/monitor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketManager manages WebSocket subscribers for snapshot updates
type WebSocketManager struct {
	connections map[string]map[string]*websocket.Conn // networkID -> connID -> conn
	mu          sync.RWMutex
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[string]map[string]*websocket.Conn),
	}
}

// Register adds a connection to the manager
func (m *WebSocketManager) Register(networkID, connID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.connections[networkID]; !exists {
		m.connections[networkID] = make(map[string]*websocket.Conn)
	}
	m.connections[networkID][connID] = conn
	log.Info().Str("network_id", networkID).Str("conn_id", connID).Msg("WebSocket subscriber registered")
}

// Unregister removes a connection from the manager
func (m *WebSocketManager) Unregister(networkID, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if conns, exists := m.connections[networkID]; exists {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(m.connections, networkID)
		}
	}
	log.Info().Str("network_id", networkID).Str("conn_id", connID).Msg("WebSocket subscriber unregistered")
}

// Broadcast sends a snapshot to every subscriber of its network. Dead
// connections are dropped on write failure.
func (m *WebSocketManager) Broadcast(snap *monitor.UtilizationSnapshot) {
	if snap == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode snapshot for broadcast")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for connID, conn := range m.connections[snap.NetworkID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warn().Err(err).Str("conn_id", connID).Msg("dropping dead WebSocket subscriber")
			conn.Close()
			delete(m.connections[snap.NetworkID], connID)
		}
	}
}

// HandleWebSocket subscribes the caller to snapshot updates for a network.
// The latest known snapshot is sent immediately when one exists.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	networkID := c.Param("networkId")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}
	connID := uuid.New().String()

	// The initial snapshot must go out before the connection is registered:
	// once registered, Broadcast may write to it from the runner goroutine,
	// and the connection allows only one writer at a time.
	if snap := h.store.Latest(networkID); snap != nil {
		if payload, err := json.Marshal(snap); err == nil {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Error().Err(err).Msg("Failed to send initial snapshot")
				conn.Close()
				return
			}
		}
	}

	h.wsManager.Register(networkID, connID, conn)
	defer func() {
		h.wsManager.Unregister(networkID, connID)
		conn.Close()
	}()

	// Keep connection alive and listen for close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
