package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/gomoku/backend/internal/domain"
)

// ConnectionManager handles active WebSocket connections thread-safely
type ConnectionManager struct {
	connections map[string]*websocket.Conn
	names       map[string]string

	// conn.WriteJSON is not safe for concurrent use, one writer per socket
	writeMu map[string]*sync.Mutex

	mu sync.RWMutex // Protects the maps themselves
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		names:       make(map[string]string),
		writeMu:     make(map[string]*sync.Mutex),
	}
}

// AddConnection registers a connection; an older socket for the same
// player is closed.
func (cm *ConnectionManager) AddConnection(playerID string, conn *websocket.Conn, name string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[playerID]; exists {
		oldConn.Close()
	}

	cm.connections[playerID] = conn
	cm.names[playerID] = name
	cm.writeMu[playerID] = &sync.Mutex{}
}

func (cm *ConnectionManager) RemoveConnection(playerID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if conn, exists := cm.connections[playerID]; exists {
		conn.Close()
		delete(cm.connections, playerID)
		delete(cm.names, playerID)
		delete(cm.writeMu, playerID)
	}
}

// RemoveConnectionIfMatching only removes conn if it is still the
// player's current socket.
func (cm *ConnectionManager) RemoveConnectionIfMatching(playerID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if currentConn, exists := cm.connections[playerID]; exists && currentConn == conn {
		currentConn.Close()
		delete(cm.connections, playerID)
		delete(cm.names, playerID)
		delete(cm.writeMu, playerID)
	}
}

func (cm *ConnectionManager) IsConnected(playerID string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, exists := cm.connections[playerID]
	return exists
}

// SendMessage sends a JSON message to a player. Players without a socket
// (HTTP-only clients) are skipped silently.
func (cm *ConnectionManager) SendMessage(playerID string, message domain.ServerMessage) error {
	cm.mu.RLock()
	conn, exists := cm.connections[playerID]
	mu, muExists := cm.writeMu[playerID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(message)
}

func (cm *ConnectionManager) GetName(playerID string) (string, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	name, exists := cm.names[playerID]
	return name, exists
}
