package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/gomoku/backend/internal/config"
	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/iamasit07/gomoku/backend/internal/service/game"
	"github.com/iamasit07/gomoku/backend/pkg/auth"
	"github.com/iamasit07/gomoku/backend/pkg/uid"
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Defaults       game.Defaults
	Upgrader       websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, defaults game.Defaults) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Defaults:       defaults,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// checkOrigin accepts same-origin and non-browser clients plus the
// configured origins.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || config.AppConfig == nil {
		return true
	}
	for _, allowed := range config.AppConfig.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	log.Printf("[WS] Rejected origin %s", origin)
	return false
}

// HandleWebSocket upgrades the request and runs the connection loop.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(conn)
}

func (h *Handler) handleConnection(conn *websocket.Conn) {
	// Set read deadline to detect stale connections
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	done := make(chan struct{})
	defer close(done)

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// 1. Wait for initialization (auth)
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Printf("[WS] Read error during init: %v", err)
		conn.Close()
		return
	}

	var message domain.ClientMessage
	if err := json.Unmarshal(data, &message); err != nil {
		log.Printf("[WS] Invalid JSON during init: %v", err)
		conn.Close()
		return
	}

	if message.Type != "init" || message.JWT == "" {
		log.Printf("[WS] Missing initialization or token")
		conn.WriteJSON(domain.ErrorMessage{Type: "error", Message: "Expected init message with token"})
		conn.Close()
		return
	}

	claims, err := auth.ValidateToken(message.JWT)
	if err != nil {
		log.Printf("[WS] Invalid token during init: %v", err)
		conn.WriteJSON(domain.ErrorMessage{Type: "error", Message: "Invalid or expired token"})
		conn.Close()
		return
	}

	playerID := claims.PlayerID
	playerName := claims.PlayerName

	log.Printf("[WS] Connection initialized for player: %s (ID: %s)", playerName, playerID)
	h.ConnManager.AddConnection(playerID, conn, playerName)
	h.ConnManager.SendMessage(playerID, domain.ServerMessage{Type: "ready"})

	// 2. Cleanup on exit. The game itself stays alive for a resume.
	defer func() {
		log.Printf("[WS] Connection closed for player %s", playerName)
		h.ConnManager.RemoveConnectionIfMatching(playerID, conn)
	}()

	// 3. Main message loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Player disconnected unexpectedly: %v", err)
			}
			break
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			h.sendError(playerID, "Invalid message format")
			continue
		}

		h.processMessage(playerID, playerName, msg)
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(playerID, playerName string, msg domain.ClientMessage) {
	switch msg.Type {
	case "new_game":
		opts := h.Defaults.Options(msg.BoardSize, msg.AIFirst, msg.Difficulty)
		if _, err := h.SessionManager.CreateSession(playerID, playerName, opts, h.ConnManager); err != nil {
			h.sendError(playerID, err.Error())
		}

	case "make_move":
		if msg.Index == nil {
			h.sendError(playerID, "index is required")
			return
		}
		session, ok := h.currentSession(playerID)
		if !ok {
			return
		}
		if err := session.HandleMove(playerID, *msg.Index, h.ConnManager); err != nil {
			h.sendError(playerID, err.Error())
		}

	case "undo":
		session, ok := h.currentSession(playerID)
		if !ok {
			return
		}
		if err := session.HandleUndo(playerID, h.ConnManager); err != nil {
			if errors.Is(err, domain.ErrNothingToUndo) {
				h.ConnManager.SendMessage(playerID, domain.ServerMessage{Type: "undo_rejected", Message: err.Error()})
				return
			}
			h.sendError(playerID, err.Error())
		}

	case "hint":
		session, ok := h.currentSession(playerID)
		if !ok {
			return
		}
		d, err := session.Hint(playerID)
		if err != nil {
			h.sendError(playerID, err.Error())
			return
		}
		h.ConnManager.SendMessage(playerID, game.HintMessage(session.GameID, d))

	case "resume":
		if !uid.IsValid(msg.GameID) {
			h.sendError(playerID, domain.ErrGameNotFound.Error())
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		session, err := h.SessionManager.Restore(ctx, msg.GameID)
		cancel()
		if err != nil {
			log.Printf("[WS] Resume of %s failed for %s: %v", msg.GameID, playerID, err)
			h.sendError(playerID, domain.ErrGameNotFound.Error())
			return
		}
		if err := session.Resume(playerID, h.ConnManager); err != nil {
			h.sendError(playerID, err.Error())
		}

	case "abandon_game":
		session, exists := h.SessionManager.GetSessionByPlayerID(playerID)
		if !exists {
			return
		}
		if err := session.Abandon(playerID, h.ConnManager); err != nil {
			h.sendError(playerID, err.Error())
		}

	default:
		h.sendError(playerID, "Unknown message type: "+msg.Type)
	}
}

func (h *Handler) currentSession(playerID string) (*game.GameSession, bool) {
	session, exists := h.SessionManager.GetSessionByPlayerID(playerID)
	if !exists {
		h.sendError(playerID, domain.ErrGameNotFound.Error())
	}
	return session, exists
}

func (h *Handler) sendError(playerID, message string) {
	h.ConnManager.SendMessage(playerID, domain.ServerMessage{Type: "error", Message: message})
}
