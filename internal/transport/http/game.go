package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/iamasit07/gomoku/backend/internal/service/game"
	"github.com/iamasit07/gomoku/backend/internal/transport/http/middleware"
	"github.com/iamasit07/gomoku/backend/pkg/uid"
)

// GameHandler exposes sessions over plain HTTP. Updates are also pushed to
// the player's socket when one is open.
type GameHandler struct {
	SessionManager *game.SessionManager
	Service        *game.Service
	Conn           game.ConnectionManagerInterface
	Defaults       game.Defaults
}

func NewGameHandler(sm *game.SessionManager, svc *game.Service, conn game.ConnectionManagerInterface, defaults game.Defaults) *GameHandler {
	return &GameHandler{SessionManager: sm, Service: svc, Conn: conn, Defaults: defaults}
}

type analyzeRequest struct {
	Size       int    `json:"size" binding:"required"`
	Cells      []int  `json:"cells" binding:"required"`
	AIPlayer   int    `json:"aiPlayer"`
	Difficulty string `json:"difficulty"`
	Scores     bool   `json:"scores"`
}

// Analyze answers "which cell would the AI take" for an arbitrary board.
func (h *GameHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	aiPlayer := domain.PlayerID(req.AIPlayer)
	if aiPlayer == domain.Empty {
		aiPlayer = domain.AI
	}

	analysis, err := h.Service.Analyze(req.Size, req.Cells, aiPlayer, req.Difficulty, req.Scores)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

type newGameRequest struct {
	BoardSize  int    `json:"boardSize"`
	AIFirst    string `json:"aiFirst"`
	Difficulty string `json:"difficulty"`
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	playerID, playerName, _ := middleware.PlayerFromContext(c)

	var req newGameRequest
	// all fields are optional
	_ = c.ShouldBindJSON(&req)

	opts := h.Defaults.Options(req.BoardSize, req.AIFirst, req.Difficulty)
	session, err := h.SessionManager.CreateSession(playerID, playerName, opts, h.Conn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session.State())
}

// session loads the game named in the path and checks it belongs to the
// caller. On failure the response is already written.
func (h *GameHandler) session(c *gin.Context) (*game.GameSession, string, bool) {
	playerID, _, _ := middleware.PlayerFromContext(c)

	if !uid.IsValid(c.Param("id")) {
		writeError(c, domain.ErrGameNotFound)
		return nil, "", false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	session, err := h.SessionManager.Restore(ctx, c.Param("id"))
	if err != nil {
		writeError(c, domain.ErrGameNotFound)
		return nil, "", false
	}
	if session.PlayerID != playerID {
		writeError(c, domain.ErrNotAPlayer)
		return nil, "", false
	}
	return session, playerID, true
}

func (h *GameHandler) GetGame(c *gin.Context) {
	session, _, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.State())
}

type moveRequest struct {
	Index *int `json:"index" binding:"required"`
}

// MakeMove plays the human's move and, unlike the socket flow, waits for
// the bot's reply so the response carries the new position.
func (h *GameHandler) MakeMove(c *gin.Context) {
	session, playerID, ok := h.session(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index is required"})
		return
	}

	if err := session.HandleMove(playerID, *req.Index, h.Conn); err != nil {
		writeError(c, err)
		return
	}
	// the delayed reply becomes a no-op once this one lands
	if err := session.HandleBotMove(h.Conn); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (h *GameHandler) Undo(c *gin.Context) {
	session, playerID, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.HandleUndo(playerID, h.Conn); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (h *GameHandler) Hint(c *gin.Context) {
	session, playerID, ok := h.session(c)
	if !ok {
		return
	}
	d, err := session.Hint(playerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game.HintMessage(session.GameID, d))
}

func (h *GameHandler) Abandon(c *gin.Context) {
	session, playerID, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Abandon(playerID, h.Conn); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}
