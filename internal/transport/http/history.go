package http

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/iamasit07/gomoku/backend/internal/transport/http/middleware"
	"github.com/iamasit07/gomoku/backend/pkg/uid"
)

// HistoryReader is the read side of the finished-game store.
type HistoryReader interface {
	GetPlayerHistory(ctx context.Context, playerID string, limit int) ([]domain.GameRecord, error)
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
}

type HistoryHandler struct {
	GameRepo HistoryReader
}

func NewHistoryHandler(gameRepo HistoryReader) *HistoryHandler {
	return &HistoryHandler{GameRepo: gameRepo}
}

type historyItem struct {
	ID         string    `json:"id"`
	Opponent   string    `json:"opponent"`
	Difficulty string    `json:"difficulty"`
	BoardSize  int       `json:"boardSize"`
	Result     string    `json:"result"` // "win", "loss", "draw"
	EndReason  string    `json:"endReason"`
	MovesCount int       `json:"movesCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func resultFor(rec domain.GameRecord) string {
	switch rec.Winner {
	case "human":
		return "win"
	case "ai":
		return "loss"
	default:
		return "draw"
	}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	playerID, _, _ := middleware.PlayerFromContext(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := h.GameRepo.GetPlayerHistory(c.Request.Context(), playerID, limit)
	if err != nil {
		log.Printf("[HISTORY] Failed to fetch history for %s: %v", playerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	history := make([]historyItem, 0, len(records))
	for _, rec := range records {
		history = append(history, historyItem{
			ID:         rec.GameID,
			Opponent:   domain.GetBotName(rec.Difficulty),
			Difficulty: rec.Difficulty,
			BoardSize:  rec.BoardSize,
			Result:     resultFor(rec),
			EndReason:  rec.Reason,
			MovesCount: rec.TotalMoves,
			CreatedAt:  rec.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, history)
}

// GetGameDetails returns a finished game with its move log and final board.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	playerID, _, _ := middleware.PlayerFromContext(c)

	if !uid.IsValid(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	rec, err := h.GameRepo.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[HISTORY] Failed to fetch game %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	if rec == nil || rec.PlayerID != playerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var board [][]int
	if b, err := domain.ReplayBoard(rec.BoardSize, rec.Moves); err == nil {
		board = b.Rows()
	}

	c.JSON(http.StatusOK, gin.H{
		"game":  rec,
		"board": board,
	})
}
