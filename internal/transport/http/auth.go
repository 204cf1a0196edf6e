package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/backend/internal/transport/http/middleware"
	"github.com/iamasit07/gomoku/backend/pkg/auth"
	"github.com/iamasit07/gomoku/backend/pkg/httputil"
	"github.com/iamasit07/gomoku/backend/pkg/uid"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type guestResponse struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Token      string `json:"token"`
}

// Guest issues a token for a new anonymous player. The body may carry a
// display name.
func (h *AuthHandler) Guest(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	// an empty body is fine
	_ = c.ShouldBindJSON(&req)

	playerID := uid.GeneratePlayerID()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Guest-" + playerID[:6]
	}
	if len(name) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must be at most 50 characters"})
		return
	}

	token, err := auth.GenerateGuestToken(playerID, name)
	if err != nil {
		log.Printf("[AUTH] Failed to sign guest token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest"})
		return
	}

	httputil.SetAuthCookie(c.Writer, token)
	log.Printf("[AUTH] New guest %s (ID: %s)", name, playerID)
	c.JSON(http.StatusCreated, guestResponse{PlayerID: playerID, PlayerName: name, Token: token})
}

// Me returns the player behind the current token.
func (h *AuthHandler) Me(c *gin.Context) {
	playerID, playerName, _ := middleware.PlayerFromContext(c)
	c.JSON(http.StatusOK, gin.H{"playerId": playerID, "playerName": playerName})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	httputil.ClearAuthCookie(c.Writer)
	c.Status(http.StatusNoContent)
}
