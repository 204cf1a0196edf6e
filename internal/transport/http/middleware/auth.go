package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/backend/pkg/auth"
	"github.com/iamasit07/gomoku/backend/pkg/httputil"
)

const (
	PlayerIDKey   = "player_id"
	PlayerNameKey = "player_name"
)

// AuthMiddleware validates the guest token from the cookie or the
// Authorization header and stores the player on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			httputil.ClearAuthCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(PlayerIDKey, claims.PlayerID)
		c.Set(PlayerNameKey, claims.PlayerName)
		c.Next()
	}
}

// PlayerFromContext returns the player stored by AuthMiddleware.
func PlayerFromContext(c *gin.Context) (playerID, playerName string, ok bool) {
	playerID = c.GetString(PlayerIDKey)
	playerName = c.GetString(PlayerNameKey)
	return playerID, playerName, playerID != ""
}
