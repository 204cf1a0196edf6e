package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/backend/internal/transport/http/middleware"
)

// Handlers groups what RegisterRoutes mounts. History is optional since it
// needs Postgres.
type Handlers struct {
	Auth      *AuthHandler
	Game      *GameHandler
	History   *HistoryHandler
	Watch     *WatchHandler
	WebSocket gin.HandlerFunc
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", Health)

	// Public routes
	router.POST("/api/guest", h.Auth.Guest)
	router.POST("/api/move", h.Game.Analyze)

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/me", h.Auth.Me)
		protected.POST("/auth/logout", h.Auth.Logout)

		protected.POST("/games", h.Game.CreateGame)
		protected.GET("/games/:id", h.Game.GetGame)
		protected.POST("/games/:id/moves", h.Game.MakeMove)
		protected.POST("/games/:id/undo", h.Game.Undo)
		protected.GET("/games/:id/hint", h.Game.Hint)
		protected.POST("/games/:id/abandon", h.Game.Abandon)

		if h.History != nil {
			protected.GET("/history", h.History.GetHistory)
			protected.GET("/history/:id", h.History.GetGameDetails)
		}

		protected.GET("/watch", h.Watch.GetLiveGames)
	}

	// auth handled inside the WS handler itself
	if h.WebSocket != nil {
		router.GET("/ws", h.WebSocket)
	}
}
