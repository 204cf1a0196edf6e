package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/backend/internal/config"
	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/iamasit07/gomoku/backend/internal/repository/postgres"
	"github.com/iamasit07/gomoku/backend/internal/repository/redis"
	"github.com/iamasit07/gomoku/backend/internal/service/cleanup"
	"github.com/iamasit07/gomoku/backend/internal/service/game"
	transportHttp "github.com/iamasit07/gomoku/backend/internal/transport/http"
	"github.com/iamasit07/gomoku/backend/internal/transport/http/middleware"
	"github.com/iamasit07/gomoku/backend/internal/transport/websocket"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	boardSize, aiFirst, err := cfg.GameDefaults()
	if err != nil {
		log.Fatalf("Invalid game configuration: %v", err)
	}
	log.Printf("Game defaults: %dx%d board, ai first: %t (AI_FIRST=%s), difficulty: %s",
		boardSize, boardSize, aiFirst, cfg.AIFirst, cfg.BotDifficulty)

	// 1. Postgres keeps finished games; without it history is disabled
	var gameRepo *postgres.GameRepo
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")

		gameRepo = postgres.NewGameRepo(db)
	} else {
		log.Println("DATABASE_URL not set, finished games will not be stored")
	}

	// 2. Redis keeps live games across restarts
	if err := redis.InitRedis(cfg.RedisURL, cfg.RedisPassword); err != nil {
		log.Printf("Failed to initialize Redis: %v", err)
	}
	defer redis.CloseRedis()

	var cache game.SnapshotCache
	if redis.IsRedisEnabled() && redis.RedisClient != nil {
		cache = redis.NewRedisCache(redis.RedisClient)
	}

	// 3. Services
	var repo game.GameRepository
	var cleaner cleanup.GameCleaner
	if gameRepo != nil {
		repo = gameRepo
		cleaner = gameRepo
	}

	sessionManager := game.NewSessionManager(repo, cache)
	sessionManager.BotDelay = cfg.BotMoveDelay
	sessionManager.SnapshotTTL = cfg.SnapshotTTL
	sessionManager.OnGameOver(func(rec domain.GameRecord) {
		log.Printf("[GAME] %s finished against %s: winner=%s after %d moves",
			rec.PlayerName, domain.GetBotName(rec.Difficulty), rec.Winner, rec.TotalMoves)
	})

	gameService := game.NewService(cfg.BotDifficulty)
	connManager := websocket.NewConnectionManager()
	defaults := game.Defaults{BoardSize: cfg.BoardSize, AIFirst: cfg.AIFirst, Difficulty: cfg.BotDifficulty}

	// 4. Background workers
	cleanupWorker := cleanup.NewWorker(sessionManager, cleaner, cfg.HistoryRetentionDays)
	cleanupWorker.Start()
	defer cleanupWorker.Stop()

	// 5. Handlers
	handlers := transportHttp.Handlers{
		Auth:      transportHttp.NewAuthHandler(),
		Game:      transportHttp.NewGameHandler(sessionManager, gameService, connManager, defaults),
		Watch:     transportHttp.NewWatchHandler(sessionManager),
		WebSocket: websocket.NewHandler(connManager, sessionManager, defaults).HandleWebSocket,
	}
	if gameRepo != nil {
		handlers.History = transportHttp.NewHistoryHandler(gameRepo)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware())
	transportHttp.RegisterRoutes(router, handlers)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
