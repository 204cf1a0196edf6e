package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/gomoku/backend/internal/domain"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	FrontendURL          string
	JWTSecret            string
	GuestTokenTTL        time.Duration
	BoardSize            int
	AIFirst              string // "true", "false" or "random"
	BotDifficulty        string
	BotMoveDelay         time.Duration
	SnapshotTTL          time.Duration
	HistoryRetentionDays int
	Environment          string
	SecureCookies        bool
}

var AppConfig *Config

func LoadConfig() *Config {
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	environment := GetEnv("ENVIRONMENT", "development")

	// frontend URL, local dev and the CSV extras
	allowedOrigins := []string{
		frontendURL,
		"http://localhost:5173",
	}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	AppConfig = &Config{
		Port:                 GetEnv("PORT", "8080"),
		AllowedOrigins:       allowedOrigins,
		DatabaseURL:          GetEnv("DATABASE_URL", ""),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		FrontendURL:          frontendURL,
		JWTSecret:            GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		GuestTokenTTL:        time.Duration(GetEnvAsInt("GUEST_TOKEN_TTL_HOURS", 72)) * time.Hour,
		BoardSize:            GetEnvAsInt("BOARD_SIZE", domain.DefaultBoardSize),
		AIFirst:              strings.ToLower(GetEnv("AI_FIRST", "random")),
		BotDifficulty:        GetEnv("BOT_DIFFICULTY", "medium"),
		BotMoveDelay:         time.Duration(GetEnvAsInt("BOT_MOVE_DELAY_MS", 500)) * time.Millisecond,
		SnapshotTTL:          time.Duration(GetEnvAsInt("SNAPSHOT_TTL_MINUTES", 1440)) * time.Minute,
		HistoryRetentionDays: GetEnvAsInt("HISTORY_RETENTION_DAYS", 30),
		Environment:          environment,
		SecureCookies:        GetEnvAsBool("SECURE_COOKIES", environment == "production"),
	}

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GameDefaults validates the configured board size and resolves AI_FIRST.
func (c *Config) GameDefaults() (size int, aiFirst bool, err error) {
	if err := domain.ValidateSize(c.BoardSize); err != nil {
		return 0, false, fmt.Errorf("BOARD_SIZE: %w", err)
	}
	return c.BoardSize, domain.ResolveAIFirst(c.AIFirst), nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
