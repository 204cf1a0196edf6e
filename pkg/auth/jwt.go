package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/iamasit07/gomoku/backend/internal/config"
)

// Claims identifies a guest player.
type Claims struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	jwt.RegisteredClaims
}

// GenerateGuestToken signs a token for a guest player.
func GenerateGuestToken(playerID, playerName string) (string, error) {
	secret := config.AppConfig.JWTSecret
	ttl := config.AppConfig.GuestTokenTTL

	claims := &Claims{
		PlayerID:   playerID,
		PlayerName: playerName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken checks the signature and expiry and returns the claims.
func ValidateToken(tokenString string) (*Claims, error) {
	secret := config.AppConfig.JWTSecret

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.PlayerID != "" {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
