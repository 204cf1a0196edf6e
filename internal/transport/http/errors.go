package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/backend/internal/domain"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotAPlayer):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrIllegalMove), errors.Is(err, domain.ErrInvalidBoard):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNothingToUndo), errors.Is(err, domain.ErrGameOver), errors.Is(err, domain.ErrNotYourTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
