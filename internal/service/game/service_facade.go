package game

import (
	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/iamasit07/gomoku/backend/internal/service/bot"
)

// Service is the stateless entry point: it evaluates boards that are not
// tied to a session.
type Service struct {
	DefaultDifficulty string
}

func NewService(defaultDifficulty string) *Service {
	return &Service{DefaultDifficulty: defaultDifficulty}
}

// Analysis is the answer to "what would the AI play here".
type Analysis struct {
	Decision bot.Decision    `json:"decision"`
	Scores   []bot.CellScore `json:"scores,omitempty"`
}

// Analyze evaluates a flat board for aiPlayer. With withScores set the
// per-cell heatmap is included.
func (s *Service) Analyze(size int, cells []int, aiPlayer domain.PlayerID, difficulty string, withScores bool) (*Analysis, error) {
	board, err := domain.BoardFromCells(size, cells)
	if err != nil {
		return nil, err
	}

	if difficulty == "" {
		difficulty = s.DefaultDifficulty
	}

	d, err := bot.CalculateBestMove(board, aiPlayer, difficulty)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{Decision: d}
	if withScores {
		agg := bot.AggregateMax
		if difficulty == "hard" {
			agg = bot.AggregateSum
		}
		analysis.Scores = bot.ScoreBoard(board, aiPlayer, agg)
	}
	return analysis, nil
}
