package bot

import (
	"fmt"
	"log"

	"github.com/iamasit07/gomoku/backend/internal/domain"
)

// Engine picks the AI's reply for a position.
type Engine interface {
	Evaluate(board *domain.Board, aiPlayer domain.PlayerID) (Decision, error)
}

// Decision is the outcome of one evaluation. When Terminal is set the game
// is over and Winner holds the side that made five.
type Decision struct {
	ChosenIndex int             `json:"chosenIndex"`
	HasMove     bool            `json:"hasMove"`
	AIThreat    int             `json:"aiThreat"`
	HumanThreat int             `json:"humanThreat"`
	Terminal    bool            `json:"terminal"`
	Winner      domain.PlayerID `json:"winner"`
}

// Evaluator is the single-ply line scanner.
type Evaluator struct {
	Aggregation Aggregation
}

func (e Evaluator) Evaluate(board *domain.Board, aiPlayer domain.PlayerID) (Decision, error) {
	if board == nil || board.Size() < domain.MinBoardSize {
		return Decision{}, fmt.Errorf("%w: board smaller than %d", domain.ErrInvalidBoard, domain.MinBoardSize)
	}
	if !aiPlayer.IsPlayer() {
		return Decision{}, fmt.Errorf("%w: unknown ai player %d", domain.ErrInvalidBoard, aiPlayer)
	}

	best, found := selectCell(board, aiPlayer, e.Aggregation)
	if !found {
		return Decision{}, fmt.Errorf("%w: no empty cell left", domain.ErrInvalidBoard)
	}

	d := Decision{
		ChosenIndex: best.Index,
		AIThreat:    best.AIScore,
		HumanThreat: best.HumanScore,
	}

	switch {
	case best.Completed != domain.Empty:
		d.Terminal = true
		d.Winner = best.Completed
	case best.AIFive:
		d.HasMove = true
		d.Terminal = true
		d.Winner = aiPlayer
	default:
		d.HasMove = true
	}
	return d, nil
}

// selectCell keeps the first eligible cell with the highest combined score,
// preferring the higher AI score on ties.
func selectCell(board *domain.Board, aiPlayer domain.PlayerID, agg Aggregation) (CellScore, bool) {
	var best CellScore
	found := false
	for i := 0; i < board.Len(); i++ {
		cs := ScoreCell(board, i, aiPlayer, agg)
		if !cs.Eligible() {
			continue
		}
		if !found || cs.Combined() > best.Combined() ||
			(cs.Combined() == best.Combined() && cs.AIScore > best.AIScore) {
			best = cs
			found = true
		}
	}
	return best, found
}

// ForDifficulty maps a difficulty name onto an engine; unknown names get
// the medium engine.
func ForDifficulty(difficulty string) Engine {
	switch difficulty {
	case "easy":
		return NewEasy(nil)
	case "hard":
		return Evaluator{Aggregation: AggregateSum}
	default:
		return Evaluator{Aggregation: AggregateMax}
	}
}

// CalculateBestMove selects the reply for botPlayer based on difficulty.
func CalculateBestMove(board *domain.Board, botPlayer domain.PlayerID, difficulty string) (Decision, error) {
	d, err := ForDifficulty(difficulty).Evaluate(board, botPlayer)
	if err != nil {
		log.Printf("[BOT] %s engine failed: %v", difficulty, err)
		return Decision{}, err
	}
	return d, nil
}

// Difficulties lists the accepted difficulty names.
var Difficulties = []string{"easy", "medium", "hard"}

func IsValidDifficulty(difficulty string) bool {
	for _, d := range Difficulties {
		if d == difficulty {
			return true
		}
	}
	return false
}
