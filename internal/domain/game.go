package domain

import (
	"fmt"
	"math/rand"
	"strings"
)

type Game struct {
	Board         *Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	AIFirst       bool
}

// NewGame creates a game where the human is always the next to move. When
// the AI moves first its opening stone is already on the centre cell.
func NewGame(size int, aiFirst bool) (*Game, error) {
	board, err := NewBoard(size)
	if err != nil {
		return nil, err
	}

	g := &Game{
		Board:         board,
		CurrentPlayer: Human,
		Status:        StatusActive,
		Winner:        Empty,
		AIFirst:       aiFirst,
	}

	if aiFirst {
		if err := board.Place(board.Center(), AI); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// RestoreGame rebuilds an active game from its move log.
func RestoreGame(size int, aiFirst bool, moves []Move) (*Game, error) {
	board, err := ReplayBoard(size, moves)
	if err != nil {
		return nil, err
	}

	next := Human
	if last, ok := board.LastMove(); ok {
		next = last.Player.Opponent()
	} else if aiFirst {
		return nil, fmt.Errorf("%w: ai-first game without opening move", ErrInvalidBoard)
	}

	return &Game{
		Board:         board,
		CurrentPlayer: next,
		Status:        StatusActive,
		Winner:        Empty,
		AIFirst:       aiFirst,
	}, nil
}

func (g *Game) MakeMove(player PlayerID, index int) error {
	if g.Status != StatusActive {
		return ErrGameOver
	}

	if g.CurrentPlayer != player {
		return ErrNotYourTurn
	}

	if err := g.Board.Place(index, player); err != nil {
		return err
	}

	g.CurrentPlayer = player.Opponent()
	return nil
}

// Undo takes back the human's last move and the reply to it.
func (g *Game) Undo() error {
	if g.Status != StatusActive {
		return ErrGameOver
	}

	if g.CurrentPlayer != Human {
		return ErrNotYourTurn
	}

	return g.Board.UndoLastTurn()
}

func (g *Game) Finish(winner PlayerID) {
	g.Winner = winner
	if winner == Empty {
		g.Status = StatusDraw
	} else {
		g.Status = StatusWon
	}
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

// ResolveAIFirst turns "true", "false" or "random" into a decision.
// Anything unrecognised is treated as random.
func ResolveAIFirst(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	default:
		return rand.Intn(2) == 0
	}
}
