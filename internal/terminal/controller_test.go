package terminal

import (
	"errors"
	"testing"

	"github.com/iamasit07/gomoku/backend/internal/domain"
)

func newController(t *testing.T, aiFirst string) *Controller {
	t.Helper()
	c, err := NewController(9, aiFirst, "medium")
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return c
}

// position replaces the current game with a replayed one, human to move.
func position(t *testing.T, c *Controller, moves ...domain.Move) {
	t.Helper()
	g, err := domain.RestoreGame(9, false, moves)
	if err != nil {
		t.Fatalf("RestoreGame failed: %v", err)
	}
	c.Game = g
}

func TestNewControllerValidates(t *testing.T) {
	if _, err := NewController(9, "false", "impossible"); err == nil {
		t.Fatalf("unknown difficulty should be rejected")
	}
	if _, err := NewController(3, "false", "medium"); !errors.Is(err, domain.ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard, got %v", err)
	}
}

func TestAIFirstOpensCentre(t *testing.T) {
	c := newController(t, "true")
	if c.Game.Board.ValueAt(40) != domain.AI || c.LastAI != 40 {
		t.Fatalf("ai should open on the centre")
	}
	if row, col := c.Cursor(); row != 4 || col != 4 {
		t.Fatalf("cursor should start on the centre, got %d,%d", row, col)
	}
}

func TestCursorIsClamped(t *testing.T) {
	c := newController(t, "false")
	c.MoveCursor(-20, 20)
	if row, col := c.Cursor(); row != 0 || col != 8 {
		t.Fatalf("cursor not clamped: %d,%d", row, col)
	}
}

func TestPlaceAndUndo(t *testing.T) {
	c := newController(t, "false")

	if err := c.Undo(); !errors.Is(err, domain.ErrNothingToUndo) || c.Message != "No moves to undo" {
		t.Fatalf("expected a notice, got %v %q", err, c.Message)
	}

	if err := c.Place(); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if c.Game.Board.MoveCount() != 2 || c.LastAI < 0 || c.Game.CurrentPlayer != domain.Human {
		t.Fatalf("bot did not reply:\n%s", c.Game.Board)
	}

	if err := c.Place(); !errors.Is(err, domain.ErrIllegalMove) {
		t.Fatalf("placing on an occupied cell should fail, got %v", err)
	}

	if err := c.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if c.Game.Board.MoveCount() != 0 || c.LastAI != -1 {
		t.Fatalf("undo should clear the exchange")
	}
}

func TestHumanCompletesFive(t *testing.T) {
	c := newController(t, "false")
	var winners []domain.PlayerID
	c.OnGameOver(func(w domain.PlayerID) { winners = append(winners, w) })

	position(t, c,
		domain.Move{Index: 0, Player: domain.Human}, domain.Move{Index: 18, Player: domain.AI},
		domain.Move{Index: 1, Player: domain.Human}, domain.Move{Index: 19, Player: domain.AI},
		domain.Move{Index: 2, Player: domain.Human}, domain.Move{Index: 20, Player: domain.AI},
		domain.Move{Index: 3, Player: domain.Human}, domain.Move{Index: 21, Player: domain.AI},
	)
	c.MoveCursor(-10, -10)
	c.MoveCursor(0, 4)

	if err := c.Place(); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if !c.Game.IsFinished() || c.Game.Winner != domain.Human {
		t.Fatalf("human should have won")
	}
	if len(winners) != 1 || winners[0] != domain.Human {
		t.Fatalf("handler not called with the winner: %v", winners)
	}
	if err := c.Place(); !errors.Is(err, domain.ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestBotCompletesFive(t *testing.T) {
	c := newController(t, "false")
	var winners []domain.PlayerID
	c.OnGameOver(func(w domain.PlayerID) { winners = append(winners, w) })

	position(t, c,
		domain.Move{Index: 80, Player: domain.Human}, domain.Move{Index: 18, Player: domain.AI},
		domain.Move{Index: 78, Player: domain.Human}, domain.Move{Index: 19, Player: domain.AI},
		domain.Move{Index: 76, Player: domain.Human}, domain.Move{Index: 20, Player: domain.AI},
		domain.Move{Index: 60, Player: domain.Human}, domain.Move{Index: 21, Player: domain.AI},
	)
	c.MoveCursor(-10, -10)

	if err := c.Place(); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if c.LastAI != 22 || c.Game.Winner != domain.AI {
		t.Fatalf("bot should complete its row at 22, played %d", c.LastAI)
	}
	if len(winners) != 1 || winners[0] != domain.AI {
		t.Fatalf("handler not called with the winner: %v", winners)
	}
}

func TestShowHint(t *testing.T) {
	c := newController(t, "false")
	position(t, c,
		domain.Move{Index: 80, Player: domain.Human}, domain.Move{Index: 18, Player: domain.AI},
		domain.Move{Index: 78, Player: domain.Human}, domain.Move{Index: 19, Player: domain.AI},
		domain.Move{Index: 76, Player: domain.Human}, domain.Move{Index: 20, Player: domain.AI},
		domain.Move{Index: 60, Player: domain.Human}, domain.Move{Index: 21, Player: domain.AI},
	)

	if err := c.ShowHint(); err != nil {
		t.Fatalf("ShowHint failed: %v", err)
	}
	if c.Hint != 22 {
		t.Fatalf("hint should point at the bot's winning cell, got %d", c.Hint)
	}
}
