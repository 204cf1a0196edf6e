// Package terminal runs a game against the bot in a local terminal.
package terminal

import (
	"errors"
	"fmt"

	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/iamasit07/gomoku/backend/internal/service/bot"
)

// Controller holds the game and cursor state behind the screen. It has no
// terminal dependency.
type Controller struct {
	Game       *domain.Game
	Engine     bot.Engine
	Difficulty string
	Message    string
	LastAI     int
	Hint       int
	Threats    bot.Decision

	size       int
	aiFirst    string
	row, col   int
	onGameOver []func(winner domain.PlayerID)
}

// NewController starts the first game. aiFirst is "true", "false" or
// "random" and is resolved again for every new game.
func NewController(size int, aiFirst, difficulty string) (*Controller, error) {
	if !bot.IsValidDifficulty(difficulty) {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	c := &Controller{
		Engine:     bot.ForDifficulty(difficulty),
		Difficulty: difficulty,
		size:       size,
		aiFirst:    aiFirst,
	}
	if err := c.NewGame(); err != nil {
		return nil, err
	}
	return c, nil
}

// OnGameOver registers a handler called with the winner (Empty on a draw).
func (c *Controller) OnGameOver(fn func(winner domain.PlayerID)) {
	c.onGameOver = append(c.onGameOver, fn)
}

func (c *Controller) NewGame() error {
	aiFirst := domain.ResolveAIFirst(c.aiFirst)
	g, err := domain.NewGame(c.size, aiFirst)
	if err != nil {
		return err
	}

	c.Game = g
	c.row, c.col = g.Board.RowCol(g.Board.Center())
	c.LastAI = -1
	c.Hint = -1
	c.Threats = bot.Decision{}
	if aiFirst {
		c.LastAI = g.Board.Center()
		c.Message = domain.GetBotName(c.Difficulty) + " opened in the centre"
	} else {
		c.Message = "Your move"
	}
	return nil
}

func (c *Controller) Cursor() (row, col int) {
	return c.row, c.col
}

// MoveCursor shifts the cursor, clamped to the board.
func (c *Controller) MoveCursor(dRow, dCol int) {
	size := c.Game.Board.Size()
	c.row = clamp(c.row+dRow, 0, size-1)
	c.col = clamp(c.col+dCol, 0, size-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Place puts the human's stone under the cursor and lets the bot reply.
func (c *Controller) Place() error {
	index := c.Game.Board.Index(c.row, c.col)
	if err := c.Game.MakeMove(domain.Human, index); err != nil {
		c.Message = err.Error()
		return err
	}
	c.Hint = -1

	if c.finishIfOver(domain.Human) {
		return nil
	}
	return c.botMove()
}

func (c *Controller) botMove() error {
	d, err := c.Engine.Evaluate(c.Game.Board, domain.AI)
	if err != nil {
		c.Message = err.Error()
		return err
	}
	c.Threats = d

	if !d.HasMove {
		if d.Terminal {
			c.finish(d.Winner)
		}
		return nil
	}

	if err := c.Game.MakeMove(domain.AI, d.ChosenIndex); err != nil {
		c.Message = err.Error()
		return err
	}
	c.LastAI = d.ChosenIndex
	row, col := c.Game.Board.RowCol(d.ChosenIndex)
	c.Message = fmt.Sprintf("%s played %d,%d", domain.GetBotName(c.Difficulty), row+1, col+1)

	c.finishIfOver(domain.AI)
	return nil
}

func (c *Controller) finishIfOver(last domain.PlayerID) bool {
	switch {
	case c.Game.Board.HasFive(last):
		c.finish(last)
	case c.Game.Board.IsFull():
		c.finish(domain.Empty)
	default:
		return false
	}
	return true
}

func (c *Controller) finish(winner domain.PlayerID) {
	c.Game.Finish(winner)
	switch winner {
	case domain.Human:
		c.Message = "Five in a row, you win! <n> new game"
	case domain.AI:
		c.Message = domain.GetBotName(c.Difficulty) + " wins. <n> new game"
	default:
		c.Message = "Draw. <n> new game"
	}
	for _, fn := range c.onGameOver {
		fn(winner)
	}
}

// Undo takes back the last exchange. Running out of moves is only a notice.
func (c *Controller) Undo() error {
	err := c.Game.Undo()
	switch {
	case errors.Is(err, domain.ErrNothingToUndo):
		c.Message = "No moves to undo"
	case err != nil:
		c.Message = err.Error()
	default:
		c.Hint = -1
		c.LastAI = -1
		if last, ok := c.Game.Board.LastMove(); ok && last.Player == domain.AI {
			c.LastAI = last.Index
		}
		c.Message = "Move undone"
	}
	return err
}

// ShowHint marks the cell the evaluator would pick for the human.
func (c *Controller) ShowHint() error {
	if c.Game.IsFinished() {
		return domain.ErrGameOver
	}
	d, err := bot.Evaluator{Aggregation: bot.AggregateMax}.Evaluate(c.Game.Board, domain.Human)
	if err != nil {
		c.Message = err.Error()
		return err
	}
	if d.HasMove {
		c.Hint = d.ChosenIndex
		row, col := c.Game.Board.RowCol(d.ChosenIndex)
		c.Message = fmt.Sprintf("Hint: %d,%d", row+1, col+1)
	}
	return nil
}
