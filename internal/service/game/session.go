package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/iamasit07/gomoku/backend/internal/service/bot"
)

type GameSession struct {
	GameID         string
	PlayerID       string
	PlayerName     string
	BotName        string
	Difficulty     string
	Engine         bot.Engine
	Game           *domain.Game
	Reason         string
	CreatedAt      time.Time
	FinishedAt     time.Time
	mu             sync.Mutex
	sessionManager *SessionManager
}

func newGameSession(gameID, playerID, playerName, difficulty string, g *domain.Game, createdAt time.Time, sm *SessionManager) *GameSession {
	return &GameSession{
		GameID:         gameID,
		PlayerID:       playerID,
		PlayerName:     playerName,
		BotName:        domain.GetBotName(difficulty),
		Difficulty:     difficulty,
		Engine:         bot.ForDifficulty(difficulty),
		Game:           g,
		CreatedAt:      createdAt,
		sessionManager: sm,
	}
}

func (gs *GameSession) checkPlayer(playerID string) error {
	if playerID != gs.PlayerID {
		return domain.ErrNotAPlayer
	}
	return nil
}

// stateMessageLocked renders the full game state; caller holds gs.mu.
func (gs *GameSession) stateMessageLocked(msgType string) domain.ServerMessage {
	msg := domain.ServerMessage{
		Type:       msgType,
		GameID:     gs.GameID,
		Opponent:   gs.BotName,
		BoardSize:  gs.Game.Board.Size(),
		Board:      gs.Game.Board.Rows(),
		Moves:      gs.Game.Board.Moves(),
		NextTurn:   int(gs.Game.CurrentPlayer),
		Difficulty: gs.Difficulty,
		Status:     string(gs.Game.Status),
	}
	if gs.Game.IsFinished() {
		msg.NextTurn = 0
		msg.Winner = domain.WinnerLabel(gs.Game.Winner)
		msg.Reason = gs.Reason
	}
	return msg
}

// State returns the current game state as a wire message.
func (gs *GameSession) State() domain.ServerMessage {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.stateMessageLocked("game_state")
}

func (gs *GameSession) moveMessageLocked(index int, player domain.PlayerID) domain.ServerMessage {
	i := index
	return domain.ServerMessage{
		Type:     "move_made",
		GameID:   gs.GameID,
		Index:    &i,
		Player:   int(player),
		Board:    gs.Game.Board.Rows(),
		NextTurn: int(gs.Game.CurrentPlayer),
	}
}

// HandleMove applies the human's move and schedules the bot's reply.
func (gs *GameSession) HandleMove(playerID string, index int, conn ConnectionManagerInterface) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.checkPlayer(playerID); err != nil {
		return err
	}

	if err := gs.Game.MakeMove(domain.Human, index); err != nil {
		return err
	}

	conn.SendMessage(gs.PlayerID, gs.moveMessageLocked(index, domain.Human))

	if gs.Game.Board.HasFive(domain.Human) {
		gs.finishLocked(domain.Human, domain.ReasonFiveInARow, conn)
		return nil
	}
	if gs.Game.Board.IsFull() {
		gs.finishLocked(domain.Empty, domain.ReasonDraw, conn)
		return nil
	}

	gs.saveSnapshotLocked()
	gs.scheduleBotMoveLocked(conn)
	return nil
}

// scheduleBotMoveLocked plays the reply inline when there is no delay,
// otherwise from a goroutine.
func (gs *GameSession) scheduleBotMoveLocked(conn ConnectionManagerInterface) {
	if gs.Game.CurrentPlayer != domain.AI {
		return
	}

	delay := gs.sessionManager.BotDelay
	if delay <= 0 {
		if err := gs.botMoveLocked(conn); err != nil {
			log.Printf("[BOT] Error handling bot move: %v", err)
		}
		return
	}

	go func() {
		// Small delay to feel natural
		time.Sleep(delay)
		if err := gs.HandleBotMove(conn); err != nil {
			log.Printf("[BOT] Error handling bot move: %v", err)
		}
	}()
}

func (gs *GameSession) HandleBotMove(conn ConnectionManagerInterface) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	// the game may have been abandoned or restored meanwhile
	if gs.Game.CurrentPlayer != domain.AI || gs.Game.IsFinished() {
		return nil
	}
	return gs.botMoveLocked(conn)
}

func (gs *GameSession) botMoveLocked(conn ConnectionManagerInterface) error {
	d, err := gs.Engine.Evaluate(gs.Game.Board, domain.AI)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBoard) && gs.Game.Board.IsFull() {
			gs.finishLocked(domain.Empty, domain.ReasonDraw, conn)
			return nil
		}
		return err
	}

	if !d.HasMove {
		if d.Terminal {
			gs.finishLocked(d.Winner, domain.ReasonFiveInARow, conn)
		}
		return nil
	}

	if err := gs.Game.MakeMove(domain.AI, d.ChosenIndex); err != nil {
		return err
	}

	msg := gs.moveMessageLocked(d.ChosenIndex, domain.AI)
	msg.AIScore = d.AIThreat
	msg.HumanScore = d.HumanThreat
	conn.SendMessage(gs.PlayerID, msg)

	switch {
	case gs.Game.Board.HasFive(domain.AI):
		gs.finishLocked(domain.AI, domain.ReasonFiveInARow, conn)
	case gs.Game.Board.IsFull():
		gs.finishLocked(domain.Empty, domain.ReasonDraw, conn)
	default:
		gs.saveSnapshotLocked()
	}
	return nil
}

// HandleUndo takes back the player's last move and the bot's reply.
func (gs *GameSession) HandleUndo(playerID string, conn ConnectionManagerInterface) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.checkPlayer(playerID); err != nil {
		return err
	}

	if err := gs.Game.Undo(); err != nil {
		return err
	}

	log.Printf("[GAME] Undo in game %s, %d moves left", gs.GameID, gs.Game.Board.MoveCount())
	gs.saveSnapshotLocked()
	conn.SendMessage(gs.PlayerID, gs.stateMessageLocked("undo_applied"))
	return nil
}

// Hint evaluates the position from the human's side.
func (gs *GameSession) Hint(playerID string) (bot.Decision, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.checkPlayer(playerID); err != nil {
		return bot.Decision{}, err
	}
	if gs.Game.IsFinished() {
		return bot.Decision{}, domain.ErrGameOver
	}
	return bot.Evaluator{Aggregation: bot.AggregateMax}.Evaluate(gs.Game.Board, domain.Human)
}

// Abandon ends the game as a loss for the player.
func (gs *GameSession) Abandon(playerID string, conn ConnectionManagerInterface) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.checkPlayer(playerID); err != nil {
		return err
	}
	if gs.Game.IsFinished() {
		return domain.ErrGameOver
	}

	log.Printf("[GAME] Game %s abandoned by %s (ID: %s)", gs.GameID, gs.PlayerName, playerID)
	gs.finishLocked(domain.AI, domain.ReasonAbandoned, conn)
	return nil
}

// Resume re-sends the state after a reconnect and plays a pending bot
// reply, if the previous process died before making it.
func (gs *GameSession) Resume(playerID string, conn ConnectionManagerInterface) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.checkPlayer(playerID); err != nil {
		return err
	}

	conn.SendMessage(gs.PlayerID, gs.stateMessageLocked("game_start"))
	if !gs.Game.IsFinished() {
		gs.scheduleBotMoveLocked(conn)
	}
	return nil
}

// finishLocked ends the game, notifies the player and persists the record.
func (gs *GameSession) finishLocked(winner domain.PlayerID, reason string, conn ConnectionManagerInterface) {
	gs.Game.Finish(winner)
	gs.Reason = reason
	gs.FinishedAt = time.Now()

	log.Printf("[GAME] Game %s over: winner=%s reason=%s moves=%d",
		gs.GameID, domain.WinnerLabel(winner), reason, gs.Game.Board.MoveCount())

	conn.SendMessage(gs.PlayerID, domain.ServerMessage{
		Type:   "game_over",
		GameID: gs.GameID,
		Winner: domain.WinnerLabel(winner),
		Reason: reason,
		Board:  gs.Game.Board.Rows(),
		Status: string(gs.Game.Status),
	})

	rec := gs.recordLocked()
	gs.saveGameAsync(rec)
	gs.deleteSnapshotLocked()
	gs.sessionManager.notifyGameOver(rec)
}

func (gs *GameSession) recordLocked() domain.GameRecord {
	return domain.GameRecord{
		GameID:          gs.GameID,
		PlayerID:        gs.PlayerID,
		PlayerName:      gs.PlayerName,
		BoardSize:       gs.Game.Board.Size(),
		AIFirst:         gs.Game.AIFirst,
		Difficulty:      gs.Difficulty,
		Winner:          domain.WinnerLabel(gs.Game.Winner),
		Reason:          gs.Reason,
		TotalMoves:      gs.Game.Board.MoveCount(),
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
		Moves:           gs.Game.Board.Moves(),
	}
}

// Saves game data to database in background to avoid blocking game_over messages
func (gs *GameSession) saveGameAsync(rec domain.GameRecord) {
	repo := gs.sessionManager.repo
	if repo == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := repo.SaveGame(ctx, rec); err != nil {
			log.Printf("[GAME] Error saving game %s: %v", rec.GameID, err)
		} else {
			log.Printf("[GAME] Game %s saved successfully", rec.GameID)
		}
	}()
}

// HintMessage renders a hint decision. Hints are evaluated with the human
// as the scoring side, so the threats are swapped back to AI/human terms.
func HintMessage(gameID string, d bot.Decision) domain.ServerMessage {
	msg := domain.ServerMessage{
		Type:       "hint",
		GameID:     gameID,
		AIScore:    d.HumanThreat,
		HumanScore: d.AIThreat,
	}
	if d.HasMove {
		i := d.ChosenIndex
		msg.Index = &i
	}
	return msg
}
