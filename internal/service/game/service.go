package game

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/iamasit07/gomoku/backend/internal/service/bot"
	"github.com/iamasit07/gomoku/backend/pkg/uid"
)

type ConnectionManagerInterface interface {
	SendMessage(playerID string, message domain.ServerMessage) error
}

type GameRepository interface {
	SaveGame(ctx context.Context, rec domain.GameRecord) error
}

// SnapshotCache keeps live games so they survive a restart.
type SnapshotCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// GameOptions are the per-game choices made when a game starts.
type GameOptions struct {
	BoardSize  int
	AIFirst    bool
	Difficulty string
}

// ActiveGame is the public summary shown on the watch list.
type ActiveGame struct {
	GameID     string    `json:"gameId"`
	PlayerName string    `json:"playerName"`
	Opponent   string    `json:"opponent"`
	Difficulty string    `json:"difficulty"`
	BoardSize  int       `json:"boardSize"`
	Moves      int       `json:"moves"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SessionManager manages active game sessions
type SessionManager struct {
	Session      map[string]*GameSession // gameID → GameSession
	PlayerToGame map[string]string       // playerID → gameID
	BotDelay     time.Duration
	SnapshotTTL  time.Duration
	mu           sync.RWMutex
	repo         GameRepository
	cache        SnapshotCache
	onGameOver   []func(domain.GameRecord)
}

// NewSessionManager wires the stores; cache may be nil when Redis is off.
func NewSessionManager(repo GameRepository, cache SnapshotCache) *SessionManager {
	return &SessionManager{
		Session:      make(map[string]*GameSession),
		PlayerToGame: make(map[string]string),
		BotDelay:     500 * time.Millisecond,
		SnapshotTTL:  24 * time.Hour,
		repo:         repo,
		cache:        cache,
	}
}

// OnGameOver registers an endgame handler. Handlers run once per finished
// game with its record.
func (sm *SessionManager) OnGameOver(fn func(domain.GameRecord)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onGameOver = append(sm.onGameOver, fn)
}

func (sm *SessionManager) notifyGameOver(rec domain.GameRecord) {
	sm.mu.RLock()
	handlers := append([]func(domain.GameRecord){}, sm.onGameOver...)
	sm.mu.RUnlock()

	for _, fn := range handlers {
		fn(rec)
	}
}

// CreateSession starts a new game for the player. A game the player still
// has running is abandoned first.
func (sm *SessionManager) CreateSession(playerID, playerName string, opts GameOptions, conn ConnectionManagerInterface) (*GameSession, error) {
	if existing, ok := sm.GetSessionByPlayerID(playerID); ok {
		if err := existing.Abandon(playerID, conn); err == nil {
			log.Printf("[SESSION] Abandoned running game %s for player %s", existing.GameID, playerID)
		}
		sm.RemoveSession(existing.GameID)
	}

	g, err := domain.NewGame(opts.BoardSize, opts.AIFirst)
	if err != nil {
		return nil, err
	}

	difficulty := opts.Difficulty
	if !bot.IsValidDifficulty(difficulty) {
		difficulty = "medium"
	}

	session := newGameSession(uid.GenerateGameID(), playerID, playerName, difficulty, g, time.Now(), sm)

	sm.mu.Lock()
	sm.Session[session.GameID] = session
	sm.PlayerToGame[playerID] = session.GameID
	sm.mu.Unlock()

	log.Printf("[SESSION] Created session %s: %s (ID: %s) vs %s (%s, %dx%d, ai first: %t)",
		session.GameID, playerName, playerID, session.BotName, difficulty, opts.BoardSize, opts.BoardSize, opts.AIFirst)

	session.mu.Lock()
	session.saveSnapshotLocked()
	conn.SendMessage(playerID, session.stateMessageLocked("game_start"))
	session.mu.Unlock()

	return session, nil
}

func (sm *SessionManager) GetSessionByPlayerID(playerID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	gameID, exists := sm.PlayerToGame[playerID]
	if !exists {
		return nil, false
	}

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.removeSessionLocked(gameID)
}

// removeSessionLocked removes session from maps without acquiring lock (caller must hold it)
func (sm *SessionManager) removeSessionLocked(gameID string) error {
	session, exists := sm.Session[gameID]
	if !exists {
		return domain.ErrGameNotFound
	}

	log.Printf("[SESSION] Removing session %s", gameID)

	if sm.PlayerToGame[session.PlayerID] == gameID {
		delete(sm.PlayerToGame, session.PlayerID)
	}
	delete(sm.Session, gameID)
	return nil
}

// GetActiveGames lists unfinished games, oldest first.
func (sm *SessionManager) GetActiveGames() []ActiveGame {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, s := range sm.Session {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	games := []ActiveGame{}
	for _, s := range sessions {
		s.mu.Lock()
		if !s.Game.IsFinished() {
			games = append(games, ActiveGame{
				GameID:     s.GameID,
				PlayerName: s.PlayerName,
				Opponent:   s.BotName,
				Difficulty: s.Difficulty,
				BoardSize:  s.Game.Board.Size(),
				Moves:      s.Game.Board.MoveCount(),
				CreatedAt:  s.CreatedAt,
			})
		}
		s.mu.Unlock()
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	return games
}

// CleanupOldSessions drops finished sessions after an hour and abandoned
// ones after a day. It returns how many were removed.
func (sm *SessionManager) CleanupOldSessions(now time.Time) int {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, s := range sm.Session {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	// session locks are never taken while holding sm.mu
	var stale []string
	for _, session := range sessions {
		session.mu.Lock()
		if session.Game.IsFinished() {
			if now.Sub(session.FinishedAt) > 1*time.Hour {
				stale = append(stale, session.GameID)
			}
		} else if now.Sub(session.CreatedAt) > 24*time.Hour {
			stale = append(stale, session.GameID)
		}
		session.mu.Unlock()
	}

	sm.mu.Lock()
	count := 0
	for _, gameID := range stale {
		if sm.removeSessionLocked(gameID) == nil {
			count++
		}
	}
	sm.mu.Unlock()

	if count > 0 {
		log.Printf("[SESSION] Memory cleanup: Removed %d stale game sessions", count)
	}
	return count
}

// Defaults fill in the options a client leaves out.
type Defaults struct {
	BoardSize  int
	AIFirst    string
	Difficulty string
}

// Options merges a client's request with the defaults. Zero size, empty
// aiFirst and empty difficulty fall back to the configured values.
func (d Defaults) Options(boardSize int, aiFirst, difficulty string) GameOptions {
	if boardSize == 0 {
		boardSize = d.BoardSize
	}
	if aiFirst == "" {
		aiFirst = d.AIFirst
	}
	if difficulty == "" {
		difficulty = d.Difficulty
	}
	return GameOptions{
		BoardSize:  boardSize,
		AIFirst:    domain.ResolveAIFirst(aiFirst),
		Difficulty: difficulty,
	}
}
