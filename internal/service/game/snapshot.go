package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/iamasit07/gomoku/backend/internal/domain"
)

const snapshotKeyPrefix = "game:"

// Snapshot is everything needed to rebuild a live game.
type Snapshot struct {
	GameID     string        `json:"gameId"`
	PlayerID   string        `json:"playerId"`
	PlayerName string        `json:"playerName"`
	BoardSize  int           `json:"boardSize"`
	AIFirst    bool          `json:"aiFirst"`
	Difficulty string        `json:"difficulty"`
	Moves      []domain.Move `json:"moves"`
	CreatedAt  time.Time     `json:"createdAt"`
}

func snapshotKey(gameID string) string {
	return snapshotKeyPrefix + gameID
}

func (gs *GameSession) Snapshot() Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked()
}

func (gs *GameSession) snapshotLocked() Snapshot {
	return Snapshot{
		GameID:     gs.GameID,
		PlayerID:   gs.PlayerID,
		PlayerName: gs.PlayerName,
		BoardSize:  gs.Game.Board.Size(),
		AIFirst:    gs.Game.AIFirst,
		Difficulty: gs.Difficulty,
		Moves:      gs.Game.Board.Moves(),
		CreatedAt:  gs.CreatedAt,
	}
}

// saveSnapshotLocked writes the snapshot; a cache failure is only logged.
func (gs *GameSession) saveSnapshotLocked() {
	sm := gs.sessionManager
	if sm.cache == nil {
		return
	}

	data, err := json.Marshal(gs.snapshotLocked())
	if err != nil {
		log.Printf("[REDIS] Failed to encode snapshot for %s: %v", gs.GameID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := sm.cache.Set(ctx, snapshotKey(gs.GameID), string(data), sm.SnapshotTTL); err != nil {
		log.Printf("[REDIS] Failed to store snapshot for %s: %v", gs.GameID, err)
	}
}

func (gs *GameSession) deleteSnapshotLocked() {
	sm := gs.sessionManager
	if sm.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := sm.cache.Del(ctx, snapshotKey(gs.GameID)); err != nil {
		log.Printf("[REDIS] Failed to delete snapshot for %s: %v", gs.GameID, err)
	}
}

// Restore returns the live session for gameID, rebuilding it from its
// snapshot when the process no longer holds it.
func (sm *SessionManager) Restore(ctx context.Context, gameID string) (*GameSession, error) {
	if session, ok := sm.GetSessionByGameID(gameID); ok {
		return session, nil
	}
	if sm.cache == nil {
		return nil, domain.ErrGameNotFound
	}

	raw, err := sm.cache.Get(ctx, snapshotKey(gameID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGameNotFound, err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", gameID, err)
	}

	g, err := domain.RestoreGame(snap.BoardSize, snap.AIFirst, snap.Moves)
	if err != nil {
		return nil, fmt.Errorf("failed to replay snapshot %s: %w", gameID, err)
	}

	session := newGameSession(snap.GameID, snap.PlayerID, snap.PlayerName, snap.Difficulty, g, snap.CreatedAt, sm)

	sm.mu.Lock()
	// another request may have restored it first
	if existing, ok := sm.Session[gameID]; ok {
		sm.mu.Unlock()
		return existing, nil
	}
	sm.Session[gameID] = session
	// a newer game the player started keeps the player's pointer
	if current, ok := sm.PlayerToGame[snap.PlayerID]; !ok || sm.Session[current] == nil {
		sm.PlayerToGame[snap.PlayerID] = gameID
	}
	sm.mu.Unlock()

	log.Printf("[SESSION] Restored session %s for %s with %d moves", gameID, snap.PlayerName, len(snap.Moves))
	return session, nil
}
