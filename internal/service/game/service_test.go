package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/gomoku/backend/internal/domain"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []domain.ServerMessage
}

func (f *fakeConn) SendMessage(playerID string, msg domain.ServerMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeConn) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.Type
	}
	return out
}

func (f *fakeConn) last() domain.ServerMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[len(f.messages)-1]
}

type fakeRepo struct {
	saved chan domain.GameRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{saved: make(chan domain.GameRecord, 8)}
}

func (r *fakeRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	r.saved <- rec
	return nil
}

func (r *fakeRepo) wait(t *testing.T) domain.GameRecord {
	t.Helper()
	select {
	case rec := <-r.saved:
		return rec
	case <-time.After(2 * time.Second):
		t.Fatalf("game was not saved")
		return domain.GameRecord{}
	}
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func newTestManager(repo GameRepository, cache SnapshotCache) *SessionManager {
	sm := NewSessionManager(repo, cache)
	sm.BotDelay = 0
	return sm
}

func startGame(t *testing.T, sm *SessionManager, conn *fakeConn, size int, aiFirst bool) *GameSession {
	t.Helper()
	gs, err := sm.CreateSession("p1", "Guest", GameOptions{BoardSize: size, AIFirst: aiFirst, Difficulty: "medium"}, conn)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return gs
}

// replayInto swaps the session's game for one rebuilt from alternating
// human/ai moves given as (row, col) pairs.
func replayInto(t *testing.T, gs *GameSession, size int, cells [][2]int) {
	t.Helper()
	moves := make([]domain.Move, len(cells))
	for i, rc := range cells {
		p := domain.Human
		if i%2 == 1 {
			p = domain.AI
		}
		moves[i] = domain.Move{Index: rc[0]*size + rc[1], Player: p}
	}
	g, err := domain.RestoreGame(size, false, moves)
	if err != nil {
		t.Fatalf("RestoreGame failed: %v", err)
	}
	gs.Game = g
}

func TestCreateSession(t *testing.T) {
	conn := &fakeConn{}
	sm := newTestManager(nil, nil)
	gs := startGame(t, sm, conn, 9, true)

	if got := conn.types(); len(got) != 1 || got[0] != "game_start" {
		t.Fatalf("expected a single game_start, got %v", got)
	}
	start := conn.last()
	if start.BoardSize != 9 || start.Opponent != "Bob" || start.NextTurn != int(domain.Human) {
		t.Fatalf("unexpected game_start: %+v", start)
	}
	if gs.Game.Board.ValueAt(gs.Game.Board.Center()) != domain.AI {
		t.Fatalf("ai-first game must open on the centre")
	}

	if found, ok := sm.GetSessionByPlayerID("p1"); !ok || found != gs {
		t.Fatalf("session not indexed by player")
	}
	if found, ok := sm.GetSessionByGameID(gs.GameID); !ok || found != gs {
		t.Fatalf("session not indexed by game")
	}
}

func TestCreateSessionRejectsSmallBoard(t *testing.T) {
	sm := newTestManager(nil, nil)
	_, err := sm.CreateSession("p1", "Guest", GameOptions{BoardSize: 4}, &fakeConn{})
	if !errors.Is(err, domain.ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard, got %v", err)
	}
}

func TestHandleMoveTriggersBotReply(t *testing.T) {
	conn := &fakeConn{}
	sm := newTestManager(nil, nil)
	gs := startGame(t, sm, conn, 9, false)

	if err := gs.HandleMove("p1", 40, conn); err != nil {
		t.Fatalf("HandleMove failed: %v", err)
	}

	if gs.Game.Board.MoveCount() != 2 {
		t.Fatalf("expected the bot to reply, got %d moves", gs.Game.Board.MoveCount())
	}
	if gs.Game.CurrentPlayer != domain.Human {
		t.Fatalf("expected the human to move next")
	}
	got := conn.types()
	if len(got) != 3 || got[1] != "move_made" || got[2] != "move_made" {
		t.Fatalf("unexpected messages: %v", got)
	}
	if reply := conn.last(); reply.Player != int(domain.AI) || reply.Index == nil {
		t.Fatalf("unexpected bot message: %+v", reply)
	}
}

func TestHandleMoveErrors(t *testing.T) {
	conn := &fakeConn{}
	sm := newTestManager(nil, nil)
	gs := startGame(t, sm, conn, 9, true)

	if err := gs.HandleMove("intruder", 0, conn); !errors.Is(err, domain.ErrNotAPlayer) {
		t.Fatalf("expected ErrNotAPlayer, got %v", err)
	}
	if err := gs.HandleMove("p1", gs.Game.Board.Center(), conn); !errors.Is(err, domain.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if err := gs.HandleMove("p1", 81, conn); !errors.Is(err, domain.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for out of range, got %v", err)
	}
}

func TestBotReplyIsDelayed(t *testing.T) {
	conn := &fakeConn{}
	sm := newTestManager(nil, nil)
	sm.BotDelay = 200 * time.Millisecond
	gs := startGame(t, sm, conn, 9, false)

	if err := gs.HandleMove("p1", 40, conn); err != nil {
		t.Fatalf("HandleMove failed: %v", err)
	}
	if err := gs.HandleUndo("p1", conn); !errors.Is(err, domain.ErrNotYourTurn) {
		t.Fatalf("undo while the bot thinks should fail with ErrNotYourTurn, got %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if gs.State().NextTurn == int(domain.Human) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("bot never replied")
}

func TestHandleUndo(t *testing.T) {
	conn := &fakeConn{}
	sm := newTestManager(nil, nil)
	gs := startGame(t, sm, conn, 9, false)

	if err := gs.HandleUndo("p1", conn); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo on a fresh game, got %v", err)
	}

	if err := gs.HandleMove("p1", 40, conn); err != nil {
		t.Fatalf("HandleMove failed: %v", err)
	}
	if err := gs.HandleUndo("p1", conn); err != nil {
		t.Fatalf("HandleUndo failed: %v", err)
	}
	if gs.Game.Board.MoveCount() != 0 || gs.Game.Board.ValueAt(40) != domain.Empty {
		t.Fatalf("undo did not restore the empty board:\n%s", gs.Game.Board)
	}
	if conn.last().Type != "undo_applied" {
		t.Fatalf("expected undo_applied, got %s", conn.last().Type)
	}
}

func TestHumanWinFinishesGame(t *testing.T) {
	conn := &fakeConn{}
	repo := newFakeRepo()
	cache := newFakeCache()
	sm := newTestManager(repo, cache)

	var ended []domain.GameRecord
	sm.OnGameOver(func(rec domain.GameRecord) { ended = append(ended, rec) })

	gs := startGame(t, sm, conn, 9, false)
	replayInto(t, gs, 9, [][2]int{
		{0, 0}, {8, 0}, {0, 1}, {8, 2}, {0, 2}, {8, 4}, {0, 3}, {8, 6},
	})

	if err := gs.HandleMove("p1", 4, conn); err != nil {
		t.Fatalf("HandleMove failed: %v", err)
	}

	over := conn.last()
	if over.Type != "game_over" || over.Winner != "human" || over.Reason != domain.ReasonFiveInARow {
		t.Fatalf("unexpected final message: %+v", over)
	}
	if gs.Game.Status != domain.StatusWon || gs.Game.Winner != domain.Human {
		t.Fatalf("game not finished: %+v", gs.Game)
	}

	rec := repo.wait(t)
	if rec.GameID != gs.GameID || rec.Winner != "human" || rec.TotalMoves != 9 || len(rec.Moves) != 9 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(ended) != 1 || ended[0].Winner != "human" {
		t.Fatalf("endgame handler not called once: %v", ended)
	}
	if cache.has(snapshotKey(gs.GameID)) {
		t.Fatalf("snapshot should be deleted when the game ends")
	}

	if err := gs.HandleMove("p1", 5, conn); !errors.Is(err, domain.ErrGameOver) {
		t.Fatalf("expected ErrGameOver after the end, got %v", err)
	}
}

func TestBotCompletesFive(t *testing.T) {
	conn := &fakeConn{}
	sm := newTestManager(nil, nil)
	gs := startGame(t, sm, conn, 9, false)
	replayInto(t, gs, 9, [][2]int{
		{0, 0}, {4, 1}, {0, 2}, {4, 2}, {0, 4}, {4, 3}, {0, 6}, {4, 4},
	})

	if err := gs.HandleMove("p1", 80, conn); err != nil {
		t.Fatalf("HandleMove failed: %v", err)
	}
	if gs.Game.Winner != domain.AI || !gs.Game.Board.HasFive(domain.AI) {
		t.Fatalf("bot should have completed five:\n%s", gs.Game.Board)
	}
	if over := conn.last(); over.Type != "game_over" || over.Winner != "ai" {
		t.Fatalf("unexpected final message: %+v", over)
	}
}

func TestHint(t *testing.T) {
	conn := &fakeConn{}
	sm := newTestManager(nil, nil)
	gs := startGame(t, sm, conn, 9, false)
	replayInto(t, gs, 9, [][2]int{
		{0, 0}, {8, 0}, {0, 1}, {8, 2}, {0, 2}, {8, 4}, {0, 3}, {8, 6},
	})

	d, err := gs.Hint("p1")
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if d.ChosenIndex != 4 || !d.Terminal || d.Winner != domain.Human {
		t.Fatalf("hint should point at the winning cell 4, got %+v", d)
	}
	if _, err := gs.Hint("intruder"); !errors.Is(err, domain.ErrNotAPlayer) {
		t.Fatalf("expected ErrNotAPlayer, got %v", err)
	}

	msg := HintMessage(gs.GameID, d)
	if msg.Index == nil || *msg.Index != 4 {
		t.Fatalf("hint message should carry cell 4, got %+v", msg)
	}
	if msg.HumanScore != d.AIThreat || msg.AIScore != d.HumanThreat {
		t.Fatalf("hint threats should be reported from the AI's point of view: %+v", msg)
	}
}

func TestAbandon(t *testing.T) {
	conn := &fakeConn{}
	repo := newFakeRepo()
	sm := newTestManager(repo, nil)
	gs := startGame(t, sm, conn, 9, false)

	if err := gs.Abandon("p1", conn); err != nil {
		t.Fatalf("Abandon failed: %v", err)
	}
	rec := repo.wait(t)
	if rec.Winner != "ai" || rec.Reason != domain.ReasonAbandoned {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if err := gs.Abandon("p1", conn); !errors.Is(err, domain.ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestCreateSessionReplacesRunningGame(t *testing.T) {
	conn := &fakeConn{}
	repo := newFakeRepo()
	sm := newTestManager(repo, nil)

	first := startGame(t, sm, conn, 9, false)
	second := startGame(t, sm, conn, 9, false)

	if rec := repo.wait(t); rec.GameID != first.GameID || rec.Reason != domain.ReasonAbandoned {
		t.Fatalf("first game should be saved as abandoned, got %+v", rec)
	}
	if _, ok := sm.GetSessionByGameID(first.GameID); ok {
		t.Fatalf("first session still registered")
	}
	if found, _ := sm.GetSessionByPlayerID("p1"); found != second {
		t.Fatalf("player should map to the new session")
	}
}

func TestRestoreFromSnapshot(t *testing.T) {
	conn := &fakeConn{}
	cache := newFakeCache()
	sm := newTestManager(nil, cache)
	gs := startGame(t, sm, conn, 9, true)

	if err := gs.HandleMove("p1", 0, conn); err != nil {
		t.Fatalf("HandleMove failed: %v", err)
	}
	want := gs.Snapshot()

	restarted := newTestManager(nil, cache)
	restored, err := restarted.Restore(context.Background(), gs.GameID)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.PlayerID != "p1" || restored.Difficulty != "medium" {
		t.Fatalf("unexpected restored session: %+v", restored.Snapshot())
	}
	if got := restored.Snapshot(); len(got.Moves) != len(want.Moves) || got.Moves[len(got.Moves)-1] != want.Moves[len(want.Moves)-1] {
		t.Fatalf("moves differ: %v vs %v", got.Moves, want.Moves)
	}
	if restored.Game.CurrentPlayer != domain.Human {
		t.Fatalf("restored game should wait for the human")
	}

	again, err := restarted.Restore(context.Background(), gs.GameID)
	if err != nil || again != restored {
		t.Fatalf("second restore should return the live session")
	}

	if _, err := restarted.Restore(context.Background(), "missing"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestRestoreKeepsNewerGameForPlayer(t *testing.T) {
	conn := &fakeConn{}
	cache := newFakeCache()
	first := newTestManager(nil, cache)
	older := startGame(t, first, conn, 9, false)
	if err := older.HandleMove("p1", 40, conn); err != nil {
		t.Fatalf("HandleMove failed: %v", err)
	}

	restarted := newTestManager(nil, cache)
	newer := startGame(t, restarted, conn, 9, false)

	restored, err := restarted.Restore(context.Background(), older.GameID)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.GameID != older.GameID {
		t.Fatalf("restored the wrong game: %s", restored.GameID)
	}

	current, ok := restarted.GetSessionByPlayerID("p1")
	if !ok || current.GameID != newer.GameID {
		t.Fatalf("player should still point at the newer game %s, got %v", newer.GameID, current)
	}
	if got, ok := restarted.GetSessionByGameID(older.GameID); !ok || got != restored {
		t.Fatalf("restored game should stay reachable by id")
	}
}

func TestRestoreMapsPlayerWithoutLiveGame(t *testing.T) {
	conn := &fakeConn{}
	cache := newFakeCache()
	first := newTestManager(nil, cache)
	gs := startGame(t, first, conn, 9, false)

	restarted := newTestManager(nil, cache)
	if _, err := restarted.Restore(context.Background(), gs.GameID); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if current, ok := restarted.GetSessionByPlayerID("p1"); !ok || current.GameID != gs.GameID {
		t.Fatalf("player without a live game should map to the restored one")
	}
}

func TestActiveGamesAndCleanup(t *testing.T) {
	conn := &fakeConn{}
	sm := newTestManager(nil, nil)
	gs := startGame(t, sm, conn, 9, false)

	games := sm.GetActiveGames()
	if len(games) != 1 || games[0].GameID != gs.GameID || games[0].BoardSize != 9 {
		t.Fatalf("unexpected active games: %+v", games)
	}

	if n := sm.CleanupOldSessions(time.Now()); n != 0 {
		t.Fatalf("fresh session removed")
	}
	if n := sm.CleanupOldSessions(time.Now().Add(25 * time.Hour)); n != 1 {
		t.Fatalf("expected the stale session to be removed, got %d", n)
	}
	if len(sm.GetActiveGames()) != 0 {
		t.Fatalf("cleanup left the session behind")
	}
}

func TestServiceAnalyze(t *testing.T) {
	svc := NewService("medium")
	cells := make([]int, 81)
	for col := 2; col <= 5; col++ {
		cells[4*9+col] = int(domain.Human)
	}

	analysis, err := svc.Analyze(9, cells, domain.AI, "", true)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analysis.Decision.ChosenIndex != 37 || !analysis.Decision.HasMove {
		t.Fatalf("expected a block at 37, got %+v", analysis.Decision)
	}
	if len(analysis.Scores) != 81 {
		t.Fatalf("expected 81 cell scores, got %d", len(analysis.Scores))
	}

	if _, err := svc.Analyze(9, cells[:10], domain.AI, "", false); !errors.Is(err, domain.ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard for a short board, got %v", err)
	}
}

func TestDefaultsOptions(t *testing.T) {
	d := Defaults{BoardSize: 15, AIFirst: "true", Difficulty: "hard"}

	opts := d.Options(0, "", "")
	if opts.BoardSize != 15 || !opts.AIFirst || opts.Difficulty != "hard" {
		t.Fatalf("defaults not applied: %+v", opts)
	}

	opts = d.Options(9, "false", "easy")
	if opts.BoardSize != 9 || opts.AIFirst || opts.Difficulty != "easy" {
		t.Fatalf("request values should win: %+v", opts)
	}
}
