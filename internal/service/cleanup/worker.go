package cleanup

import (
	"context"
	"log"
	"time"
)

// SessionSweeper drops stale in-memory games.
type SessionSweeper interface {
	CleanupOldSessions(now time.Time) int
}

// GameCleaner deletes persisted games past the retention window.
type GameCleaner interface {
	CleanupOldGames(ctx context.Context, days int) (int64, error)
}

type Worker struct {
	Sessions      SessionSweeper
	Games         GameCleaner // nil when Postgres is off
	RetentionDays int
	Interval      time.Duration
	stop          chan struct{}
}

func NewWorker(sessions SessionSweeper, games GameCleaner, retentionDays int) *Worker {
	return &Worker{
		Sessions:      sessions,
		Games:         games,
		RetentionDays: retentionDays,
		Interval:      1 * time.Hour,
		stop:          make(chan struct{}),
	}
}

// Start runs one pass right away and then one per interval until Stop.
func (w *Worker) Start() {
	go func() {
		w.RunOnce()

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.RunOnce()
			case <-w.stop:
				return
			}
		}
	}()
	log.Println("[CLEANUP] Background worker started")
}

func (w *Worker) Stop() {
	close(w.stop)
}

// RunOnce executes the actual cleanup logic
func (w *Worker) RunOnce() {
	log.Println("[CLEANUP] Starting scheduled cleanup task...")

	w.Sessions.CleanupOldSessions(time.Now())

	if w.Games == nil || w.RetentionDays <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deletedCount, err := w.Games.CleanupOldGames(ctx, w.RetentionDays)
	if err != nil {
		log.Printf("[CLEANUP] Error cleaning up old games: %v", err)
	} else if deletedCount > 0 {
		log.Printf("[CLEANUP] Removed %d finished games older than %d days", deletedCount, w.RetentionDays)
	}
}
