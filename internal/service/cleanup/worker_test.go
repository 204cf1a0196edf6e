package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSweeper struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeSweeper) CleanupOldSessions(now time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 0
}

func (f *fakeSweeper) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCleaner struct {
	days []int
	err  error
}

func (f *fakeCleaner) CleanupOldGames(ctx context.Context, days int) (int64, error) {
	f.days = append(f.days, days)
	return 3, f.err
}

func TestRunOnce(t *testing.T) {
	sweeper := &fakeSweeper{}
	cleaner := &fakeCleaner{}
	w := NewWorker(sweeper, cleaner, 30)

	w.RunOnce()
	if sweeper.count() != 1 {
		t.Fatalf("sessions not swept")
	}
	if len(cleaner.days) != 1 || cleaner.days[0] != 30 {
		t.Fatalf("games not cleaned with the retention window: %v", cleaner.days)
	}

	cleaner.err = errors.New("db down")
	w.RunOnce()
	if sweeper.count() != 2 {
		t.Fatalf("a failing store must not stop the sweep")
	}
}

func TestRunOnceWithoutStore(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewWorker(sweeper, nil, 30)
	w.RunOnce()
	if sweeper.count() != 1 {
		t.Fatalf("sessions not swept")
	}

	cleaner := &fakeCleaner{}
	w = NewWorker(sweeper, cleaner, 0)
	w.RunOnce()
	if len(cleaner.days) != 0 {
		t.Fatalf("retention 0 disables the store cleanup")
	}
}

func TestStartAndStop(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewWorker(sweeper, nil, 30)
	w.Interval = 10 * time.Millisecond
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for sweeper.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	if sweeper.count() < 3 {
		t.Fatalf("expected periodic runs, got %d", sweeper.count())
	}
}
