package workerpool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// waitFor polls cond until it holds or the deadline passes. Pool counters
// are updated after the task function returns, so tests poll instead of
// synchronizing inside the task.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSubmitRunsTasks(t *testing.T) {
	pool, err := New(&Config{Workers: 4}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer pool.Release()

	var counter atomic.Int64

	for i := 0; i < 20; i++ {
		err := pool.Submit(func() error {
			counter.Add(1)
			return nil
		})
		if err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
	}

	waitFor(t, func() bool { return pool.Stats().Completed == 20 })

	if got := counter.Load(); got != 20 {
		t.Errorf("counter = %d, want 20", got)
	}
	if stats := pool.Stats(); stats.Submitted != 20 {
		t.Errorf("Submitted = %d, want 20", stats.Submitted)
	}
}

func TestSubmitCountsFailures(t *testing.T) {
	pool, err := New(&Config{Workers: 2}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer pool.Release()

	pool.Submit(func() error { return errors.New("boom") })
	pool.Submit(func() error { panic("worse boom") })

	waitFor(t, func() bool { return pool.Stats().Failed == 2 })
}

func TestSubmitAfterRelease(t *testing.T) {
	pool, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	pool.Release()

	if err := pool.Submit(func() error { return nil }); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Submit() after Release = %v, want ErrPoolClosed", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Workers <= 0 {
		t.Errorf("Workers = %d, want > 0", cfg.Workers)
	}
}
