package tests

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"queuectl/internal/config"
	"queuectl/internal/model"
	"queuectl/internal/queue"
	"queuectl/internal/store"
)

func intPtr(n int) *int { return &n }

// testConfig keeps the poll interval short so worker tests finish fast.
func testConfig() config.Config {
	return config.Config{
		MaxRetries:   3,
		BackoffBase:  2,
		PollInterval: 50 * time.Millisecond,
	}
}

// newStore creates a fresh database under a per-test temp dir.
func newStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.NewStore(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

func newQueue(t *testing.T, st *store.Store) *queue.Queue {
	t.Helper()
	return queue.New(st, testConfig())
}

// enqueueTestJob inserts a pending job with the given retry cap.
func enqueueTestJob(t *testing.T, st *store.Store, id, command string, maxRetries int) {
	t.Helper()
	j := model.NewJob(id, command, maxRetries)
	if err := st.Enqueue(context.Background(), j); err != nil {
		t.Fatalf("Failed to enqueue job %s: %v", id, err)
	}
}

func getJob(t *testing.T, st *store.Store, id string) *model.Job {
	t.Helper()
	j, err := st.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to get job %s: %v", id, err)
	}
	if j == nil {
		t.Fatalf("Job %s not found", id)
	}
	return j
}

// failUntilDead claims and fails a job repeatedly until it dead-letters.
func failUntilDead(t *testing.T, st *store.Store, id string, execErr error) {
	t.Helper()
	ctx := context.Background()
	for {
		now := time.Now().UTC().Add(1 * time.Hour) // skip past any backoff
		job, err := st.ClaimOne(ctx, now)
		if err != nil {
			t.Fatalf("Failed to claim job: %v", err)
		}
		if job == nil {
			t.Fatalf("Job %s disappeared before dead-lettering", id)
		}
		if job.ID != id {
			continue
		}

		dead, err := st.FailRetry(ctx, job, time.Now().UTC(), 2, execErr)
		if err != nil {
			t.Fatalf("Failed to fail/retry job: %v", err)
		}
		if dead {
			return
		}
	}
}
