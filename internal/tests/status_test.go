package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"queuectl/internal/model"
)

func TestCountsSumToTotal(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	enqueueTestJob(t, st, "c1", "echo hi", 3)
	enqueueTestJob(t, st, "c2", "echo hi", 3)
	enqueueTestJob(t, st, "c3", "false", 1)
	failUntilDead(t, st, "c3", errors.New("boom"))

	if _, err := st.ClaimOne(ctx, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to claim: %v", err)
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}

	total := 0
	for _, state := range model.States {
		n, ok := counts[state]
		if !ok {
			t.Errorf("Expected state %q present in counts", state)
		}
		total += n
	}
	if total != 3 {
		t.Errorf("Expected counts to sum to 3, got %d (%v)", total, counts)
	}
	if counts[model.StateProcessing] != 1 {
		t.Errorf("Expected 1 processing job, got %d", counts[model.StateProcessing])
	}
	if counts[model.StateDead] != 1 {
		t.Errorf("Expected 1 dead job, got %d", counts[model.StateDead])
	}
}

func TestQueueStatusIncludesWorkers(t *testing.T) {
	st := newStore(t)
	q := newQueue(t, st)
	ctx := context.Background()

	enqueueTestJob(t, st, "s1", "echo hi", 3)
	if err := st.RegisterWorker(ctx, "w1", 1234); err != nil {
		t.Fatalf("Failed to register worker: %v", err)
	}

	status, err := q.Status(ctx)
	if err != nil {
		t.Fatalf("Failed to get status: %v", err)
	}

	if status.ActiveWorkers != 1 {
		t.Errorf("Expected 1 active worker, got %d", status.ActiveWorkers)
	}
	if len(status.Workers) != 1 || status.Workers[0].ID != "w1" || status.Workers[0].PID != 1234 {
		t.Errorf("Expected worker {w1 1234}, got %v", status.Workers)
	}
	if status.JobCounts[model.StatePending] != 1 {
		t.Errorf("Expected 1 pending job, got %d", status.JobCounts[model.StatePending])
	}
}

func TestWorkerRegistryUnregister(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	if err := st.RegisterWorker(ctx, "w1", 100); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if err := st.RegisterWorker(ctx, "w2", 200); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if err := st.UnregisterWorker(ctx, "w1"); err != nil {
		t.Fatalf("Failed to unregister: %v", err)
	}

	workers, err := st.ListWorkers(ctx)
	if err != nil {
		t.Fatalf("Failed to list workers: %v", err)
	}
	if len(workers) != 1 || workers[0].ID != "w2" {
		t.Errorf("Expected only w2 registered, got %v", workers)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	val, err := st.GetConfig(ctx, "max_retries")
	if err != nil {
		t.Fatalf("Failed to get config: %v", err)
	}
	if val != "3" {
		t.Errorf("Expected seeded default '3', got %q", val)
	}

	if err := st.SetConfig(ctx, "max_retries", "5"); err != nil {
		t.Fatalf("Failed to set config: %v", err)
	}
	if got := st.GetConfigInt(ctx, "max_retries", 3); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}

	// Unknown keys pass through unvalidated.
	if err := st.SetConfig(ctx, "custom_key", "anything"); err != nil {
		t.Fatalf("Failed to set unknown key: %v", err)
	}
	val, err = st.GetConfig(ctx, "custom_key")
	if err != nil || val != "anything" {
		t.Errorf("Expected unknown key to round-trip, got %q err=%v", val, err)
	}
}
