package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"queuectl/internal/model"
)

func TestFailRetryIncrementsAttempts(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	enqueueTestJob(t, st, "retry-job", "false", 3)

	job, err := st.ClaimOne(ctx, now)
	if err != nil {
		t.Fatalf("Failed to claim job: %v", err)
	}
	if job == nil {
		t.Fatal("Expected to claim a job")
	}

	dead, err := st.FailRetry(ctx, job, now, 2, errors.New("test error"))
	if err != nil {
		t.Fatalf("Failed to fail/retry job: %v", err)
	}
	if dead {
		t.Error("Expected job not to be dead-lettered yet")
	}

	updated := getJob(t, st, "retry-job")
	if updated.Attempts != 1 {
		t.Errorf("Expected attempts 1, got %d", updated.Attempts)
	}
	if updated.State != model.StatePending {
		t.Errorf("Expected state 'pending', got '%s'", updated.State)
	}
	if updated.LastError != "test error" {
		t.Errorf("Expected last_error 'test error', got '%s'", updated.LastError)
	}
}

func TestFailRetryExponentialBackoff(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	base := 2

	enqueueTestJob(t, st, "backoff-job", "false", 5)

	// delay = base^attempts, computed from the post-increment count:
	// 2^1=2s, 2^2=4s, 2^3=8s
	expected := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}

	now := time.Now().UTC()
	for i, want := range expected {
		job, err := st.ClaimOne(ctx, now.Add(1*time.Hour))
		if err != nil {
			t.Fatalf("Failed to claim job: %v", err)
		}
		if job == nil {
			t.Fatalf("Expected to claim job on attempt %d", i+1)
		}

		now = time.Now().UTC()
		dead, err := st.FailRetry(ctx, job, now, base, errors.New("test error"))
		if err != nil {
			t.Fatalf("Failed to fail/retry job: %v", err)
		}
		if dead {
			t.Fatalf("Expected job not to be dead-lettered on attempt %d", i+1)
		}

		updated := getJob(t, st, "backoff-job")
		if updated.Attempts != i+1 {
			t.Errorf("Expected attempts %d, got %d", i+1, updated.Attempts)
		}

		diff := updated.AvailableAt.Sub(now.Add(want))
		if diff < -1*time.Second || diff > 1*time.Second {
			t.Errorf("Attempt %d: expected delay ~%v, got %v", i+1, want, updated.AvailableAt.Sub(now))
		}
	}
}

func TestFailRetryNotClaimableDuringBackoff(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	enqueueTestJob(t, st, "delay-job", "false", 3)

	job, err := st.ClaimOne(ctx, now)
	if err != nil {
		t.Fatalf("Failed to claim job: %v", err)
	}
	if _, err := st.FailRetry(ctx, job, now, 2, errors.New("test error")); err != nil {
		t.Fatalf("Failed to fail/retry job: %v", err)
	}

	// Inside the backoff window nothing is claimable.
	early, err := st.ClaimOne(ctx, now)
	if err != nil {
		t.Fatalf("Failed to claim job: %v", err)
	}
	if early != nil {
		t.Error("Expected job not to be claimable before available_at")
	}

	updated := getJob(t, st, "delay-job")
	late, err := st.ClaimOne(ctx, updated.AvailableAt.Add(1*time.Second))
	if err != nil {
		t.Fatalf("Failed to claim job: %v", err)
	}
	if late == nil {
		t.Fatal("Expected job to be claimable after available_at")
	}
	if late.ID != "delay-job" {
		t.Errorf("Expected job ID 'delay-job', got '%s'", late.ID)
	}
}

func TestFailRetryLeavesNoFailedRow(t *testing.T) {
	// The failure record and the pending re-queue commit together, so
	// no observer ever finds the job parked in 'failed' where the
	// claim query would never pick it up.
	st := newStore(t)
	ctx := context.Background()

	enqueueTestJob(t, st, "atomic-job", "false", 5)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		job, err := st.ClaimOne(ctx, now.Add(1*time.Hour))
		if err != nil {
			t.Fatalf("Failed to claim job: %v", err)
		}
		if job == nil {
			t.Fatalf("Expected to claim job on attempt %d", i+1)
		}
		if _, err := st.FailRetry(ctx, job, time.Now().UTC(), 2, errors.New("test error")); err != nil {
			t.Fatalf("Failed to fail/retry job: %v", err)
		}

		failed, err := st.ListJobs(ctx, model.StateFailed)
		if err != nil {
			t.Fatalf("Failed to list failed jobs: %v", err)
		}
		if len(failed) != 0 {
			t.Fatalf("Expected no job left in 'failed' after attempt %d, got %d", i+1, len(failed))
		}

		updated := getJob(t, st, "atomic-job")
		if updated.State != model.StatePending {
			t.Fatalf("Expected state 'pending' after attempt %d, got '%s'", i+1, updated.State)
		}
		if updated.Attempts != i+1 {
			t.Errorf("Expected attempts %d, got %d", i+1, updated.Attempts)
		}
	}
}

func TestRetryBoundaryIsStrict(t *testing.T) {
	// attempts < max_retries decides the retry; equality means dead.
	st := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	enqueueTestJob(t, st, "boundary-job", "false", 1)

	job, err := st.ClaimOne(ctx, now)
	if err != nil {
		t.Fatalf("Failed to claim job: %v", err)
	}

	dead, err := st.FailRetry(ctx, job, now, 2, errors.New("only error"))
	if err != nil {
		t.Fatalf("Failed to fail/retry job: %v", err)
	}
	if !dead {
		t.Fatal("Expected job to be dead-lettered on first failure with max_retries=1")
	}

	updated := getJob(t, st, "boundary-job")
	if updated.State != model.StateDead {
		t.Errorf("Expected state 'dead', got '%s'", updated.State)
	}
	if updated.Attempts != 1 {
		t.Errorf("Expected attempts 1 (equal to max_retries), got %d", updated.Attempts)
	}
}
