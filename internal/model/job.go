package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatePending    = "pending"
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateFailed     = "failed"
	StateDead       = "dead"
)

// States lists every job state in a stable order.
var States = []string{StatePending, StateProcessing, StateCompleted, StateFailed, StateDead}

func ValidState(s string) bool {
	for _, st := range States {
		if st == s {
			return true
		}
	}
	return false
}

type Job struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	State       string    `json:"state"`
	Attempts    int       `json:"attempts"`
	MaxRetries  int       `json:"max_retries"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastError   string    `json:"last_error,omitempty"`
	Output      string    `json:"output,omitempty"`
	AvailableAt time.Time `json:"-"` // earliest claim time after backoff
}

// NewJob builds a pending job with timestamps set. An empty id gets a
// generated UUID.
func NewJob(id, command string, maxRetries int) Job {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	return Job{
		ID:          id,
		Command:     command,
		State:       StatePending,
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		AvailableAt: now,
	}
}

// ShouldRetry reports whether another attempt is allowed. The cap gates
// the retry decision only; Attempts itself is never clamped.
func (j *Job) ShouldRetry() bool {
	return j.Attempts < j.MaxRetries
}

// BackoffDelay returns base^Attempts in seconds.
func (j *Job) BackoffDelay(base int) time.Duration {
	d := 1
	for i := 0; i < j.Attempts; i++ {
		d *= base
	}
	return time.Duration(d) * time.Second
}

// Worker is a registered worker process.
type Worker struct {
	ID  string `json:"id"`
	PID int    `json:"pid"`
}
