package queue

import (
	"context"
	"errors"
	"time"

	"queuectl/internal/config"
	"queuectl/internal/model"
	"queuectl/internal/store"
)

// ErrMissingCommand rejects a submission before it reaches the store.
var ErrMissingCommand = errors.New("'command' field is required")

// Queue turns enqueue/list/retry intents into store operations,
// applying default policy from the configuration snapshot.
type Queue struct {
	Store *store.Store
	Cfg   config.Config
}

func New(st *store.Store, cfg config.Config) *Queue {
	return &Queue{Store: st, Cfg: cfg}
}

// Enqueue creates a pending record and persists it. A nil maxRetries
// takes the configured default; an explicit value is kept as given,
// zero included. An empty id gets a generated one.
func (q *Queue) Enqueue(ctx context.Context, command, id string, maxRetries *int) (*model.Job, error) {
	if command == "" {
		return nil, ErrMissingCommand
	}
	retries := q.Cfg.MaxRetries
	if maxRetries != nil {
		retries = *maxRetries
	}

	j := model.NewJob(id, command, retries)
	if err := q.Store.Enqueue(ctx, j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (q *Queue) Get(ctx context.Context, id string) (*model.Job, error) {
	return q.Store.Get(ctx, id)
}

func (q *Queue) List(ctx context.Context, state string) ([]model.Job, error) {
	return q.Store.ListJobs(ctx, state)
}

// Status summarizes the queue: job counts by state plus the worker
// roster.
type Status struct {
	JobCounts     map[string]int `json:"job_counts"`
	ActiveWorkers int            `json:"active_workers"`
	Workers       []model.Worker `json:"workers"`
}

func (q *Queue) Status(ctx context.Context) (*Status, error) {
	counts, err := q.Store.Counts(ctx)
	if err != nil {
		return nil, err
	}
	workers, err := q.Store.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}
	return &Status{
		JobCounts:     counts,
		ActiveWorkers: len(workers),
		Workers:       workers,
	}, nil
}

// Retry re-queues a dead job. It reports false for a missing job or
// one in any state other than dead.
func (q *Queue) Retry(ctx context.Context, id string) (bool, error) {
	return q.Store.RetryDead(ctx, id, time.Now().UTC())
}
