package store

import (
	"context"
	"time"

	"queuectl/internal/model"
)

// ListDead returns the dead-letter set, most recently failed first.
func (s *Store) ListDead(ctx context.Context) ([]model.Job, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE state='dead'
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// RetryDead re-queues a dead job with attempts reset to zero. The
// state guard makes it succeed exactly once: a job in any other state
// (or missing entirely) reports false without error.
func (s *Store) RetryDead(ctx context.Context, jobID string, now time.Time) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE jobs
		SET state='pending', attempts=0, available_at=?, updated_at=?
		WHERE id=? AND state='dead'
	`, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano), jobID)
	if err != nil {
		return false, err
	}
	rows, _ := res.RowsAffected()
	return rows == 1, nil
}
