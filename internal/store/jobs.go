package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"queuectl/internal/model"
)

const jobColumns = `id, command, state, attempts, max_retries,
       created_at, updated_at, available_at, last_error, output`

func scanJob(row interface{ Scan(...any) error }) (*model.Job, error) {
	var j model.Job
	var createdAtStr, updatedAtStr, availableAtStr string

	err := row.Scan(
		&j.ID,
		&j.Command,
		&j.State,
		&j.Attempts,
		&j.MaxRetries,
		&createdAtStr,
		&updatedAtStr,
		&availableAtStr,
		&j.LastError,
		&j.Output,
	)
	if err != nil {
		return nil, err
	}

	j.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
	j.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAtStr)
	j.AvailableAt, _ = time.Parse(time.RFC3339Nano, availableAtStr)

	return &j, nil
}

// Save upserts the full record. Any process reading afterwards sees the
// written snapshot.
func (s *Store) Save(ctx context.Context, j model.Job) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO jobs (id, command, state, attempts, max_retries, created_at, updated_at, available_at, last_error, output)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  command=excluded.command,
  state=excluded.state,
  attempts=excluded.attempts,
  max_retries=excluded.max_retries,
  updated_at=excluded.updated_at,
  available_at=excluded.available_at,
  last_error=excluded.last_error,
  output=excluded.output
`, j.ID, j.Command, j.State, j.Attempts, j.MaxRetries,
		j.CreatedAt.Format(time.RFC3339Nano),
		j.UpdatedAt.Format(time.RFC3339Nano),
		j.AvailableAt.Format(time.RFC3339Nano),
		j.LastError, j.Output,
	)
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

// Enqueue inserts a new record, failing on a duplicate id.
func (s *Store) Enqueue(ctx context.Context, j model.Job) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO jobs (id, command, state, attempts, max_retries, created_at, updated_at, available_at, last_error, output)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, j.ID, j.Command, j.State, j.Attempts, j.MaxRetries,
		j.CreatedAt.Format(time.RFC3339Nano),
		j.UpdatedAt.Format(time.RFC3339Nano),
		j.AvailableAt.Format(time.RFC3339Nano),
		j.LastError, j.Output,
	)
	if err != nil {
		return fmt.Errorf("enqueue failed: %w", err)
	}
	return nil
}

// Get returns nil without error when no such job exists.
func (s *Store) Get(ctx context.Context, id string) (*model.Job, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=?`, id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// Delete removes a record. Not exposed through the CLI; part of the
// store contract.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id=?`, id)
	return err
}

// ClaimOne atomically claims the oldest eligible pending job. The
// guarded UPDATE is the compare-and-swap: if another worker got there
// first, zero rows change and the caller gets nil back.
func (s *Store) ClaimOne(ctx context.Context, now time.Time) (*model.Job, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM jobs
		WHERE state='pending'
		  AND available_at <= ?
		ORDER BY created_at ASC
		LIMIT 1
	`, now.Format(time.RFC3339Nano)).Scan(&id)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select pending job: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE jobs
		SET state='processing', updated_at=?
		WHERE id=? AND state='pending'
	`, now.Format(time.RFC3339Nano), id)
	if err != nil {
		return nil, fmt.Errorf("claim update: %w", err)
	}

	// 0 rows -> lost the race to another worker.
	rows, _ := res.RowsAffected()
	if rows != 1 {
		return nil, nil
	}

	row := tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=?`, id)
	j, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("reload job after claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx commit: %w", err)
	}

	return j, nil
}

// Complete marks a processing job completed and records its captured
// stdout. Attempts are untouched on success.
func (s *Store) Complete(ctx context.Context, id, output string, now time.Time) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE jobs SET state='completed', output=?, updated_at=?
		WHERE id=? AND state='processing'
	`, output, now.Format(time.RFC3339Nano), id)
	return err
}

// FailRetry applies the retry policy after a failed execution. It
// increments attempts; below the cap the job passes through 'failed'
// and is re-queued as 'pending' with an available_at stamp of
// base^attempts seconds out, so no worker blocks during the backoff
// window. At or past the cap the job goes 'dead'. Returns true when
// the job was dead-lettered.
//
// The failed write and the pending re-queue commit as one transaction:
// the claim query only scans 'pending', so a job stranded in 'failed'
// by a crash between the two writes would never run again.
func (s *Store) FailRetry(ctx context.Context, j *model.Job, now time.Time, base int, execErr error) (bool, error) {
	j.Attempts++
	j.LastError = execErr.Error()
	j.UpdatedAt = now

	if !j.ShouldRetry() {
		j.State = model.StateDead
		if err := s.Save(ctx, *j); err != nil {
			return false, err
		}
		return true, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	nowStr := now.Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx, `
		UPDATE jobs
		SET state='failed', attempts=?, last_error=?, updated_at=?
		WHERE id=?
	`, j.Attempts, j.LastError, nowStr, j.ID)
	if err != nil {
		return false, fmt.Errorf("record failure: %w", err)
	}

	availableAt := now.Add(j.BackoffDelay(base))
	_, err = tx.ExecContext(ctx, `
		UPDATE jobs
		SET state='pending', available_at=?, updated_at=?
		WHERE id=? AND state='failed'
	`, availableAt.Format(time.RFC3339Nano), nowStr, j.ID)
	if err != nil {
		return false, fmt.Errorf("requeue after failure: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("tx commit: %w", err)
	}

	j.State = model.StatePending
	j.AvailableAt = availableAt
	return false, nil
}
