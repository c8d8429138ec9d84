package store

import (
	"context"

	"queuectl/internal/model"
)

// RegisterWorker records a live worker process. Re-registering the same
// id updates its PID.
func (s *Store) RegisterWorker(ctx context.Context, id string, pid int) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO workers (id, pid) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET pid=excluded.pid
	`, id, pid)
	return err
}

func (s *Store) UnregisterWorker(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM workers WHERE id=?`, id)
	return err
}

func (s *Store) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, pid FROM workers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []model.Worker
	for rows.Next() {
		var w model.Worker
		if err := rows.Scan(&w.ID, &w.PID); err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (s *Store) ClearWorkers(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM workers`)
	return err
}
