package store

import (
	"context"

	"queuectl/internal/model"
)

func (s *Store) ListJobs(ctx context.Context, state string) ([]model.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs`
	args := []any{}

	if state != "" {
		q += " WHERE state = ?"
		args = append(args, state)
	}
	q += " ORDER BY created_at ASC"

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *j)
	}
	return result, rows.Err()
}

// Counts returns the per-state job tally. Every state appears in the
// map, zero or not, and the values sum to the total number of jobs.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	stats := map[string]int{}
	for _, st := range model.States {
		stats[st] = 0
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT state, COUNT(*) FROM jobs GROUP BY state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		stats[state] = count
	}
	return stats, rows.Err()
}
