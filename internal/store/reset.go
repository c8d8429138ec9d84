package store

import (
	"context"
)

func (s *Store) ResetQueue(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM jobs;`)
	return err
}
