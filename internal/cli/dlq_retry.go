package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"queuectl/internal/queue"
)

func NewDLQRetryCmd(q *queue.Queue) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <jobID>",
		Short: "Move a job from DLQ back to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			ok, err := q.Retry(context.Background(), id)
			if err != nil {
				return fmt.Errorf("retry failed: %w", err)
			}
			if !ok {
				return fmt.Errorf("job %s not found in DLQ or cannot be retried", id)
			}
			fmt.Println("Job returned to queue:", id)
			return nil
		},
	}
}
