package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"queuectl/internal/queue"
)

func NewDLQListCmd(q *queue.Queue) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs in the dead letter queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := q.Store.ListDead(context.Background())
			if err != nil {
				return err
			}

			if len(jobs) == 0 {
				fmt.Println("No jobs in DLQ.")
				return nil
			}

			for _, j := range jobs {
				fmt.Printf("%s | attempts=%d/%d | error=%s | command=%s\n",
					j.ID, j.Attempts, j.MaxRetries, j.LastError, j.Command)
			}
			return nil
		},
	}
}
