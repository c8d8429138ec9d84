package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"queuectl/internal/model"
	"queuectl/internal/queue"
)

func NewListCmd(q *queue.Queue) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs in the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if state != "" && !model.ValidState(state) {
				return fmt.Errorf("unknown state %q", state)
			}

			jobs, err := q.List(context.Background(), state)
			if err != nil {
				return err
			}

			if len(jobs) == 0 {
				fmt.Println("No jobs found.")
				return nil
			}

			for _, j := range jobs {
				fmt.Printf("%s | %-10s | attempts=%d/%d | created %s | %s\n",
					j.ID, j.State, j.Attempts, j.MaxRetries,
					humanize.Time(j.CreatedAt), j.Command)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Filter by job state (pending,processing,completed,failed,dead)")
	return cmd
}
