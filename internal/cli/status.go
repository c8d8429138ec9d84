package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"queuectl/internal/engine"
	"queuectl/internal/model"
	"queuectl/internal/queue"
)

func NewStatusCmd(q *queue.Queue) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue status summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := q.Status(context.Background())
			if err != nil {
				return err
			}

			fmt.Println("Queue Status:")
			for _, state := range model.States {
				fmt.Printf("  %-10s %d\n", state, status.JobCounts[state])
			}

			fmt.Printf("\nActive Workers: %d\n", status.ActiveWorkers)
			for _, w := range status.Workers {
				running := "running"
				if !engine.Alive(w.PID) {
					running = "stale"
				}
				fmt.Printf("  %s | pid=%d | %s\n", w.ID, w.PID, running)
			}
			return nil
		},
	}
}
