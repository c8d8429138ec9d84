package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"queuectl/internal/engine"
	"queuectl/internal/queue"
)

func NewWorkerStopCmd(q *queue.Queue) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Gracefully stop running workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			workers, err := q.Store.ListWorkers(ctx)
			if err != nil {
				return err
			}

			if len(workers) == 0 {
				fmt.Println("No workers are currently running.")
				return nil
			}

			stopped := 0
			for _, w := range workers {
				if engine.Terminate(w.PID) {
					stopped++
				} else {
					// Process already gone; drop the stale entry.
					_ = q.Store.UnregisterWorker(ctx, w.ID)
				}
			}

			fmt.Printf("Stop requested for %d worker(s). They will exit after finishing the current job.\n", stopped)
			return nil
		},
	}
}
