package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"queuectl/internal/config"
	"queuectl/internal/engine"
	"queuectl/internal/queue"
)

func NewWorkerStartCmd(q *queue.Queue) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start worker processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("invalid worker count: %d", count)
			}

			reapStaleWorkers(q)

			// Re-read config so workers pick up the current snapshot.
			cfg := config.Load(context.Background(), q.Store)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var wg sync.WaitGroup
			for i := 0; i < count; i++ {
				w := engine.NewWorker(q.Store, cfg, log.Logger)
				wg.Add(1)
				go func() {
					defer wg.Done()
					w.Run(ctx)
				}()
			}

			fmt.Printf("Started %d worker(s) (PID: %d). Press Ctrl+C to stop.\n", count, os.Getpid())

			<-ctx.Done()
			fmt.Println("Stopping workers gracefully...")
			wg.Wait()
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "number of workers to start")
	return cmd
}

// reapStaleWorkers drops registry entries whose process is gone. A hard
// kill bypasses unregistration, so the roster is cleaned here.
func reapStaleWorkers(q *queue.Queue) {
	ctx := context.Background()
	workers, err := q.Store.ListWorkers(ctx)
	if err != nil {
		return
	}
	for _, w := range workers {
		if !engine.Alive(w.PID) {
			_ = q.Store.UnregisterWorker(ctx, w.ID)
		}
	}
}
