package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"queuectl/internal/queue"
)

// MaxRetries is a pointer so an omitted field and an explicit 0 stay
// distinguishable; only the former takes the configured default.
type jobSpec struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	MaxRetries *int   `json:"max_retries"`
}

func NewEnqueueCmd(q *queue.Queue) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue '{\"id\":\"job1\",\"command\":\"sleep 2\"}'",
		Short: "Add a job to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var spec jobSpec
			if err := json.Unmarshal([]byte(args[0]), &spec); err != nil {
				return fmt.Errorf("invalid job json: %w", err)
			}

			j, err := q.Enqueue(context.Background(), spec.Command, spec.ID, spec.MaxRetries)
			if err != nil {
				return err
			}

			out, _ := json.MarshalIndent(j, "", "  ")
			fmt.Println("Job enqueued:", j.ID)
			fmt.Println(string(out))
			return nil
		},
	}
	return cmd
}
