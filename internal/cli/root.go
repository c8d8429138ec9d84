package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "queuectl",
		Short:         "CLI-based background job queue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return cmd
}
