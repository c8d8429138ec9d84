package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"queuectl/internal/store"
)

func NewConfigGetCmd(st *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Get a config value, or all values when no key is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if len(args) == 0 {
				all, err := st.AllConfig(ctx)
				if err != nil {
					return err
				}
				out, _ := json.MarshalIndent(all, "", "  ")
				fmt.Println(string(out))
				return nil
			}

			val, err := st.GetConfig(ctx, args[0])
			if err != nil {
				return err
			}
			if val == "" {
				fmt.Println("(not set)")
			} else {
				fmt.Println(val)
			}
			return nil
		},
	}
}
