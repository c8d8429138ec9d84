package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"queuectl/internal/cli"
	"queuectl/internal/config"
	"queuectl/internal/queue"
	"queuectl/internal/store"
)

func dataDir() string {
	if dir := os.Getenv("QUEUECTL_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".queuectl"
	}
	return filepath.Join(home, ".queuectl")
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	dir := dataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	st, err := store.NewStore(filepath.Join(dir, "queue.db"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer st.Close()

	cfg := config.Load(context.Background(), st)
	q := queue.New(st, cfg)

	root := cli.NewRootCmd()
	root.AddCommand(
		cli.NewEnqueueCmd(q),
		cli.NewListCmd(q),
		cli.NewStatusCmd(q),
		cli.NewResetCmd(st),
	)

	workerCmd := cli.NewWorkerRootCmd()
	workerCmd.AddCommand(cli.NewWorkerStartCmd(q), cli.NewWorkerStopCmd(q))
	root.AddCommand(workerCmd)

	dlqCmd := cli.NewDLQRootCmd()
	dlqCmd.AddCommand(cli.NewDLQListCmd(q), cli.NewDLQRetryCmd(q))
	root.AddCommand(dlqCmd)

	configCmd := cli.NewConfigRootCmd()
	configCmd.AddCommand(cli.NewConfigGetCmd(st), cli.NewConfigSetCmd(st))
	root.AddCommand(configCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
