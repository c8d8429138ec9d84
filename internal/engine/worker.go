package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"queuectl/internal/config"
	"queuectl/internal/model"
	"queuectl/internal/store"
)

// DefaultExecTimeout bounds a single command execution.
const DefaultExecTimeout = 300 * time.Second

type Worker struct {
	ID      string
	Store   *store.Store
	Cfg     config.Config
	Log     zerolog.Logger
	Shell   string
	Timeout time.Duration
}

func NewWorker(st *store.Store, cfg config.Config, log zerolog.Logger) *Worker {
	id := uuid.NewString()
	return &Worker{
		ID:      id,
		Store:   st,
		Cfg:     cfg,
		Log:     log.With().Str("worker", id).Logger(),
		Shell:   "sh",
		Timeout: DefaultExecTimeout,
	}
}

// Run is the worker loop: register, then claim/execute/persist until
// the context is canceled. The in-flight job always finishes before
// the loop exits; unregistration happens on every exit path.
func (w *Worker) Run(ctx context.Context) {
	if err := w.Store.RegisterWorker(context.Background(), w.ID, os.Getpid()); err != nil {
		w.Log.Error().Err(err).Msg("register worker")
		return
	}
	defer func() {
		if err := w.Store.UnregisterWorker(context.Background(), w.ID); err != nil {
			w.Log.Error().Err(err).Msg("unregister worker")
		}
		w.Log.Info().Msg("worker stopped")
	}()

	w.Log.Info().Int("pid", os.Getpid()).Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.Store.ClaimOne(ctx, time.Now().UTC())
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.Log.Error().Err(err).Msg("claim job")
			w.sleep(ctx, w.Cfg.PollInterval)
			continue
		}
		if job == nil {
			w.sleep(ctx, w.Cfg.PollInterval)
			continue
		}

		w.process(job)
	}
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// process executes a claimed job and applies the retry policy. The
// execution context is independent of the shutdown context so a
// graceful stop never abandons the running command.
func (w *Worker) process(job *model.Job) {
	log := w.Log.With().Str("job", job.ID).Logger()
	log.Info().Str("command", job.Command).Msg("processing job")

	ctx := context.Background()
	output, execErr := w.execute(job.Command)

	if execErr == nil {
		if err := w.Store.Complete(ctx, job.ID, output, time.Now().UTC()); err != nil {
			log.Error().Err(err).Msg("persist completion")
			return
		}
		log.Info().Msg("job completed")
		return
	}

	dead, err := w.Store.FailRetry(ctx, job, time.Now().UTC(), w.Cfg.BackoffBase, execErr)
	if err != nil {
		log.Error().Err(err).Msg("persist failure")
		return
	}
	if dead {
		log.Warn().Str("error", execErr.Error()).
			Int("attempts", job.Attempts).
			Msg("job moved to DLQ")
	} else {
		log.Warn().Str("error", execErr.Error()).
			Int("attempts", job.Attempts).Int("max_retries", job.MaxRetries).
			Time("retry_at", job.AvailableAt).
			Msg("job failed, retry scheduled")
	}
}

// execute runs the command through the shell with stdout and stderr
// captured, bounded by the worker's execution timeout. The returned
// error is the failure message recorded on the record.
func (w *Worker) execute(command string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, w.Shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return "", errors.New("Job timed out")
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := stderr.String(); msg != "" {
			return "", errors.New(msg)
		}
		return "", fmt.Errorf("Command exited with code %d", exitErr.ExitCode())
	}

	return "", err
}
