// Package jobs runs background work over Asynq: password reset delivery
// and the nightly activity retention sweep.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const workerConcurrency = 5

// CronRegistration binds a cron expression to a prepared task. Expressions
// are evaluated in UTC.
type CronRegistration struct {
	Spec    string
	Task    *asynq.Task
	Options []asynq.Option
}

// WorkerConfig collects everything the worker process needs at startup.
// Handlers maps task types to their processors; the reset mail handler is
// always registered.
type WorkerConfig struct {
	RedisOpts asynq.RedisClientOpt
	Logger    *slog.Logger
	Handlers  map[string]asynq.HandlerFunc
	Cron      []CronRegistration
}

// Worker owns the Asynq server and, when cron entries exist, a scheduler.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

// NewWorker builds the worker, registering the built-in handlers plus any
// injected ones.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeResetEmail, HandleResetEmailTask)
	for taskType, fn := range cfg.Handlers {
		if taskType == "" || fn == nil {
			continue
		}
		mux.HandleFunc(taskType, fn)
	}

	w := &Worker{
		server: asynq.NewServer(cfg.RedisOpts, asynq.Config{
			Concurrency: workerConcurrency,
			Queues:      map[string]int{QueueDefault: 1},
		}),
		mux:    mux,
		logger: cfg.Logger,
	}

	if len(cfg.Cron) == 0 {
		return w, nil
	}
	w.scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	for _, entry := range cfg.Cron {
		if entry.Spec == "" || entry.Task == nil {
			continue
		}
		if _, err := w.scheduler.Register(entry.Spec, entry.Task, entry.Options...); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Run processes jobs until the context is cancelled or the server fails.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("jobs: worker not configured")
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
		defer w.scheduler.Shutdown()
	}
	if w.logger != nil {
		w.logger.Info("worker started", slog.Int("concurrency", workerConcurrency))
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- w.server.Run(w.mux) }()

	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-serverErr:
		return err
	}
}
