package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/model"
	"github.com/sakif/juicebox/internal/repository"
)

// jobTimeout bounds a single handler run so one stuck job cannot stall the
// queue forever.
const jobTimeout = time.Minute

// HandlerFunc processes one job payload. A non-nil error marks the job
// failed; there is no retry.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Worker drains the pending jobs in order, dispatching each to the handler
// registered for its kind.
//
// One worker goroutine per process is the intended deployment; the store's
// NextPending relies on it.
type Worker struct {
	repo     repository.JobRepository
	handlers map[string]HandlerFunc
	interval time.Duration
	logger   *slog.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
}

// NewWorker creates a Worker polling at the given interval.
func NewWorker(repo repository.JobRepository, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Worker{
		repo:     repo,
		handlers: make(map[string]HandlerFunc),
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Register binds a handler to a job kind. Call before Start; the handler
// map is not mutated afterwards, so no locking is needed.
func (w *Worker) Register(kind string, fn HandlerFunc) {
	w.handlers[kind] = fn
}

// Start launches the polling loop in the background.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		w.logger.Info("job worker starting", slog.Duration("interval", w.interval))
		w.wg.Add(1)
		go w.run()
	})
}

// Stop shuts the worker down and waits for an in-flight job to finish.
func (w *Worker) Stop() {
	close(w.done)
	w.wg.Wait()
	w.logger.Info("job worker stopped")
}

// run drains everything pending, then sleeps for one interval, until Stop.
func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.drain()

		select {
		case <-w.done:
			return
		case <-ticker.C:
		}
	}
}

// drain processes pending jobs until the queue is empty or Stop is called.
func (w *Worker) drain() {
	for {
		select {
		case <-w.done:
			return
		default:
		}

		job, err := w.repo.NextPending(context.Background())
		if err != nil {
			if !errors.Is(err, apperror.ErrNotFound) {
				w.logger.Error("failed to poll job queue", slog.String("error", err.Error()))
			}
			return
		}

		w.process(job)
	}
}

// process runs a single job and records the outcome. Handler failures are
// terminal for the job: logged, marked failed, not retried.
func (w *Worker) process(job *model.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	fn, ok := w.handlers[job.Kind]
	if !ok {
		w.logger.Error("no handler registered for job",
			slog.String("id", job.ID),
			slog.String("kind", job.Kind),
		)
		w.markFailed(ctx, job, "no handler registered for kind "+job.Kind)
		return
	}

	if err := fn(ctx, job.Payload); err != nil {
		w.logger.Error("job failed",
			slog.String("id", job.ID),
			slog.String("kind", job.Kind),
			slog.String("error", err.Error()),
		)
		w.markFailed(ctx, job, err.Error())
		return
	}

	if err := w.repo.MarkDone(ctx, job.ID); err != nil {
		w.logger.Error("failed to mark job done",
			slog.String("id", job.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	w.logger.Info("job completed",
		slog.String("id", job.ID),
		slog.String("kind", job.Kind),
	)
}

func (w *Worker) markFailed(ctx context.Context, job *model.Job, detail string) {
	if err := w.repo.MarkFailed(ctx, job.ID, detail); err != nil {
		w.logger.Error("failed to mark job failed",
			slog.String("id", job.ID),
			slog.String("error", err.Error()),
		)
	}
}
