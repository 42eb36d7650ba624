// Package jobs implements background work: a durable work queue backed by
// the jobs table, a polling worker that drains it, and a time-based
// scheduler for the periodic weather refresh.
//
// DELIVERY SEMANTICS:
// Enqueue commits the job to the database before the HTTP response goes
// out, so an accepted job survives a crash (at-least-one-attempt). A job
// that fails is marked failed and logged — never retried, never surfaced to
// the HTTP caller that enqueued it.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sakif/juicebox/internal/model"
	"github.com/sakif/juicebox/internal/repository"
)

// Queue is the enqueue side of the work queue. Services depend on this
// interface only — they never see the worker.
type Queue interface {
	Enqueue(ctx context.Context, kind string, payload any) error
}

// SQLQueue persists jobs through a JobRepository.
type SQLQueue struct {
	repo repository.JobRepository
}

// NewQueue creates the durable queue over the given job store.
func NewQueue(repo repository.JobRepository) *SQLQueue {
	return &SQLQueue{repo: repo}
}

var _ Queue = (*SQLQueue)(nil)

// Enqueue marshals payload to JSON and persists a pending job of the given
// kind. The job becomes visible to the worker on its next poll.
func (q *SQLQueue) Enqueue(ctx context.Context, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("jobs: marshaling %s payload: %w", kind, err)
	}

	job := &model.Job{
		Kind:    kind,
		Payload: body,
	}
	if err := q.repo.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("jobs: enqueueing %s: %w", kind, err)
	}

	return nil
}
