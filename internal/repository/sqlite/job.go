package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/model"
	"github.com/sakif/juicebox/internal/repository"
)

// Compile-time check that *JobStore implements repository.JobRepository.
var _ repository.JobRepository = (*JobStore)(nil)

// JobStore implements the durable work queue on the jobs table.
//
// The queue only needs single-consumer semantics: one worker goroutine in
// the same process drains it, so NextPending does not have to lock rows
// against competing workers.
type JobStore struct {
	conn *sql.DB
}

// Jobs returns the job store backed by this database.
func (db *DB) Jobs() *JobStore {
	return &JobStore{conn: db.conn}
}

// Enqueue persists a new pending job. Once this commits, the job survives a
// process restart — that is the "durable" in durable queue.
func (s *JobStore) Enqueue(ctx context.Context, job *model.Job) error {
	job.ID = xid.New().String()
	job.Status = model.JobStatusPending
	job.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO jobs (id, kind, payload, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		job.ID,
		job.Kind,
		job.Payload,
		job.Status,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: enqueueing %s job: %w", job.Kind, err)
	}

	return nil
}

// NextPending returns the oldest pending job, or apperror.ErrNotFound when
// the queue is empty.
func (s *JobStore) NextPending(ctx context.Context) (*model.Job, error) {
	var job model.Job
	var processedAt sql.NullTime

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, kind, payload, status, error, created_at, processed_at
		 FROM jobs
		 WHERE status = ?
		 ORDER BY created_at ASC, id ASC
		 LIMIT 1`,
		model.JobStatusPending,
	).Scan(
		&job.ID,
		&job.Kind,
		&job.Payload,
		&job.Status,
		&job.Error,
		&job.CreatedAt,
		&processedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Job")
		}
		return nil, fmt.Errorf("sqlite: fetching pending job: %w", err)
	}

	if processedAt.Valid {
		job.ProcessedAt = &processedAt.Time
	}

	return &job, nil
}

// MarkDone records a successful run.
func (s *JobStore) MarkDone(ctx context.Context, id string) error {
	return s.finish(ctx, id, model.JobStatusDone, "")
}

// MarkFailed records a terminal failure. Failed jobs are never retried;
// the error detail is kept for operators to inspect.
func (s *JobStore) MarkFailed(ctx context.Context, id string, detail string) error {
	return s.finish(ctx, id, model.JobStatusFailed, detail)
}

func (s *JobStore) finish(ctx context.Context, id, status, detail string) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, processed_at = ? WHERE id = ?`,
		status,
		detail,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: marking job %s %s: %w", id, status, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking job %s update: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("Job")
	}

	return nil
}
