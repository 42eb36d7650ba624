package model

import "time"

// Job statuses. A job moves pending → done or pending → failed; failed jobs
// are kept for inspection but never retried automatically.
const (
	JobStatusPending = "pending"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// Job is a unit of background work persisted in the jobs table.
//
// Payload is an opaque JSON document interpreted by the handler registered
// for Kind. Keeping jobs in the same SQLite database as the rest of the data
// makes the queue durable across restarts without a second datastore.
type Job struct {
	ID          string     `db:"id"`
	Kind        string     `db:"kind"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	Error       string     `db:"error"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
