// Package repository declares the storage interfaces consumed by the service
// layer. Concrete implementations live in subpackages (sqlite); services
// only ever see these interfaces, which is what makes them testable with
// in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/juicebox/internal/model"
)

// ListOptions controls pagination for listing queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// PostRepository persists blog posts.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, opts ListOptions) ([]model.Post, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
}

// UserRepository persists user accounts.
//
// GetByEmail returns apperror.ErrNotFound when no account matches — login
// treats that the same as a wrong password.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
	Count(ctx context.Context) (int, error)
}

// TokenRepository persists bearer-token digests.
type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	GetByHash(ctx context.Context, hash string) (*model.Token, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// JobRepository persists background jobs for the durable work queue.
//
// NextPending returns the oldest pending job, or apperror.ErrNotFound when
// the queue is empty.
type JobRepository interface {
	Enqueue(ctx context.Context, job *model.Job) error
	NextPending(ctx context.Context) (*model.Job, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, detail string) error
}
