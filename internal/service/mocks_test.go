package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/model"
	"github.com/sakif/juicebox/internal/repository"
)

// testLogger discards output; tests assert behaviour, not log lines.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockPostRepo is an in-memory repository.PostRepository preserving
// insertion order, like the real store's creation-order listing.
type mockPostRepo struct {
	posts  []model.Post
	nextID int

	// createErr, when set, is returned by Create to simulate store failure.
	createErr error
}

var _ repository.PostRepository = (*mockPostRepo)(nil)

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	post.ID = fmt.Sprintf("post-%d", m.nextID)
	post.CreatedAt = time.Now().UTC()
	m.posts = append(m.posts, *post)
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	for i := range m.posts {
		if m.posts[i].ID == id {
			p := m.posts[i]
			return &p, nil
		}
	}
	return nil, apperror.NotFound("Post")
}

func (m *mockPostRepo) List(_ context.Context, opts repository.ListOptions) ([]model.Post, error) {
	if opts.Offset >= len(m.posts) {
		return []model.Post{}, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(m.posts) {
		end = len(m.posts)
	}
	out := make([]model.Post, end-opts.Offset)
	copy(out, m.posts[opts.Offset:end])
	return out, nil
}

func (m *mockPostRepo) Count(_ context.Context) (int, error) {
	return len(m.posts), nil
}

func (m *mockPostRepo) Update(_ context.Context, post *model.Post) error {
	for i := range m.posts {
		if m.posts[i].ID == post.ID {
			m.posts[i] = *post
			return nil
		}
	}
	return apperror.NotFound("Post")
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	for i := range m.posts {
		if m.posts[i].ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("Post")
}

// mockUserRepo is an in-memory repository.UserRepository.
type mockUserRepo struct {
	users  []model.User
	nextID int
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for i := range m.users {
		if m.users[i].Email == user.Email {
			return apperror.ValidationFailed("email", "The email has already been taken.")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now().UTC()
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (m *mockUserRepo) List(_ context.Context, opts repository.ListOptions) ([]model.User, error) {
	if opts.Offset >= len(m.users) {
		return []model.User{}, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(m.users) {
		end = len(m.users)
	}
	out := make([]model.User, end-opts.Offset)
	copy(out, m.users[opts.Offset:end])
	return out, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int, error) {
	return len(m.users), nil
}

// mockTokenRepo backs auth.TokenService in service tests.
type mockTokenRepo struct {
	byHash map[string]*model.Token
}

var _ repository.TokenRepository = (*mockTokenRepo)(nil)

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{byHash: make(map[string]*model.Token)}
}

func (m *mockTokenRepo) Create(_ context.Context, token *model.Token) error {
	m.byHash[token.TokenHash] = token
	return nil
}

func (m *mockTokenRepo) GetByHash(_ context.Context, hash string) (*model.Token, error) {
	token, ok := m.byHash[hash]
	if !ok {
		return nil, apperror.NotFound("Token")
	}
	return token, nil
}

func (m *mockTokenRepo) DeleteByUser(_ context.Context, userID string) error {
	for hash, token := range m.byHash {
		if token.UserID == userID {
			delete(m.byHash, hash)
		}
	}
	return nil
}

// enqueued records one Enqueue call.
type enqueued struct {
	kind    string
	payload any
}

// recordQueue captures enqueued jobs without running them.
type recordQueue struct {
	jobs []enqueued

	// err, when set, makes Enqueue fail.
	err error
}

func (q *recordQueue) Enqueue(_ context.Context, kind string, payload any) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, enqueued{kind: kind, payload: payload})
	return nil
}
