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

// Compile-time check that *PostStore implements repository.PostRepository.
// If a method goes missing, the build breaks here instead of at a distant
// call site.
var _ repository.PostRepository = (*PostStore)(nil)

// PostStore implements repository.PostRepository on the shared database.
type PostStore struct {
	conn *sql.DB
}

// Posts returns the post store backed by this database.
func (db *DB) Posts() *PostStore {
	return &PostStore{conn: db.conn}
}

// Create inserts a new post. The post's ID and timestamps are generated
// here and written back through the pointer, so the caller gets the full
// record without a second query.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Content,
		post.UserID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetByID returns the post or apperror.ErrNotFound.
//
// sql.ErrNoRows is not really an error — it just means no matching row.
// We translate it into the domain's NotFound so the handler can map it to
// 404 without knowing anything about database/sql.
func (s *PostStore) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, content, user_id, created_at, updated_at
		 FROM posts
		 WHERE id = ?`,
		id,
	).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.UserID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Post")
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &post, nil
}

// List returns posts in creation order. xid IDs are time-sortable, so the
// (created_at, id) ordering is stable even for posts created within the
// same timestamp granularity.
func (s *PostStore) List(ctx context.Context, opts repository.ListOptions) ([]model.Post, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, content, user_id, created_at, updated_at
		 FROM posts
		 ORDER BY created_at ASC, id ASC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0, limit)
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.UserID,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating post rows: %w", err)
	}

	return posts, nil
}

// Count returns the total number of posts, used for the pagination envelope.
func (s *PostStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting posts: %w", err)
	}
	return count, nil
}

// Update rewrites title and content. The owner column is deliberately left
// out of the SET list — ownership is immutable after creation.
func (s *PostStore) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now().UTC()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		post.Title,
		post.Content,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of post %s: %w", post.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("Post")
	}

	return nil
}

// Delete permanently removes the post. There is no soft-delete: a deleted
// post is gone.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of post %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("Post")
	}

	return nil
}
