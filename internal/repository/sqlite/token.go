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

// Compile-time check that *TokenStore implements repository.TokenRepository.
var _ repository.TokenRepository = (*TokenStore)(nil)

// TokenStore implements repository.TokenRepository on the shared database.
//
// Rows hold only SHA-256 digests of issued bearer tokens. A database leak
// therefore does not leak usable credentials — the digest cannot be
// presented as a token.
type TokenStore struct {
	conn *sql.DB
}

// Tokens returns the token store backed by this database.
func (db *DB) Tokens() *TokenStore {
	return &TokenStore{conn: db.conn}
}

// Create records a freshly issued token digest for a user.
func (s *TokenStore) Create(ctx context.Context, token *model.Token) error {
	token.ID = xid.New().String()
	token.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO tokens (id, user_id, token_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating token: %w", err)
	}

	return nil
}

// GetByHash looks up a token record by its digest. Bearer authentication
// hashes the presented credential and calls this; apperror.ErrNotFound
// means the token was never issued or has been revoked.
func (s *TokenStore) GetByHash(ctx context.Context, hash string) (*model.Token, error) {
	var token model.Token

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, created_at
		 FROM tokens
		 WHERE token_hash = ?`,
		hash,
	).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Token")
		}
		return nil, fmt.Errorf("sqlite: getting token: %w", err)
	}

	return &token, nil
}

// DeleteByUser revokes every outstanding token for a user. Logout calls
// this: after it returns, no previously issued token authenticates.
func (s *TokenStore) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("sqlite: revoking tokens for user %s: %w", userID, err)
	}
	return nil
}
