// Token issuance and validation for bearer authentication.
//
// WHY OPAQUE TOKENS INSTEAD OF JWTs?
// Logout must revoke every outstanding credential for a user, immediately.
// A stateless signed token cannot be un-issued — you would need a
// server-side denylist consulted on every request, at which point the
// "stateless" part has evaporated. So tokens here are plain random strings:
// the server stores a SHA-256 digest per issued token, authentication is a
// digest lookup, and revocation is deleting rows.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/model"
	"github.com/sakif/juicebox/internal/repository"
)

// tokenBytes is the entropy of an issued token: 32 random bytes, hex-encoded
// to a 64-character credential. Unguessable by brute force.
const tokenBytes = 32

// TokenService issues, validates, and revokes opaque bearer tokens.
type TokenService struct {
	tokens repository.TokenRepository
}

// NewTokenService creates a TokenService over the given token store.
func NewTokenService(tokens repository.TokenRepository) *TokenService {
	return &TokenService{tokens: tokens}
}

// Issue generates a fresh token for userID and persists its digest.
//
// The returned plaintext is handed to the client exactly once (the login
// response) and is never stored — only its SHA-256 digest is.
func (s *TokenService) Issue(ctx context.Context, userID string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating token: %w", err)
	}
	plaintext := hex.EncodeToString(buf)

	token := &model.Token{
		UserID:    userID,
		TokenHash: HashToken(plaintext),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return "", fmt.Errorf("auth: storing token: %w", err)
	}

	return plaintext, nil
}

// Validate hashes the presented credential, looks the digest up, and returns
// the owning user's ID. Unknown or revoked tokens come back as
// apperror.ErrUnauthorized — the caller cannot tell which.
func (s *TokenService) Validate(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", apperror.Unauthorized("Unauthorized")
	}

	token, err := s.tokens.GetByHash(ctx, HashToken(plaintext))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Unauthorized("Unauthorized")
		}
		return "", fmt.Errorf("auth: validating token: %w", err)
	}

	return token.UserID, nil
}

// RevokeAll deletes every outstanding token for userID. Used by logout:
// all sessions for the account end at once.
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	if err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("auth: revoking tokens: %w", err)
	}
	return nil
}

// HashToken returns the hex SHA-256 digest stored for a plaintext token.
// Exported so tests can assert on what lands in the database.
func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
