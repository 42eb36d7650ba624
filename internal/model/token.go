package model

import "time"

// Token is a server-side record of an issued bearer credential.
//
// Only the SHA-256 digest of the opaque token string is stored. The
// plaintext is shown to the client exactly once, at login. Deleting a row
// revokes the credential; logout deletes every row for a user.
type Token struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	CreatedAt time.Time `db:"created_at"`
}
