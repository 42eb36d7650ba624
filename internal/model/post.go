package model

import "time"

// Post represents a blog post owned by a single user.
//
// UserID is set once at creation to the authenticated creator and is never
// reassigned afterwards. Only the owner may update or delete the post —
// that rule lives in the policy package, not here.
type Post struct {
	ID        string    `json:"id"         db:"id"`
	Title     string    `json:"title"      db:"title"`
	Content   string    `json:"content"    db:"content"`
	UserID    string    `json:"user_id"    db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
