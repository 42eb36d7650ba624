// Package policy contains the authorization rules.
//
// Rules are pure functions over (caller identity, resource) — no database,
// no HTTP, no roles, no delegation. A post may be mutated only by the user
// recorded as its owner at creation.
package policy

import "github.com/sakif/juicebox/internal/model"

// CanUpdate reports whether userID may update the post.
func CanUpdate(userID string, post *model.Post) bool {
	return isOwner(userID, post)
}

// CanDelete reports whether userID may delete the post.
func CanDelete(userID string, post *model.Post) bool {
	return isOwner(userID, post)
}

func isOwner(userID string, post *model.Post) bool {
	return userID != "" && post != nil && userID == post.UserID
}
