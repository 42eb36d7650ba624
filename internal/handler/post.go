// Package handler contains the HTTP layer: request parsing, response
// shaping, nothing else. Business rules live in the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/auth"
	"github.com/sakif/juicebox/internal/service"
)

// PostHandler serves the /api/posts endpoints.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// createPostRequest is the body of POST /api/posts.
type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// updatePostRequest is the body of PATCH /api/posts/{id}. Pointer fields
// distinguish "absent" (leave unchanged) from "present but empty"
// (validation error) — that is what makes the update partial.
type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// postResponse wraps a mutated post with its confirmation message.
type postResponse struct {
	Message string `json:"message"`
	Post    any    `json:"post"`
}

// HandleList returns one page of posts.
//
// HTTP: GET /api/posts?page=N
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	result, err := h.posts.List(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleGet returns a single post.
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCreate creates a post owned by the authenticated caller.
//
// HTTP: POST /api/posts (bearer)
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.BadRequest("Invalid JSON body."))
		return
	}

	post, err := h.posts.Create(r.Context(), callerID, req.Title, req.Content)
	if err != nil {
		if isDomainError(err) {
			writeError(w, err)
			return
		}
		writeInternal(w, "An error occurred while creating the post.", err)
		return
	}

	writeJSON(w, http.StatusCreated, postResponse{
		Message: "Post created successfully",
		Post:    post,
	})
}

// HandleUpdate applies a partial update to a post the caller owns.
//
// HTTP: PATCH /api/posts/{id} (bearer + owner)
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.BadRequest("Invalid JSON body."))
		return
	}

	post, err := h.posts.Update(r.Context(), callerID, r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		if isDomainError(err) {
			writeError(w, err)
			return
		}
		writeInternal(w, "An error occurred while updating the post.", err)
		return
	}

	writeJSON(w, http.StatusOK, postResponse{
		Message: "Post updated successfully",
		Post:    post,
	})
}

// HandleDelete permanently removes a post the caller owns.
//
// HTTP: DELETE /api/posts/{id} (bearer + owner)
//
// Deletion responds 200 with a confirmation body. (A 204 cannot carry a
// body, and the confirmation message is part of the API contract.)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	if err := h.posts.Delete(r.Context(), callerID, r.PathValue("id")); err != nil {
		if isDomainError(err) {
			writeError(w, err)
			return
		}
		writeInternal(w, "An error occurred while deleting the post.", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	})
}

// pageParam parses ?page=, defaulting to 1 on absence or garbage.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// isDomainError reports whether err carries one of the apperror sentinels,
// i.e. it already has a well-defined status mapping. Anything else is an
// unexpected fault that gets the endpoint's own 500 headline.
func isDomainError(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr)
}
