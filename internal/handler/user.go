package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/juicebox/internal/apperror"
	"github.com/sakif/juicebox/internal/auth"
	"github.com/sakif/juicebox/internal/service"
)

// UserHandler serves registration, login/logout, and user lookups.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// registerRequest is the body of POST /api/register. The confirmation field
// uses the snake_case name clients already send.
type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// loginRequest is the body of POST /api/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/register
//
// The welcome notification is enqueued inside the service; by the time this
// responds 201 the job is durable, but delivery happens later and its
// outcome never reaches this response.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.BadRequest("Invalid JSON body."))
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.PasswordConfirmation)
	if err != nil {
		if isDomainError(err) {
			writeError(w, err)
			return
		}
		// Do not leak persistence detail on the registration path — it may
		// reference the email column contents.
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "An error occurred during registration. Please try again.",
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleLogin verifies credentials and returns a fresh bearer token.
//
// HTTP: POST /api/login
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.BadRequest("Invalid JSON body."))
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleLogout revokes every token belonging to the caller.
//
// HTTP: POST /api/logout (bearer)
func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	if err := h.users.Logout(r.Context(), callerID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// HandleGet returns a single user. The password hash is excluded by the
// model's json tags, so the serialization here is safe by construction.
//
// HTTP: GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleList returns one page of users.
//
// HTTP: GET /api/users?page=N
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.users.List(r.Context(), pageParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
