package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Unknownaod/opslinkOS/internal/middleware"
	"github.com/Unknownaod/opslinkOS/internal/models"
	"github.com/Unknownaod/opslinkOS/internal/service"
	"github.com/Unknownaod/opslinkOS/internal/validation"
)

// StatusMessage is the body reported by the root health endpoint.
const StatusMessage = "OpsLink Auth API online"

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /auth/login. Identifier may be a
// username or an email; username is accepted as a legacy alias.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Username
	}

	result, err := h.svc.Login(r.Context(), identifier, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Status reports service liveness
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": StatusMessage})
}

// Me returns the public identity carried by the caller's bearer token
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.errorJSON(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"uid":      claims.UID.String(),
		"username": claims.Username,
		"email":    claims.Email,
	})
}

// writeError maps the service error taxonomy onto HTTP statuses and the
// canonical client-facing messages. The internal error values follow the
// lowercase Go convention; the wire keeps the API's original wording.
// Anything outside the taxonomy is logged and answered with a generic 500
// so that no internal detail reaches the client.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validation.ErrMissingFields):
		h.errorJSON(w, http.StatusBadRequest, "All fields are required")
	case errors.Is(err, validation.ErrInvalidUsernameLength):
		h.errorJSON(w, http.StatusBadRequest, "Invalid username length")
	case errors.Is(err, validation.ErrInvalidEmail):
		h.errorJSON(w, http.StatusBadRequest, "Invalid email address")
	case errors.Is(err, validation.ErrPasswordTooShort):
		h.errorJSON(w, http.StatusBadRequest, "Password must be at least 8 characters")
	case errors.Is(err, validation.ErrMissingCredentials):
		h.errorJSON(w, http.StatusBadRequest, "Missing credentials")
	case errors.Is(err, models.ErrDuplicateUsername):
		h.errorJSON(w, http.StatusConflict, "Username already exists")
	case errors.Is(err, models.ErrDuplicateEmail):
		h.errorJSON(w, http.StatusConflict, "Email already exists")
	case errors.Is(err, models.ErrDuplicate):
		h.errorJSON(w, http.StatusConflict, "Username or email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.errorJSON(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.log.Errorf("Unhandled error: %v", err)
		h.errorJSON(w, http.StatusInternalServerError, "Server error")
	}
}

func (h *Handler) errorJSON(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}
