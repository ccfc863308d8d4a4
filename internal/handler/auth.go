package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/forgo/jobboard/internal/authz"
	"github.com/forgo/jobboard/internal/model"
	"github.com/forgo/jobboard/internal/service"
)

// AuthAPI is the part of service.AuthService used by AuthHandler
type AuthAPI interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*service.AuthResult, error)
	Login(ctx context.Context, req *model.LoginRequest) (*service.AuthResult, error)
	IsUserUnique(ctx context.Context, username string) (bool, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthAPI
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthAPI) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes mounts the auth endpoints. public wraps the anonymous
// endpoints and auth the ones that need a caller.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, public, auth func(http.Handler) http.Handler) {
	mux.Handle("POST /v1/auth/register", public(http.HandlerFunc(h.Register)))
	mux.Handle("POST /v1/auth/login", public(http.HandlerFunc(h.Login)))
	mux.Handle("GET /v1/auth/username-available", public(http.HandlerFunc(h.UsernameAvailable)))
	mux.Handle("GET /v1/auth/me", auth(http.HandlerFunc(h.Me)))
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError(decodeErrorDetail(err)))
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, "register", err)
		return
	}

	WriteData(w, http.StatusCreated, result, map[string]string{
		"self": "/v1/auth/me",
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError(decodeErrorDetail(err)))
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	WriteData(w, http.StatusOK, result, map[string]string{
		"self": "/v1/auth/me",
	})
}

// UsernameAvailabilityResponse is returned by UsernameAvailable
type UsernameAvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// UsernameAvailable handles GET /v1/auth/username-available?username=
func (h *AuthHandler) UsernameAvailable(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "username", Message: "This field is required"},
		}))
		return
	}

	unique, err := h.authService.IsUserUnique(r.Context(), username)
	if err != nil {
		writeServiceError(w, r, "username availability", err)
		return
	}

	WriteData(w, http.StatusOK, UsernameAvailabilityResponse{
		Username:  username,
		Available: unique,
	}, nil)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := authz.FromContext(r.Context())
	if !caller.Authenticated() {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), caller.UserID)
	if err != nil {
		writeServiceError(w, r, "get current user", err)
		return
	}

	WriteData(w, http.StatusOK, user, nil)
}
