package handlers

import (
	"context"
	"net/http"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/validation"
	"chatbot-admin/pkg/httputil"
)

// AuthService defines the interface expected from the auth service.
type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, string, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) (*models.UserResponse, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authSvc AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authSvc,
	}
}

// HandleSignup handles the POST /auth/signup request.
// The verification token is delivered out of band, never in the response.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, _, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "sign up")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles the POST /auth/login request.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "log in")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleVerifyEmail handles the POST /auth/verify-email request.
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req, nil); err != nil {
		respondServiceError(w, r, err, "verify email")
		return
	}

	user, err := h.authService.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		respondServiceError(w, r, err, "verify email")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, user)
}
