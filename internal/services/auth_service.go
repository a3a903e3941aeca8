package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatbot-admin/internal/auth"
	"chatbot-admin/internal/config"
	"chatbot-admin/internal/id"
	"chatbot-admin/internal/logging"
	"chatbot-admin/internal/models"
	"chatbot-admin/internal/store"
	"chatbot-admin/internal/validation"

	"github.com/rs/zerolog"
)

const verificationTokenTTL = 48 * time.Hour

var signupMessages = map[string]string{
	"email.required":    "Email is required.",
	"email.email":       "Email must be a valid email address.",
	"password.required": "Password is required.",
	"password.min":      "Password must be at least 8 characters.",
}

type AuthService struct {
	store  store.Store
	cfg    *config.Config
	logger zerolog.Logger
}

func NewAuthService(s store.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store:  s,
		cfg:    cfg,
		logger: logging.NewLogger("auth-service"),
	}
}

// Signup creates an unverified user and issues an email verification token.
// The token is logged for delivery and also returned to the caller.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, string, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validation.Struct(req, signupMessages); err != nil {
		return nil, "", err
	}

	_, err := s.store.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, "", ErrUserAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check user existence: %w", err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("hashing password")
		return nil, "", ErrHashingPassword
	}

	user, err := s.store.CreateUser(ctx, store.CreateUserParams{
		ID:             id.New(),
		Email:          req.Email,
		HashedPassword: hashedPassword,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.NewVerificationToken(user.ID, user.Email, s.cfg.JWTSecret, verificationTokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("creating verification token")
		return nil, "", ErrCreatingToken
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Str("verification_token", token).
		Msg("user signed up, verification pending")

	return &models.SignupResponse{
		User:                 mapUserToResponse(user),
		VerificationRequired: true,
	}, token, nil
}

// Login verifies user credentials and returns an access token and user info.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !auth.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(user.ID, user.IsVerified(), s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("creating access token")
		return nil, ErrCreatingToken
	}

	s.logger.Info().Int64("user_id", user.ID).Bool("verified", user.IsVerified()).Msg("user logged in")
	return &models.AuthResponse{
		AccessToken: token,
		User:        mapUserToResponse(user),
	}, nil
}

// VerifyEmail confirms the address a verification token was issued for.
// Verifying an already verified user is a no-op.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.UserResponse, error) {
	userID, email, err := auth.ParseVerificationToken(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVerificationToken, err)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidVerificationToken
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	// A token issued before an email change must not verify the new address.
	if !strings.EqualFold(user.Email, email) {
		return nil, ErrInvalidVerificationToken
	}

	return s.markVerified(ctx, user)
}

// VerifyUserByEmail marks a user verified without a token. Used by the operator CLI.
func (s *AuthService) VerifyUserByEmail(ctx context.Context, email string) (*models.UserResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return s.markVerified(ctx, user)
}

func (s *AuthService) markVerified(ctx context.Context, user *models.User) (*models.UserResponse, error) {
	if user.IsVerified() {
		resp := mapUserToResponse(user)
		return &resp, nil
	}

	updated, err := s.store.MarkUserVerified(ctx, user.ID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}

	s.logger.Info().Int64("user_id", updated.ID).Msg("email verified")
	resp := mapUserToResponse(updated)
	return &resp, nil
}
