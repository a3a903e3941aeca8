package api

import (
	"errors"
	"net/http"
	"strings"

	"chatbot-admin/internal/auth"
	"chatbot-admin/pkg/httputil"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// --- JWT Middleware ---

// JwtAuthMiddleware verifies the bearer token from the Authorization header.
// If valid, it injects the user id and verification flag into the request context.
func JwtAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug().Msg("missing Authorization header")
				httputil.RespondError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				logger.Debug().Msg("malformed Authorization header")
				httputil.RespondError(w, http.StatusUnauthorized, "Malformed Authorization header (Expected: Bearer <token>)")
				return
			}

			claims, err := auth.ParseAccessToken(parts[1], jwtSecret)
			if err != nil {
				logger.Debug().Err(err).Msg("rejecting token")
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					httputil.RespondError(w, http.StatusUnauthorized, "Token has expired")
				case errors.Is(err, jwt.ErrTokenMalformed):
					httputil.RespondError(w, http.StatusUnauthorized, "Malformed token")
				default:
					httputil.RespondError(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			if claims.UserID == 0 {
				logger.Warn().Msg("valid token without a user id")
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid token claims (missing user id)")
				return
			}

			ctx := auth.WithIdentity(r.Context(), claims.UserID, claims.EmailVerified)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireVerified rejects users whose email address has not been confirmed.
// It must run after JwtAuthMiddleware.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsEmailVerified(r.Context()) {
			httputil.RespondError(w, http.StatusForbidden, "Your email address is not verified.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
