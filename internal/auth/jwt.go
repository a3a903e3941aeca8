package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "chatbot-admin"

	// Subject of tokens used to confirm an email address.
	SubjectVerifyEmail = "verify-email"
)

var ErrWrongTokenPurpose = errors.New("token was not issued for this purpose")

// contextKey is a custom type used for context keys to avoid collisions.
type contextKey string

const (
	UserIDKey        contextKey = "userID"
	EmailVerifiedKey contextKey = "emailVerified"
)

// CustomClaims are the claims carried by access tokens.
type CustomClaims struct {
	UserID        int64 `json:"user_id,string"`
	EmailVerified bool  `json:"email_verified"`
	jwt.RegisteredClaims
}

// VerificationClaims are the claims carried by email verification tokens.
type VerificationClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewAccessToken generates a signed HS256 access token.
func NewAccessToken(userID int64, emailVerified bool, jwtSecret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		UserID:        userID,
		EmailVerified: emailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
}

// ParseAccessToken validates a token string and returns its claims.
func ParseAccessToken(tokenString, jwtSecret string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(jwtSecret)); err != nil {
		return nil, err
	}
	if claims.Subject == SubjectVerifyEmail {
		return nil, ErrWrongTokenPurpose
	}
	return claims, nil
}

// NewVerificationToken issues a token that confirms ownership of email.
func NewVerificationToken(userID int64, email, jwtSecret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := VerificationClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   SubjectVerifyEmail,
			ID:        strconv.FormatInt(userID, 10),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
}

// ParseVerificationToken validates a verification token and returns the user id and email it was issued for.
func ParseVerificationToken(tokenString, jwtSecret string) (int64, string, error) {
	claims := &VerificationClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(jwtSecret)); err != nil {
		return 0, "", err
	}
	if claims.Subject != SubjectVerifyEmail {
		return 0, "", ErrWrongTokenPurpose
	}

	userID, err := strconv.ParseInt(claims.ID, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid token id: %w", err)
	}
	return userID, claims.Email, nil
}

func hmacKey(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}
}
