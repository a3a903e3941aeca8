package auth

import "context"

// WithIdentity returns a copy of ctx carrying the authenticated user.
func WithIdentity(ctx context.Context, userID int64, emailVerified bool) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, EmailVerifiedKey, emailVerified)
}

// GetUserIDFromContext retrieves the user id from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// IsEmailVerified reports whether the authenticated user has a verified email.
func IsEmailVerified(ctx context.Context) bool {
	verified, _ := ctx.Value(EmailVerifiedKey).(bool)
	return verified
}
