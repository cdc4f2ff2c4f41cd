package middleware

import (
	"context"
	"net/http"
	"strings"

	"taskmate/internal/httputil"
	"taskmate/internal/model"
)

type contextKey string

const (
	// UserIDKey is the context key holding the authenticated user's ID.
	UserIDKey contextKey = "user_id"

	// TokenKey is the context key holding the presented raw token, needed
	// by logout to revoke exactly the token that authenticated the request.
	TokenKey contextKey = "token"
)

// TokenVerifier validates tokens on protected routes. Both layers must
// pass: signature verification and the active-token ledger check.
type TokenVerifier interface {
	Verify(tokenString string) (*model.TokenClaims, error)
	IsActive(ctx context.Context, userID int64, tokenString string) (bool, error)
}

// Auth gates protected routes behind bearer token authentication.
// Missing or malformed headers get 401; tokens that fail signature
// verification or have been revoked get 403.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteUnauthorized(w, "Token required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				httputil.WriteUnauthorized(w, "Invalid authorization header")
				return
			}
			tokenString := parts[1]

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				httputil.WriteForbidden(w, "Invalid token")
				return
			}

			active, err := verifier.IsActive(r.Context(), claims.UserID, tokenString)
			if err != nil {
				httputil.WriteInternalError(w, "Failed to validate token")
				return
			}
			if !active {
				httputil.WriteForbidden(w, "Token revoked, please login again")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, TokenKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user's ID from the request context.
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetToken extracts the presented raw token from the request context.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
