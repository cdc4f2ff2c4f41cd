package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskmate/internal/model"
	"taskmate/internal/repository"
)

// TokenService issues and verifies signed tokens and keeps the server-side
// ledger of active tokens. Both checks must pass for a request to proceed:
// the signature must verify AND the ledger row must still exist. Logout
// deletes the row, so even an unexpired token dies immediately.
type TokenService struct {
	tokens repository.AuthTokenRepository
	secret []byte
	maxAge time.Duration
	parser *jwt.Parser
}

// NewTokenService creates a new TokenService.
// maxAge is the signature expiry window in seconds.
func NewTokenService(tokens repository.AuthTokenRepository, secret string, maxAge int) *TokenService {
	return &TokenService{
		tokens: tokens,
		secret: []byte(secret),
		maxAge: time.Duration(maxAge) * time.Second,
		// Expiry is deliberately not enforced at parse time. The ledger is
		// the authority on whether a token is still live.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Issue signs a new token for the user and records it in the ledger.
func (s *TokenService) Issue(ctx context.Context, user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.maxAge).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.tokens.Create(ctx, user.ID, signed); err != nil {
		return "", fmt.Errorf("record active token: %w", err)
	}

	log.Printf("[Token] Issued: user=%d", user.ID)
	return signed, nil
}

// Verify checks the token's signature and extracts its claims.
// It does NOT consult the ledger; use IsActive for that.
func (s *TokenService) Verify(tokenString string) (*model.TokenClaims, error) {
	token, err := s.parser.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, model.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	userIDFloat, ok := mapClaims["user_id"].(float64)
	if !ok {
		return nil, model.ErrInvalidToken
	}
	email, _ := mapClaims["email"].(string)

	return &model.TokenClaims{
		UserID: int64(userIDFloat),
		Email:  email,
	}, nil
}

// IsActive reports whether the token is still in the active ledger.
func (s *TokenService) IsActive(ctx context.Context, userID int64, tokenString string) (bool, error) {
	exists, err := s.tokens.Exists(ctx, userID, tokenString)
	if err != nil {
		return false, fmt.Errorf("check active token: %w", err)
	}
	return exists, nil
}

// Revoke removes a single token from the ledger.
func (s *TokenService) Revoke(ctx context.Context, userID int64, tokenString string) error {
	if err := s.tokens.Delete(ctx, userID, tokenString); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	log.Printf("[Token] Revoked: user=%d", userID)
	return nil
}

// RevokeAllForUser removes every active token for a user.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID int64) error {
	if err := s.tokens.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}
	log.Printf("[Token] Revoked all: user=%d", userID)
	return nil
}
