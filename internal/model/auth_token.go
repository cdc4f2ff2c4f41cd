package model

import (
	"errors"
	"time"
)

// AuthToken is a ledger row in active_tokens. A signed token is only honored
// while its ledger row exists, which is what makes logout effective despite
// the long signature expiry.
type AuthToken struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TokenClaims is the verified payload embedded in a signed token.
type TokenClaims struct {
	UserID int64
	Email  string
}

var (
	// ErrInvalidToken is returned when a token's signature or format is wrong
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenRevoked is returned when a signature-valid token has no ledger row
	ErrTokenRevoked = errors.New("token revoked")
)
