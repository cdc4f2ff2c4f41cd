package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type authTokenRepository struct {
	db *sqlx.DB
}

func NewAuthTokenRepository(db *sqlx.DB) AuthTokenRepository {
	return &authTokenRepository{db: db}
}

// Create records a freshly issued token in the ledger.
// Multiple rows per user are expected (one per signed-in device).
func (r *authTokenRepository) Create(ctx context.Context, userID int64, token string) error {
	query := `
		INSERT INTO active_tokens (user_id, token, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("insert active token: %w", err)
	}
	return nil
}

// Exists reports whether the exact (user_id, token) pair is still active.
func (r *authTokenRepository) Exists(ctx context.Context, userID int64, token string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM active_tokens WHERE user_id = $1 AND token = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, token)
	if err != nil {
		return false, fmt.Errorf("check active token: %w", err)
	}
	return exists, nil
}

// Delete revokes a single token. Deleting an absent row is not an error.
func (r *authTokenRepository) Delete(ctx context.Context, userID int64, token string) error {
	query := `DELETE FROM active_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("delete active token: %w", err)
	}
	return nil
}

// DeleteAllForUser revokes every active token for a user.
func (r *authTokenRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM active_tokens WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete active tokens for user: %w", err)
	}
	return nil
}
