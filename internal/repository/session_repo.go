package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alepanderf/minibank/internal/models"
)

// SessionRepository defines the interface for session data operations.
type SessionRepository interface {
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	// DeleteByToken removes the session matching the token and reports
	// whether a row was deleted. Deleting an absent token is not an error.
	DeleteByToken(ctx context.Context, token string) (bool, error)
	// Replace atomically deletes all sessions for the user and inserts the
	// new one, so racing logins converge to a single surviving session.
	// Issuance always goes through Replace, which is how a user holds at
	// most one live session.
	Replace(ctx context.Context, session *models.Session) error
}

type sessionRepo struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepo{pool: pool}
}

// GetByToken retrieves a session by its token.
func (r *sessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT token, user_id, expires_at, created_at
		FROM sessions WHERE token = $1`

	var session models.Session
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken removes the session row matching the token, if any.
func (r *sessionRepo) DeleteByToken(ctx context.Context, token string) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// Replace deletes all sessions for the owning user and inserts the new one
// in a single transaction.
func (r *sessionRepo) Replace(ctx context.Context, session *models.Session) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, session.UserID); err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3) RETURNING created_at`,
			session.Token, session.UserID, session.ExpiresAt,
		).Scan(&session.CreatedAt)
	})
}

// Compile-time check to ensure sessionRepo implements SessionRepository.
var _ SessionRepository = (*sessionRepo)(nil)
