// Package service provides business logic implementations.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alepanderf/minibank/internal/models"
	apierrors "github.com/alepanderf/minibank/internal/pkg/errors"
	"github.com/alepanderf/minibank/internal/repository"
)

// expirySafetyWindow is subtracted from a session's deadline on every read:
// a token within 90 seconds of expiry is treated as already expired, so it
// cannot lapse in the middle of a request that accepted it.
const expirySafetyWindow = 90 * time.Second

// defaultSessionExpiry is used when no expiry is configured.
const defaultSessionExpiry = 7 * 24 * time.Hour

// SessionService manages the session lifecycle: issuance, validation with
// lazy expiry-on-read, and revocation.
type SessionService interface {
	// Issue replaces all of the user's sessions with a single fresh one.
	Issue(ctx context.Context, userID uuid.UUID) (*models.Session, error)

	// Validate resolves a token to its owning user. Absent, expired, or
	// near-expiry tokens yield ErrUnauthorized; expired rows are purged as
	// a side effect.
	Validate(ctx context.Context, token string) (*models.User, error)

	// Revoke deletes the session matching the token. Revoking an unknown
	// token is not an error; the bool reports whether anything was deleted.
	Revoke(ctx context.Context, token string) (bool, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	expiry   time.Duration
	now      func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(sessions repository.SessionRepository, users repository.UserRepository, expiry time.Duration) SessionService {
	if expiry == 0 {
		expiry = defaultSessionExpiry
	}
	return &sessionService{
		sessions: sessions,
		users:    users,
		expiry:   expiry,
		now:      time.Now,
	}
}

func (s *sessionService) Issue(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.expiry),
	}

	// Delete-then-insert runs in one store transaction, so concurrent
	// logins for the same user leave exactly one surviving session.
	if err := s.sessions.Replace(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *sessionService) Validate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apierrors.ErrUnauthorized
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return nil, apierrors.ErrUnauthorized
	}

	if !s.now().Add(expirySafetyWindow).Before(session.ExpiresAt) {
		// Lazy expiry-on-read; no background sweeper exists.
		if _, err := s.sessions.DeleteByToken(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to purge expired session: %w", err)
		}
		return nil, apierrors.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	if user == nil {
		return nil, apierrors.ErrUnauthorized
	}
	return user, nil
}

func (s *sessionService) Revoke(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	deleted, err := s.sessions.DeleteByToken(ctx, token)
	if err != nil {
		return false, fmt.Errorf("failed to revoke session: %w", err)
	}
	return deleted, nil
}

// newToken generates an opaque session token from 32 bytes of CSPRNG output.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Compile-time check to ensure sessionService implements SessionService.
var _ SessionService = (*sessionService)(nil)
