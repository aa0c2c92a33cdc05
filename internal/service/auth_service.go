package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alepanderf/minibank/internal/config"
	"github.com/alepanderf/minibank/internal/models"
	apierrors "github.com/alepanderf/minibank/internal/pkg/errors"
	"github.com/alepanderf/minibank/internal/repository"
	"github.com/alepanderf/minibank/internal/validation"
)

// dummyPasswordHash is compared against when the email has no user, so the
// unknown-email and wrong-password paths take similar time. It is a bcrypt
// hash of random bytes and matches no real password.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService orchestrates signup, login, and logout.
type AuthService interface {
	// Signup validates all fields, creates the user, and issues a session.
	Signup(ctx context.Context, req SignupRequest) (*models.User, *models.Session, error)

	// Login authenticates by email and password and issues a session,
	// invalidating any previous one.
	Login(ctx context.Context, email, password string) (*models.User, *models.Session, error)

	// Logout revokes the session behind the token. A missing or unknown
	// token is a normal outcome, reported as revoked=false.
	Logout(ctx context.Context, token string) (bool, error)
}

// SignupRequest carries the raw signup fields before validation.
type SignupRequest struct {
	Email         string `json:"email" validate:"required"`
	Password      string `json:"password" validate:"required"`
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	PhoneNumber   string `json:"phoneNumber" validate:"required"`
	DateOfBirth   string `json:"dateOfBirth" validate:"required"`
	SSN           string `json:"ssn" validate:"required"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	ZipCode       string `json:"zipCode" validate:"required"`
}

type authService struct {
	users    repository.UserRepository
	sessions SessionService
	cfg      config.AuthConfig
	now      func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, sessions SessionService, cfg config.AuthConfig) AuthService {
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = bcrypt.DefaultCost
	}
	if cfg.SSNCost == 0 {
		cfg.SSNCost = bcrypt.DefaultCost + 2
	}
	return &authService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*models.User, *models.Session, error) {
	// Validators run in order and fail fast on the first violation.
	email, verr := validation.Email(req.Email)
	if verr != nil {
		return nil, nil, verr
	}
	if verr := validation.Password(req.Password); verr != nil {
		return nil, nil, verr
	}
	phone, verr := validation.Phone(req.PhoneNumber)
	if verr != nil {
		return nil, nil, verr
	}
	dob, verr := validation.DateOfBirth(req.DateOfBirth, s.now())
	if verr != nil {
		return nil, nil, verr
	}
	ssn, verr := validation.SSN(req.SSN)
	if verr != nil {
		return nil, nil, verr
	}
	state, verr := validation.StateCode(req.State)
	if verr != nil {
		return nil, nil, verr
	}
	zip, verr := validation.ZipCode(req.ZipCode)
	if verr != nil {
		return nil, nil, verr
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, nil, apierrors.NewConflictError("an account with this email already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.PasswordCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}
	ssnHash, err := bcrypt.GenerateFromPassword([]byte(ssn), s.cfg.SSNCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash ssn: %w", err)
	}

	user := &models.User{
		Email:         email,
		PasswordHash:  string(passwordHash),
		SSNHash:       string(ssnHash),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PhoneNumber:   phone,
		DateOfBirth:   dob,
		StreetAddress: req.Address,
		City:          req.City,
		State:         state,
		ZipCode:       zip,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a race with a concurrent signup for the same email.
			return nil, nil, apierrors.NewConflictError("an account with this email already exists")
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	normalized, verr := validation.Email(email)
	if verr != nil {
		// Malformed email can't belong to a user; same generic answer.
		return nil, nil, apierrors.ErrUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash := dummyPasswordHash
	if user != nil {
		hash = user.PasswordHash
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil || user == nil {
		return nil, nil, apierrors.ErrUnauthorized
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *authService) Logout(ctx context.Context, token string) (bool, error) {
	return s.sessions.Revoke(ctx, token)
}

// Compile-time check to ensure authService implements AuthService.
var _ AuthService = (*authService)(nil)
