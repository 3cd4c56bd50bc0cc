package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/internal/repository"
	"github.com/Keerthana22gh/pg-management-system/internal/session"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/telemetry"
)

// Login outcomes recorded on the login counter
const (
	outcomeSuccess  = "success"
	outcomeInvalid  = "invalid_credentials"
	outcomeInactive = "inactive"
	outcomeError    = "error"
)

// AuthService defines the interface for login and account operations
type AuthService interface {
	// Login checks credentials and issues a session
	Login(ctx context.Context, loginID, password string) (*domain.User, *session.Session, error)
	// Logout revokes the session behind token
	Logout(ctx context.Context, token string) error
	// CreateAdmin provisions an admin account
	CreateAdmin(ctx context.Context, loginID, password string) (*domain.User, error)
}

type authService struct {
	base
	users    repository.UserRepository
	sessions *session.Manager
	hasher   *PasswordHasher
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users repository.UserRepository,
	sessions *session.Manager,
	hasher *PasswordHasher,
	metrics *telemetry.Metrics,
	log *logger.Logger,
) AuthService {
	return &authService{
		base:     newBase(nil, metrics, log),
		users:    users,
		sessions: sessions,
		hasher:   hasher,
	}
}

func (s *authService) Login(ctx context.Context, loginID, password string) (_ *domain.User, _ *session.Session, err error) {
	ctx, span := s.startSpan(ctx, "service.auth.login")
	defer func() { telemetry.EndSpan(span, err) }()

	outcome := outcomeError
	defer func() { s.metrics.LoginAttempts.Inc(ctx, telemetry.OutcomeAttr(outcome)) }()

	if loginID == "" || password == "" {
		outcome = outcomeInvalid
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByLoginID(ctx, loginID)
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.Burn(password)
		outcome = outcomeInvalid
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Matches(user.PasswordHash, password) {
		outcome = outcomeInvalid
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		outcome = outcomeInactive
		return nil, nil, domain.ErrInactiveAccount
	}

	sess, err := s.sessions.Issue(ctx, user.ID, string(user.Role))
	if err != nil {
		return nil, nil, fmt.Errorf("issue session: %w", err)
	}

	outcome = outcomeSuccess
	s.log.InfoContext(ctx, "user logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return user, sess, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

func (s *authService) CreateAdmin(ctx context.Context, loginID, password string) (*domain.User, error) {
	creds := domain.Credentials{LoginID: loginID, Password: password}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		LoginID:      loginID,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "admin account created", zap.Int64("user_id", user.ID))
	return user, nil
}
