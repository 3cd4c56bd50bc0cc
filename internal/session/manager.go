// Package session issues and verifies login sessions: a signed JWT in an
// HttpOnly cookie whose session id must still be registered in a Store.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/pkg/config"
	"github.com/Keerthana22gh/pg-management-system/pkg/middleware"
)

// Config holds session settings
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// FromConfig builds a Config from the application session settings
func FromConfig(c config.SessionConfig) Config {
	return Config{Secret: c.Secret, TTL: c.TTL, Issuer: c.Issuer}
}

// Claims are the registered claims plus the caller's role and session id
type Claims struct {
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Session is a freshly issued login
type Session struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// Accounts loads the user a session belongs to
type Accounts interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Option configures a Manager
type Option func(*Manager)

// WithAccounts makes Authenticate reject sessions whose user is missing,
// deactivated or no longer has the role the token was issued for.
func WithAccounts(accounts Accounts) Option {
	return func(m *Manager) { m.accounts = accounts }
}

// Manager issues, verifies and revokes sessions
type Manager struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	store    Store
	accounts Accounts
	now      func() time.Time
}

// NewManager creates a Manager
func NewManager(cfg Config, store Store, opts ...Option) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	m := &Manager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TTL returns the session lifetime
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue registers a new session for userID and returns its signed token
func (m *Manager) Issue(ctx context.Context, userID int64, role string) (*Session, error) {
	if !domain.Role(role).IsValid() {
		return nil, fmt.Errorf("issue session: unknown role %q", role)
	}
	now := m.now()
	sid := uuid.NewString()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		Role:      role,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := m.store.Save(ctx, sid, userID, m.ttl); err != nil {
		return nil, err
	}

	return &Session{Token: token, ID: sid, ExpiresAt: expiresAt}, nil
}

func (m *Manager) parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, errors.New("token has no session id")
	}
	return claims, nil
}

// Authenticate implements middleware.Authenticator. Invalid, expired and
// revoked tokens all yield middleware.ErrNoSession, as do sessions of
// deactivated accounts. Store failures are returned as they are.
func (m *Manager) Authenticate(ctx context.Context, token string) (*middleware.Identity, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", middleware.ErrNoSession, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", middleware.ErrNoSession)
	}

	storedUserID, ok, err := m.store.Lookup(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !ok || storedUserID != userID {
		return nil, fmt.Errorf("%w: session revoked", middleware.ErrNoSession)
	}

	if err := m.checkAccount(ctx, userID, claims); err != nil {
		return nil, err
	}

	return &middleware.Identity{
		UserID:    userID,
		Role:      claims.Role,
		SessionID: claims.SessionID,
	}, nil
}

func (m *Manager) checkAccount(ctx context.Context, userID int64, claims *Claims) error {
	if m.accounts == nil {
		return nil
	}
	user, err := m.accounts.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err == nil && user.IsActive && string(user.Role) == claims.Role {
		return nil
	}
	_ = m.store.Delete(ctx, claims.SessionID)
	return fmt.Errorf("%w: account disabled", middleware.ErrNoSession)
}

// Revoke removes the session behind token. Unparseable tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.SessionID)
}

var _ middleware.Authenticator = (*Manager)(nil)
