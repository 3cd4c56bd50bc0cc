package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/response"
)

// Roles
const (
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)

// Context keys for identity information
const (
	ContextKeyIdentity = "identity"
	ContextKeyUserID   = "user_id"
	ContextKeyRole     = "role"
)

const (
	loginPath             = "/login"
	loginUnauthorizedPath = "/login?error=unauthorized"
)

// ErrNoSession is returned by an Authenticator when the token is missing,
// invalid, expired or revoked.
var ErrNoSession = errors.New("no valid session")

// Identity is the authenticated caller
type Identity struct {
	UserID    int64
	Role      string
	SessionID string
}

// Authenticator resolves a session token to an identity
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// SessionConfig holds configuration for the session middleware
type SessionConfig struct {
	CookieName    string
	Authenticator Authenticator
	Logger        *logger.Logger
}

type identityCtxKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	ctx = context.WithValue(ctx, identityCtxKey{}, id)
	return logger.WithUserID(ctx, id.UserID)
}

// IdentityFromContext returns the identity stored on ctx, if any
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(*Identity)
	return id, ok && id != nil
}

// GetIdentity extracts the identity from the gin context
func GetIdentity(c *gin.Context) (*Identity, bool) {
	return IdentityFromContext(c.Request.Context())
}

// GetUserID extracts the authenticated user id from the gin context
func GetUserID(c *gin.Context) (int64, bool) {
	id, ok := GetIdentity(c)
	if !ok {
		return 0, false
	}
	return id.UserID, true
}

// GetRole extracts the authenticated role from the gin context
func GetRole(c *gin.Context) (string, bool) {
	id, ok := GetIdentity(c)
	if !ok {
		return "", false
	}
	return id.Role, true
}

// identify reads the cookie and resolves it. A nil identity with a nil
// error means there is no usable session.
func identify(c *gin.Context, cfg *SessionConfig) (*Identity, error) {
	token, err := c.Cookie(cfg.CookieName)
	if err != nil || token == "" {
		return nil, nil
	}

	id, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, nil
		}
		return nil, err
	}
	return id, nil
}

func attach(c *gin.Context, id *Identity) {
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
	c.Set(ContextKeyIdentity, id)
	c.Set(ContextKeyUserID, id.UserID)
	c.Set(ContextKeyRole, id.Role)
}

func logLookupFailure(c *gin.Context, cfg *SessionConfig, err error) {
	if cfg.Logger != nil {
		cfg.Logger.WarnContext(c.Request.Context(), "session lookup failed", zap.Error(err))
	}
}

// RequireSession guards API routes: no session is a 401 JSON response
func RequireSession(cfg *SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identify(c, cfg)
		if err != nil {
			logLookupFailure(c, cfg, err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.ServiceUnavailable(""))
			return
		}
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized(""))
			return
		}

		attach(c, id)
		c.Next()
	}
}

// RequirePageSession guards page routes: no session redirects to the login page
func RequirePageSession(cfg *SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identify(c, cfg)
		if err != nil {
			logLookupFailure(c, cfg, err)
		}
		if id == nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		attach(c, id)
		c.Next()
	}
}

// OptionalSession attaches the identity when there is one and never aborts
func OptionalSession(cfg *SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identify(c, cfg)
		if err != nil {
			logLookupFailure(c, cfg, err)
		}
		if id != nil {
			attach(c, id)
		}
		c.Next()
	}
}

func hasRole(c *gin.Context, roles []string) (authenticated, allowed bool) {
	role, ok := GetRole(c)
	if !ok {
		return false, false
	}
	for _, r := range roles {
		if role == r {
			return true, true
		}
	}
	return true, false
}

// RequireRole creates a middleware that checks if user has required role.
// It must run after RequireSession.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated, allowed := hasRole(c, roles)
		if !authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized(""))
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequirePageRole is RequireRole for page routes: a wrong role redirects to
// the login page with an unauthorized notice.
func RequirePageRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated, allowed := hasRole(c, roles)
		if !authenticated {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		if !allowed {
			c.Redirect(http.StatusFound, loginUnauthorizedPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
