package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/internal/dto"
	"github.com/Keerthana22gh/pg-management-system/internal/service"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/middleware"
)

// Login page messages
const (
	msgInvalidCredentials = "Invalid credentials."
	msgInactiveAccount    = "Account is inactive."
	msgLoginError         = "An error occurred during login."
	msgUnauthorized       = "Unauthorized access"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles login, logout and role-based redirects
type AuthHandler struct {
	authService service.AuthService
	cookie      CookieConfig
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, cookie CookieConfig, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthHandler{authService: authService, cookie: cookie, log: log}
}

func homeFor(role string) string {
	switch role {
	case middleware.RoleAdmin:
		return "/admin/dashboard"
	case middleware.RoleTenant:
		return "/tenant/dashboard"
	default:
		return "/login"
	}
}

// Index redirects to the caller's dashboard, or to the login page
// GET /
func (h *AuthHandler) Index(c *gin.Context) {
	role, _ := middleware.GetRole(c)
	c.Redirect(http.StatusFound, homeFor(role))
}

// LoginPage renders the login form
// GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if role, ok := middleware.GetRole(c); ok {
		c.Redirect(http.StatusFound, homeFor(role))
		return
	}

	var flash string
	if c.Query("error") == "unauthorized" {
		flash = msgUnauthorized
	}
	h.renderLogin(c, http.StatusOK, flash)
}

// Login checks credentials and starts a session
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	user, sess, err := h.authService.Login(c.Request.Context(), form.UserID, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.renderLogin(c, http.StatusUnauthorized, msgInvalidCredentials)
		case errors.Is(err, domain.ErrInactiveAccount):
			h.renderLogin(c, http.StatusForbidden, msgInactiveAccount)
		default:
			h.log.ErrorContext(c.Request.Context(), "login failed", zap.Error(err))
			h.renderLogin(c, http.StatusInternalServerError, msgLoginError)
		}
		return
	}

	middleware.SetAuditResourceID(c, user.LoginID)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, sess.Token, int(time.Until(sess.ExpiresAt).Seconds()), "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, homeFor(string(user.Role)))
}

// Logout revokes the session and clears the cookie
// GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.log.WarnContext(c.Request.Context(), "session revoke failed", zap.Error(err))
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, flash string) {
	c.HTML(status, "login.html", gin.H{"Error": flash})
}

// AdminDashboard renders the admin page shell
// GET /admin/dashboard
func (h *AuthHandler) AdminDashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_dashboard.html", nil)
}

// TenantDashboard renders the tenant page shell
// GET /tenant/dashboard
func (h *AuthHandler) TenantDashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "tenant_dashboard.html", nil)
}
