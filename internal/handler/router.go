package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/middleware"
	"github.com/Keerthana22gh/pg-management-system/pkg/response"
	"github.com/Keerthana22gh/pg-management-system/pkg/telemetry"
)

// RouterConfig carries everything the router mounts
type RouterConfig struct {
	Auth        *AuthHandler
	Tenants     *TenantHandler
	Payments    *PaymentHandler
	Maintenance *MaintenanceHandler
	Vacate      *VacateHandler
	Health      *HealthHandler

	Session *middleware.SessionConfig
	Audit   *middleware.AuditLogger // nil disables auditing
	Logger  *logger.Logger
	Metrics *telemetry.Metrics

	// MaxMultipartMemory bounds the in-memory part of a proof upload
	MaxMultipartMemory int64
}

// NewRouter builds the gin engine with every route and middleware
func NewRouter(cfg *RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	var duration *telemetry.Histogram
	if cfg.Metrics != nil {
		duration = cfg.Metrics.RequestDuration
	}

	RegisterFieldNames()

	router := gin.New()
	router.SetHTMLTemplate(Templates())
	if cfg.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = cfg.MaxMultipartMemory
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.Tracing())
	router.Use(middleware.RequestLogger(log, duration))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.SecurityHeaders())
	if cfg.Audit != nil {
		router.Use(middleware.AuditMiddleware(cfg.Audit))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.NotFound("Route not found"))
	})

	router.GET("/health", cfg.Health.Health)
	router.GET("/ready", cfg.Health.Ready)

	// Pages
	pages := router.Group("")
	pages.Use(middleware.OptionalSession(cfg.Session))
	{
		pages.GET("/", cfg.Auth.Index)
		pages.GET("/login", cfg.Auth.LoginPage)
		pages.POST("/login", cfg.Auth.Login)
		pages.GET("/logout", cfg.Auth.Logout)
	}

	router.GET("/admin/dashboard",
		middleware.RequirePageSession(cfg.Session),
		middleware.RequirePageRole(middleware.RoleAdmin),
		cfg.Auth.AdminDashboard,
	)
	router.GET("/tenant/dashboard",
		middleware.RequirePageSession(cfg.Session),
		middleware.RequirePageRole(middleware.RoleTenant),
		cfg.Auth.TenantDashboard,
	)

	api := router.Group("/api")
	api.Use(middleware.RequireSession(cfg.Session))

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(middleware.RoleAdmin))
	{
		admin.GET("/tenants", cfg.Tenants.List)
		admin.POST("/tenants", cfg.Tenants.Create)
		admin.GET("/rooms", cfg.Tenants.ListRooms)
		admin.POST("/rooms", cfg.Tenants.CreateRoom)
		admin.GET("/payments", cfg.Payments.ListAll)
		admin.PUT("/payments", cfg.Payments.Review)
		admin.GET("/maintenance", cfg.Maintenance.ListAll)
		admin.PUT("/maintenance", cfg.Maintenance.UpdateStatus)
		admin.GET("/vacate", cfg.Vacate.ListAll)
		admin.PUT("/vacate", cfg.Vacate.Update)
	}

	tenant := api.Group("/tenant")
	tenant.Use(middleware.RequireRole(middleware.RoleTenant))
	{
		tenant.GET("/profile", cfg.Tenants.Profile)
		tenant.POST("/profile", cfg.Tenants.Profile)
		tenant.GET("/payments", cfg.Payments.ListOwn)
		tenant.POST("/payments", cfg.Payments.Submit)
		tenant.GET("/maintenance", cfg.Maintenance.ListOwn)
		tenant.POST("/maintenance", cfg.Maintenance.Create)
		tenant.GET("/vacate", cfg.Vacate.ListOwn)
		tenant.POST("/vacate", cfg.Vacate.Create)
	}

	return router
}
