package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Keerthana22gh/pg-management-system/internal/dto"
	"github.com/Keerthana22gh/pg-management-system/internal/service"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/middleware"
	"github.com/Keerthana22gh/pg-management-system/pkg/response"
)

// TenantHandler handles tenant, room and profile HTTP requests
type TenantHandler struct {
	tenantService service.TenantService
	log           *logger.Logger
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService service.TenantService, log *logger.Logger) *TenantHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &TenantHandler{tenantService: tenantService, log: log}
}

// List handles listing all tenants with their room
// GET /api/admin/tenants
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.tenantService.ListTenants(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.FromTenants(tenants)))
}

// Create handles onboarding a tenant with a login and a room
// POST /api/admin/tenants
func (h *TenantHandler) Create(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tenant, err := h.tenantService.Onboard(c.Request.Context(), req.ToOnboarding())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	middleware.SetAuditResourceID(c, strconv.FormatInt(tenant.ID, 10))
	c.JSON(http.StatusCreated, response.Success(dto.FromTenant(tenant)))
}

// ListRooms handles listing rooms by room number
// GET /api/admin/rooms
func (h *TenantHandler) ListRooms(c *gin.Context) {
	rooms, err := h.tenantService.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.FromRooms(rooms)))
}

// CreateRoom handles adding a room
// POST /api/admin/rooms
func (h *TenantHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := h.tenantService.CreateRoom(c.Request.Context(), req.RoomNumber, int(req.Floor))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	middleware.SetAuditResourceID(c, strconv.FormatInt(room.ID, 10))
	c.JSON(http.StatusCreated, response.Success(dto.FromRoom(room)))
}

// Profile returns the caller's tenant row with its room
// GET|POST /api/tenant/profile
func (h *TenantHandler) Profile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	tenant, err := h.tenantService.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.FromTenant(tenant)))
}
