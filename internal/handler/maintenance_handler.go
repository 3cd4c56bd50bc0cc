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

// MaintenanceHandler handles maintenance request HTTP requests
type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
	log                *logger.Logger
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(maintenanceService service.MaintenanceService, log *logger.Logger) *MaintenanceHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &MaintenanceHandler{maintenanceService: maintenanceService, log: log}
}

// ListAll handles listing every request, newest first
// GET /api/admin/maintenance
func (h *MaintenanceHandler) ListAll(c *gin.Context) {
	list, err := h.maintenanceService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.FromMaintenanceList(list)))
}

// UpdateStatus handles an admin moving a request along
// PUT /api/admin/maintenance
func (h *MaintenanceHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.maintenanceService.UpdateStatus(c.Request.Context(), int64(req.ID), req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	middleware.SetAuditResourceID(c, strconv.FormatInt(updated.ID, 10))
	middleware.SetAuditMetadata(c, map[string]interface{}{"status": updated.Status})
	c.JSON(http.StatusOK, response.Success(dto.FromMaintenance(updated)))
}

// ListOwn handles listing the caller's requests
// GET /api/tenant/maintenance
func (h *MaintenanceHandler) ListOwn(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	list, err := h.maintenanceService.ListForTenant(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.FromMaintenanceList(list)))
}

// Create handles a tenant raising a request
// POST /api/tenant/maintenance
func (h *MaintenanceHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := h.maintenanceService.Create(c.Request.Context(), userID, req.Title, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	middleware.SetAuditResourceID(c, strconv.FormatInt(created.ID, 10))
	c.JSON(http.StatusCreated, response.Success(dto.FromMaintenance(created)))
}
