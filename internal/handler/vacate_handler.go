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

// VacateHandler handles vacate request HTTP requests
type VacateHandler struct {
	vacateService service.VacateService
	log           *logger.Logger
}

// NewVacateHandler creates a new VacateHandler
func NewVacateHandler(vacateService service.VacateService, log *logger.Logger) *VacateHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &VacateHandler{vacateService: vacateService, log: log}
}

// ListAll handles listing every request, newest first
// GET /api/admin/vacate
func (h *VacateHandler) ListAll(c *gin.Context) {
	list, err := h.vacateService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.FromVacateList(list)))
}

// Update handles an admin's partial update
// PUT /api/admin/vacate
func (h *VacateHandler) Update(c *gin.Context) {
	var req dto.UpdateVacateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.vacateService.Update(c.Request.Context(), req.ToUpdate())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	middleware.SetAuditResourceID(c, strconv.FormatInt(updated.ID, 10))
	middleware.SetAuditMetadata(c, map[string]interface{}{
		"status":           updated.Status,
		"dues":             updated.Dues,
		"deposit_returned": updated.DepositReturned,
	})
	c.JSON(http.StatusOK, response.Success(dto.FromVacate(updated)))
}

// ListOwn handles listing the caller's requests
// GET /api/tenant/vacate
func (h *VacateHandler) ListOwn(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	list, err := h.vacateService.ListForTenant(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.FromVacateList(list)))
}

// Create handles a tenant's move-out notice
// POST /api/tenant/vacate
func (h *VacateHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateVacateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := h.vacateService.Create(c.Request.Context(), userID, req.VacateDate, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	middleware.SetAuditResourceID(c, strconv.FormatInt(created.ID, 10))
	c.JSON(http.StatusCreated, response.Success(dto.FromVacate(created)))
}
