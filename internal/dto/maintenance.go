package dto

import (
	"time"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// CreateMaintenanceRequest represents a tenant raising a repair ticket
type CreateMaintenanceRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
}

// UpdateMaintenanceRequest represents an admin moving a ticket along
type UpdateMaintenanceRequest struct {
	ID     ID                       `json:"id" binding:"required"`
	Status domain.MaintenanceStatus `json:"status" binding:"required"`
}

// MaintenanceResponse represents a maintenance request
type MaintenanceResponse struct {
	ID          int64                    `json:"id"`
	TenantID    int64                    `json:"tenant_id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Status      domain.MaintenanceStatus `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Tenants     *TenantRefResponse       `json:"tenants,omitempty"`
}

// FromMaintenance converts a domain MaintenanceRequest to MaintenanceResponse
func FromMaintenance(m *domain.MaintenanceRequest) *MaintenanceResponse {
	return &MaintenanceResponse{
		ID:          m.ID,
		TenantID:    m.TenantID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Tenants:     fromTenantRef(m.Tenant, false),
	}
}

func FromMaintenanceList(list []*domain.MaintenanceRequest) []*MaintenanceResponse {
	out := make([]*MaintenanceResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromMaintenance(m))
	}
	return out
}
