package dto

import (
	"time"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// CreateVacateRequest represents a tenant's move-out notice
type CreateVacateRequest struct {
	VacateDate string `json:"vacate_date" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

// UpdateVacateRequest represents an admin's partial update
type UpdateVacateRequest struct {
	ID              ID                   `json:"id" binding:"required"`
	Status          *domain.VacateStatus `json:"status"`
	Dues            *Float               `json:"dues"`
	DepositReturned *bool                `json:"deposit_returned"`
}

// ToUpdate converts the request to its domain form
func (r *UpdateVacateRequest) ToUpdate() domain.VacateUpdate {
	u := domain.VacateUpdate{
		ID:              int64(r.ID),
		Status:          r.Status,
		DepositReturned: r.DepositReturned,
	}
	if r.Dues != nil {
		d := float64(*r.Dues)
		u.Dues = &d
	}
	return u
}

// VacateResponse represents a vacate request
type VacateResponse struct {
	ID              int64               `json:"id"`
	TenantID        int64               `json:"tenant_id"`
	VacateDate      string              `json:"vacate_date"`
	Reason          string              `json:"reason"`
	Status          domain.VacateStatus `json:"status"`
	Dues            float64             `json:"dues"`
	DepositReturned bool                `json:"deposit_returned"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Tenants         *TenantRefResponse  `json:"tenants,omitempty"`
}

// FromVacate converts a domain VacateRequest to VacateResponse
func FromVacate(v *domain.VacateRequest) *VacateResponse {
	return &VacateResponse{
		ID:              v.ID,
		TenantID:        v.TenantID,
		VacateDate:      formatDate(v.VacateDate),
		Reason:          v.Reason,
		Status:          v.Status,
		Dues:            v.Dues,
		DepositReturned: v.DepositReturned,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		Tenants:         fromTenantRef(v.Tenant, false),
	}
}

func FromVacateList(list []*domain.VacateRequest) []*VacateResponse {
	out := make([]*VacateResponse, 0, len(list))
	for _, v := range list {
		out = append(out, FromVacate(v))
	}
	return out
}
