package domain

import (
	"strings"
	"time"
)

// MaintenanceStatus is the progress of a maintenance request
type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "pending"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusResolved   MaintenanceStatus = "resolved"
)

var maintenanceTransitions = transitions[MaintenanceStatus]{
	MaintenanceStatusPending:    {MaintenanceStatusInProgress, MaintenanceStatusResolved},
	MaintenanceStatusInProgress: {MaintenanceStatusResolved},
	MaintenanceStatusResolved:   {},
}

// MaintenanceRequest is a repair ticket raised by a tenant
type MaintenanceRequest struct {
	ID          int64
	TenantID    int64
	Title       string
	Description string
	Status      MaintenanceStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tenant *TenantRef
}

// NewMaintenanceRequest validates and builds a pending request
func NewMaintenanceRequest(tenantID int64, title, description string) (*MaintenanceRequest, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	v := validator{}
	v.check(tenantID > 0, "tenant_id", "is required")
	v.check(title != "", "title", "is required")
	v.check(len(title) <= 200, "title", "must be at most 200 characters")
	v.check(description != "", "description", "is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	return &MaintenanceRequest{
		TenantID:    tenantID,
		Title:       title,
		Description: description,
		Status:      MaintenanceStatusPending,
	}, nil
}

// SetStatus moves the request to status. It reports whether anything changed.
func (m *MaintenanceRequest) SetStatus(status MaintenanceStatus) (bool, error) {
	changed, err := maintenanceTransitions.check("maintenance request", m.Status, status)
	if err != nil || !changed {
		return false, err
	}
	m.Status = status
	return true, nil
}
