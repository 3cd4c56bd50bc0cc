package domain

import (
	"math"
	"strings"
	"time"
)

// VacateStatus is the state of a move-out request
type VacateStatus string

const (
	VacateStatusPending   VacateStatus = "pending"
	VacateStatusApproved  VacateStatus = "approved"
	VacateStatusRejected  VacateStatus = "rejected"
	VacateStatusCompleted VacateStatus = "completed"
)

var vacateTransitions = transitions[VacateStatus]{
	VacateStatusPending:   {VacateStatusApproved, VacateStatusRejected},
	VacateStatusApproved:  {VacateStatusCompleted, VacateStatusRejected},
	VacateStatusRejected:  {},
	VacateStatusCompleted: {},
}

// IsOpen reports whether the request still blocks a new one
func (s VacateStatus) IsOpen() bool {
	return s == VacateStatusPending || s == VacateStatusApproved
}

// DateLayout is the YYYY-MM-DD format used for calendar dates
const DateLayout = "2006-01-02"

// VacateRequest is a tenant's notice to move out
type VacateRequest struct {
	ID              int64
	TenantID        int64
	VacateDate      time.Time
	Reason          string
	Status          VacateStatus
	Dues            float64
	DepositReturned bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Tenant *TenantRef
}

// NewVacateRequest validates and builds a pending request with no dues
func NewVacateRequest(tenantID int64, vacateDate, reason string) (*VacateRequest, error) {
	reason = strings.TrimSpace(reason)

	v := validator{}
	v.check(tenantID > 0, "tenant_id", "is required")
	date, err := time.Parse(DateLayout, strings.TrimSpace(vacateDate))
	v.check(err == nil, "vacate_date", "must be in YYYY-MM-DD format")
	v.check(reason != "", "reason", "is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	return &VacateRequest{
		TenantID:   tenantID,
		VacateDate: date,
		Reason:     reason,
		Status:     VacateStatusPending,
	}, nil
}

// VacateUpdate is an admin's partial update. Nil fields are left alone.
type VacateUpdate struct {
	ID              int64
	Status          *VacateStatus
	Dues            *float64
	DepositReturned *bool
}

// Validate checks that the update addresses a row and changes something
func (u VacateUpdate) Validate() error {
	if u.Status == nil && u.Dues == nil && u.DepositReturned == nil {
		return ErrEmptyUpdate
	}
	v := validator{}
	v.check(u.ID > 0, "id", "is required")
	if u.Dues != nil {
		d := *u.Dues
		v.check(d >= 0 && !math.IsInf(d, 0) && !math.IsNaN(d), "dues", "must not be negative")
	}
	return v.err()
}

// Apply merges u into r. changed is false when every field already had
// the requested value; completed reports whether the request became
// completed, which the caller must cascade to the room and the tenant's
// account.
func (r *VacateRequest) Apply(u VacateUpdate) (changed, completed bool, err error) {
	if u.Status != nil {
		moved, err := vacateTransitions.check("vacate request", r.Status, *u.Status)
		if err != nil {
			return false, false, err
		}
		if moved {
			r.Status = *u.Status
			changed = true
			completed = r.Status == VacateStatusCompleted
		}
	}
	if u.Dues != nil && r.Dues != *u.Dues {
		r.Dues = *u.Dues
		changed = true
	}
	if u.DepositReturned != nil && r.DepositReturned != *u.DepositReturned {
		r.DepositReturned = *u.DepositReturned
		changed = true
	}
	return changed, completed, nil
}
