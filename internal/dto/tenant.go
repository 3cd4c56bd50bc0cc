package dto

import "github.com/Keerthana22gh/pg-management-system/internal/domain"

// CreateTenantRequest represents an admin onboarding a tenant with a login
type CreateTenantRequest struct {
	UserID   string `json:"user_id" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required,max=255"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
	Email    string `json:"email" binding:"omitempty,max=255"`
	RoomID   ID     `json:"room_id" binding:"required"`
	Deposit  Float  `json:"deposit"`
}

// ToOnboarding converts the request to its domain form
func (r *CreateTenantRequest) ToOnboarding() *domain.Onboarding {
	return &domain.Onboarding{
		Credentials: domain.Credentials{LoginID: r.UserID, Password: r.Password},
		Name:        r.Name,
		Phone:       r.Phone,
		Email:       r.Email,
		RoomID:      int64(r.RoomID),
		Deposit:     float64(r.Deposit),
	}
}

// TenantResponse represents a tenant joined with its room
type TenantResponse struct {
	ID       int64         `json:"id"`
	UserID   int64         `json:"user_id"`
	Name     string        `json:"name"`
	Phone    string        `json:"phone"`
	Email    string        `json:"email"`
	RoomID   *int64        `json:"room_id"`
	Deposit  float64       `json:"deposit"`
	JoinDate string        `json:"join_date"`
	Rooms    *RoomResponse `json:"rooms"`
}

// FromTenant converts a domain Tenant to TenantResponse
func FromTenant(t *domain.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:       t.ID,
		UserID:   t.UserID,
		Name:     t.Name,
		Phone:    t.Phone,
		Email:    t.Email,
		RoomID:   t.RoomID,
		Deposit:  t.Deposit,
		JoinDate: formatDate(t.JoinDate),
		Rooms:    FromRoom(t.Room),
	}
}

// FromTenants converts a slice of tenants, never returning nil
func FromTenants(tenants []*domain.Tenant) []*TenantResponse {
	out := make([]*TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, FromTenant(t))
	}
	return out
}

// TenantRefResponse is the tenant summary under "tenants" in admin listings
type TenantRefResponse struct {
	Name   string        `json:"name"`
	RoomID *int64        `json:"room_id,omitempty"`
	Rooms  *RoomRefBrief `json:"rooms"`
}

// RoomRefBrief carries only the room number
type RoomRefBrief struct {
	RoomNumber string `json:"room_number"`
}

func fromTenantRef(ref *domain.TenantRef, withRoomID bool) *TenantRefResponse {
	if ref == nil {
		return nil
	}
	out := &TenantRefResponse{Name: ref.Name}
	if withRoomID {
		out.RoomID = ref.RoomID
	}
	if ref.RoomNumber != nil {
		out.Rooms = &RoomRefBrief{RoomNumber: *ref.RoomNumber}
	}
	return out
}
