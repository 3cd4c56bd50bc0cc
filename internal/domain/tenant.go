package domain

import (
	"net/mail"
	"strings"
	"time"
)

// Tenant is a resident bound to a user account and a room
type Tenant struct {
	ID       int64
	UserID   int64
	Name     string
	Phone    string
	Email    string
	RoomID   *int64
	Deposit  float64
	JoinDate time.Time

	// Room is populated by joined reads
	Room *Room
}

// TenantRef is the tenant summary attached to payments and requests in
// admin listings
type TenantRef struct {
	Name       string
	RoomID     *int64
	RoomNumber *string
}

// Onboarding is everything needed to create a tenant with its login
type Onboarding struct {
	Credentials
	Name    string
	Phone   string
	Email   string
	RoomID  int64
	Deposit float64
}

// Validate checks the onboarding input
func (o *Onboarding) Validate() error {
	o.Name = strings.TrimSpace(o.Name)
	o.Phone = strings.TrimSpace(o.Phone)
	o.Email = strings.TrimSpace(o.Email)

	v := validator{}
	if err := o.Credentials.Validate(); err != nil {
		for k, msg := range err.(*ValidationError).Fields {
			v[k] = msg
		}
	}
	v.check(o.Name != "", "name", "is required")
	v.check(o.RoomID > 0, "room_id", "is required")
	v.check(o.Deposit >= 0, "deposit", "must not be negative")
	if o.Email != "" {
		_, err := mail.ParseAddress(o.Email)
		v.check(err == nil, "email", "is not a valid address")
	}
	return v.err()
}

// NewTenant builds the tenant row for a freshly created user
func (o *Onboarding) NewTenant(userID int64, joinDate time.Time) *Tenant {
	roomID := o.RoomID
	return &Tenant{
		UserID:   userID,
		Name:     o.Name,
		Phone:    o.Phone,
		Email:    o.Email,
		RoomID:   &roomID,
		Deposit:  o.Deposit,
		JoinDate: joinDate,
	}
}
