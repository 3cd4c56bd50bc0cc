package domain

import (
	"strings"
	"time"
)

// Role is one of the two flat access roles
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTenant Role = "tenant"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleTenant
}

// User is a login account
type User struct {
	ID           int64
	LoginID      string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}

const minPasswordLength = 4

// Credentials is a login id and a plaintext password
type Credentials struct {
	LoginID  string
	Password string
}

// Validate checks a new account's credentials
func (c Credentials) Validate() error {
	v := validator{}
	v.check(strings.TrimSpace(c.LoginID) != "", "user_id", "is required")
	v.check(!strings.ContainsAny(c.LoginID, " \t\r\n"), "user_id", "must not contain whitespace")
	v.check(len(c.LoginID) <= 64, "user_id", "must be at most 64 characters")
	v.check(len(c.Password) >= minPasswordLength, "password", "must be at least 4 characters")
	v.check(len(c.Password) <= 72, "password", "must be at most 72 bytes")
	return v.err()
}
