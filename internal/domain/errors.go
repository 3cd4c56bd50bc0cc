package domain

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Repositories and services wrap these; handlers match them
// with errors.Is to pick the HTTP status.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrUnavailable        = errors.New("dependency unavailable")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
)

// Error is a domain error with a message that is safe to show to clients
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError creates an Error of the given kind
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errors with fixed client messages
var (
	ErrTenantProfileNotFound = NewError(ErrNotFound, "Tenant profile not found")
	ErrRoomNotFound          = NewError(ErrValidation, "Room does not exist")
	ErrRoomOccupied          = NewError(ErrConflict, "Room is already occupied")
	ErrLoginIDTaken          = NewError(ErrConflict, "User ID already exists")
	ErrRoomNumberTaken       = NewError(ErrConflict, "Room number already exists")
	ErrOpenVacateRequest     = NewError(ErrConflict, "An open vacate request already exists")
	ErrNoFileUploaded        = NewError(ErrValidation, "No file uploaded")
	ErrFileTooLarge          = NewError(ErrValidation, "Uploaded file is too large")
	ErrEmptyUpdate           = NewError(ErrValidation, "At least one field must be provided")
)

// ValidationError carries per-field messages
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// validator accumulates field errors
type validator map[string]string

func (v validator) check(ok bool, field, msg string) {
	if !ok {
		if _, exists := v[field]; !exists {
			v[field] = msg
		}
	}
}

func (v validator) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}
