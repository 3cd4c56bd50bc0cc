package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/pkg/database"
)

// PostgreSQL error codes
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeInvalidText         = "22P02"
	codeNumericOutOfRange   = "22003"
)

// constraintErrors maps named constraints to errors with client messages
var constraintErrors = map[string]*domain.Error{
	"users_user_id_key":         domain.ErrLoginIDTaken,
	"rooms_room_number_key":     domain.ErrRoomNumberTaken,
	"uq_vacate_open_per_tenant": domain.ErrOpenVacateRequest,
	"tenants_room_id_fkey":      domain.ErrRoomNotFound,
}

// translate maps a pgx error onto the domain error kinds. The original
// error stays in the chain for logging.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if known, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%s: %w: %w", op, known, err)
		}
	}

	switch database.SQLState(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	case codeForeignKeyViolation, codeCheckViolation, codeNotNullViolation,
		codeInvalidText, codeNumericOutOfRange:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrValidation, err)
	}

	if database.IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// expectOne turns an update that touched no rows into a not-found error
func expectOne(tag pgconn.CommandTag, op string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
