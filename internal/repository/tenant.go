package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// PostgresTenantRepository implements TenantRepository using PostgreSQL
type PostgresTenantRepository struct {
	db DBTX
}

// NewPostgresTenantRepository creates a new PostgresTenantRepository
func NewPostgresTenantRepository(db DBTX) *PostgresTenantRepository {
	return &PostgresTenantRepository{db: db}
}

func selectTenants() sq.SelectBuilder {
	return psql.Select(
		"t.id", "t.user_id", "t.name", "t.phone", "t.email", "t.room_id", "t.deposit", "t.join_date",
		"r.id", "r.room_number", "r.floor", "r.occupied",
	).
		From("tenants t").
		LeftJoin("rooms r ON r.id = t.room_id")
}

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	var (
		roomID     *int64
		roomNumber *string
		floor      *int
		occupied   *bool
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Phone, &t.Email, &t.RoomID, &t.Deposit, &t.JoinDate,
		&roomID, &roomNumber, &floor, &occupied,
	)
	if err != nil {
		return nil, err
	}
	if roomID != nil {
		t.Room = &domain.Room{ID: *roomID}
		if roomNumber != nil {
			t.Room.RoomNumber = *roomNumber
		}
		if floor != nil {
			t.Room.Floor = *floor
		}
		if occupied != nil {
			t.Room.Occupied = *occupied
		}
	}
	return t, nil
}

// Create creates a new tenant
func (r *PostgresTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	query, args, err := psql.Insert("tenants").
		Columns("user_id", "name", "phone", "email", "room_id", "deposit", "join_date").
		Values(tenant.UserID, tenant.Name, tenant.Phone, tenant.Email, tenant.RoomID, tenant.Deposit, tenant.JoinDate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	return translate(r.db.QueryRow(ctx, query, args...).Scan(&tenant.ID), "create tenant")
}

// List returns all tenants with their room, ordered by id
func (r *PostgresTenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	query, args, err := selectTenants().OrderBy("t.id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list tenants")
	}
	defer rows.Close()

	tenants := make([]*domain.Tenant, 0)
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, translate(err, "scan tenant")
		}
		tenants = append(tenants, t)
	}
	return tenants, translate(rows.Err(), "list tenants")
}

// GetByUserID retrieves the tenant of a login account
func (r *PostgresTenantRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Tenant, error) {
	query, args, err := selectTenants().Where("t.user_id = ?", userID).ToSql()
	if err != nil {
		return nil, err
	}
	t, err := scanTenant(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "get tenant by user")
	}
	return t, nil
}

// GetByID retrieves a tenant by ID
func (r *PostgresTenantRepository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	query, args, err := selectTenants().Where("t.id = ?", id).ToSql()
	if err != nil {
		return nil, err
	}
	t, err := scanTenant(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "get tenant")
	}
	return t, nil
}
