package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// PostgresMaintenanceRepository implements MaintenanceRepository using PostgreSQL
type PostgresMaintenanceRepository struct {
	db DBTX
}

// NewPostgresMaintenanceRepository creates a new PostgresMaintenanceRepository
func NewPostgresMaintenanceRepository(db DBTX) *PostgresMaintenanceRepository {
	return &PostgresMaintenanceRepository{db: db}
}

var maintenanceColumns = []string{
	"m.id", "m.tenant_id", "m.title", "m.description", "m.status", "m.created_at", "m.updated_at",
}

func scanMaintenance(row rowScanner, extra ...any) (*domain.MaintenanceRequest, error) {
	m := &domain.MaintenanceRequest{}
	dest := append([]any{
		&m.ID, &m.TenantID, &m.Title, &m.Description, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return m, nil
}

func listAllMaintenanceQuery() sq.SelectBuilder {
	return psql.Select(append(maintenanceColumns, "t.name", "r.room_number")...).
		From("maintenance_requests m").
		Join("tenants t ON t.id = m.tenant_id").
		LeftJoin("rooms r ON r.id = t.room_id").
		OrderBy("m.created_at DESC", "m.id DESC")
}

// Create creates a new maintenance request
func (r *PostgresMaintenanceRepository) Create(ctx context.Context, m *domain.MaintenanceRequest) error {
	query, args, err := psql.Insert("maintenance_requests").
		Columns("tenant_id", "title", "description", "status").
		Values(m.TenantID, m.Title, m.Description, m.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return translate(err, "create maintenance request")
}

// ListAll returns every request joined with its tenant and room
func (r *PostgresMaintenanceRepository) ListAll(ctx context.Context) ([]*domain.MaintenanceRequest, error) {
	query, args, err := listAllMaintenanceQuery().ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list maintenance requests")
	}
	defer rows.Close()

	list := make([]*domain.MaintenanceRequest, 0)
	for rows.Next() {
		ref := &domain.TenantRef{}
		m, err := scanMaintenance(rows, &ref.Name, &ref.RoomNumber)
		if err != nil {
			return nil, translate(err, "scan maintenance request")
		}
		m.Tenant = ref
		list = append(list, m)
	}
	return list, translate(rows.Err(), "list maintenance requests")
}

// ListByTenant returns one tenant's requests
func (r *PostgresMaintenanceRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.MaintenanceRequest, error) {
	query, args, err := psql.Select(maintenanceColumns...).
		From("maintenance_requests m").
		Where(sq.Eq{"m.tenant_id": tenantID}).
		OrderBy("m.created_at DESC", "m.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list tenant maintenance requests")
	}
	defer rows.Close()

	list := make([]*domain.MaintenanceRequest, 0)
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, translate(err, "scan maintenance request")
		}
		list = append(list, m)
	}
	return list, translate(rows.Err(), "list tenant maintenance requests")
}

// GetByIDForUpdate locks and returns a request
func (r *PostgresMaintenanceRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.MaintenanceRequest, error) {
	query, args, err := psql.Select(maintenanceColumns...).
		From("maintenance_requests m").
		Where(sq.Eq{"m.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}
	m, err := scanMaintenance(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "get maintenance request")
	}
	return m, nil
}

// UpdateStatus writes the request's status and bumps updated_at
func (r *PostgresMaintenanceRepository) UpdateStatus(ctx context.Context, m *domain.MaintenanceRequest) error {
	query, args, err := psql.Update("maintenance_requests").
		Set("status", m.Status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": m.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, query, args...).Scan(&m.UpdatedAt)
	return translate(err, "update maintenance status")
}
