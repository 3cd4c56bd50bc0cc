package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// PostgresVacateRepository implements VacateRepository using PostgreSQL
type PostgresVacateRepository struct {
	db DBTX
}

// NewPostgresVacateRepository creates a new PostgresVacateRepository
func NewPostgresVacateRepository(db DBTX) *PostgresVacateRepository {
	return &PostgresVacateRepository{db: db}
}

var vacateColumns = []string{
	"v.id", "v.tenant_id", "v.vacate_date", "v.reason", "v.status",
	"v.dues", "v.deposit_returned", "v.created_at", "v.updated_at",
}

var openVacateStatuses = []string{
	string(domain.VacateStatusPending),
	string(domain.VacateStatusApproved),
}

func scanVacate(row rowScanner, extra ...any) (*domain.VacateRequest, error) {
	v := &domain.VacateRequest{}
	dest := append([]any{
		&v.ID, &v.TenantID, &v.VacateDate, &v.Reason, &v.Status,
		&v.Dues, &v.DepositReturned, &v.CreatedAt, &v.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return v, nil
}

func listAllVacateQuery() sq.SelectBuilder {
	return psql.Select(append(vacateColumns, "t.name", "r.room_number")...).
		From("vacate_requests v").
		Join("tenants t ON t.id = v.tenant_id").
		LeftJoin("rooms r ON r.id = t.room_id").
		OrderBy("v.created_at DESC", "v.id DESC")
}

// Create creates a new vacate request
func (r *PostgresVacateRepository) Create(ctx context.Context, v *domain.VacateRequest) error {
	query, args, err := psql.Insert("vacate_requests").
		Columns("tenant_id", "vacate_date", "reason", "status", "dues", "deposit_returned").
		Values(v.TenantID, v.VacateDate, v.Reason, v.Status, v.Dues, v.DepositReturned).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, query, args...).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return translate(err, "create vacate request")
}

// ListAll returns every request joined with its tenant and room
func (r *PostgresVacateRepository) ListAll(ctx context.Context) ([]*domain.VacateRequest, error) {
	query, args, err := listAllVacateQuery().ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list vacate requests")
	}
	defer rows.Close()

	list := make([]*domain.VacateRequest, 0)
	for rows.Next() {
		ref := &domain.TenantRef{}
		v, err := scanVacate(rows, &ref.Name, &ref.RoomNumber)
		if err != nil {
			return nil, translate(err, "scan vacate request")
		}
		v.Tenant = ref
		list = append(list, v)
	}
	return list, translate(rows.Err(), "list vacate requests")
}

// ListByTenant returns one tenant's requests
func (r *PostgresVacateRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.VacateRequest, error) {
	query, args, err := psql.Select(vacateColumns...).
		From("vacate_requests v").
		Where(sq.Eq{"v.tenant_id": tenantID}).
		OrderBy("v.created_at DESC", "v.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list tenant vacate requests")
	}
	defer rows.Close()

	list := make([]*domain.VacateRequest, 0)
	for rows.Next() {
		v, err := scanVacate(rows)
		if err != nil {
			return nil, translate(err, "scan vacate request")
		}
		list = append(list, v)
	}
	return list, translate(rows.Err(), "list tenant vacate requests")
}

// GetByIDForUpdate locks and returns a request
func (r *PostgresVacateRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.VacateRequest, error) {
	query, args, err := psql.Select(vacateColumns...).
		From("vacate_requests v").
		Where(sq.Eq{"v.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}
	v, err := scanVacate(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "get vacate request")
	}
	return v, nil
}

// Update writes status, dues and deposit_returned and bumps updated_at
func (r *PostgresVacateRepository) Update(ctx context.Context, v *domain.VacateRequest) error {
	query, args, err := psql.Update("vacate_requests").
		SetMap(map[string]interface{}{
			"status":           v.Status,
			"dues":             v.Dues,
			"deposit_returned": v.DepositReturned,
			"updated_at":       sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": v.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return translate(r.db.QueryRow(ctx, query, args...).Scan(&v.UpdatedAt), "update vacate request")
}

// HasOpen reports whether the tenant has a pending or approved request
func (r *PostgresVacateRepository) HasOpen(ctx context.Context, tenantID int64) (bool, error) {
	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("vacate_requests").
		Where(sq.Eq{"tenant_id": tenantID, "status": openVacateStatuses}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, translate(err, "check open vacate request")
	}
	return exists, nil
}
