package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	db DBTX
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(db DBTX) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

var paymentColumns = []string{
	"p.id", "p.tenant_id", "p.month", "p.amount", "p.status",
	"p.proof_url", "p.proof_key", "p.paid_date", "p.created_at",
}

func scanPayment(row rowScanner, extra ...any) (*domain.RentPayment, error) {
	p := &domain.RentPayment{}
	dest := append([]any{
		&p.ID, &p.TenantID, &p.Month, &p.Amount, &p.Status,
		&p.ProofURL, &p.ProofKey, &p.PaidDate, &p.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return p, nil
}

func listAllPaymentsQuery() sq.SelectBuilder {
	return psql.Select(append(paymentColumns, "t.name", "t.room_id", "r.room_number")...).
		From("rent_payments p").
		Join("tenants t ON t.id = p.tenant_id").
		LeftJoin("rooms r ON r.id = t.room_id").
		OrderBy("p.month DESC", "p.id DESC")
}

func listTenantPaymentsQuery(tenantID int64) sq.SelectBuilder {
	return psql.Select(paymentColumns...).
		From("rent_payments p").
		Where(sq.Eq{"p.tenant_id": tenantID}).
		OrderBy("p.month DESC", "p.id DESC")
}

// Create creates a new payment
func (r *PostgresPaymentRepository) Create(ctx context.Context, p *domain.RentPayment) error {
	query, args, err := psql.Insert("rent_payments").
		Columns("tenant_id", "month", "amount", "status", "proof_url", "proof_key", "paid_date").
		Values(p.TenantID, p.Month, p.Amount, p.Status, p.ProofURL, p.ProofKey, p.PaidDate).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	return translate(r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt), "create payment")
}

// ListAll returns every payment joined with its tenant and room
func (r *PostgresPaymentRepository) ListAll(ctx context.Context) ([]*domain.RentPayment, error) {
	query, args, err := listAllPaymentsQuery().ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list payments")
	}
	defer rows.Close()

	payments := make([]*domain.RentPayment, 0)
	for rows.Next() {
		ref := &domain.TenantRef{}
		p, err := scanPayment(rows, &ref.Name, &ref.RoomID, &ref.RoomNumber)
		if err != nil {
			return nil, translate(err, "scan payment")
		}
		p.Tenant = ref
		payments = append(payments, p)
	}
	return payments, translate(rows.Err(), "list payments")
}

// ListByTenant returns one tenant's payments
func (r *PostgresPaymentRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.RentPayment, error) {
	query, args, err := listTenantPaymentsQuery(tenantID).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list tenant payments")
	}
	defer rows.Close()

	payments := make([]*domain.RentPayment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, translate(err, "scan payment")
		}
		payments = append(payments, p)
	}
	return payments, translate(rows.Err(), "list tenant payments")
}

// GetByIDForUpdate locks and returns a payment
func (r *PostgresPaymentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.RentPayment, error) {
	query, args, err := psql.Select(paymentColumns...).
		From("rent_payments p").
		Where(sq.Eq{"p.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}
	p, err := scanPayment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "get payment")
	}
	return p, nil
}

// UpdateStatus writes the payment's status
func (r *PostgresPaymentRepository) UpdateStatus(ctx context.Context, p *domain.RentPayment) error {
	query, args, err := psql.Update("rent_payments").
		Set("status", p.Status).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, "update payment status")
	}
	return expectOne(tag, "update payment status")
}
