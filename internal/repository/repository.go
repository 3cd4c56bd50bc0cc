package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type rowScanner interface {
	Scan(dest ...any) error
}

// UserRepository defines the interface for login account data access
type UserRepository interface {
	// Create inserts the user and sets its ID and CreatedAt
	Create(ctx context.Context, user *domain.User) error
	// GetByLoginID retrieves a user by login id
	GetByLoginID(ctx context.Context, loginID string) (*domain.User, error)
	// GetByID retrieves a user by row id
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// SetActive activates or deactivates a user
	SetActive(ctx context.Context, id int64, active bool) error
}

// RoomRepository defines the interface for room data access
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	// List returns all rooms ordered by room number
	List(ctx context.Context) ([]*domain.Room, error)
	// GetByIDForUpdate locks and returns a room. Only meaningful in a transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Room, error)
	SetOccupied(ctx context.Context, id int64, occupied bool) error
}

// TenantRepository defines the interface for tenant data access
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	// List returns all tenants joined with their room, ordered by id
	List(ctx context.Context) ([]*domain.Tenant, error)
	// GetByUserID returns the tenant of a login account joined with its room
	GetByUserID(ctx context.Context, userID int64) (*domain.Tenant, error)
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// PaymentRepository defines the interface for rent payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.RentPayment) error
	// ListAll returns every payment with its tenant, newest month first
	ListAll(ctx context.Context) ([]*domain.RentPayment, error)
	// ListByTenant returns one tenant's payments, newest month first
	ListByTenant(ctx context.Context, tenantID int64) ([]*domain.RentPayment, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.RentPayment, error)
	UpdateStatus(ctx context.Context, payment *domain.RentPayment) error
}

// MaintenanceRepository defines the interface for maintenance request data access
type MaintenanceRepository interface {
	Create(ctx context.Context, req *domain.MaintenanceRequest) error
	// ListAll returns every request with its tenant, newest first
	ListAll(ctx context.Context) ([]*domain.MaintenanceRequest, error)
	// ListByTenant returns one tenant's requests, newest first
	ListByTenant(ctx context.Context, tenantID int64) ([]*domain.MaintenanceRequest, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.MaintenanceRequest, error)
	UpdateStatus(ctx context.Context, req *domain.MaintenanceRequest) error
}

// VacateRepository defines the interface for vacate request data access
type VacateRepository interface {
	Create(ctx context.Context, req *domain.VacateRequest) error
	// ListAll returns every request with its tenant, newest first
	ListAll(ctx context.Context) ([]*domain.VacateRequest, error)
	// ListByTenant returns one tenant's requests, newest first
	ListByTenant(ctx context.Context, tenantID int64) ([]*domain.VacateRequest, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.VacateRequest, error)
	Update(ctx context.Context, req *domain.VacateRequest) error
	// HasOpen reports whether the tenant has a pending or approved request
	HasOpen(ctx context.Context, tenantID int64) (bool, error)
}

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Users       UserRepository
	Rooms       RoomRepository
	Tenants     TenantRepository
	Payments    PaymentRepository
	Maintenance MaintenanceRepository
	Vacate      VacateRepository
}

// Transactor runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(repos *Repositories) error) error
}

// NewRepositories binds the Postgres repositories to db
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Users:       NewPostgresUserRepository(db),
		Rooms:       NewPostgresRoomRepository(db),
		Tenants:     NewPostgresTenantRepository(db),
		Payments:    NewPostgresPaymentRepository(db),
		Maintenance: NewPostgresMaintenanceRepository(db),
		Vacate:      NewPostgresVacateRepository(db),
	}
}
