package repository

import (
	"context"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db DBTX
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var userColumns = []string{"id", "user_id", "password_hash", "role", "is_active", "created_at"}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.LoginID, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create creates a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query, args, err := psql.Insert("users").
		Columns("user_id", "password_hash", "role", "is_active").
		Values(user.LoginID, user.PasswordHash, user.Role, user.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt)
	return translate(err, "create user")
}

// GetByLoginID retrieves a user by login id
func (r *PostgresUserRepository) GetByLoginID(ctx context.Context, loginID string) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").
		Where("user_id = ?", loginID).
		ToSql()
	if err != nil {
		return nil, err
	}
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "get user by login id")
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, err
	}
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "get user")
	}
	return u, nil
}

// SetActive activates or deactivates a user
func (r *PostgresUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query, args, err := psql.Update("users").
		Set("is_active", active).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, "set user active")
	}
	return expectOne(tag, "set user active")
}
