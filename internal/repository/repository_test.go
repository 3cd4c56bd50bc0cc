package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/migrations"
	"github.com/Keerthana22gh/pg-management-system/pkg/database"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{
			name:   "no rows",
			err:    pgx.ErrNoRows,
			wantIs: domain.ErrNotFound,
		},
		{
			name:    "duplicate login id",
			err:     &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_user_id_key"},
			wantIs:  domain.ErrConflict,
			wantMsg: "User ID already exists",
		},
		{
			name:    "second open vacate request",
			err:     &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "uq_vacate_open_per_tenant"},
			wantIs:  domain.ErrConflict,
			wantMsg: "An open vacate request already exists",
		},
		{
			name:   "other unique violation",
			err:    &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "something_else"},
			wantIs: domain.ErrConflict,
		},
		{
			name:   "check violation",
			err:    &pgconn.PgError{Code: codeCheckViolation},
			wantIs: domain.ErrValidation,
		},
		{
			name:   "foreign key violation",
			err:    &pgconn.PgError{Code: codeForeignKeyViolation},
			wantIs: domain.ErrValidation,
		},
		{
			name:   "deadline exceeded",
			err:    fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantIs: domain.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.err, "op")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)

			if tt.wantMsg != "" {
				var derr *domain.Error
				require.True(t, errors.As(err, &derr))
				assert.Equal(t, tt.wantMsg, derr.Message)
			}
		})
	}

	assert.NoError(t, translate(nil, "op"))

	plain := errors.New("boom")
	err := translate(plain, "op")
	assert.ErrorIs(t, err, plain)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestExpectOne(t *testing.T) {
	assert.ErrorIs(t, expectOne(pgconn.NewCommandTag("UPDATE 0"), "op"), domain.ErrNotFound)
	assert.NoError(t, expectOne(pgconn.NewCommandTag("UPDATE 1"), "op"))
}

func TestListingOrder(t *testing.T) {
	tests := []struct {
		name      string
		sql       func() (string, []interface{}, error)
		wantOrder string
	}{
		{"rooms by number", listRoomsQuery, "ORDER BY room_number ASC"},
		{"payments by month", listAllPaymentsQuery().ToSql, "ORDER BY p.month DESC, p.id DESC"},
		{"tenant payments by month", listTenantPaymentsQuery(4).ToSql, "ORDER BY p.month DESC, p.id DESC"},
		{"maintenance newest first", listAllMaintenanceQuery().ToSql, "ORDER BY m.created_at DESC, m.id DESC"},
		{"vacate newest first", listAllVacateQuery().ToSql, "ORDER BY v.created_at DESC, v.id DESC"},
		{"tenants by id", selectTenants().OrderBy("t.id ASC").ToSql, "ORDER BY t.id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := tt.sql()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.wantOrder)
		})
	}
}

func TestListTenantPaymentsQuery_ScopedToTenant(t *testing.T) {
	sql, args, err := listTenantPaymentsQuery(42).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE p.tenant_id = $1")
	assert.Equal(t, []interface{}{int64(42)}, args)
}

func TestAdminListingsJoinTenantAndRoom(t *testing.T) {
	for _, q := range []func() (string, []interface{}, error){
		listAllPaymentsQuery().ToSql,
		listAllMaintenanceQuery().ToSql,
		listAllVacateQuery().ToSql,
	} {
		sql, _, err := q()
		require.NoError(t, err)
		assert.Contains(t, sql, "JOIN tenants t ON t.id =")
		assert.Contains(t, sql, "LEFT JOIN rooms r ON r.id = t.room_id")
		assert.Contains(t, sql, "r.room_number")
	}
}

// Integration tests below need a migrated PostgreSQL database.

func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setupTestStore(t *testing.T) (*Store, *database.PostgresDB) {
	t.Helper()
	ctx := context.Background()

	cfg := database.DefaultPostgresConfig()
	cfg.Host = getEnv("DATABASE_HOST", "localhost")
	cfg.User = getEnv("DATABASE_USER", "postgres")
	cfg.Password = getEnv("DATABASE_PASSWORD", "postgres")
	cfg.Database = getEnv("DATABASE_DBNAME", "pg_management_test")
	cfg.MaxRetries = 1

	require.NoError(t, database.NewMigrator(cfg.DSN(), migrations.FS, "").Up(ctx))

	db, err := database.NewPostgres(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return NewStore(db.Pool()), db
}

func TestStore_OnboardingRollsBack_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	store, _ := setupTestStore(t)
	ctx := context.Background()

	room := &domain.Room{RoomNumber: fmt.Sprintf("T%d", time.Now().UnixNano()%1_000_000), Floor: 1}
	require.NoError(t, store.Rooms.Create(ctx, room))

	loginID := fmt.Sprintf("it-%d", time.Now().UnixNano())
	boom := errors.New("fail after insert")

	err := store.WithTx(ctx, func(repos *Repositories) error {
		require.NoError(t, repos.Users.Create(ctx, &domain.User{
			LoginID: loginID, PasswordHash: "x", Role: domain.RoleTenant, IsActive: true,
		}))
		require.NoError(t, repos.Rooms.SetOccupied(ctx, room.ID, true))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Users.GetByLoginID(ctx, loginID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rooms, err := store.Rooms.List(ctx)
	require.NoError(t, err)
	for _, r := range rooms {
		if r.ID == room.ID {
			assert.False(t, r.Occupied, "room must stay free after rollback")
		}
	}
}

func TestStore_DuplicateLoginID_Integration(t *testing.T) {
	skipIfNoIntegration(t)
	store, _ := setupTestStore(t)
	ctx := context.Background()

	loginID := fmt.Sprintf("dup-%d", time.Now().UnixNano())
	u := &domain.User{LoginID: loginID, PasswordHash: "x", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, store.Users.Create(ctx, u))
	assert.NotZero(t, u.ID)

	err := store.Users.Create(ctx, &domain.User{LoginID: loginID, PasswordHash: "y", Role: domain.RoleAdmin, IsActive: true})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
