package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver goose opens
	"github.com/pressly/goose/v3"
)

// Migrator applies goose migrations read from an embedded filesystem.
type Migrator struct {
	dsn  string
	fsys fs.FS
	dir  string
}

// NewMigrator returns a Migrator for the SQL files in dir of fsys.
func NewMigrator(dsn string, fsys fs.FS, dir string) *Migrator {
	if dir == "" {
		dir = "."
	}
	return &Migrator{dsn: dsn, fsys: fsys, dir: dir}
}

func (m *Migrator) open() (*sql.DB, error) {
	goose.SetBaseFS(m.fsys)

	db, err := goose.OpenDBWithDriver("pgx", m.dsn)
	if err != nil {
		return nil, fmt.Errorf("open db for migrations: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set dialect: %w", err)
	}

	return db, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := goose.UpContext(ctx, db, m.dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for range steps {
		if err := goose.DownContext(ctx, db, m.dir); err != nil {
			return fmt.Errorf("rollback: %w", err)
		}
	}
	return nil
}

// Status logs the applied state of every migration.
func (m *Migrator) Status(ctx context.Context) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := goose.StatusContext(ctx, db, m.dir); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	db, err := m.open()
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}
