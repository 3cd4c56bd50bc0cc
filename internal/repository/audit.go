package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Keerthana22gh/pg-management-system/pkg/middleware"
)

// PostgresAuditRepository writes audit entries to audit_logs. It implements
// middleware.AuditSink.
type PostgresAuditRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAuditRepository creates a new PostgresAuditRepository
func NewPostgresAuditRepository(pool *pgxpool.Pool) *PostgresAuditRepository {
	return &PostgresAuditRepository{pool: pool}
}

const insertAuditSQL = `
	INSERT INTO audit_logs (id, user_id, user_role, action, resource_type, resource_id,
	                        ip_address, user_agent, request_id, status_code, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

// WriteAuditEntries inserts entries in a single batch
func (r *PostgresAuditRepository) WriteAuditEntries(ctx context.Context, entries []*middleware.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		var metadata []byte
		if len(e.Metadata) > 0 {
			b, err := json.Marshal(e.Metadata)
			if err != nil {
				return fmt.Errorf("marshal audit metadata: %w", err)
			}
			metadata = b
		}
		batch.Queue(insertAuditSQL,
			e.ID, e.UserID, e.UserRole, string(e.Action), e.ResourceType, e.ResourceID,
			e.IPAddress, e.UserAgent, e.RequestID, e.StatusCode, metadata, e.CreatedAt,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range entries {
		if _, err := br.Exec(); err != nil {
			return translate(err, "insert audit entry")
		}
	}
	return nil
}

var _ middleware.AuditSink = (*PostgresAuditRepository)(nil)
