package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
)

// Context keys for audit data
const (
	ContextKeyAuditResourceID = "audit_resource_id"
	ContextKeyAuditMetadata   = "audit_metadata"
)

// AuditEntry is one row of the audit trail
type AuditEntry struct {
	ID           string                 `json:"id"`
	UserID       *int64                 `json:"user_id,omitempty"`
	UserRole     string                 `json:"user_role,omitempty"`
	Action       AuditAction            `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id,omitempty"`
	IPAddress    string                 `json:"ip_address,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	StatusCode   int                    `json:"status_code"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// AuditSink persists batches of audit entries
type AuditSink interface {
	WriteAuditEntries(ctx context.Context, entries []*AuditEntry) error
}

// AuditConfig holds configuration for the audit middleware
type AuditConfig struct {
	Sink          AuditSink
	Logger        *logger.Logger
	BufferSize    int           // default 1000
	FlushInterval time.Duration // default 5s
	BatchSize     int           // default 100
	// PathPrefixes limits auditing to matching paths
	PathPrefixes []string
	// SkipMethods are never audited
	SkipMethods []string
}

// DefaultAuditConfig returns default configuration
func DefaultAuditConfig(sink AuditSink) *AuditConfig {
	return &AuditConfig{
		Sink:          sink,
		BufferSize:    1000,
		FlushInterval: 5 * time.Second,
		BatchSize:     100,
		PathPrefixes:  []string{"/api/", "/login"},
		SkipMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}
}

// AuditLogger buffers entries and writes them in batches from one goroutine
type AuditLogger struct {
	config    *AuditConfig
	log       *logger.Logger
	buffer    chan *AuditEntry
	wg        sync.WaitGroup
	closeOnce sync.Once
	dropped   int64
	closed    bool
	mu        sync.Mutex
}

// NewAuditLogger creates a new audit logger and starts its worker
func NewAuditLogger(config *AuditConfig) *AuditLogger {
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}

	log := config.Logger
	if log == nil {
		log = logger.NewNop()
	}

	al := &AuditLogger{
		config: config,
		log:    log,
		buffer: make(chan *AuditEntry, config.BufferSize),
	}

	al.wg.Add(1)
	go al.worker()

	return al
}

// Log adds an audit entry to the buffer without blocking. Entries are
// dropped when the buffer is full or the logger is closed.
func (al *AuditLogger) Log(entry *AuditEntry) {
	al.mu.Lock()
	defer al.mu.Unlock()
	if al.closed {
		al.dropped++
		return
	}
	select {
	case al.buffer <- entry:
	default:
		al.dropped++
	}
}

// Dropped returns how many entries were discarded because the buffer was full
func (al *AuditLogger) Dropped() int64 {
	al.mu.Lock()
	defer al.mu.Unlock()
	return al.dropped
}

// Close stops accepting entries and flushes what is buffered
func (al *AuditLogger) Close() error {
	al.closeOnce.Do(func() {
		al.mu.Lock()
		al.closed = true
		close(al.buffer)
		al.mu.Unlock()
		al.wg.Wait()
	})
	return nil
}

func (al *AuditLogger) worker() {
	defer al.wg.Done()

	ticker := time.NewTicker(al.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]*AuditEntry, 0, al.config.BatchSize)

	for {
		select {
		case entry, ok := <-al.buffer:
			if !ok {
				al.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= al.config.BatchSize {
				al.flush(batch)
				batch = make([]*AuditEntry, 0, al.config.BatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				al.flush(batch)
				batch = make([]*AuditEntry, 0, al.config.BatchSize)
			}
		}
	}
}

func (al *AuditLogger) flush(entries []*AuditEntry) {
	if len(entries) == 0 || al.config.Sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := al.config.Sink.WriteAuditEntries(ctx, entries); err != nil {
		al.log.Error("failed to write audit entries",
			zap.Int("count", len(entries)),
			zap.Error(err),
		)
	}
}

func (al *AuditLogger) shouldAudit(method, path string) bool {
	for _, m := range al.config.SkipMethods {
		if method == m {
			return false
		}
	}
	if len(al.config.PathPrefixes) == 0 {
		return true
	}
	for _, p := range al.config.PathPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuditMiddleware records every mutating request after it completes
func AuditMiddleware(al *AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !al.shouldAudit(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		startTime := time.Now()

		c.Next()

		entry := &AuditEntry{
			ID:           uuid.New().String(),
			Action:       actionFor(c.Request.Method, c.Request.URL.Path),
			ResourceType: resourceFor(c.Request.URL.Path),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			RequestID:    logger.RequestIDFromContext(c.Request.Context()),
			StatusCode:   c.Writer.Status(),
			CreatedAt:    startTime,
		}

		if id, ok := GetIdentity(c); ok {
			userID := id.UserID
			entry.UserID = &userID
			entry.UserRole = id.Role
		}
		if rid, ok := c.Get(ContextKeyAuditResourceID); ok {
			entry.ResourceID, _ = rid.(string)
		}
		if meta, ok := c.Get(ContextKeyAuditMetadata); ok {
			entry.Metadata, _ = meta.(map[string]interface{})
		}

		al.Log(entry)
	}
}

func actionFor(method, path string) AuditAction {
	if path == "/login" {
		return AuditActionLogin
	}
	switch method {
	case http.MethodPut, http.MethodPatch:
		return AuditActionUpdate
	case http.MethodDelete:
		return AuditActionDelete
	default:
		return AuditActionCreate
	}
}

// resourceFor returns the singular resource name of a path.
// Example: /api/admin/tenants -> tenant, /api/tenant/maintenance -> maintenance
func resourceFor(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "unknown"
	}
	return strings.TrimSuffix(parts[len(parts)-1], "s")
}

// SetAuditResourceID sets the resource ID for audit logging
func SetAuditResourceID(c *gin.Context, resourceID string) {
	c.Set(ContextKeyAuditResourceID, resourceID)
}

// SetAuditMetadata sets additional metadata for audit logging
func SetAuditMetadata(c *gin.Context, metadata map[string]interface{}) {
	c.Set(ContextKeyAuditMetadata, metadata)
}
