package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu      sync.Mutex
	entries []*AuditEntry
	batches int
}

func (s *memorySink) WriteAuditEntries(_ context.Context, entries []*AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	s.batches++
	return nil
}

func (s *memorySink) all() []*AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		expected AuditAction
	}{
		{"POST", "/api/admin/tenants", AuditActionCreate},
		{"PUT", "/api/admin/maintenance", AuditActionUpdate},
		{"PATCH", "/api/admin/vacate", AuditActionUpdate},
		{"DELETE", "/api/admin/rooms", AuditActionDelete},
		{"POST", "/login", AuditActionLogin},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, actionFor(tt.method, tt.path))
		})
	}
}

func TestResourceFor(t *testing.T) {
	assert.Equal(t, "tenant", resourceFor("/api/admin/tenants"))
	assert.Equal(t, "payment", resourceFor("/api/tenant/payments"))
	assert.Equal(t, "maintenance", resourceFor("/api/tenant/maintenance"))
	assert.Equal(t, "vacate", resourceFor("/api/admin/vacate"))
	assert.Equal(t, "unknown", resourceFor("/"))
}

func TestAuditLogger_FlushOnClose(t *testing.T) {
	sink := &memorySink{}
	al := NewAuditLogger(&AuditConfig{Sink: sink, FlushInterval: time.Hour, BatchSize: 100})

	for i := 0; i < 3; i++ {
		al.Log(&AuditEntry{ID: "e", Action: AuditActionCreate})
	}
	require.NoError(t, al.Close())
	require.NoError(t, al.Close())

	assert.Len(t, sink.all(), 3)
}

func TestAuditLogger_BatchSize(t *testing.T) {
	sink := &memorySink{}
	al := NewAuditLogger(&AuditConfig{Sink: sink, FlushInterval: time.Hour, BatchSize: 2})

	for i := 0; i < 4; i++ {
		al.Log(&AuditEntry{ID: "e"})
	}
	require.NoError(t, al.Close())

	assert.Len(t, sink.all(), 4)
	assert.GreaterOrEqual(t, sink.batches, 2)
}

func TestAuditLogger_DropsWhenFull(t *testing.T) {
	al := &AuditLogger{config: &AuditConfig{}, buffer: make(chan *AuditEntry, 1)}

	al.Log(&AuditEntry{})
	al.Log(&AuditEntry{})

	assert.Equal(t, int64(1), al.Dropped())
}

func TestAuditLogger_LogAfterClose(t *testing.T) {
	sink := &memorySink{}
	al := NewAuditLogger(&AuditConfig{Sink: sink, FlushInterval: time.Hour})

	al.Log(&AuditEntry{ID: "before"})
	require.NoError(t, al.Close())

	assert.NotPanics(t, func() { al.Log(&AuditEntry{ID: "after"}) })
	assert.Equal(t, int64(1), al.Dropped())
	assert.Len(t, sink.all(), 1)
	require.NoError(t, al.Close())
}

func TestAuditMiddleware(t *testing.T) {
	sink := &memorySink{}
	al := NewAuditLogger(&AuditConfig{
		Sink:          sink,
		FlushInterval: time.Hour,
		PathPrefixes:  []string{"/api/", "/login"},
		SkipMethods:   []string{http.MethodGet},
	})

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), &Identity{UserID: 1, Role: RoleAdmin}))
		c.Next()
	}, AuditMiddleware(al))

	router.PUT("/api/admin/maintenance", func(c *gin.Context) {
		SetAuditResourceID(c, "7")
		SetAuditMetadata(c, map[string]interface{}{"status": "resolved"})
		c.Status(http.StatusOK)
	})
	router.GET("/api/admin/maintenance", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/other", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, r := range []struct{ method, path string }{
		{http.MethodPut, "/api/admin/maintenance"},
		{http.MethodGet, "/api/admin/maintenance"},
		{http.MethodPost, "/other"},
	} {
		req := httptest.NewRequest(r.method, r.path, strings.NewReader("{}"))
		req.Header.Set("User-Agent", "test-agent")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.NoError(t, al.Close())

	entries := sink.all()
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, AuditActionUpdate, e.Action)
	assert.Equal(t, "maintenance", e.ResourceType)
	assert.Equal(t, "7", e.ResourceID)
	assert.Equal(t, http.StatusOK, e.StatusCode)
	assert.Equal(t, "test-agent", e.UserAgent)
	assert.NotEmpty(t, e.RequestID)
	require.NotNil(t, e.UserID)
	assert.Equal(t, int64(1), *e.UserID)
	assert.Equal(t, RoleAdmin, e.UserRole)
	assert.Equal(t, "resolved", e.Metadata["status"])
}
