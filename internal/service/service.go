package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/internal/repository"
	"github.com/Keerthana22gh/pg-management-system/pkg/kafka"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/telemetry"
)

// base holds what every service shares
type base struct {
	log     *logger.Logger
	metrics *telemetry.Metrics
	events  kafka.Publisher
	now     func() time.Time
}

func newBase(events kafka.Publisher, metrics *telemetry.Metrics, log *logger.Logger) base {
	if log == nil {
		log = logger.NewNop()
	}
	if metrics == nil {
		metrics = &telemetry.Metrics{}
	}
	if events == nil {
		events = kafka.NoopPublisher{}
	}
	return base{log: log, metrics: metrics, events: events, now: time.Now}
}

// today is the current calendar date at midnight UTC
func (b *base) today() time.Time {
	y, m, d := b.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (b *base) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := telemetry.StartSpan(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

// publish sends an event after a commit. A broker failure is logged and
// does not fail the request.
func (b *base) publish(ctx context.Context, key int64, eventType string, payload any) {
	event, err := kafka.NewEvent(eventType, payload)
	if err == nil {
		err = b.events.Publish(ctx, strconv.FormatInt(key, 10), event)
	}
	if err != nil {
		b.log.WarnContext(ctx, "failed to publish event",
			zap.String("event_type", eventType),
			zap.Int64("key", key),
			zap.Error(err),
		)
	}
}

// resolveTenant maps a session's user id to its tenant row
func resolveTenant(ctx context.Context, tenants repository.TenantRepository, userID int64) (*domain.Tenant, error) {
	tenant, err := tenants.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrTenantProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}
	return tenant, nil
}

func int64Attr(key string, v int64) attribute.KeyValue {
	return attribute.Int64(key, v)
}
