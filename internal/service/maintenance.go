package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/internal/repository"
	"github.com/Keerthana22gh/pg-management-system/pkg/kafka"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/telemetry"
)

// MaintenanceService defines the interface for maintenance requests
type MaintenanceService interface {
	ListAll(ctx context.Context) ([]*domain.MaintenanceRequest, error)
	ListForTenant(ctx context.Context, userID int64) ([]*domain.MaintenanceRequest, error)
	// Create raises a pending request for the session tenant
	Create(ctx context.Context, userID int64, title, description string) (*domain.MaintenanceRequest, error)
	// UpdateStatus moves a request along its status table
	UpdateStatus(ctx context.Context, id int64, status domain.MaintenanceStatus) (*domain.MaintenanceRequest, error)
}

type maintenanceService struct {
	base
	repos *repository.Repositories
	tx    repository.Transactor
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(
	repos *repository.Repositories,
	tx repository.Transactor,
	events kafka.Publisher,
	metrics *telemetry.Metrics,
	log *logger.Logger,
) MaintenanceService {
	return &maintenanceService{
		base:  newBase(events, metrics, log),
		repos: repos,
		tx:    tx,
	}
}

func (s *maintenanceService) ListAll(ctx context.Context) ([]*domain.MaintenanceRequest, error) {
	ctx, span := s.startSpan(ctx, "service.maintenance.list_all")
	defer span.End()
	return s.repos.Maintenance.ListAll(ctx)
}

func (s *maintenanceService) ListForTenant(ctx context.Context, userID int64) (_ []*domain.MaintenanceRequest, err error) {
	ctx, span := s.startSpan(ctx, "service.maintenance.list_own")
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := resolveTenant(ctx, s.repos.Tenants, userID)
	if err != nil {
		return nil, err
	}
	return s.repos.Maintenance.ListByTenant(ctx, tenant.ID)
}

func (s *maintenanceService) Create(ctx context.Context, userID int64, title, description string) (_ *domain.MaintenanceRequest, err error) {
	ctx, span := s.startSpan(ctx, "service.maintenance.create")
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := resolveTenant(ctx, s.repos.Tenants, userID)
	if err != nil {
		return nil, err
	}

	req, err := domain.NewMaintenanceRequest(tenant.ID, title, description)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Maintenance.Create(ctx, req); err != nil {
		return nil, err
	}

	s.publish(ctx, tenant.ID, domain.EventMaintenanceRequested, map[string]any{
		"request_id": req.ID,
		"tenant_id":  tenant.ID,
		"title":      req.Title,
	})
	return req, nil
}

func (s *maintenanceService) UpdateStatus(ctx context.Context, id int64, status domain.MaintenanceStatus) (_ *domain.MaintenanceRequest, err error) {
	ctx, span := s.startSpan(ctx, "service.maintenance.update_status", int64Attr("maintenance.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		req     *domain.MaintenanceRequest
		changed bool
	)
	err = s.tx.WithTx(ctx, func(r *repository.Repositories) error {
		m, err := r.Maintenance.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if changed, err = m.SetStatus(status); err != nil {
			return err
		}
		req = m
		if !changed {
			return nil
		}
		return r.Maintenance.UpdateStatus(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.metrics.StatusChanges.Inc(ctx, telemetry.ResourceAttr("maintenance"), telemetry.StatusAttr(string(status)))
		s.log.InfoContext(ctx, "maintenance status changed",
			zap.Int64("request_id", id),
			zap.String("status", string(status)),
		)
		s.publish(ctx, req.TenantID, domain.EventMaintenanceStatusChange, map[string]any{
			"request_id": req.ID,
			"status":     req.Status,
		})
	}
	return req, nil
}
