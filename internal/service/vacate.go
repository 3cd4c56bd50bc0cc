package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/internal/repository"
	"github.com/Keerthana22gh/pg-management-system/pkg/kafka"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/telemetry"
)

// VacateService defines the interface for move-out requests
type VacateService interface {
	ListAll(ctx context.Context) ([]*domain.VacateRequest, error)
	ListForTenant(ctx context.Context, userID int64) ([]*domain.VacateRequest, error)
	// Create files a pending request for the session tenant
	Create(ctx context.Context, userID int64, vacateDate, reason string) (*domain.VacateRequest, error)
	// Update applies an admin's partial update. Completing a request frees
	// the room and deactivates the tenant's login in the same transaction.
	Update(ctx context.Context, u domain.VacateUpdate) (*domain.VacateRequest, error)
}

type vacateService struct {
	base
	repos *repository.Repositories
	tx    repository.Transactor
}

// NewVacateService creates a new VacateService
func NewVacateService(
	repos *repository.Repositories,
	tx repository.Transactor,
	events kafka.Publisher,
	metrics *telemetry.Metrics,
	log *logger.Logger,
) VacateService {
	return &vacateService{
		base:  newBase(events, metrics, log),
		repos: repos,
		tx:    tx,
	}
}

func (s *vacateService) ListAll(ctx context.Context) ([]*domain.VacateRequest, error) {
	ctx, span := s.startSpan(ctx, "service.vacate.list_all")
	defer span.End()
	return s.repos.Vacate.ListAll(ctx)
}

func (s *vacateService) ListForTenant(ctx context.Context, userID int64) (_ []*domain.VacateRequest, err error) {
	ctx, span := s.startSpan(ctx, "service.vacate.list_own")
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := resolveTenant(ctx, s.repos.Tenants, userID)
	if err != nil {
		return nil, err
	}
	return s.repos.Vacate.ListByTenant(ctx, tenant.ID)
}

func (s *vacateService) Create(ctx context.Context, userID int64, vacateDate, reason string) (_ *domain.VacateRequest, err error) {
	ctx, span := s.startSpan(ctx, "service.vacate.create")
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := resolveTenant(ctx, s.repos.Tenants, userID)
	if err != nil {
		return nil, err
	}

	req, err := domain.NewVacateRequest(tenant.ID, vacateDate, reason)
	if err != nil {
		return nil, err
	}

	open, err := s.repos.Vacate.HasOpen(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, domain.ErrOpenVacateRequest
	}

	// the partial unique index catches a concurrent second request
	if err := s.repos.Vacate.Create(ctx, req); err != nil {
		return nil, err
	}

	s.publish(ctx, tenant.ID, domain.EventVacateRequested, map[string]any{
		"request_id":  req.ID,
		"tenant_id":   tenant.ID,
		"vacate_date": req.VacateDate.Format(domain.DateLayout),
	})
	return req, nil
}

func (s *vacateService) Update(ctx context.Context, u domain.VacateUpdate) (_ *domain.VacateRequest, err error) {
	ctx, span := s.startSpan(ctx, "service.vacate.update", int64Attr("vacate.id", u.ID))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := u.Validate(); err != nil {
		return nil, err
	}

	var (
		req           *domain.VacateRequest
		changed       bool
		statusChanged bool
		completed     bool
		tenant        *domain.Tenant
	)
	err = s.tx.WithTx(ctx, func(r *repository.Repositories) error {
		v, err := r.Vacate.GetByIDForUpdate(ctx, u.ID)
		if err != nil {
			return err
		}
		prev := v.Status
		if changed, completed, err = v.Apply(u); err != nil {
			return err
		}
		req = v
		if !changed {
			return nil
		}
		statusChanged = v.Status != prev
		if err := r.Vacate.Update(ctx, v); err != nil {
			return err
		}

		if !completed {
			return nil
		}

		tenant, err = r.Tenants.GetByID(ctx, v.TenantID)
		if err != nil {
			return fmt.Errorf("load vacating tenant: %w", err)
		}
		if tenant.RoomID != nil {
			if err := r.Rooms.SetOccupied(ctx, *tenant.RoomID, false); err != nil {
				return err
			}
		}
		return r.Users.SetActive(ctx, tenant.UserID, false)
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		return req, nil
	}
	if statusChanged {
		s.metrics.StatusChanges.Inc(ctx, telemetry.ResourceAttr("vacate"), telemetry.StatusAttr(string(req.Status)))
	}
	if completed {
		s.log.InfoContext(ctx, "vacate completed",
			zap.Int64("request_id", req.ID),
			zap.Int64("tenant_id", tenant.ID),
			zap.Int64("user_id", tenant.UserID),
		)
		s.publish(ctx, req.TenantID, domain.EventVacateCompleted, map[string]any{
			"request_id":       req.ID,
			"tenant_id":        req.TenantID,
			"room_id":          tenant.RoomID,
			"dues":             req.Dues,
			"deposit_returned": req.DepositReturned,
		})
	} else {
		s.publish(ctx, req.TenantID, domain.EventVacateUpdated, map[string]any{
			"request_id": req.ID,
			"status":     req.Status,
		})
	}
	return req, nil
}
