package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/internal/repository"
	"github.com/Keerthana22gh/pg-management-system/pkg/kafka"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/telemetry"
)

// TenantService defines the interface for tenant and room management
type TenantService interface {
	// ListTenants returns all tenants with their room
	ListTenants(ctx context.Context) ([]*domain.Tenant, error)
	// Onboard creates the login, the tenant and occupies the room atomically
	Onboard(ctx context.Context, in *domain.Onboarding) (*domain.Tenant, error)
	// Profile returns the tenant behind a session's user id
	Profile(ctx context.Context, userID int64) (*domain.Tenant, error)
	// ListRooms returns all rooms by room number
	ListRooms(ctx context.Context) ([]*domain.Room, error)
	// CreateRoom adds an unoccupied room
	CreateRoom(ctx context.Context, roomNumber string, floor int) (*domain.Room, error)
}

type tenantService struct {
	base
	repos  *repository.Repositories
	tx     repository.Transactor
	hasher *PasswordHasher
}

// NewTenantService creates a new TenantService
func NewTenantService(
	repos *repository.Repositories,
	tx repository.Transactor,
	hasher *PasswordHasher,
	events kafka.Publisher,
	metrics *telemetry.Metrics,
	log *logger.Logger,
) TenantService {
	return &tenantService{
		base:   newBase(events, metrics, log),
		repos:  repos,
		tx:     tx,
		hasher: hasher,
	}
}

func (s *tenantService) ListTenants(ctx context.Context) ([]*domain.Tenant, error) {
	ctx, span := s.startSpan(ctx, "service.tenant.list")
	defer span.End()
	return s.repos.Tenants.List(ctx)
}

func (s *tenantService) Onboard(ctx context.Context, in *domain.Onboarding) (_ *domain.Tenant, err error) {
	ctx, span := s.startSpan(ctx, "service.tenant.onboard", int64Attr("room.id", in.RoomID))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var tenant *domain.Tenant
	err = s.tx.WithTx(ctx, func(r *repository.Repositories) error {
		room, err := r.Rooms.GetByIDForUpdate(ctx, in.RoomID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		if room.Occupied {
			return domain.ErrRoomOccupied
		}

		user := &domain.User{
			LoginID:      in.LoginID,
			PasswordHash: hash,
			Role:         domain.RoleTenant,
			IsActive:     true,
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}

		tenant = in.NewTenant(user.ID, s.today())
		if err := r.Tenants.Create(ctx, tenant); err != nil {
			return err
		}

		if err := r.Rooms.SetOccupied(ctx, room.ID, true); err != nil {
			return err
		}
		room.Occupied = true
		tenant.Room = room
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("onboard tenant: %w", err)
	}

	s.metrics.TenantsOnboarded.Inc(ctx)
	s.log.InfoContext(ctx, "tenant onboarded",
		zap.Int64("tenant_id", tenant.ID),
		zap.Int64("user_id", tenant.UserID),
		zap.Int64("room_id", in.RoomID),
	)
	s.publish(ctx, tenant.ID, domain.EventTenantOnboarded, map[string]any{
		"tenant_id": tenant.ID,
		"user_id":   tenant.UserID,
		"room_id":   in.RoomID,
		"join_date": tenant.JoinDate.Format(domain.DateLayout),
	})
	return tenant, nil
}

func (s *tenantService) Profile(ctx context.Context, userID int64) (_ *domain.Tenant, err error) {
	ctx, span := s.startSpan(ctx, "service.tenant.profile")
	defer func() { telemetry.EndSpan(span, err) }()
	return resolveTenant(ctx, s.repos.Tenants, userID)
}

func (s *tenantService) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	ctx, span := s.startSpan(ctx, "service.room.list")
	defer span.End()
	return s.repos.Rooms.List(ctx)
}

func (s *tenantService) CreateRoom(ctx context.Context, roomNumber string, floor int) (_ *domain.Room, err error) {
	ctx, span := s.startSpan(ctx, "service.room.create")
	defer func() { telemetry.EndSpan(span, err) }()

	room, err := domain.NewRoom(roomNumber, floor)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}
