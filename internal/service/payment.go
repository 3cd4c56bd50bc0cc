package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/internal/repository"
	"github.com/Keerthana22gh/pg-management-system/internal/storage"
	"github.com/Keerthana22gh/pg-management-system/pkg/kafka"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/saga"
	"github.com/Keerthana22gh/pg-management-system/pkg/telemetry"
)

// ProofUpload is a tenant's payment form with the proof file
type ProofUpload struct {
	Month       string
	Amount      float64
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PaymentService defines the interface for rent payments
type PaymentService interface {
	// ListAll returns every payment with its tenant, newest month first
	ListAll(ctx context.Context) ([]*domain.RentPayment, error)
	// ListForTenant returns the session tenant's payments
	ListForTenant(ctx context.Context, userID int64) ([]*domain.RentPayment, error)
	// Submit stores the proof and records a pending payment
	Submit(ctx context.Context, userID int64, in *ProofUpload) (*domain.RentPayment, error)
	// Review verifies or rejects a pending payment
	Review(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.RentPayment, error)
}

type paymentService struct {
	base
	repos          *repository.Repositories
	tx             repository.Transactor
	blobs          storage.BlobStore
	sagas          *saga.Executor
	maxUploadBytes int64
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	repos *repository.Repositories,
	tx repository.Transactor,
	blobs storage.BlobStore,
	sagas *saga.Executor,
	maxUploadBytes int64,
	events kafka.Publisher,
	metrics *telemetry.Metrics,
	log *logger.Logger,
) PaymentService {
	if sagas == nil {
		sagas = saga.NewExecutor(log)
	}
	return &paymentService{
		base:           newBase(events, metrics, log),
		repos:          repos,
		tx:             tx,
		blobs:          blobs,
		sagas:          sagas,
		maxUploadBytes: maxUploadBytes,
	}
}

func (s *paymentService) ListAll(ctx context.Context) ([]*domain.RentPayment, error) {
	ctx, span := s.startSpan(ctx, "service.payment.list_all")
	defer span.End()
	return s.repos.Payments.ListAll(ctx)
}

func (s *paymentService) ListForTenant(ctx context.Context, userID int64) (_ []*domain.RentPayment, err error) {
	ctx, span := s.startSpan(ctx, "service.payment.list_own")
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := resolveTenant(ctx, s.repos.Tenants, userID)
	if err != nil {
		return nil, err
	}
	return s.repos.Payments.ListByTenant(ctx, tenant.ID)
}

// Saga data keys
const (
	keyProofKey = "proof_key"
	keyProofURL = "proof_url"
	keyPayment  = "payment"
)

func (s *paymentService) Submit(ctx context.Context, userID int64, in *ProofUpload) (_ *domain.RentPayment, err error) {
	ctx, span := s.startSpan(ctx, "service.payment.submit")
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := resolveTenant(ctx, s.repos.Tenants, userID)
	if err != nil {
		return nil, err
	}

	if in == nil || in.Body == nil {
		return nil, domain.ErrNoFileUploaded
	}
	if s.maxUploadBytes > 0 && in.Size > s.maxUploadBytes {
		return nil, domain.ErrFileTooLarge
	}

	sub := &domain.PaymentSubmission{
		TenantID: tenant.ID,
		Month:    in.Month,
		Amount:   in.Amount,
		FileName: in.FileName,
		Size:     in.Size,
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	key := storage.ProofKey(tenant.ID, sub.Month, in.FileName)
	paidDate := s.today()

	def := saga.NewDefinition("submit_payment", "Store proof then record payment").
		AddStep(&saga.Step{
			Name:        "upload_proof",
			Description: "Upload the proof file to the bucket",
			Execute: func(ctx context.Context, _ saga.Data) (saga.Data, error) {
				if err := s.blobs.Upload(ctx, key, in.Body, in.Size, in.ContentType); err != nil {
					return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
				}
				return saga.Data{keyProofKey: key, keyProofURL: s.blobs.PublicURL(key)}, nil
			},
			Compensate: func(ctx context.Context, _ saga.Data) error {
				return s.blobs.Delete(ctx, key)
			},
		}).
		AddStep(&saga.Step{
			Name:        "record_payment",
			Description: "Insert the pending payment row",
			Execute: func(ctx context.Context, data saga.Data) (saga.Data, error) {
				url, _ := data[keyProofURL].(string)
				payment := domain.NewPayment(sub, key, url, paidDate)
				if err := s.repos.Payments.Create(ctx, payment); err != nil {
					return nil, err
				}
				return saga.Data{keyPayment: payment}, nil
			},
		})

	result, err := s.sagas.Run(ctx, def, saga.Data{"tenant_id": tenant.ID})
	if err != nil {
		return nil, fmt.Errorf("submit payment: %w", err)
	}

	payment := result.Data[keyPayment].(*domain.RentPayment)

	s.metrics.PaymentsSubmitted.Inc(ctx)
	s.log.InfoContext(ctx, "payment submitted",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("tenant_id", tenant.ID),
		zap.String("month", payment.Month),
	)
	s.publish(ctx, tenant.ID, domain.EventPaymentSubmitted, map[string]any{
		"payment_id": payment.ID,
		"tenant_id":  tenant.ID,
		"month":      payment.Month,
		"amount":     payment.Amount,
	})
	return payment, nil
}

func (s *paymentService) Review(ctx context.Context, id int64, status domain.PaymentStatus) (_ *domain.RentPayment, err error) {
	ctx, span := s.startSpan(ctx, "service.payment.review", int64Attr("payment.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		payment *domain.RentPayment
		changed bool
	)
	err = s.tx.WithTx(ctx, func(r *repository.Repositories) error {
		p, err := r.Payments.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if changed, err = p.Review(status); err != nil {
			return err
		}
		payment = p
		if !changed {
			return nil
		}
		return r.Payments.UpdateStatus(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.metrics.StatusChanges.Inc(ctx, telemetry.ResourceAttr("payment"), telemetry.StatusAttr(string(status)))
		s.publish(ctx, payment.TenantID, domain.EventPaymentReviewed, map[string]any{
			"payment_id": payment.ID,
			"status":     payment.Status,
		})
	}
	return payment, nil
}
