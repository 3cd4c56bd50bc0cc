package dto

import (
	"time"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// SubmitPaymentForm is the multipart form beside the "proof" file
type SubmitPaymentForm struct {
	Month  string `form:"month" binding:"required"`
	Amount string `form:"amount" binding:"required"`
}

// ReviewPaymentRequest represents an admin verifying or rejecting a payment
type ReviewPaymentRequest struct {
	ID     ID                   `json:"id" binding:"required"`
	Status domain.PaymentStatus `json:"status" binding:"required"`
}

// PaymentResponse represents a rent payment
type PaymentResponse struct {
	ID        int64                `json:"id"`
	TenantID  int64                `json:"tenant_id"`
	Month     string               `json:"month"`
	Amount    float64              `json:"amount"`
	Status    domain.PaymentStatus `json:"status"`
	ProofURL  string               `json:"proof_url"`
	PaidDate  string               `json:"paid_date"`
	CreatedAt time.Time            `json:"created_at"`
	Tenants   *TenantRefResponse   `json:"tenants,omitempty"`
}

// FromPayment converts a domain RentPayment to PaymentResponse
func FromPayment(p *domain.RentPayment) *PaymentResponse {
	return &PaymentResponse{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Month:     p.Month,
		Amount:    p.Amount,
		Status:    p.Status,
		ProofURL:  p.ProofURL,
		PaidDate:  formatDate(p.PaidDate),
		CreatedAt: p.CreatedAt,
		Tenants:   fromTenantRef(p.Tenant, true),
	}
}

// FromPayments converts a slice of payments, never returning nil
func FromPayments(payments []*domain.RentPayment) []*PaymentResponse {
	out := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}
