package domain

import (
	"math"
	"time"
)

// PaymentStatus is the review state of a rent payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusRejected PaymentStatus = "rejected"
)

var paymentTransitions = transitions[PaymentStatus]{
	PaymentStatusPending:  {PaymentStatusVerified, PaymentStatusRejected},
	PaymentStatusVerified: {},
	PaymentStatusRejected: {},
}

// RentPayment is a month's rent submitted with an uploaded proof
type RentPayment struct {
	ID        int64
	TenantID  int64
	Month     string
	Amount    float64
	Status    PaymentStatus
	ProofURL  string
	ProofKey  string
	PaidDate  time.Time
	CreatedAt time.Time

	Tenant *TenantRef
}

// MonthLayout is the YYYY-MM format of RentPayment.Month
const MonthLayout = "2006-01"

// ParseMonth validates a YYYY-MM month string
func ParseMonth(month string) (string, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return "", &ValidationError{Fields: map[string]string{"month": "must be in YYYY-MM format"}}
	}
	return t.Format(MonthLayout), nil
}

// PaymentSubmission is a tenant's rent payment before the proof is stored
type PaymentSubmission struct {
	TenantID int64
	Month    string
	Amount   float64
	FileName string
	Size     int64
}

// Validate checks the submission and normalizes Month
func (p *PaymentSubmission) Validate() error {
	v := validator{}
	if month, err := ParseMonth(p.Month); err != nil {
		v.check(false, "month", "must be in YYYY-MM format")
	} else {
		p.Month = month
	}
	v.check(p.Amount > 0 && !math.IsInf(p.Amount, 0) && !math.IsNaN(p.Amount), "amount", "must be a positive number")
	v.check(p.TenantID > 0, "tenant_id", "is required")
	return v.err()
}

// NewPayment builds a pending payment for a stored proof
func NewPayment(sub *PaymentSubmission, proofKey, proofURL string, paidDate time.Time) *RentPayment {
	return &RentPayment{
		TenantID: sub.TenantID,
		Month:    sub.Month,
		Amount:   sub.Amount,
		Status:   PaymentStatusPending,
		ProofKey: proofKey,
		ProofURL: proofURL,
		PaidDate: paidDate,
	}
}

// Review moves the payment to status. It reports whether anything changed.
func (p *RentPayment) Review(status PaymentStatus) (bool, error) {
	changed, err := paymentTransitions.check("payment", p.Status, status)
	if err != nil || !changed {
		return false, err
	}
	p.Status = status
	return true, nil
}
