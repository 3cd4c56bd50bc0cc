package domain

import (
	"errors"
	"testing"
	"time"
)

func TestMaintenanceStatus_SetStatus(t *testing.T) {
	tests := []struct {
		name        string
		from        MaintenanceStatus
		to          MaintenanceStatus
		wantChanged bool
		wantErr     error
	}{
		{"pending to in_progress", MaintenanceStatusPending, MaintenanceStatusInProgress, true, nil},
		{"pending to resolved", MaintenanceStatusPending, MaintenanceStatusResolved, true, nil},
		{"in_progress to resolved", MaintenanceStatusInProgress, MaintenanceStatusResolved, true, nil},
		{"resolved to resolved is a no-op", MaintenanceStatusResolved, MaintenanceStatusResolved, false, nil},
		{"resolved to pending", MaintenanceStatusResolved, MaintenanceStatusPending, false, ErrInvalidTransition},
		{"in_progress to pending", MaintenanceStatusInProgress, MaintenanceStatusPending, false, ErrInvalidTransition},
		{"unknown status", MaintenanceStatusPending, "done", false, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MaintenanceRequest{Status: tt.from}
			changed, err := m.SetStatus(tt.to)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SetStatus() error = %v, want %v", err, tt.wantErr)
				}
				if m.Status != tt.from {
					t.Errorf("Status changed to %s on error", m.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetStatus() unexpected error: %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if m.Status != tt.to {
				t.Errorf("Status = %s, want %s", m.Status, tt.to)
			}
		})
	}
}

func TestPaymentStatus_Review(t *testing.T) {
	p := &RentPayment{Status: PaymentStatusPending}

	changed, err := p.Review(PaymentStatusVerified)
	if err != nil || !changed {
		t.Fatalf("Review(verified) = %v, %v; want true, nil", changed, err)
	}

	if _, err := p.Review(PaymentStatusRejected); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Review(rejected) after verified error = %v, want ErrInvalidTransition", err)
	}

	if _, err := p.Review("paid"); !errors.Is(err, ErrValidation) {
		t.Errorf("Review(paid) error = %v, want ErrValidation", err)
	}

	p = &RentPayment{Status: PaymentStatusPending}
	if changed, err := p.Review(PaymentStatusRejected); err != nil || !changed {
		t.Errorf("Review(rejected) from pending = %v, %v; want true, nil", changed, err)
	}
	if _, err := p.Review(PaymentStatusVerified); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Review(verified) after rejected error = %v, want ErrInvalidTransition", err)
	}
}

func TestVacateRequest_Apply(t *testing.T) {
	status := func(s VacateStatus) *VacateStatus { return &s }
	dues := 1500.0
	returned := true

	tests := []struct {
		name          string
		from          VacateStatus
		update        VacateUpdate
		wantStatus    VacateStatus
		wantChanged   bool
		wantCompleted bool
		wantErr       error
	}{
		{
			name:        "approve pending",
			from:        VacateStatusPending,
			update:      VacateUpdate{ID: 1, Status: status(VacateStatusApproved)},
			wantStatus:  VacateStatusApproved,
			wantChanged: true,
		},
		{
			name:          "complete approved",
			from:          VacateStatusApproved,
			update:        VacateUpdate{ID: 1, Status: status(VacateStatusCompleted), DepositReturned: &returned},
			wantStatus:    VacateStatusCompleted,
			wantChanged:   true,
			wantCompleted: true,
		},
		{
			name:       "same status is a no-op",
			from:       VacateStatusPending,
			update:     VacateUpdate{ID: 1, Status: status(VacateStatusPending)},
			wantStatus: VacateStatusPending,
		},
		{
			name:       "completed again is a no-op",
			from:       VacateStatusCompleted,
			update:     VacateUpdate{ID: 1, Status: status(VacateStatusCompleted)},
			wantStatus: VacateStatusCompleted,
		},
		{
			name:    "complete pending directly",
			from:    VacateStatusPending,
			update:  VacateUpdate{ID: 1, Status: status(VacateStatusCompleted)},
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "reopen rejected",
			from:    VacateStatusRejected,
			update:  VacateUpdate{ID: 1, Status: status(VacateStatusPending)},
			wantErr: ErrInvalidTransition,
		},
		{
			name:        "dues only",
			from:        VacateStatusPending,
			update:      VacateUpdate{ID: 1, Dues: &dues},
			wantStatus:  VacateStatusPending,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &VacateRequest{Status: tt.from}
			changed, completed, err := r.Apply(tt.update)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if completed != tt.wantCompleted {
				t.Errorf("completed = %v, want %v", completed, tt.wantCompleted)
			}
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", r.Status, tt.wantStatus)
			}
			if tt.update.Dues != nil && r.Dues != *tt.update.Dues {
				t.Errorf("Dues = %v, want %v", r.Dues, *tt.update.Dues)
			}
			if tt.update.DepositReturned != nil && r.DepositReturned != *tt.update.DepositReturned {
				t.Errorf("DepositReturned = %v, want %v", r.DepositReturned, *tt.update.DepositReturned)
			}
		})
	}
}

func TestVacateUpdate_Validate(t *testing.T) {
	negative := -1.0
	approved := VacateStatusApproved

	if err := (VacateUpdate{ID: 3}).Validate(); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("empty update error = %v, want ErrEmptyUpdate", err)
	}
	if err := (VacateUpdate{ID: 3, Dues: &negative}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("negative dues error = %v, want ErrValidation", err)
	}
	if err := (VacateUpdate{Status: &approved}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("missing id error = %v, want ErrValidation", err)
	}
	if err := (VacateUpdate{ID: 3, Status: &approved}).Validate(); err != nil {
		t.Errorf("valid update error = %v", err)
	}
}

func TestNewVacateRequest(t *testing.T) {
	tests := []struct {
		name     string
		tenantID int64
		date     string
		reason   string
		wantErr  bool
	}{
		{"valid request", 4, "2026-11-30", "Moving cities", false},
		{"bad date", 4, "30/11/2026", "Moving cities", true},
		{"missing reason", 4, "2026-11-30", "  ", true},
		{"missing tenant", 0, "2026-11-30", "Moving cities", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewVacateRequest(tt.tenantID, tt.date, tt.reason)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewVacateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if req.Status != VacateStatusPending {
				t.Errorf("Status = %s, want pending", req.Status)
			}
			if req.Dues != 0 || req.DepositReturned {
				t.Errorf("new request should have no dues and no returned deposit, got %v/%v", req.Dues, req.DepositReturned)
			}
			if req.VacateDate.Format(DateLayout) != tt.date {
				t.Errorf("VacateDate = %s, want %s", req.VacateDate.Format(DateLayout), tt.date)
			}
		})
	}
}

func TestNewMaintenanceRequest(t *testing.T) {
	req, err := NewMaintenanceRequest(9, " Leak ", "Kitchen sink")
	if err != nil {
		t.Fatalf("NewMaintenanceRequest() error = %v", err)
	}
	if req.Title != "Leak" {
		t.Errorf("Title = %q, want %q", req.Title, "Leak")
	}
	if req.Status != MaintenanceStatusPending {
		t.Errorf("Status = %s, want pending", req.Status)
	}

	_, err = NewMaintenanceRequest(9, "", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if _, ok := verr.Fields["title"]; !ok {
		t.Error("expected a title field error")
	}
	if _, ok := verr.Fields["description"]; !ok {
		t.Error("expected a description field error")
	}
}

func TestPaymentSubmission_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sub     PaymentSubmission
		wantErr bool
	}{
		{"valid submission", PaymentSubmission{TenantID: 1, Month: "2026-10", Amount: 8000}, false},
		{"bad month", PaymentSubmission{TenantID: 1, Month: "October", Amount: 8000}, true},
		{"month out of range", PaymentSubmission{TenantID: 1, Month: "2026-13", Amount: 8000}, true},
		{"zero amount", PaymentSubmission{TenantID: 1, Month: "2026-10", Amount: 0}, true},
		{"negative amount", PaymentSubmission{TenantID: 1, Month: "2026-10", Amount: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := tt.sub
			err := sub.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPayment(t *testing.T) {
	sub := &PaymentSubmission{TenantID: 2, Month: "2026-09", Amount: 7500}
	paid := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	p := NewPayment(sub, "2/2026-09_ab12cd34_receipt.png", "http://cdn/2/receipt.png", paid)

	if p.Status != PaymentStatusPending {
		t.Errorf("Status = %s, want pending", p.Status)
	}
	if p.TenantID != 2 || p.Month != "2026-09" || p.Amount != 7500 {
		t.Errorf("unexpected payment fields: %+v", p)
	}
	if !p.PaidDate.Equal(paid) {
		t.Errorf("PaidDate = %v, want %v", p.PaidDate, paid)
	}
}

func TestOnboarding_Validate(t *testing.T) {
	valid := func() Onboarding {
		return Onboarding{
			Credentials: Credentials{LoginID: "tenant7", Password: "s3cret"},
			Name:        "Asha",
			Email:       "asha@example.com",
			RoomID:      3,
			Deposit:     5000,
		}
	}

	tests := []struct {
		name    string
		mutate  func(o *Onboarding)
		wantErr bool
	}{
		{"valid", func(o *Onboarding) {}, false},
		{"missing login id", func(o *Onboarding) { o.LoginID = "" }, true},
		{"short password", func(o *Onboarding) { o.Password = "abc" }, true},
		{"missing name", func(o *Onboarding) { o.Name = " " }, true},
		{"missing room", func(o *Onboarding) { o.RoomID = 0 }, true},
		{"negative deposit", func(o *Onboarding) { o.Deposit = -1 }, true},
		{"bad email", func(o *Onboarding) { o.Email = "not-an-email" }, true},
		{"empty email allowed", func(o *Onboarding) { o.Email = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.mutate(&o)
			if err := o.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOnboarding_NewTenant(t *testing.T) {
	o := Onboarding{Name: "Ravi", RoomID: 12, Deposit: 3000}
	joined := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	tenant := o.NewTenant(44, joined)
	if tenant.UserID != 44 {
		t.Errorf("UserID = %d, want 44", tenant.UserID)
	}
	if tenant.RoomID == nil || *tenant.RoomID != 12 {
		t.Errorf("RoomID = %v, want 12", tenant.RoomID)
	}
	if !tenant.JoinDate.Equal(joined) {
		t.Errorf("JoinDate = %v, want %v", tenant.JoinDate, joined)
	}
}

func TestNewRoom(t *testing.T) {
	if _, err := NewRoom("", 1); !errors.Is(err, ErrValidation) {
		t.Errorf("empty room number error = %v, want ErrValidation", err)
	}
	if _, err := NewRoom("101", -1); !errors.Is(err, ErrValidation) {
		t.Errorf("negative floor error = %v, want ErrValidation", err)
	}
	room, err := NewRoom(" 101 ", 1)
	if err != nil {
		t.Fatalf("NewRoom() error = %v", err)
	}
	if room.RoomNumber != "101" || room.Occupied {
		t.Errorf("unexpected room: %+v", room)
	}
}

func TestError_Unwrap(t *testing.T) {
	if !errors.Is(ErrTenantProfileNotFound, ErrNotFound) {
		t.Error("tenant profile error should be a not-found error")
	}
	if !errors.Is(ErrRoomOccupied, ErrConflict) {
		t.Error("occupied room error should be a conflict")
	}
	if !errors.Is(ErrRoomNotFound, ErrValidation) {
		t.Error("missing room on onboarding should be a validation error")
	}
	if ErrNoFileUploaded.Error() != "No file uploaded" {
		t.Errorf("message = %q", ErrNoFileUploaded.Error())
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"month": "bad", "amount": "bad"}}
	want := "validation failed: amount: bad, month: bad"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRole_IsValid(t *testing.T) {
	if !RoleAdmin.IsValid() || !RoleTenant.IsValid() {
		t.Error("admin and tenant must be valid roles")
	}
	if Role("owner").IsValid() {
		t.Error("owner must not be a valid role")
	}
}
