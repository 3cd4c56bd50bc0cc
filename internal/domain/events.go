package domain

// Event types published after a state change commits
const (
	EventTenantOnboarded         = "tenant.onboarded"
	EventPaymentSubmitted        = "payment.submitted"
	EventPaymentReviewed         = "payment.reviewed"
	EventMaintenanceRequested    = "maintenance.requested"
	EventMaintenanceStatusChange = "maintenance.status_changed"
	EventVacateRequested         = "vacate.requested"
	EventVacateUpdated           = "vacate.updated"
	EventVacateCompleted         = "vacate.completed"
)
