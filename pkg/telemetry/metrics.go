package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricOpts holds options for creating metrics
type MetricOpts struct {
	Name        string
	Description string
	Unit        string
}

// Counter wraps an OTel counter for easier use
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new counter metric
func NewCounter(opts MetricOpts) (*Counter, error) {
	counter, err := GetMeter().Int64Counter(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Counter{counter: counter}, nil
}

// Add increments the counter by the given value
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Histogram wraps an OTel histogram for easier use
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a new histogram metric
func NewHistogram(opts MetricOpts) (*Histogram, error) {
	histogram, err := GetMeter().Float64Histogram(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Histogram{histogram: histogram}, nil
}

// Record records a value in the histogram
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	if h == nil {
		return
	}
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// Metrics groups the business counters emitted by the services.
type Metrics struct {
	LoginAttempts     *Counter
	TenantsOnboarded  *Counter
	PaymentsSubmitted *Counter
	StatusChanges     *Counter
	RequestDuration   *Histogram
}

// NewMetrics registers the business instruments on the global meter
func NewMetrics() (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.LoginAttempts, err = NewCounter(MetricOpts{
		Name:        "pgms_login_attempts_total",
		Description: "Login attempts by outcome",
		Unit:        "1",
	}); err != nil {
		return nil, err
	}
	if m.TenantsOnboarded, err = NewCounter(MetricOpts{
		Name:        "pgms_tenants_onboarded_total",
		Description: "Tenants created with their login and room",
		Unit:        "1",
	}); err != nil {
		return nil, err
	}
	if m.PaymentsSubmitted, err = NewCounter(MetricOpts{
		Name:        "pgms_payments_submitted_total",
		Description: "Rent payments submitted with proof",
		Unit:        "1",
	}); err != nil {
		return nil, err
	}
	if m.StatusChanges, err = NewCounter(MetricOpts{
		Name:        "pgms_status_changes_total",
		Description: "Admin status changes by resource and target status",
		Unit:        "1",
	}); err != nil {
		return nil, err
	}
	if m.RequestDuration, err = NewHistogram(MetricOpts{
		Name:        "pgms_http_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
	}); err != nil {
		return nil, err
	}

	return &m, nil
}

// Common metric attribute keys
const (
	AttrMethod     = "http.method"
	AttrRoute      = "http.route"
	AttrStatusCode = "http.status_code"
	AttrOutcome    = "outcome"
	AttrResource   = "resource"
	AttrStatus     = "status"
)

func MethodAttr(method string) attribute.KeyValue {
	return attribute.String(AttrMethod, method)
}

func RouteAttr(route string) attribute.KeyValue {
	return attribute.String(AttrRoute, route)
}

func StatusCodeAttr(code int) attribute.KeyValue {
	return attribute.Int(AttrStatusCode, code)
}

func OutcomeAttr(outcome string) attribute.KeyValue {
	return attribute.String(AttrOutcome, outcome)
}

func ResourceAttr(resource string) attribute.KeyValue {
	return attribute.String(AttrResource, resource)
}

func StatusAttr(status string) attribute.KeyValue {
	return attribute.String(AttrStatus, status)
}
