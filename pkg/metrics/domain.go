package metrics

import "github.com/prometheus/client_golang/prometheus"

// Login outcomes.
const (
	LoginSuccess  = "success"
	LoginRejected = "rejected"
	LoginError    = "error"
)

// Quote outcomes.
const (
	QuotePriced   = "priced"
	QuoteUnpriced = "unpriced"
	QuoteRejected = "rejected"
)

// DomainMetrics counts login attempts and price quotes.
type DomainMetrics struct {
	logins *prometheus.CounterVec
	quotes *prometheus.CounterVec
}

// NewDomainMetrics registers the domain counters on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Login attempts by session kind and outcome.",
	}, []string{"kind", "outcome"})
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_quotes_total",
		Help: "Price quotes by pricing mode and outcome.",
	}, []string{"mode", "outcome"})
	reg.MustRegister(logins, quotes)
	return &DomainMetrics{logins: logins, quotes: quotes}
}

// IncLogin counts a login attempt for kind ("admin" or "buyer").
func (d *DomainMetrics) IncLogin(kind, outcome string) {
	if d == nil || d.logins == nil {
		return
	}
	d.logins.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// IncQuote counts a quote for the listing's pricing mode.
func (d *DomainMetrics) IncQuote(mode, outcome string) {
	if d == nil || d.quotes == nil {
		return
	}
	d.quotes.WithLabelValues(normalizeLabel(mode), normalizeLabel(outcome)).Inc()
}
