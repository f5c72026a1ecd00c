package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// DomainMetrics tracks store business events.
type DomainMetrics struct {
	usersRegistered    prometheus.Counter
	logins             *prometheus.CounterVec
	checkoutsStarted   prometheus.Counter
	checkoutsConfirmed prometheus.Counter
	checkoutsFailed    *prometheus.CounterVec
	checkoutAmount     prometheus.Histogram
	unitsWithdrawn     prometheus.Counter
}

// NewDomainMetrics registers the business counters on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	m := &DomainMetrics{
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of registered users.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		checkoutsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkout_sessions_started_total",
			Help: "Total number of mock checkout sessions opened.",
		}),
		checkoutsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkout_confirmed_total",
			Help: "Total number of confirmed checkouts that issued a boleta.",
		}),
		checkoutsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_failed_total",
			Help: "Total number of failed checkout confirmations.",
		}, []string{"reason"}),
		checkoutAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkout_amount_clp",
			Help:    "Amount of confirmed checkouts.",
			Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
		}),
		unitsWithdrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_units_withdrawn_total",
			Help: "Inventory units withdrawn by warehouse staff or checkout.",
		}),
	}
	reg.MustRegister(
		m.usersRegistered,
		m.logins,
		m.checkoutsStarted,
		m.checkoutsConfirmed,
		m.checkoutsFailed,
		m.checkoutAmount,
		m.unitsWithdrawn,
	)
	return m
}

func (m *DomainMetrics) UserRegistered() {
	if m == nil || m.usersRegistered == nil {
		return
	}
	m.usersRegistered.Inc()
}

// LoginAttempt counts a login by result ("success" or "failure").
func (m *DomainMetrics) LoginAttempt(result string) {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *DomainMetrics) CheckoutStarted() {
	if m == nil || m.checkoutsStarted == nil {
		return
	}
	m.checkoutsStarted.Inc()
}

func (m *DomainMetrics) CheckoutConfirmed(amount decimal.Decimal) {
	if m == nil || m.checkoutsConfirmed == nil {
		return
	}
	m.checkoutsConfirmed.Inc()
	m.checkoutAmount.Observe(amount.InexactFloat64())
}

func (m *DomainMetrics) CheckoutFailed(reason string) {
	if m == nil || m.checkoutsFailed == nil {
		return
	}
	m.checkoutsFailed.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *DomainMetrics) InventoryWithdrawn(units int) {
	if m == nil || m.unitsWithdrawn == nil || units <= 0 {
		return
	}
	m.unitsWithdrawn.Add(float64(units))
}
