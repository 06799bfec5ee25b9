package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the storefront counters. A nil *Metrics is a no-op.
type Metrics struct {
	remote   *prometheus.CounterVec
	cart     *prometheus.CounterVec
	checkout *prometheus.CounterVec
}

// New registers the storefront counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	remote := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_remote_requests_total",
		Help: "Requests sent to the product API, by operation and outcome.",
	}, []string{"op", "outcome"})
	cart := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart mutations, by operation and outcome.",
	}, []string{"op", "outcome"})
	checkout := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkouts_total",
		Help: "Checkout attempts, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(remote, cart, checkout)
	return &Metrics{remote: remote, cart: cart, checkout: checkout}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveRemote(op string, err error) {
	if m == nil || m.remote == nil {
		return
	}
	m.remote.WithLabelValues(normalizeLabel(op), outcome(err)).Inc()
}

func (m *Metrics) ObserveCart(op string, err error) {
	if m == nil || m.cart == nil {
		return
	}
	m.cart.WithLabelValues(normalizeLabel(op), outcome(err)).Inc()
}

// IncCheckout counts a checkout ending in the named outcome
// (completed, stock_exceeded, empty, failed, ...).
func (m *Metrics) IncCheckout(result string) {
	if m == nil || m.checkout == nil {
		return
	}
	m.checkout.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return "unknown"
	}
	return v
}
