package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRemote("list", nil)
	m.ObserveRemote("list", errors.New("boom"))
	m.ObserveRemote("List", nil)
	m.IncCheckout("completed")
	m.ObserveCart("add", nil)

	require.Equal(t, 2.0, testutil.ToFloat64(m.remote.WithLabelValues("list", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.remote.WithLabelValues("list", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.checkout.WithLabelValues("completed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.cart.WithLabelValues("add", "ok")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRemote("list", nil)
	m.ObserveCart("add", nil)
	m.IncCheckout("completed")

	empty := New(nil)
	empty.IncCheckout("completed")
}
