package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Recompute()
	m.Recompute()
	m.CatalogLoaded(true)
	m.CartMutation("add")
	m.StorageFailure("save", errors.New("x"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recomputes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogLoads.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartMutations.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storageFailures.WithLabelValues("save")))
}

func TestNilMetricsIgnoresObservations(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Recompute()
		m.CatalogLoaded(false)
		m.CartMutation("add")
		m.StorageFailure("load", nil)
		m.ClientConnected()
		m.ClientDisconnected()
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Recompute()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "storefront_filter_recomputes_total 1"))
}
