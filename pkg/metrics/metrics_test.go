package metrics

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDB(t *testing.T) {
	m := New("patient_api", prometheus.NewRegistry())

	m.ObserveDB("insert", time.Now(), nil)
	m.ObserveDB("insert", time.Now(), errors.New("duplicate key"))
	m.ObserveDB("insert", time.Now(), nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("insert", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("insert", "error")))
}

func TestObserveHTTP(t *testing.T) {
	m := New("patient_api", prometheus.NewRegistry())

	m.ObserveHTTP(http.MethodGet, "/api/patients/:id", http.StatusNotFound, 3*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/patients/:id", "404")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDB("find_all", time.Now(), nil)
		m.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
}
