package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	// 各テストで新しいレジストリを使用
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.BookingsTotal)
	assert.NotNil(t, m.RoomLockDuration)
	assert.NotNil(t, m.ActiveHolds)
	assert.NotNil(t, m.SweepExpiredTotal)
}

func TestHTTPRequestsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/holds", "201").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/reservations", "201").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/reservations", "409").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "http_requests_total" {
			found = true
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "http_requests_total metric not found")
}

func TestBookingsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.BookingsTotal.WithLabelValues("hold", "success").Inc()
	m.BookingsTotal.WithLabelValues("hold", "conflict").Inc()
	m.BookingsTotal.WithLabelValues("reservation", "success").Inc()
	m.BookingsTotal.WithLabelValues("reservation", "success").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.BookingsTotal.WithLabelValues("hold", "success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.BookingsTotal.WithLabelValues("reservation", "success")))
}

func TestActiveHolds(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ActiveHolds.Inc()
	m.ActiveHolds.Inc()
	m.ActiveHolds.Dec()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ActiveHolds))
}

func TestSweepExpiredTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.SweepExpiredTotal.Inc()
	m.SweepExpiredTotal.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.SweepExpiredTotal))
}

func TestRoomLockDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.RoomLockDuration.WithLabelValues("acquire", "success").Observe(0.01)
	m.RoomLockDuration.WithLabelValues("acquire", "failed").Observe(0.3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "room_lock_duration_seconds" {
			found = true
			assert.Equal(t, 2, len(f.GetMetric()))
		}
	}
	assert.True(t, found)
}
