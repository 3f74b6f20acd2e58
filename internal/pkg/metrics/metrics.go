package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約・ホールド操作の総数（kind: hold/reservation, status: success, conflict, lock_failed, error）
	BookingsTotal *prometheus.CounterVec

	// 部屋ロックの操作時間（operation: acquire/release, status: success/failed）
	RoomLockDuration *prometheus.HistogramVec

	// アクティブなホールド数
	ActiveHolds prometheus.Gauge

	// スイープで期限切れにしたホールドの総数
	SweepExpiredTotal prometheus.Counter
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する（テスト用）
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of hold/reservation attempts",
			},
			[]string{"kind", "status"},
		),
		RoomLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "room_lock_duration_seconds",
				Help:    "Time spent on per-room lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		ActiveHolds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_holds",
				Help: "Current number of active holds",
			},
		),
		SweepExpiredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hold_sweep_expired_total",
				Help: "Total number of holds expired by the sweeper",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.RoomLockDuration,
		m.ActiveHolds,
		m.SweepExpiredTotal,
	)

	return m
}

var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
