// Package metrics provides Prometheus metrics instrumentation for the gateway.
//
// Metrics are exposed via the admin /metrics endpoint for Prometheus scraping.
//
// Metrics exposed:
//   - edgegate_requests_total: Counter of API requests by route and status
//   - edgegate_predict_duration_seconds: Histogram of prediction latency by predictor
//   - edgegate_predictions_total: Counter of predictions by label
//   - edgegate_predict_errors_total: Counter of failed predictions by predictor
//   - edgegate_history_size: Gauge of records currently held in history
//   - edgegate_history_evictions_total: Counter of records evicted from history
//   - edgegate_publish_errors_total: Counter of failed inference event publishes
//   - edgegate_host_*: host memory and load, see HostCollector
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	PredictDuration   *prometheus.HistogramVec
	PredictionsTotal  *prometheus.CounterVec
	PredictErrors     *prometheus.CounterVec
	HistorySize       prometheus.Gauge
	HistoryEvictions  prometheus.Counter
	PublishErrorTotal prometheus.Counter
}

// New registers the gateway metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the gateway metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edgegate_requests_total",
			Help: "Total number of API requests by route and status",
		}, []string{"route", "status"}),

		PredictDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edgegate_predict_duration_seconds",
			Help:    "Duration of the prediction step by predictor",
			Buckets: []float64{.00001, .0001, .0005, .001, .005, .01, .05, .1, .5, 1, 2},
		}, []string{"predictor"}),

		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edgegate_predictions_total",
			Help: "Total number of predictions by label",
		}, []string{"label"}),

		PredictErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edgegate_predict_errors_total",
			Help: "Total number of failed predictions by predictor",
		}, []string{"predictor"}),

		HistorySize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "edgegate_history_size",
			Help: "Number of inferences currently held in history",
		}),

		HistoryEvictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "edgegate_history_evictions_total",
			Help: "Total number of inferences evicted from history",
		}),

		PublishErrorTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "edgegate_publish_errors_total",
			Help: "Total number of failed inference event publishes",
		}),
	}
}

func (m *Metrics) ObserveRequest(route string, status int) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObservePrediction(predictor string, label int, latency time.Duration) {
	m.PredictDuration.WithLabelValues(predictor).Observe(latency.Seconds())
	m.PredictionsTotal.WithLabelValues(strconv.Itoa(label)).Inc()
}

func (m *Metrics) ObservePredictError(predictor string) {
	m.PredictErrors.WithLabelValues(predictor).Inc()
}

func (m *Metrics) ObserveHistory(size, evicted int) {
	m.HistorySize.Set(float64(size))
	if evicted > 0 {
		m.HistoryEvictions.Add(float64(evicted))
	}
}

func (m *Metrics) ObservePublishError() {
	m.PublishErrorTotal.Inc()
}
