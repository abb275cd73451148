package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	fortunes      *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
}

// NewPrometheus registers the fortune metrics on reg.
func NewPrometheus(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		fortunes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fortunecookie",
			Name:      "fortunes_total",
			Help:      "Fortune requests by outcome.",
		}, []string{"outcome"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fortunecookie",
			Name:      "store_duration_seconds",
			Help:      "Latency of fortune store calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fortunecookie",
			Name:      "store_errors_total",
			Help:      "Failed fortune store calls.",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{r.fortunes, r.storeDuration, r.storeErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// IncFortuneGranted counts a granted plain fortune.
func (r *PrometheusRecorder) IncFortuneGranted() {
	r.fortunes.WithLabelValues("granted").Inc()
}

// IncFortuneRejected counts a cooldown rejection.
func (r *PrometheusRecorder) IncFortuneRejected() {
	r.fortunes.WithLabelValues("rejected").Inc()
}

// IncFrameFortune counts a fortune served to a frame.
func (r *PrometheusRecorder) IncFrameFortune() {
	r.fortunes.WithLabelValues("frame").Inc()
}

// ObserveStoreDuration records store latency.
func (r *PrometheusRecorder) ObserveStoreDuration(op string, duration time.Duration) {
	r.storeDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// IncStoreError counts a failed store call.
func (r *PrometheusRecorder) IncStoreError(op string) {
	r.storeErrors.WithLabelValues(op).Inc()
}
