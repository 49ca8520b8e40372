package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domainscout_checks_total",
		Help: "Total number of domain checks by outcome",
	}, []string{"outcome"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "domainscout_stage_duration_seconds",
		Help:    "Duration of each enrichment pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	providerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domainscout_provider_errors_total",
		Help: "Total number of provider failures, fatal and degraded alike",
	}, []string{"provider"})
)

// CheckCompleted records the outcome of one finished check.
func CheckCompleted(outcome string) {
	checksTotal.WithLabelValues(outcome).Inc()
}

// ObserveStage records the wall time one pipeline stage took.
func ObserveStage(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ProviderError records one provider failure.
func ProviderError(provider string) {
	providerErrors.WithLabelValues(provider).Inc()
}
