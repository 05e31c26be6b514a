// Package observability provides the Prometheus-backed metrics recorder for
// the QC engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"oceanqc/pkg/ocproc"
	"oceanqc/pkg/qc"
)

// PrometheusRecorder exports per-suite QC execution metrics.
type PrometheusRecorder struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

var _ qc.MetricsRecorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder builds a recorder under the given namespace and
// registers its collectors. A nil registerer leaves the collectors
// unregistered, which is useful in tests.
func NewPrometheusRecorder(namespace string, reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if namespace == "" {
		namespace = "oceanqc"
	}
	r := &PrometheusRecorder{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "qc",
			Name:      "suite_run_seconds",
			Help:      "QC suite execution time per record.",
		}, []string{"suite"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "qc",
			Name:      "suite_outcomes_total",
			Help:      "QC suite outcomes per record.",
		}, []string{"suite", "outcome"}),
	}
	if reg != nil {
		if err := reg.Register(r.duration); err != nil {
			return nil, err
		}
		if err := reg.Register(r.outcomes); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveSuiteRun implements qc.MetricsRecorder.
func (r *PrometheusRecorder) ObserveSuiteRun(suite string, outcome ocproc.QCResult, seconds float64) {
	r.duration.WithLabelValues(suite).Observe(seconds)
	r.outcomes.WithLabelValues(suite, outcomeLabel(outcome)).Inc()
}

func outcomeLabel(o ocproc.QCResult) string {
	switch o {
	case ocproc.QCPass:
		return "pass"
	case ocproc.QCFail:
		return "fail"
	case ocproc.QCManualReview:
		return "review"
	case ocproc.QCSkip:
		return "skip"
	default:
		return "unknown"
	}
}
