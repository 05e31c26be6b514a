package qc

import "oceanqc/pkg/ocproc"

// MetricsRecorder observes suite executions. Implementations must be safe
// for use from multiple workers.
type MetricsRecorder interface {
	ObserveSuiteRun(suite string, outcome ocproc.QCResult, seconds float64)
}

type noopMetrics struct{}

func (noopMetrics) ObserveSuiteRun(string, ocproc.QCResult, float64) {}

// NopMetrics returns a MetricsRecorder that discards everything.
func NopMetrics() MetricsRecorder { return noopMetrics{} }
