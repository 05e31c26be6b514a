// Package qc executes quality-control test suites over observation records:
// scoped traversal contexts, flag propagation, review reporting, and the
// error taxonomy shared by suites and callers.
package qc

import (
	"context"
	"errors"
	"time"

	"oceanqc/pkg/ocproc"
)

// RecordTest is one QC test bound to a traversal policy. TopOnly tests fire
// once per root record; recursive tests also fire once at the root and
// descend themselves via Context.TestAllSubrecords.
type RecordTest struct {
	Name    string
	TopOnly bool
	Run     func(c *Context) error
}

// Suite is an identified, ordered, immutable collection of record tests.
type Suite struct {
	Name    string
	Version string
	Tests   []RecordTest
}

// Engine runs suites against records. It is stateless between runs and safe
// to share across workers.
type Engine struct {
	log     Logger
	metrics MetricsRecorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the engine's logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics overrides the engine's metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewEngine builds an engine with noop logging and metrics unless options
// say otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: noopLogger{}, metrics: noopMetrics{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes every test of the suite, in declared order, against the
// record. The record is mutated in place; the aggregated outcome and any
// review messages are recorded on it. A test failure aborts the remaining
// tests and surfaces as a TestError.
func (e *Engine) Run(ctx context.Context, rec *ocproc.Record, suite *Suite) error {
	return e.run(ctx, rec, suite, make(map[string]any))
}

// RunBatch executes the suite against each record in order, sharing one
// batch scratch map so tests can carry state across records. It stops at
// the first failing record.
func (e *Engine) RunBatch(ctx context.Context, recs []*ocproc.Record, suite *Suite) error {
	batch := make(map[string]any)
	for _, rec := range recs {
		if err := e.run(ctx, rec, suite, batch); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) run(ctx context.Context, rec *ocproc.Record, suite *Suite, batch map[string]any) error {
	start := time.Now()
	st := &runState{}
	skipped := 0

	for _, t := range suite.Tests {
		root := newContext(ctx, rec, batch, st, e.log)
		err := root.absorb(t.Run(root))
		switch {
		case err == nil:
		case errors.Is(err, ErrSkipTest):
			skipped++
			e.log.Debug("qc test skipped", "suite", suite.Name, "test", t.Name)
		case errors.Is(err, ErrSuiteComplete):
			e.log.Debug("qc suite completed early", "suite", suite.Name, "test", t.Name)
			goto done
		default:
			terr := &TestError{Suite: suite.Name, Test: t.Name, Err: err}
			var pe *pathError
			if errors.As(err, &pe) {
				terr.Path = pe.path
				terr.Err = pe.err
			}
			rec.RecordQCResult(ocproc.QCTestRun{
				TestName:    suite.Name,
				TestVersion: suite.Version,
				Outcome:     ocproc.QCFail,
				Messages:    st.messages,
			})
			e.metrics.ObserveSuiteRun(suite.Name, ocproc.QCFail, time.Since(start).Seconds())
			e.log.Error("qc test failed", "suite", suite.Name, "test", t.Name, "error", terr.Err)
			return terr
		}
	}

done:
	outcome := ocproc.QCPass
	switch {
	case st.review:
		outcome = ocproc.QCManualReview
	case len(suite.Tests) > 0 && skipped == len(suite.Tests):
		outcome = ocproc.QCSkip
	}
	rec.RecordQCResult(ocproc.QCTestRun{
		TestName:    suite.Name,
		TestVersion: suite.Version,
		Outcome:     outcome,
		Messages:    st.messages,
	})
	e.metrics.ObserveSuiteRun(suite.Name, outcome, time.Since(start).Seconds())
	e.log.Debug("qc suite finished", "suite", suite.Name, "outcome", string(outcome),
		"messages", len(st.messages))
	return nil
}
