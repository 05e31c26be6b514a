// Package worker wires the QC engine, suite registry, and codec registry into
// a single processing front end. A Runner carries a unique instance ID so the
// history it writes on records can be traced back to the process that ran it.
package worker

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"oceanqc/pkg/codec"
	"oceanqc/pkg/ocproc"
	"oceanqc/pkg/qc"
)

const (
	sourceName    = "oceanqc-worker"
	sourceVersion = "1.0"
)

// Runner executes QC suites against records and loads and stores them through
// the codec registry.
type Runner struct {
	instance string
	engine   *qc.Engine
	registry *codec.Registry
	suites   map[string]*qc.Suite
	log      qc.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger attaches a logger to the Runner.
func WithLogger(l qc.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRunner builds a Runner around an engine and a codec registry. Each Runner
// gets a fresh instance ID used to attribute record history.
func NewRunner(engine *qc.Engine, registry *codec.Registry, opts ...Option) *Runner {
	r := &Runner{
		instance: uuid.NewString(),
		engine:   engine,
		registry: registry,
		suites:   make(map[string]*qc.Suite),
		log:      qc.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Instance returns the Runner's unique instance ID.
func (r *Runner) Instance() string { return r.instance }

// RegisterSuite makes a suite available to Run and RunBatch by name.
// Registering a suite under an existing name replaces it.
func (r *Runner) RegisterSuite(s *qc.Suite) {
	r.suites[s.Name] = s
}

// Suites lists the registered suite names in sorted order.
func (r *Runner) Suites() []string {
	names := make([]string, 0, len(r.suites))
	for name := range r.suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named suite against rec and returns the same record
// instance with its flags, QC results, and history updated in place.
func (r *Runner) Run(ctx context.Context, rec *ocproc.Record, suiteName string) (*ocproc.Record, error) {
	suite, ok := r.suites[suiteName]
	if !ok {
		return rec, fmt.Errorf("unknown qc suite %q", suiteName)
	}
	err := r.engine.Run(ctx, rec, suite)
	rec.RecordNote(fmt.Sprintf("ran qc suite %s", suiteName), sourceName, sourceVersion, r.instance)
	if err != nil {
		return rec, fmt.Errorf("run suite %s: %w", suiteName, err)
	}
	return rec, nil
}

// RunBatch executes the named suite against every record, sharing batch state
// across them. Records keep any mutations applied before the first failure.
func (r *Runner) RunBatch(ctx context.Context, recs []*ocproc.Record, suiteName string) error {
	suite, ok := r.suites[suiteName]
	if !ok {
		return fmt.Errorf("unknown qc suite %q", suiteName)
	}
	err := r.engine.RunBatch(ctx, recs, suite)
	for _, rec := range recs {
		rec.RecordNote(fmt.Sprintf("ran qc suite %s", suiteName), sourceName, sourceVersion, r.instance)
	}
	if err != nil {
		return fmt.Errorf("run suite %s: %w", suiteName, err)
	}
	return nil
}

// Load resolves a codec for path, by name when given, and decodes every
// record in the file. Decoding stops at the first bad record.
func (r *Runner) Load(path, codecName string, opts codec.Options) ([]*ocproc.Record, error) {
	c, err := r.registry.LoadCodec(path, codecName)
	if err != nil {
		return nil, err
	}
	recs, err := codec.LoadAll(c, path, opts)
	if err != nil {
		return nil, err
	}
	r.log.Debug("loaded records", "path", path, "count", len(recs))
	return recs, nil
}

// Dump resolves a codec for path, by name when given, and encodes recs to it.
func (r *Runner) Dump(path, codecName string, recs []*ocproc.Record, opts codec.Options) error {
	c, err := r.registry.LoadCodec(path, codecName)
	if err != nil {
		return err
	}
	if err := codec.DumpFile(c, path, recs, opts); err != nil {
		return err
	}
	r.log.Debug("dumped records", "path", path, "count", len(recs))
	return nil
}
