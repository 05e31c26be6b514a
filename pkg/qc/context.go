package qc

import (
	"context"
	"errors"
	"fmt"

	"oceanqc/pkg/ocproc"
)

// PathSegment is one step of a traversal path: the container kind plus the
// key used to descend.
type PathSegment struct {
	Kind string
	Key  string
}

func (s PathSegment) String() string { return s.Kind + "/" + s.Key }

// Context is a scoped cursor into a record tree during a suite run. Each
// descent helper builds a child Context for the callback and leaves the
// parent untouched, so scopes unwind in strict LIFO order on every exit
// path. A Context is bound to a single goroutine.
type Context struct {
	ctx     context.Context
	record  *ocproc.Record
	element *ocproc.Element
	path    []PathSegment
	batch   map[string]any
	run     *runState
	log     Logger
}

// runState accumulates review messages across every context of one suite
// run on one record.
type runState struct {
	messages []ocproc.QCMessage
	review   bool
}

func newContext(ctx context.Context, rec *ocproc.Record, batch map[string]any, st *runState, log Logger) *Context {
	return &Context{ctx: ctx, record: rec, batch: batch, run: st, log: log}
}

// Context returns the cancellation context of the enclosing run.
func (c *Context) Context() context.Context { return c.ctx }

// Record returns the record this context is scoped to.
func (c *Context) Record() *ocproc.Record { return c.record }

// Element returns the element this context is scoped to, or nil at record
// level.
func (c *Context) Element() *ocproc.Element { return c.element }

// Batch returns the mutable scratch state shared by every record of the
// current batch. Tests use it to carry state across records, such as the
// last known position per station.
func (c *Context) Batch() map[string]any { return c.batch }

// Logger returns the run logger.
func (c *Context) Logger() Logger { return c.log }

// Path returns the rendered traversal path from the root record to the
// current scope.
func (c *Context) Path() []string {
	out := make([]string, len(c.path))
	for i, s := range c.path {
		out[i] = s.String()
	}
	return out
}

// ReportForReview records a QC message at the current path and downgrades
// the run outcome to manual review.
func (c *Context) ReportForReview(code string, ref ocproc.Value) {
	c.run.review = true
	c.run.messages = append(c.run.messages, ocproc.QCMessage{
		Code:     code,
		Path:     c.Path(),
		RefValue: ref,
	})
}

func (c *Context) child(seg PathSegment) *Context {
	path := make([]PathSegment, len(c.path), len(c.path)+1)
	copy(path, c.path)
	out := *c
	out.path = append(path, seg)
	return &out
}

// descendElement runs fn scoped to the given element. Assertion failures
// inside the scope are absorbed here: reported for review and, when the
// assertion names a flag, stamped onto the element's WorkingQuality.
func (c *Context) descendElement(kind, key string, e *ocproc.Element, fn func(*Context) error) error {
	child := c.child(PathSegment{Kind: kind, Key: key})
	child.element = e
	return child.absorb(fn(child))
}

func (c *Context) absorb(err error) error {
	if err == nil {
		return nil
	}
	var ae *AssertionError
	if errors.As(err, &ae) {
		c.applyAssertion(ae)
		return nil
	}
	return c.attributePath(err)
}

func (c *Context) applyAssertion(ae *AssertionError) {
	ref := ae.Ref
	if ref.IsNull() && c.element != nil {
		ref = c.element.BestValue()
	}
	c.ReportForReview(ae.Code, ref)
	if ae.Flag > 0 && c.element != nil {
		for _, leaf := range c.element.AllValues() {
			leaf.Metadata().SetValue(ocproc.WorkingQualityKey, ocproc.Int(int64(ae.Flag)))
		}
	}
}

// Parameter runs fn scoped to the named parameter element. A missing name
// is a no-op.
func (c *Context) Parameter(name string, fn func(*Context) error) error {
	if c.record == nil {
		return nil
	}
	e, ok := c.record.Parameters().Get(name)
	if !ok {
		return nil
	}
	return c.descendElement("parameters", name, e, fn)
}

// Coordinate runs fn scoped to the named coordinate element.
func (c *Context) Coordinate(name string, fn func(*Context) error) error {
	if c.record == nil {
		return nil
	}
	e, ok := c.record.Coordinates().Get(name)
	if !ok {
		return nil
	}
	return c.descendElement("coordinates", name, e, fn)
}

// Metadata runs fn scoped to the named record-metadata element.
func (c *Context) Metadata(name string, fn func(*Context) error) error {
	if c.record == nil {
		return nil
	}
	e, ok := c.record.Metadata().Get(name)
	if !ok {
		return nil
	}
	return c.descendElement("metadata", name, e, fn)
}

// ElementMetadata runs fn scoped to a metadata entry of the current element.
func (c *Context) ElementMetadata(name string, fn func(*Context) error) error {
	if c.element == nil {
		return fmt.Errorf("qc: element metadata descent outside an element scope")
	}
	e, ok := c.element.Metadata().Get(name)
	if !ok {
		return nil
	}
	return c.descendElement("element-metadata", name, e, fn)
}

// TestAllSubvalues invokes fn once for a single-valued element, or once per
// leaf of a multi-valued element with the leaf index on the path.
func (c *Context) TestAllSubvalues(fn func(*Context, *ocproc.Element) error) error {
	if c.element == nil {
		return fmt.Errorf("qc: subvalue traversal outside an element scope")
	}
	if !c.element.IsMulti() {
		return c.absorb(fn(c, c.element))
	}
	for i, leaf := range c.element.AllValues() {
		child := c.child(PathSegment{Kind: "values", Key: fmt.Sprintf("%d", i)})
		child.element = leaf
		if err := child.absorb(fn(child, leaf)); err != nil {
			return err
		}
	}
	return nil
}

// TestAllSubrecords invokes fn once per child record, in traversal order,
// each scoped to a fresh context rooted at that child. Recursion into
// deeper levels is the callback's decision.
func (c *Context) TestAllSubrecords(fn func(*Context, *ocproc.Record) error) error {
	if c.record == nil {
		return nil
	}
	rm := c.record.Subrecords()
	for _, t := range rm.Types() {
		for si, rs := range rm.Sets(t) {
			for ri, rec := range rs.Records {
				child := c.child(PathSegment{
					Kind: "subrecords",
					Key:  fmt.Sprintf("%s/%d/%d", t, si, ri),
				})
				child.record = rec
				child.element = nil
				if err := child.absorb(fn(child, rec)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// pathError attributes the deepest traversal path to a propagating failure.
type pathError struct {
	path []string
	err  error
}

func (e *pathError) Error() string { return e.err.Error() }
func (e *pathError) Unwrap() error { return e.err }

func (c *Context) attributePath(err error) error {
	if isSentinel(err) {
		return err
	}
	var pe *pathError
	if errors.As(err, &pe) {
		return err
	}
	return &pathError{path: c.Path(), err: err}
}

func isSentinel(err error) bool {
	return errors.Is(err, ErrSkipTest) || errors.Is(err, ErrSuiteComplete)
}
