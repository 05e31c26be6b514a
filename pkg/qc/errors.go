package qc

import (
	"errors"
	"fmt"
	"strings"

	"oceanqc/pkg/ocproc"
)

// ErrSkipTest signals that the current test does not apply to the record.
// The engine records a skip outcome and continues with the next test.
var ErrSkipTest = errors.New("qc: test skipped")

// ErrSuiteComplete signals that no further tests in the suite need to run
// against the current record. Not an error condition.
var ErrSuiteComplete = errors.New("qc: suite complete")

// AssertionError marks a QC assertion failure on the current element. The
// enclosing traversal scope absorbs it: the failure is reported for manual
// review and, when Flag is positive, the element's WorkingQuality is set.
type AssertionError struct {
	Code string
	Flag int
	Ref  ocproc.Value
}

func (e *AssertionError) Error() string {
	if e.Flag > 0 {
		return fmt.Sprintf("qc: assertion %s failed (flag %d)", e.Code, e.Flag)
	}
	return fmt.Sprintf("qc: assertion %s failed", e.Code)
}

// Assert returns nil when ok is true, otherwise an AssertionError with the
// given review code.
func Assert(ok bool, code string) error {
	if ok {
		return nil
	}
	return &AssertionError{Code: code}
}

// AssertFlag is Assert with a WorkingQuality flag to stamp on the element
// when the assertion fails.
func AssertFlag(ok bool, code string, flag int) error {
	if ok {
		return nil
	}
	return &AssertionError{Code: code, Flag: flag}
}

// TestError wraps a test callback failure with the suite and test identity
// and the traversal path at the point of failure. A TestError aborts the
// remaining tests of the suite on the current record.
type TestError struct {
	Suite string
	Test  string
	Path  []string
	Err   error
}

func (e *TestError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("qc: test %s in suite %s failed at %s: %v",
			e.Test, e.Suite, strings.Join(e.Path, "/"), e.Err)
	}
	return fmt.Sprintf("qc: test %s in suite %s failed: %v", e.Test, e.Suite, e.Err)
}

func (e *TestError) Unwrap() error { return e.Err }
