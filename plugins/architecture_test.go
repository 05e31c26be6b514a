package plugins

import (
	"os"
	"testing"

	"oceanqc/testutil"
)

// TestSuitesDoNotImportInternal enforces that QC suite packages depend only
// on the pkg facades. Suites are meant to be buildable against the public
// record and engine APIs alone, so wiring concerns like station storage stay
// behind the worker.
func TestSuitesDoNotImportInternal(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("cannot get working dir: %v", err)
	}
	testutil.AssertNoDirectImports(t, wd, testutil.InternalImportForbidden,
		"suite packages must use oceanqc/pkg facades only")
}
