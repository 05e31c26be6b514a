// Package testutil provides helpers for enforcing import boundary invariants
// across the repository.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertNoDirectImports scans every non-test .go file under dir and fails the
// test if any import path satisfies the forbidden predicate. Subdirectories
// are walked; build tags are not evaluated.
func AssertNoDirectImports(t testing.TB, dir string, forbidden func(importPath string) bool, reason string) {
	t.Helper()
	viols, err := directImportViolations(dir, forbidden)
	if err != nil {
		t.Fatalf("scanning %s: %v", dir, err)
	}
	for _, v := range viols {
		t.Errorf("forbidden import %s in %s: %s", v.importPath, v.file, reason)
	}
}

// InternalImportForbidden matches any import of this module's internal tree.
// Plugin packages must depend only on the stable pkg facades.
func InternalImportForbidden(path string) bool {
	return path == "oceanqc/internal" || strings.HasPrefix(path, "oceanqc/internal/")
}

type importViolation struct {
	file       string
	importPath string
}

func directImportViolations(dir string, forbidden func(string) bool) ([]importViolation, error) {
	var viols []importViolation
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, imp := range f.Imports {
			p := strings.Trim(imp.Path.Value, `"`)
			if forbidden(p) {
				viols = append(viols, importViolation{file: path, importPath: p})
			}
		}
		return nil
	})
	return viols, err
}
