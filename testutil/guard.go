// Package testutil provides reusable testing helpers for enforcing
// architectural and API boundary invariants across the repository.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertNoDirectImports scans all non-test .go files in dir (typically "."
// from within the package) and fails if any import path satisfies the
// forbidden predicate. It does not follow build tags.
func AssertNoDirectImports(t testing.TB, dir string, forbidden func(importPath string) bool, reason string) {
	t.Helper()
	viols, err := directImportViolations(dir, forbidden)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(viols) > 0 {
		t.Fatalf("forbidden imports (%s):\n  %s", reason, strings.Join(viols, "\n  "))
	}
}

// ObserveImportForbidden matches the observability implementation package.
// The record core accepts Logger/Metrics interfaces and must never depend on
// a concrete implementation.
func ObserveImportForbidden(path string) bool {
	return strings.HasSuffix(path, "/pkg/observe")
}

// ThirdPartyImportForbidden matches any import outside this module and the
// standard library. Packages meant to stay dependency-light use it.
func ThirdPartyImportForbidden(path string) bool {
	if strings.HasPrefix(path, "github.com/onyxcorp/model/") {
		return false
	}
	return strings.Contains(path, ".")
}

func directImportViolations(dir string, forbidden func(importPath string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var viols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range file.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if forbidden(path) {
				viols = append(viols, name+" imports "+path)
			}
		}
	}
	return viols, nil
}
