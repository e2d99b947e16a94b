package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// coreImports parses every non-test source file in pkg/core and returns
// its import paths keyed by file name.
func coreImports(t *testing.T) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()
	coreDir := "."

	entries, err := os.ReadDir(coreDir)
	if err != nil {
		t.Fatalf("Failed to read core directory: %v", err)
	}

	out := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(coreDir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}
		for _, imp := range f.Imports {
			out[entry.Name()] = append(out[entry.Name()], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return out
}

// TestCoreImportsOnlyStdlib verifies pkg/core only imports the standard library.
// The Golden Rule: the data model has no dependencies of its own.
func TestCoreImportsOnlyStdlib(t *testing.T) {
	for file, imports := range coreImports(t) {
		for _, importPath := range imports {
			// Stdlib paths have no dot in their first element
			if strings.Contains(strings.Split(importPath, "/")[0], ".") {
				t.Errorf("%s imports forbidden package: %s", file, importPath)
			}
		}
	}
}

// TestCoreDoesNotImportParser verifies the data model stays independent of
// the lexer and parser that populate it.
func TestCoreDoesNotImportParser(t *testing.T) {
	for file, imports := range coreImports(t) {
		for _, importPath := range imports {
			if strings.Contains(importPath, "/pkg/parser") || strings.Contains(importPath, "/internal/") {
				t.Errorf("%s imports %s (core must not depend on its producers)", file, importPath)
			}
		}
	}
}
