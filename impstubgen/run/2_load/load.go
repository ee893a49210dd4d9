// Package load parses Go packages into dst trees for interface detection.
package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// Dir parses the .go files in dir. Test files are included when includeTests is set.
// Files that do not parse are skipped; a directory with nothing parseable is an error.
func Dir(dir string, includeTests bool) ([]*dst.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	goFiles := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		goFiles = append(goFiles, filepath.Join(dir, name))
	}

	if len(goFiles) == 0 {
		return nil, fmt.Errorf("%w: no .go files in %s", errNoPackagesFound, dir)
	}

	dec := decorator.NewDecorator(token.NewFileSet())
	files := make([]*dst.File, 0, len(goFiles))

	for _, goFile := range goFiles {
		file, err := dec.ParseFile(goFile, nil, 0)
		if err != nil {
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: failed to parse any .go files in %s", errNoPackagesFound, dir)
	}

	return files, nil
}

// PackageDST loads a package by import path and returns its dst files.
// "." is the working directory and includes its test files, since doubles are usually
// generated for interfaces declared next to the tests that use them.
func PackageDST(importPath string) ([]*dst.File, error) {
	if importPath == "." {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		return Dir(dir, true)
	}

	dir := ResolveLocalPackagePath(importPath)
	if dir == importPath {
		srcDir, _ := os.Getwd()

		pkg, err := build.Import(importPath, srcDir, build.FindOnly)
		if err != nil {
			return nil, fmt.Errorf("failed to find package %q: %w", importPath, err)
		}

		dir = pkg.Dir
	}

	return Dir(dir, false)
}

// ResolveLocalPackagePath checks if importPath refers to a local subdirectory package.
// For simple package names (no slashes), it checks if there's a local subdirectory
// with that name containing .go files, which then shadows any standard library package
// of the same name.
//
// Returns the absolute path to the local package directory if found, or the
// original importPath if it should be resolved normally.
func ResolveLocalPackagePath(importPath string) string {
	if importPath == "." || strings.Contains(importPath, "/") {
		return importPath
	}

	srcDir, err := os.Getwd()
	if err != nil {
		return importPath
	}

	localDir := filepath.Join(srcDir, importPath)

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return importPath
	}

	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".go") {
			return localDir
		}
	}

	return importPath
}

// unexported variables.
var (
	errNoPackagesFound = errors.New("no packages found")
)
