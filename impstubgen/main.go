// impstubgen generates impstub proxies for Go interfaces.
// Install it with `go install github.com/toejough/impstub/impstubgen@latest` and add a
// `//go:generate impstubgen <interface>` comment next to the tests that need a double. The proxy
// is named <interface>Double, with Mock<interface> and Spy<interface> constructors; `--name`
// picks another base name. It is written to generated_<Name>Double.go, or _test.go in test
// packages. `--config impstub.yaml` generates every double a config file lists, and `--check`
// fails with a diff instead of writing when a generated file is out of date.
package main

import (
	"fmt"
	"os"

	"github.com/dave/dst"

	"github.com/toejough/impstub/impstubgen/run"
	load "github.com/toejough/impstub/impstubgen/run/2_load"
)

// main is the entry point of the impstubgen tool.
func main() {
	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using the os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements run.PackageLoader using direct DST parsing.
type realPackageLoader struct{}

// Load loads a package by import path and returns its DST files.
func (pl *realPackageLoader) Load(importPath string) ([]*dst.File, error) {
	files, err := load.PackageDST(importPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, nil
}
