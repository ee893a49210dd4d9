package run_test

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// memFS is an in-memory run.FileSystem.
type memFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemFS(files map[string]string) *memFS {
	mem := &memFS{files: make(map[string][]byte, len(files))}
	for name, content := range files {
		mem.files[name] = []byte(content)
	}

	return mem
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", name, fs.ErrNotExist)
	}

	return data, nil
}

func (m *memFS) WriteFile(name string, data []byte, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[name] = data

	return nil
}

func (m *memFS) content(t *testing.T, name string) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[name]
	if !ok {
		t.Fatalf("expected %s to be written", name)
	}

	return string(data)
}

// memLoader parses Go sources held in memory, keyed by import path.
type memLoader struct {
	packages map[string][]string
}

var errUnknownPackage = errors.New("unknown package")

func (l *memLoader) Load(importPath string) ([]*dst.File, error) {
	sources, ok := l.packages[importPath]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownPackage, importPath)
	}

	files := make([]*dst.File, 0, len(sources))

	for _, source := range sources {
		file, err := decorator.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", importPath, err)
		}

		files = append(files, file)
	}

	return files, nil
}

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

// assertContainsAll verifies that content contains all expected strings.
func assertContainsAll(t *testing.T, content string, expected []string) {
	t.Helper()

	for _, exp := range expected {
		if !strings.Contains(content, exp) {
			t.Errorf("expected output to contain %q", exp)
			t.Logf("output:\n%s", content)
		}
	}
}
