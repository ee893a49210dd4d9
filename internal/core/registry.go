package core

import (
	"sync"
)

// ForTest returns the Engine for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Engine, so doubles created in
// helpers share a store with the test that uses them. Options apply only on creation.
//
// If the TestReporter supports Cleanup (like *testing.T), the Engine is
// automatically removed from the registry when the test completes.
func ForTest(t TestReporter, opts ...Option) *Engine {
	registryMu.Lock()
	defer registryMu.Unlock()

	if engine, ok := registry[t]; ok {
		return engine
	}

	engine := NewEngine(t, opts...)
	registry[t] = engine

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()
		})
	}

	return engine
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for per-test engines
	registry = make(map[TestReporter]*Engine)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
