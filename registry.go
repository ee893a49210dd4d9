package impstub

import (
	"reflect"

	"github.com/toejough/impstub/internal/core"
)

// ForTest returns the Engine for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Engine instance,
// so proxies built in helpers share stubs and counters with the test itself.
//
// If the TestReporter supports Cleanup (like *testing.T), the Engine is
// automatically removed from the registry when the test completes.
func ForTest(t TestReporter, opts ...Option) *Engine {
	return core.ForTest(t, opts...)
}

// Mock creates a full double of T on the test's engine.
func Mock[T any](t TestReporter) *Double {
	t.Helper()

	return core.ForTest(t).Mock(reflect.TypeFor[T]())
}

// Spy creates a partial double of T on the test's engine, passing unstubbed calls to impl.
func Spy[T any](t TestReporter, impl T) *Double {
	t.Helper()

	return core.ForTest(t).Spy(reflect.TypeFor[T](), impl)
}

// Verify starts a counter query on target using the test's engine.
func Verify(t TestReporter, target any) *VerifyBuilder {
	t.Helper()

	return core.ForTest(t).Verify(target)
}

// When starts a stub on target using the test's engine.
func When(t TestReporter, target any) *WhenBuilder {
	t.Helper()

	return core.ForTest(t).When(target)
}
