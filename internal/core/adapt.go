package core

import (
	"fmt"
	"reflect"
	"sync"
)

// ErrResult returns the error in position index of out, or the thrown error when the stub raised.
func ErrResult(out Outcome, index int) error {
	if out.Thrown != nil {
		return out.Thrown
	}

	return Result[error](out, index)
}

// RegisterAdapter records how to present a Caller as T. Generated proxies register one per
// interface, so that a chained stub returning a hop can be handed back as T.
func RegisterAdapter[T any](adapt func(Caller) T) {
	adapters.mu.Lock()
	defer adapters.mu.Unlock()

	adapters.byType[reflect.TypeFor[T]()] = func(caller Caller) any { return adapt(caller) }
}

// Result returns the value in position index of out as T.
//
// Hops and doubles are adapted to T through the registered adapter, and numeric values are
// converted. Nil, a thrown error, and a miss value that does not fit all give the zero value.
// Any other mismatch is a usage error.
func Result[T any](out Outcome, index int) T {
	var zero T

	if out.Thrown != nil {
		return zero
	}

	value := out.result(index)
	if value == nil {
		return zero
	}

	if typed, ok := value.(T); ok {
		return typed
	}

	target := reflect.TypeFor[T]()

	if caller, ok := value.(Caller); ok {
		if adapt, found := adapterFor(target); found {
			if typed, ok := adapt(caller).(T); ok {
				return typed
			}
		}
	}

	converted, err := convertValue(value, target)
	if err == nil {
		typed, _ := converted.Interface().(T)

		return typed
	}

	if out.Missed {
		return zero
	}

	out.report(fmt.Errorf("%w: result %d is %T, want %s", ErrResultType, index, value, target))

	return zero
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Generated proxies register into one process-wide table.
	adapters = struct {
		mu     sync.RWMutex
		byType map[reflect.Type]func(Caller) any
	}{byType: make(map[reflect.Type]func(Caller) any)}
)

func adapterFor(target reflect.Type) (func(Caller) any, bool) {
	adapters.mu.RLock()
	defer adapters.mu.RUnlock()

	adapt, ok := adapters.byType[target]

	return adapt, ok
}
