package core

import (
	"fmt"
	"reflect"
	"slices"
)

// Verify reads the selection counter of a stubbed call path. It never creates stubs or changes
// counters, except through ResetCounter.
type Verify struct {
	double *Double
	steps  Path
	owner  reflect.Type
}

// Verify starts a counter query on target, which must be a double or a proxy for one.
func (e *Engine) Verify(target any) *Verify {
	e.t.Helper()

	double, err := doubleOf(target)
	if err != nil {
		e.fail(fmt.Errorf("verify: %w", err))

		return &Verify{}
	}

	return &Verify{double: double, owner: double.info.rtype}
}

// AtLeast reports whether the path was selected at least n times.
func (v *Verify) AtLeast(n int) bool {
	return v.Count() >= n
}

// AtLeastOnce reports whether the path was selected at all.
func (v *Verify) AtLeastOnce() bool {
	return v.AtLeast(1)
}

// Call appends a method step to the queried path.
// Literal arguments are fitted to the method's parameters the way When fits them.
func (v *Verify) Call(method string, args ...any) *Verify {
	fitted := slices.Clone(args)

	if v.owner != nil {
		found, ok := v.owner.MethodByName(method)
		if ok {
			if converted, err := fitArgs(found, args); err == nil {
				fitted = converted
			}

			v.owner, _ = nextOwner(found)
		} else {
			v.owner = nil
		}
	}

	v.steps = append(v.steps, Step{Method: method, Args: fitted})

	return v
}

// CalledTimes reports whether the path was selected exactly n times.
func (v *Verify) CalledTimes(n int) bool {
	return v.Count() == n
}

// Count returns how many times the path was selected. A path with no stub counts zero.
func (v *Verify) Count() int {
	if v.double == nil || len(v.steps) == 0 {
		return 0
	}

	return v.double.engine.count(v.double, v.steps)
}

// LessThan reports whether the path was selected fewer than n times.
func (v *Verify) LessThan(n int) bool {
	return v.Count() < n
}

// NeverCalled reports whether the path was never selected.
func (v *Verify) NeverCalled() bool {
	return v.Count() == 0
}

// ResetCounter zeroes the path's counter. The stub itself is untouched.
func (v *Verify) ResetCounter() {
	if v.double == nil || len(v.steps) == 0 {
		return
	}

	v.double.engine.resetCount(v.double, v.steps)
}
