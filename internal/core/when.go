package core

import (
	"fmt"
	"reflect"
	"slices"
)

// When records a call path on a double and commits a response for it.
//
//	engine.When(repo).Call("Find", 7).Returns(user)
//	engine.When(repo).Call("Tx").Call("Commit").Throws(ErrConflict)
type When struct {
	double *Double
	steps  Path
	// owner is the type the next step's method is checked against. Nil leaves it unchecked.
	owner reflect.Type
	// after names the previous method when it returns nothing, so that chaining past it fails.
	after string
	done  bool
	// failed is set once a step is rejected. The builder then commits nothing.
	failed bool
}

// When starts a stub on target, which must be a double or a proxy for one.
func (e *Engine) When(target any) *When {
	e.t.Helper()

	double, err := doubleOf(target)
	if err != nil {
		e.fail(fmt.Errorf("when: %w", err))

		return &When{}
	}

	return &When{double: double, owner: double.info.rtype}
}

// Call appends a method step to the stub's path.
func (w *When) Call(method string, args ...any) *When {
	if w.double == nil || w.failed {
		return w
	}

	w.double.engine.t.Helper()

	fitted, err := w.step(method, args)
	if err != nil {
		w.failed = true
		w.double.engine.fail(fmt.Errorf("when %s: %w", w.double, err))

		return w
	}

	w.steps = append(w.steps, Step{Method: method, Args: fitted})

	return w
}

// Callback commits a response that invokes the given function with the live arguments.
// Its results become the call's results.
func (w *When) Callback(values ...any) {
	if w.double == nil {
		return
	}

	w.double.engine.t.Helper()
	w.terminal(ActionCallback, values)
}

// Returns commits a response that returns the given value. Use Results for several values.
func (w *When) Returns(values ...any) {
	if w.double == nil {
		return
	}

	w.double.engine.t.Helper()
	w.terminal(ActionReturn, values)
}

// Throws commits a response that raises the given error. An error type or a func() error
// constructs a new error on every call.
func (w *When) Throws(values ...any) {
	if w.double == nil {
		return
	}

	w.double.engine.t.Helper()
	w.terminal(ActionThrow, values)
}

func (w *When) build(action Action, values []any) error {
	if w.done {
		return ErrTerminalReused
	}

	w.done = true

	if len(values) != 1 {
		return fmt.Errorf("%w: got %d", ErrTerminalArity, len(values))
	}

	if len(w.steps) == 0 {
		return ErrNoSteps
	}

	response, err := newResponse(action, values[0])
	if err != nil {
		return err
	}

	return w.double.engine.commit(w.double, w.steps, response)
}

// step checks method against the current owner and returns args fitted to its parameters.
func (w *When) step(method string, args []any) ([]any, error) {
	if w.done {
		return nil, fmt.Errorf("%w: %s after terminal", ErrTerminalReused, method)
	}

	if w.after != "" {
		return nil, fmt.Errorf("%w: %s returns nothing, cannot call %s on it", ErrNoResults, w.after, method)
	}

	if w.owner == nil {
		return slices.Clone(args), nil
	}

	found, ok := w.owner.MethodByName(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %s", ErrUnknownMethod, w.owner, method)
	}

	fitted, err := fitArgs(found, args)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", w.owner, method, err)
	}

	var noResults bool

	w.owner, noResults = nextOwner(found)
	if noResults {
		w.after = method
	}

	return fitted, nil
}

func (w *When) terminal(action Action, values []any) {
	if w.failed {
		return
	}

	w.double.engine.t.Helper()

	err := w.build(action, values)
	if err != nil {
		w.double.engine.fail(fmt.Errorf("when %s.%s: %s: %w", w.double, w.steps, action, err))
	}
}

// fitArgs converts literal stub arguments to the parameter types of an interface method, so
// that they encode the way the live arguments do. Matchers are left alone. A variadic
// parameter takes its slice as a single argument.
func fitArgs(method reflect.Method, args []any) ([]any, error) {
	typ := method.Type
	if len(args) != typ.NumIn() {
		return nil, fmt.Errorf("%w: takes %d, got %d", ErrArgCount, typ.NumIn(), len(args))
	}

	fitted := make([]any, len(args))

	for index, arg := range args {
		if IsMatcher(arg) {
			fitted[index] = arg

			continue
		}

		value, err := convertValue(arg, typ.In(index))
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %w", ErrArgType, index, err)
		}

		fitted[index] = value.Interface()
	}

	return fitted, nil
}
