// Package match provides argument matchers for impstub stubs.
// Gomega matchers work as argument matchers without adaptation, and mix freely with these:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    "github.com/toejough/impstub/match"
//	)
//
//	impstub.When(t, repo).Call("Save", match.BeAny, ContainElement("admin")).Returns(nil)
package match

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/go-cmp/cmp"
)

// Matcher defines the interface for predicate argument markers.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// Equal returns a matcher that compares with go-cmp, so options such as cmpopts.EquateEmpty
// or cmp.AllowUnexported can relax the comparison. Comparisons cmp refuses to make are mismatches.
func Equal(expected any, opts ...cmp.Option) Matcher {
	return &equalMatcher{expected: expected, opts: opts}
}

// Expr returns a matcher that evaluates a CEL expression against the argument, bound as arg.
//
//	Expr(`arg > 3 && arg % 2 == 0`)
//	Expr(`arg.startsWith("user-")`)
//
// An expression that does not compile rejects every argument.
func Expr(expression string) Matcher {
	matcher := &exprMatcher{expression: expression}
	matcher.program, matcher.compileErr = compile(expression)

	return matcher
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	impstub.When(t, calc).Call("Add", Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}), BeAny).Returns(42)
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// unexported constants.
const (
	exprCostLimit = 10000
)

// unexported variables.
var (
	errExprResult   = errors.New("expression did not produce a bool")
	errTypeMismatch = errors.New("type mismatch")
	errUncomparable = errors.New("values cannot be compared")

	//nolint:gochecknoglobals // One CEL environment serves every expression.
	exprEnv = sync.OnceValues(func() (*cel.Env, error) {
		return cel.NewEnv(cel.Variable("arg", cel.DynType))
	})
)

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type equalMatcher struct {
	expected any
	opts     []cmp.Option
}

func (m *equalMatcher) FailureMessage(actual any) string {
	diff, err := m.diff(actual)
	if err != nil {
		return fmt.Sprintf("%v cannot be compared with %v: %v", actual, m.expected, err)
	}

	return fmt.Sprintf("value differs (-want +got):\n%s", diff)
}

func (m *equalMatcher) Match(actual any) (success bool, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			success, err = false, fmt.Errorf("%w: %v", errUncomparable, recovered)
		}
	}()

	return cmp.Equal(m.expected, actual, m.opts...), nil
}

func (m *equalMatcher) diff(actual any) (diff string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", errUncomparable, recovered)
		}
	}()

	return cmp.Diff(m.expected, actual, m.opts...), nil
}

type exprMatcher struct {
	expression string
	program    cel.Program
	compileErr error
}

func (m *exprMatcher) FailureMessage(actual any) string {
	if m.compileErr != nil {
		return fmt.Sprintf("expression %q is invalid: %v", m.expression, m.compileErr)
	}

	return fmt.Sprintf("value %v does not satisfy %s", actual, m.expression)
}

func (m *exprMatcher) Match(actual any) (bool, error) {
	if m.compileErr != nil {
		return false, m.compileErr
	}

	out, _, err := m.program.Eval(map[string]any{"arg": actual})
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", m.expression, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q gave %T", errExprResult, m.expression, out.Value())
	}

	return result, nil
}

// SignatureKey keys the matcher by its source, so re-stubbing the same expression replaces the
// earlier stub.
func (m *exprMatcher) SignatureKey() string {
	return m.expression
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	val, ok := actual.(T)
	if !ok {
		return fmt.Sprintf("value %v is not a %T", actual, *new(T))
	}

	if err := m.predicate(val); err != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, err)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	return m.predicate(val) == nil, nil
}

func compile(expression string) (cel.Program, error) {
	env, err := exprEnv()
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, issues.Err())
	}

	program, err := env.Program(ast, cel.CostLimit(exprCostLimit))
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expression, err)
	}

	return program, nil
}
