package core

import (
	"fmt"
	"reflect"
)

// Action selects what a stored response does when it is resolved.
type Action int

// Action values.
const (
	actionInvalid Action = iota
	ActionReturn
	ActionThrow
	ActionCallback
)

// Outcome is what a resolved call hands back to the proxy that made it.
type Outcome struct {
	// Value is the returned value. It holds Results when a callback or a real method returned
	// several values.
	Value any
	// Thrown is set when the stub raises an error.
	Thrown error
	// Missed is set when no stub matched the call.
	Missed bool

	fail func(error)
}

// Response is one configured reaction to a call path, plus the number of times it was selected.
type Response struct {
	action Action
	value  any
	count  int
}

// Results is the multi-value form of an Outcome's value. Stub a method with several results by
// returning a Results literal.
type Results []any

// CallbackValue builds a response that invokes fn with the live arguments.
func CallbackValue(fn any) *Response {
	return &Response{action: ActionCallback, value: fn}
}

// ReturnValue builds a response that returns value as-is.
func ReturnValue(value any) *Response {
	return &Response{action: ActionReturn, value: value}
}

// ThrowValue builds a response that raises value: an error, a func() error, or an error type.
func ThrowValue(value any) *Response {
	return &Response{action: ActionThrow, value: value}
}

// String returns the builder verb for the action.
func (a Action) String() string {
	switch a {
	case ActionReturn:
		return "returns"
	case ActionThrow:
		return "throws"
	case ActionCallback:
		return "callback"
	case actionInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Action returns the response's tag.
func (r *Response) Action() Action {
	return r.action
}

// Count returns how many times the response was selected by a call.
func (r *Response) Count() int {
	return r.count
}

// Value returns the stored value, error or function.
func (r *Response) Value() any {
	return r.value
}

func (r *Response) clone() *Response {
	dup := *r

	return &dup
}

// validate checks the response carries the data its tag requires.
func (r *Response) validate() error {
	switch r.action {
	case ActionReturn:
		return nil
	case ActionThrow:
		if !throwable(r.value) {
			return fmt.Errorf("%w: throws holds %T, not an error", ErrCorruptResponse, r.value)
		}

		return nil
	case ActionCallback:
		if !callable(r.value) {
			return fmt.Errorf("%w: callback holds %T, not a function", ErrCorruptResponse, r.value)
		}

		return nil
	case actionInvalid:
		return fmt.Errorf("%w: response has no action", ErrCorruptResponse)
	default:
		return fmt.Errorf("%w: unknown action %d", ErrCorruptResponse, int(r.action))
	}
}

// Raise panics with the thrown error, if any. Proxies call it for methods with no error result.
func Raise(out Outcome) {
	if out.Thrown != nil {
		panic(out.Thrown)
	}
}

// result returns the value in position index of the outcome.
func (o Outcome) result(index int) any {
	if results, ok := o.Value.(Results); ok {
		if index < len(results) {
			return results[index]
		}

		return nil
	}

	if index == 0 {
		return o.Value
	}

	return nil
}

func (o Outcome) report(err error) {
	if o.fail == nil {
		panic(err)
	}

	o.fail(err)
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Cached reflect type.
	errorType = reflect.TypeFor[error]()
)

func callable(value any) bool {
	if value == nil {
		return false
	}

	fn := reflect.ValueOf(value)

	return fn.Kind() == reflect.Func && !fn.IsNil()
}

// errorFrom produces the error a throws response raises, constructing it when a factory or a
// type was stored.
func errorFrom(value any) error {
	switch typed := value.(type) {
	case error:
		return typed
	case func() error:
		return typed()
	case reflect.Type:
		return newErrorOfType(typed)
	default:
		return nil
	}
}

func materialize(action Action, value any, args []any) (Outcome, error) {
	switch action {
	case ActionReturn:
		return Outcome{Value: value}, nil
	case ActionThrow:
		err := errorFrom(value)
		if err == nil {
			return Outcome{}, fmt.Errorf("%w: throws produced no error", ErrCorruptResponse)
		}

		return Outcome{Thrown: err}, nil
	case ActionCallback:
		results, err := invoke(reflect.ValueOf(value), args)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: %w", ErrCallbackSignature, err)
		}

		return outcomeOf(results), nil
	case actionInvalid:
		return Outcome{}, fmt.Errorf("%w: response has no action", ErrCorruptResponse)
	default:
		return Outcome{}, fmt.Errorf("%w: unknown action %d", ErrCorruptResponse, int(action))
	}
}

// newErrorOfType instantiates an error of the given type, or returns nil if the type is not one.
func newErrorOfType(typ reflect.Type) error {
	if typ == nil {
		return nil
	}

	if typ.Kind() == reflect.Pointer && typ.Implements(errorType) {
		err, _ := reflect.New(typ.Elem()).Interface().(error)

		return err
	}

	if typ.Implements(errorType) {
		err, _ := reflect.New(typ).Elem().Interface().(error)

		return err
	}

	if reflect.PointerTo(typ).Implements(errorType) {
		err, _ := reflect.New(typ).Interface().(error)

		return err
	}

	return nil
}

// newResponse validates a builder terminal's argument and wraps it in a response.
func newResponse(action Action, value any) (*Response, error) {
	switch action {
	case ActionThrow:
		if !throwable(value) {
			return nil, fmt.Errorf("%w: got %T", ErrThrowInvalid, value)
		}

		return ThrowValue(value), nil
	case ActionCallback:
		if !callable(value) {
			return nil, fmt.Errorf("%w: got %T", ErrCallbackInvalid, value)
		}

		return CallbackValue(value), nil
	case ActionReturn, actionInvalid:
		return ReturnValue(value), nil
	default:
		return ReturnValue(value), nil
	}
}

func outcomeOf(results []any) Outcome {
	switch len(results) {
	case 0:
		return Outcome{}
	case 1:
		return Outcome{Value: results[0]}
	default:
		return Outcome{Value: Results(results)}
	}
}

func throwable(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case error:
		return true
	case func() error:
		return typed != nil
	case reflect.Type:
		return typed.Implements(errorType) || reflect.PointerTo(typed).Implements(errorType)
	default:
		return false
	}
}
