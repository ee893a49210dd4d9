package core

import (
	"errors"
	"fmt"
	"reflect"
)

// unexported variables.
var (
	errArgCount = errors.New("argument count mismatch")
	errArgType  = errors.New("argument type mismatch")
)

// convertValue adapts value to typ: assignable values pass through, numeric values are converted,
// and nil becomes the zero value of nilable kinds.
func convertValue(value any, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		if nilable(typ.Kind()) {
			return reflect.Zero(typ), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: nil is not a valid %s", errArgType, typ)
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(typ) {
		return v, nil
	}

	if numeric(v.Kind()) && numeric(typ.Kind()) && v.Type().ConvertibleTo(typ) {
		return v.Convert(typ), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %T is not a valid %s", errArgType, value, typ)
}

// invoke calls fn with args and collects its results. A variadic function receives a trailing
// argument that already fits its variadic slice as the whole slice.
func invoke(fn reflect.Value, args []any) ([]any, error) {
	in, spread, err := callArgs(fn.Type(), args)
	if err != nil {
		return nil, err
	}

	var out []reflect.Value
	if spread {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}

	results := make([]any, len(out))
	for index, value := range out {
		results[index] = value.Interface()
	}

	return results, nil
}

func callArgs(fnType reflect.Type, args []any) ([]reflect.Value, bool, error) {
	numIn := fnType.NumIn()

	if !fnType.IsVariadic() {
		if len(args) != numIn {
			return nil, false, fmt.Errorf("%w: %s takes %d, got %d", errArgCount, fnType, numIn, len(args))
		}

		in, err := convertArgs(args, fnType.In)

		return in, false, err
	}

	sliceType := fnType.In(numIn - 1)

	if len(args) == numIn {
		last := args[numIn-1]
		if last == nil || reflect.TypeOf(last).AssignableTo(sliceType) {
			in, err := convertArgs(args, fnType.In)

			return in, true, err
		}
	}

	if len(args) < numIn-1 {
		return nil, false, fmt.Errorf("%w: %s takes at least %d, got %d", errArgCount, fnType, numIn-1, len(args))
	}

	in, err := convertArgs(args, func(index int) reflect.Type {
		if index < numIn-1 {
			return fnType.In(index)
		}

		return sliceType.Elem()
	})

	return in, false, err
}

func convertArgs(args []any, typeAt func(int) reflect.Type) ([]reflect.Value, error) {
	in := make([]reflect.Value, len(args))

	for index, arg := range args {
		value, err := convertValue(arg, typeAt(index))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", index, err)
		}

		in[index] = value
	}

	return in, nil
}

func nilable(kind reflect.Kind) bool {
	switch kind { //nolint:exhaustive // Only nilable kinds matter.
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}

func numeric(kind reflect.Kind) bool {
	switch kind { //nolint:exhaustive // Only numeric kinds matter.
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
