package core

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unsafe"
)

// EncodeArgs returns the canonical key for an argument list, and whether any top-level position
// holds a matcher.
//
// The key is deterministic: equal value-like arguments produce equal keys regardless of map
// insertion order, while pointers, channels and functions are keyed by identity. Matchers are
// encoded structurally through pointers, so equivalent markers share a key.
func EncodeArgs(args []any) (key string, hasMatchers bool) {
	enc := newEncoder()

	enc.buf.WriteString("(")

	for index, arg := range args {
		if index > 0 {
			enc.buf.WriteString(",")
		}

		if IsMatcher(arg) {
			hasMatchers = true
		}

		enc.value(reflect.ValueOf(arg))
	}

	enc.buf.WriteString(")")

	return enc.buf.String(), hasMatchers
}

// encoder walks a value and writes its canonical form.
type encoder struct {
	buf strings.Builder
	// open holds the containers on the current walk path, for cycle detection.
	open map[visit]bool
	// inMatcher is non-zero while encoding the inside of a matcher, where pointers are followed.
	inMatcher int
}

// visit identifies a container during a walk.
type visit struct {
	ptr    uintptr
	typ    reflect.Type
	length int
}

// unexported constants.
const (
	cycleMarker = "<cycle>"
	nilMarker   = "nil"
)

// closureAddress returns the address of the closure a func value refers to. Closures created from
// one literal share a code pointer but not a closure, so the code pointer alone cannot tell them
// apart. Values that cannot be copied fall back to the code pointer.
func closureAddress(v reflect.Value) uintptr {
	if !v.CanAddr() {
		if !v.CanInterface() {
			return v.Pointer()
		}

		addressable := reflect.New(v.Type()).Elem()
		addressable.Set(v)
		v = addressable
	}

	return *(*uintptr)(unsafe.Pointer(v.UnsafeAddr())) //nolint:gosec // A func value is a pointer to its closure.
}

func encodeValue(value any) string {
	enc := newEncoder()
	enc.value(reflect.ValueOf(value))

	return enc.buf.String()
}

func newEncoder() *encoder {
	return &encoder{open: make(map[visit]bool)}
}

// enter marks a container as open. It returns false if the container is already open on this path.
func (e *encoder) enter(v visit) bool {
	if e.open[v] {
		e.buf.WriteString(cycleMarker)

		return false
	}

	e.open[v] = true

	return true
}

func (e *encoder) identity(v reflect.Value) {
	if v.IsNil() {
		fmt.Fprintf(&e.buf, "%s(nil)", v.Type())

		return
	}

	address := v.Pointer()
	if v.Kind() == reflect.Func {
		address = closureAddress(v)
	}

	fmt.Fprintf(&e.buf, "%s@%#x", v.Type(), address)
}

func (e *encoder) leave(v visit) {
	delete(e.open, v)
}

func (e *encoder) mapValue(v reflect.Value) {
	if v.IsNil() {
		fmt.Fprintf(&e.buf, "%s(nil)", v.Type())

		return
	}

	mark := visit{ptr: v.Pointer(), typ: v.Type()}
	if !e.enter(mark) {
		return
	}
	defer e.leave(mark)

	type pair struct{ key, value string }

	pairs := make([]pair, 0, v.Len())
	iter := v.MapRange()

	for iter.Next() {
		pairs = append(pairs, pair{key: e.sub(iter.Key()), value: e.sub(iter.Value())})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	fmt.Fprintf(&e.buf, "%s{", v.Type())

	for index, p := range pairs {
		if index > 0 {
			e.buf.WriteString(",")
		}

		e.buf.WriteString(p.key)
		e.buf.WriteString(":")
		e.buf.WriteString(p.value)
	}

	e.buf.WriteString("}")
}

// matcherPrefix writes the matcher marker for matcher values. It reports whether v is a matcher,
// and whether the matcher supplied its own key so that no structural encoding should follow.
func (e *encoder) matcherPrefix(v reflect.Value) (isMatcher, done bool) {
	if !v.CanInterface() {
		return false, false
	}

	iface := v.Interface()
	if !IsMatcher(iface) {
		return false, false
	}

	if keyer, ok := iface.(SignatureKeyer); ok {
		fmt.Fprintf(&e.buf, "matcher:%s(%s)", v.Type(), strconv.Quote(keyer.SignatureKey()))

		return true, true
	}

	e.buf.WriteString("matcher:")

	return true, false
}

func (e *encoder) pointer(v reflect.Value) {
	if e.inMatcher == 0 || v.IsNil() {
		e.identity(v)

		return
	}

	mark := visit{ptr: v.Pointer(), typ: v.Type()}
	if !e.enter(mark) {
		return
	}
	defer e.leave(mark)

	e.buf.WriteString("&")
	e.value(v.Elem())
}

func (e *encoder) sequence(v reflect.Value) {
	if v.Kind() == reflect.Slice {
		if v.IsNil() {
			fmt.Fprintf(&e.buf, "%s(nil)", v.Type())

			return
		}

		mark := visit{ptr: v.Pointer(), typ: v.Type(), length: v.Len()}
		if !e.enter(mark) {
			return
		}
		defer e.leave(mark)
	}

	fmt.Fprintf(&e.buf, "%s[", v.Type())

	for index := range v.Len() {
		if index > 0 {
			e.buf.WriteString(",")
		}

		e.value(v.Index(index))
	}

	e.buf.WriteString("]")
}

func (e *encoder) structValue(v reflect.Value) {
	typ := v.Type()

	fmt.Fprintf(&e.buf, "%s{", typ)

	for index := range v.NumField() {
		if index > 0 {
			e.buf.WriteString(",")
		}

		e.buf.WriteString(typ.Field(index).Name)
		e.buf.WriteString(":")
		e.value(v.Field(index))
	}

	e.buf.WriteString("}")
}

// sub encodes v into a separate string, sharing the open-container set.
func (e *encoder) sub(v reflect.Value) string {
	inner := &encoder{open: e.open, inMatcher: e.inMatcher}
	inner.value(v)

	return inner.buf.String()
}

//nolint:cyclop // Kind dispatch is inherently wide.
func (e *encoder) value(v reflect.Value) {
	if !v.IsValid() {
		e.buf.WriteString(nilMarker)

		return
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			e.buf.WriteString(nilMarker)

			return
		}

		e.value(v.Elem())

		return
	}

	isMatcher, done := e.matcherPrefix(v)
	if done {
		return
	}

	if isMatcher {
		e.inMatcher++
		defer func() { e.inMatcher-- }()
	}

	typ := v.Type()

	switch v.Kind() {
	case reflect.Bool:
		fmt.Fprintf(&e.buf, "%s(%t)", typ, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fmt.Fprintf(&e.buf, "%s(%d)", typ, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		fmt.Fprintf(&e.buf, "%s(%d)", typ, v.Uint())
	case reflect.Float32, reflect.Float64:
		fmt.Fprintf(&e.buf, "%s(%s)", typ, strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case reflect.Complex64, reflect.Complex128:
		fmt.Fprintf(&e.buf, "%s(%s)", typ, strconv.FormatComplex(v.Complex(), 'g', -1, 128))
	case reflect.String:
		fmt.Fprintf(&e.buf, "%s(%s)", typ, strconv.Quote(v.String()))
	case reflect.Slice, reflect.Array:
		e.sequence(v)
	case reflect.Map:
		e.mapValue(v)
	case reflect.Struct:
		e.structValue(v)
	case reflect.Pointer:
		e.pointer(v)
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		e.identity(v)
	default:
		fmt.Fprintf(&e.buf, "%s(?)", typ)
	}
}
