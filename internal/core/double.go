package core

import (
	"fmt"
	"reflect"
)

// Caller is the single behavior proxies need: route a method call into the engine.
// *Double and *ChainHop implement it.
type Caller interface {
	Call(method string, args ...any) Outcome
}

// ChainHop is the intermediate object a chained stub returns. Its only behavior is to resolve
// the next step of the chain.
type ChainHop struct {
	double *Double
	prefix Path
}

// Double is the engine-side identity of a test double.
type Double struct {
	engine *Engine
	info   *TypeInfo
	id     InstanceID
	mode   Mode
	real   reflect.Value
}

// InstanceID distinguishes doubles. IDs are unique per engine and strictly increasing.
type InstanceID uint64

// Mocked is implemented by typed proxies, so their double can be found by When and Verify.
type Mocked interface {
	StubDouble() *Double
}

// Mode selects how a double answers calls that match no stub.
type Mode int

// Mode values.
const (
	// ModeFull answers misses with the miss value.
	ModeFull Mode = iota
	// ModePartial passes first-level misses through to the real implementation.
	ModePartial
)

// Call resolves method with args against the double's stubs.
func (d *Double) Call(method string, args ...any) Outcome {
	d.engine.t.Helper()

	return d.engine.call(d, Path{{Method: method, Args: args}})
}

// Engine returns the engine the double resolves against.
func (d *Double) Engine() *Engine {
	return d.engine
}

// InstanceID returns the double's identity within its engine.
func (d *Double) InstanceID() InstanceID {
	return d.id
}

// Mode returns the double's fixed mode.
func (d *Double) Mode() Mode {
	return d.mode
}

// StubDouble returns d. It lets a bare double be used wherever a proxy is accepted.
func (d *Double) StubDouble() *Double {
	return d
}

// String identifies the double in messages.
func (d *Double) String() string {
	return fmt.Sprintf("%s#%d", d.info.tag, d.id)
}

// Type returns the description of the mocked type.
func (d *Double) Type() *TypeInfo {
	return d.info
}

// TypeTag returns the qualified name of the mocked type.
func (d *Double) TypeTag() string {
	return d.info.tag
}

// Call resolves the next step of the chain.
func (h *ChainHop) Call(method string, args ...any) Outcome {
	h.double.engine.t.Helper()

	return h.double.engine.call(h.double, h.prefix.with(Step{Method: method, Args: args}))
}

// Double returns the double the chain was stubbed on.
func (h *ChainHop) Double() *Double {
	return h.double
}

// Path returns a copy of the steps that lead to this hop.
func (h *ChainHop) Path() Path {
	return append(Path(nil), h.prefix...)
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModePartial:
		return "partial"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// doubleOf extracts the double behind a proxy or a bare double.
func doubleOf(target any) (*Double, error) {
	mocked, ok := target.(Mocked)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotADouble, target)
	}

	double := mocked.StubDouble()
	if double == nil {
		return nil, fmt.Errorf("%w: %T has no double", ErrNotADouble, target)
	}

	return double, nil
}
