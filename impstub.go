// Package impstub provides a runtime test-double engine for Go.
// A double answers the calls it was stubbed for and counts them for later verification. Stubs
// may span several calls, so a chain like repo.Tx().Commit() is configured in one statement.
//
// Proxies for real interfaces are generated by impstubgen and forward every method into the
// engine:
//
//	repo := MockRepo(t)
//	impstub.When(t, repo).Call("Find", 7).Returns("ada")
//	impstub.When(t, repo).Call("Tx").Call("Commit").Throws(ErrConflict)
//	...
//	if !impstub.Verify(t, repo).Call("Find", 7).CalledTimes(1) { t.Fatal("Find not called once") }
//
// This is the public API entry point. Implementation lives in internal/core.
package impstub

import (
	"log/slog"
	"reflect"

	"github.com/toejough/impstub/internal/core"
)

// Types re-exported from internal/core.

// Action selects what a stored response does when it is resolved.
type Action = core.Action

// Catalog maps type names to the types that can be mocked by name.
type Catalog = core.Catalog

// Caller routes a method call into the engine. Generated proxies hold one.
type Caller = core.Caller

// ChainHop is the intermediate object a chained stub returns.
type ChainHop = core.ChainHop

// Double is the engine-side identity of a test double.
type Double = core.Double

// Engine owns a response store and the doubles that resolve against it.
type Engine = core.Engine

// InstanceID distinguishes doubles within an engine.
type InstanceID = core.InstanceID

// Matcher defines the interface for predicate argument markers.
type Matcher = core.Matcher

// Mocked is implemented by generated proxies.
type Mocked = core.Mocked

// Mode selects how a double answers unstubbed calls.
type Mode = core.Mode

// Option configures an Engine.
type Option = core.Option

// Outcome is what a resolved call hands back to a proxy.
type Outcome = core.Outcome

// Path is an ordered sequence of method steps.
type Path = core.Path

// Results is the multi-value form of a stubbed return.
type Results = core.Results

// SignatureKeyer lets a matcher supply its own canonical key.
type SignatureKeyer = core.SignatureKeyer

// Snapshot is a detached deep copy of an engine's responses.
type Snapshot = core.Snapshot

// Step is one method invocation in a path.
type Step = core.Step

// TestReporter is the minimal interface impstub needs from test frameworks.
type TestReporter = core.TestReporter

// TypeInfo describes a mockable type.
type TypeInfo = core.TypeInfo

// VerifyBuilder reads the selection counter of a stubbed call path.
type VerifyBuilder = core.Verify

// WhenBuilder records a call path on a double and commits a response for it.
type WhenBuilder = core.When

// Action and mode values.
const (
	ActionReturn   = core.ActionReturn
	ActionThrow    = core.ActionThrow
	ActionCallback = core.ActionCallback

	ModeFull    = core.ModeFull
	ModePartial = core.ModePartial
)

// Errors re-exported from internal/core.
var (
	ErrUsage             = core.ErrUsage
	ErrArgCount          = core.ErrArgCount
	ErrArgType           = core.ErrArgType
	ErrCallbackInvalid   = core.ErrCallbackInvalid
	ErrFinalType         = core.ErrFinalType
	ErrNotADouble        = core.ErrNotADouble
	ErrNoSteps           = core.ErrNoSteps
	ErrNoResults         = core.ErrNoResults
	ErrResultType        = core.ErrResultType
	ErrSpyReal           = core.ErrSpyReal
	ErrTerminalArity     = core.ErrTerminalArity
	ErrTerminalReused    = core.ErrTerminalReused
	ErrThrowInvalid      = core.ErrThrowInvalid
	ErrUnknownMethod     = core.ErrUnknownMethod
	ErrUnknownType       = core.ErrUnknownType
	ErrCorruptResponse   = core.ErrCorruptResponse
	ErrCallbackSignature = core.ErrCallbackSignature
)

// Functions re-exported from internal/core.

// ErrResult returns the error result in position index of out, or the thrown error.
func ErrResult(out Outcome, index int) error {
	return core.ErrResult(out, index)
}

// IsMatcher reports whether value is a predicate marker.
func IsMatcher(value any) bool {
	return core.IsMatcher(value)
}

// NewCatalog returns an empty type catalog.
func NewCatalog() *Catalog {
	return core.NewCatalog()
}

// NewEngine returns an engine that reports usage errors through t.
func NewEngine(t TestReporter, opts ...Option) *Engine {
	return core.NewEngine(t, opts...)
}

// Raise panics with the thrown error of out, if any.
func Raise(out Outcome) {
	core.Raise(out)
}

// RegisterAdapter records how to present a Caller as T.
func RegisterAdapter[T any](adapt func(Caller) T) {
	core.RegisterAdapter(adapt)
}

// RegisterType makes T mockable by name.
func RegisterType[T any]() *TypeInfo {
	return core.RegisterType(reflect.TypeFor[T]())
}

// Result returns the value in position index of out as T.
func Result[T any](out Outcome, index int) T {
	return core.Result[T](out, index)
}

// TypeTag returns the qualified name identifying rtype in the response store.
func TypeTag(rtype reflect.Type) string {
	return core.TypeTag(rtype)
}

// WithCatalog resolves name-based creation against catalog.
func WithCatalog(catalog *Catalog) Option {
	return core.WithCatalog(catalog)
}

// WithLogger sends the engine's debug logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return core.WithLogger(logger)
}

// WithMissValue sets the value unstubbed calls resolve to.
func WithMissValue(value any) Option {
	return core.WithMissValue(value)
}
