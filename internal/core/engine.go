// Package core implements the impstub engine: the response store, the When and Verify builders,
// and the resolver generated proxies call into.
package core

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// Engine owns a response store and the doubles that resolve against it.
//
// The lock is held only while the store or the instance counter is read or written. Callbacks
// and pass-through calls run unlocked, so they may call back into the engine.
type Engine struct {
	t         TestReporter
	catalog   *Catalog
	logger    *slog.Logger
	missValue any

	mu     sync.Mutex
	store  *Store
	lastID InstanceID
}

// Option configures an Engine.
type Option func(*Engine)

// TestReporter is the interface used to report test failures.
// It is satisfied by *testing.T and *testing.B.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// NewEngine returns an engine that reports usage errors through t.
func NewEngine(t TestReporter, opts ...Option) *Engine {
	engine := &Engine{
		t:       t,
		catalog: DefaultCatalog(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		store:   NewStore(),
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// WithCatalog resolves name-based creation against catalog instead of the default one.
func WithCatalog(catalog *Catalog) Option {
	return func(e *Engine) {
		e.catalog = catalog
	}
}

// WithLogger sends the engine's debug logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMissValue sets the value unstubbed calls resolve to. The default is nil.
func WithMissValue(value any) Option {
	return func(e *Engine) {
		e.missValue = value
	}
}

// Mock creates a full double of rtype.
func (e *Engine) Mock(rtype reflect.Type) *Double {
	e.t.Helper()

	info, err := e.catalog.Info(rtype)
	if err != nil {
		e.fail(fmt.Errorf("mock: %w", err))

		return nil
	}

	return e.create(info, ModeFull, nil)
}

// MockNamed creates a full double of a registered type.
func (e *Engine) MockNamed(name string) *Double {
	e.t.Helper()

	info, err := e.catalog.Lookup(name)
	if err != nil {
		e.fail(fmt.Errorf("mock: %w", err))

		return nil
	}

	return e.create(info, ModeFull, nil)
}

// ReplaceResponses installs a copy of snapshot as the engine's stubs and counters.
//
// A snapshot belongs to the engine whose Responses produced it. Instance identities are
// numbered per engine, so another engine's snapshot attaches its stubs to whichever local
// doubles happen to share a type and identity.
func (e *Engine) ReplaceResponses(snapshot Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Replace(snapshot)
	e.logger.Debug("responses replaced", "responses", snapshot.Len())
}

// Reset discards every stub and counter. Doubles stay valid and keep their identities.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store = NewStore()
	e.logger.Debug("responses reset")
}

// Resolve answers path for double: a stubbed response, a pass-through to a spy's real value, or
// a miss. A selected response's counter is incremented.
func (e *Engine) Resolve(double *Double, path Path) (Outcome, error) {
	e.mu.Lock()

	response, found := e.store.Lookup(double.info.tag, double.id, path)

	var (
		action Action
		value  any
		err    error
	)

	if found {
		err = response.validate()
		if err == nil {
			response.count++
			action, value = response.action, response.value
		}
	}

	e.mu.Unlock()

	if err != nil {
		return Outcome{}, fmt.Errorf("%s.%s: %w", double, path, err)
	}

	if !found {
		if double.mode == ModePartial && len(path) == 1 {
			e.logger.Debug("pass through", "double", double.String(), "path", path.String())

			return e.passThrough(double, path[0])
		}

		e.logger.Debug("miss", "double", double.String(), "path", path.String())

		return Outcome{Value: e.missValue, Missed: true}, nil
	}

	e.logger.Debug("hit", "double", double.String(), "path", path.String(), "action", action.String())

	out, err := materialize(action, value, path[len(path)-1].Args)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s.%s: %w", double, path, err)
	}

	return out, nil
}

// Responses returns a deep copy of the engine's stubs and counters.
func (e *Engine) Responses() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.Snapshot()
}

// Spy creates a partial double of rtype that passes unstubbed calls through to impl.
func (e *Engine) Spy(rtype reflect.Type, impl any) *Double {
	e.t.Helper()

	info, err := e.catalog.Info(rtype)
	if err != nil {
		e.fail(fmt.Errorf("spy: %w", err))

		return nil
	}

	return e.create(info, ModePartial, impl)
}

// SpyNamed creates a partial double of a registered type.
func (e *Engine) SpyNamed(name string, impl any) *Double {
	e.t.Helper()

	info, err := e.catalog.Lookup(name)
	if err != nil {
		e.fail(fmt.Errorf("spy: %w", err))

		return nil
	}

	return e.create(info, ModePartial, impl)
}

// call resolves path and reports any error through the test reporter.
func (e *Engine) call(double *Double, path Path) Outcome {
	e.t.Helper()

	out, err := e.Resolve(double, path)
	if err != nil {
		e.fail(err)

		return Outcome{Missed: true, fail: e.fail}
	}

	out.fail = e.fail

	return out
}

// commit stores a chain: every proper prefix returns a hop, the full path gets response.
func (e *Engine) commit(double *Double, steps Path, response *Response) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for index := 1; index < len(steps); index++ {
		prefix := slices.Clone(steps[:index])
		hop := &ChainHop{double: double, prefix: prefix}

		err := e.store.Put(double.info.tag, double.id, prefix, ReturnValue(hop))
		if err != nil {
			return err
		}
	}

	err := e.store.Put(double.info.tag, double.id, steps, response)
	if err != nil {
		return err
	}

	e.logger.Debug("stub committed",
		"double", double.String(), "path", steps.String(), "action", response.action.String())

	return nil
}

// count returns the selection counter for path, or zero when it resolves to nothing.
func (e *Engine) count(double *Double, path Path) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	response, found := e.store.Lookup(double.info.tag, double.id, path)
	if !found {
		return 0
	}

	return response.count
}

func (e *Engine) create(info *TypeInfo, mode Mode, impl any) *Double {
	e.t.Helper()

	err := info.mockable()
	if err != nil {
		e.fail(err)

		return nil
	}

	double := &Double{engine: e, info: info, mode: mode}

	if mode == ModePartial {
		if impl == nil || !reflect.TypeOf(impl).Implements(info.rtype) {
			e.fail(fmt.Errorf("%w: %T does not implement %s", ErrSpyReal, impl, info.tag))

			return nil
		}

		double.real = reflect.ValueOf(impl)
	}

	e.mu.Lock()
	e.lastID++
	double.id = e.lastID
	e.mu.Unlock()

	e.logger.Debug("double created", "double", double.String(), "mode", mode.String())

	return double
}

func (e *Engine) fail(err error) {
	e.t.Helper()
	e.t.Fatalf("%v", err)
}

func (e *Engine) passThrough(double *Double, step Step) (Outcome, error) {
	method := double.real.MethodByName(step.Method)
	if !method.IsValid() {
		return Outcome{}, fmt.Errorf("%w: %s has no method %s", ErrUnknownMethod, double.info.tag, step.Method)
	}

	results, err := invoke(method, step.Args)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: passing %s through to %T: %w", ErrUsage, step, double.real.Interface(), err)
	}

	return outcomeOf(results), nil
}

// resetCount zeroes the counter for path, if it resolves.
func (e *Engine) resetCount(double *Double, path Path) {
	e.mu.Lock()
	defer e.mu.Unlock()

	response, found := e.store.Lookup(double.info.tag, double.id, path)
	if found {
		response.count = 0
	}
}
