package core_test

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/toejough/impstub/internal/core"
)

// Repo is the interface most engine tests double.
type Repo interface {
	Close()
	Find(id int) (string, error)
	Save(name string, tags ...string) error
	Tx() Tx
}

// Rows is the end of the Repo chain.
type Rows interface {
	Next() bool
}

// Tx is returned by Repo.Tx, so stubs can chain through it.
type Tx interface {
	Commit() error
	Query(sql string, args ...any) Rows
}

// RepoDouble is a hand-written proxy in the shape impstubgen generates.
type RepoDouble struct {
	caller core.Caller
}

func (d *RepoDouble) Close() {
	core.Raise(d.caller.Call("Close"))
}

func (d *RepoDouble) Find(id int) (string, error) {
	out := d.caller.Call("Find", id)

	return core.Result[string](out, 0), core.ErrResult(out, 1)
}

func (d *RepoDouble) Save(name string, tags ...string) error {
	out := d.caller.Call("Save", name, tags)

	return core.ErrResult(out, 0)
}

func (d *RepoDouble) StubDouble() *core.Double {
	double, _ := d.caller.(*core.Double)

	return double
}

func (d *RepoDouble) Tx() Tx {
	out := d.caller.Call("Tx")
	core.Raise(out)

	return core.Result[Tx](out, 0)
}

// TxDouble is the proxy for Tx.
type TxDouble struct {
	caller core.Caller
}

func (d *TxDouble) Commit() error {
	out := d.caller.Call("Commit")

	return core.ErrResult(out, 0)
}

func (d *TxDouble) Query(sql string, args ...any) Rows {
	out := d.caller.Call("Query", sql, args)
	core.Raise(out)

	return core.Result[Rows](out, 0)
}

func (d *TxDouble) StubDouble() *core.Double {
	double, _ := d.caller.(*core.Double)

	return double
}

// RowsDouble is the proxy for Rows.
type RowsDouble struct {
	caller core.Caller
}

func (d *RowsDouble) Next() bool {
	out := d.caller.Call("Next")
	core.Raise(out)

	return core.Result[bool](out, 0)
}

func (d *RowsDouble) StubDouble() *core.Double {
	double, _ := d.caller.(*core.Double)

	return double
}

// boomError is an error type that throws can instantiate.
type boomError struct {
	reason string
}

func (e *boomError) Error() string {
	if e.reason == "" {
		return "boom"
	}

	return "boom: " + e.reason
}

// lowercase is a matcher accepting lowercase strings.
type lowercase struct{}

func (lowercase) FailureMessage(actual any) string {
	return fmt.Sprintf("%v is not lowercase", actual)
}

func (lowercase) Match(actual any) (bool, error) {
	text, ok := actual.(string)
	if !ok {
		return false, fmt.Errorf("%T is not a string", actual) //nolint:err113 // Test matcher.
	}

	return text == strings.ToLower(text), nil
}

// predicate wraps a function, so matcher encoding of func fields can be tested.
type predicate struct {
	accept func(any) bool
}

func (p *predicate) FailureMessage(actual any) string {
	return fmt.Sprintf("%v rejected", actual)
}

func (p *predicate) Match(actual any) (bool, error) {
	return p.accept(actual), nil
}

// keyed is a matcher that supplies its own signature key.
type keyed struct {
	key   string
	calls int
}

func (k *keyed) FailureMessage(any) string {
	return "never"
}

func (k *keyed) Match(any) (bool, error) {
	k.calls++

	return true, nil
}

func (k *keyed) SignatureKey() string {
	return k.key
}

// realRepo is the implementation spies pass through to.
type realRepo struct {
	mu    sync.Mutex
	saved []string
}

func (r *realRepo) Close() {}

func (r *realRepo) Find(id int) (string, error) {
	return fmt.Sprintf("real-%d", id), nil
}

func (r *realRepo) Save(name string, tags ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saved = append(r.saved, name+"["+strings.Join(tags, ",")+"]")

	return nil
}

func (r *realRepo) Tx() Tx {
	return nil
}

// reporter records failures instead of stopping the test.
type reporter struct {
	mu     sync.Mutex
	errs   []error
	failed []string
}

func (r *reporter) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errs...)
}

func (r *reporter) Fatalf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failed = append(r.failed, fmt.Sprintf(format, args...))

	for _, arg := range args {
		if err, ok := arg.(error); ok {
			r.errs = append(r.errs, err)
		}
	}
}

func (r *reporter) Helper() {}

// unexported variables.
var (
	//nolint:gochecknoglobals // Cached reflect types.
	repoType = reflect.TypeFor[Repo]()
	//nolint:gochecknoglobals // Cached reflect types.
	txType = reflect.TypeFor[Tx]()
)

//nolint:gochecknoinits // Proxies register the way generated code does.
func init() {
	core.RegisterType(repoType)
	core.RegisterType(txType)
	core.RegisterAdapter(func(caller core.Caller) Repo { return &RepoDouble{caller: caller} })
	core.RegisterAdapter(func(caller core.Caller) Tx { return &TxDouble{caller: caller} })
	core.RegisterAdapter(func(caller core.Caller) Rows { return &RowsDouble{caller: caller} })
}

func isOdd(actual any) bool {
	number, ok := actual.(int)

	return ok && number%2 == 1
}

func newRepo(engine *core.Engine) *RepoDouble {
	return &RepoDouble{caller: engine.Mock(repoType)}
}
