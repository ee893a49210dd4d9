package core

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Catalog maps type names to the types that can be mocked by name.
type Catalog struct {
	mu     sync.Mutex
	byName map[string]*TypeInfo
	byType map[reflect.Type]*TypeInfo
}

// TypeInfo describes a mockable type.
type TypeInfo struct {
	tag     string
	rtype   reflect.Type
	final   string
	methods []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byName: make(map[string]*TypeInfo),
		byType: make(map[reflect.Type]*TypeInfo),
	}
}

// RegisterType adds rtype to the default catalog so that it can be mocked by name.
// Generated proxies call it from an init function.
func RegisterType(rtype reflect.Type) *TypeInfo {
	return DefaultCatalog().Register(rtype)
}

// DefaultCatalog returns the catalog engines use unless configured otherwise.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// TypeTag returns the qualified name identifying rtype in the response store.
func TypeTag(rtype reflect.Type) string {
	if rtype.Name() != "" && rtype.PkgPath() != "" {
		return rtype.PkgPath() + "." + rtype.Name()
	}

	return rtype.String()
}

// Info returns the description of rtype, building it on first use. It does not register rtype by name.
func (c *Catalog) Info(rtype reflect.Type) (*TypeInfo, error) {
	if rtype == nil {
		return nil, fmt.Errorf("%w: nil type", ErrUnknownType)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.infoLocked(rtype), nil
}

// Lookup finds a registered type by its qualified tag, its reflect string, or its bare name when
// that is unambiguous.
func (c *Catalog) Lookup(name string) (*TypeInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if info, ok := c.byName[name]; ok {
		return info, nil
	}

	var found []*TypeInfo

	for _, info := range c.byType {
		if info.rtype.Name() == name {
			found = append(found, info)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, fmt.Errorf("%w: %q is not registered", ErrUnknownType, name)
	default:
		return nil, fmt.Errorf("%w: %q is ambiguous across %d packages", ErrUnknownType, name, len(found))
	}
}

// Register adds rtype under its tag and its reflect string.
func (c *Catalog) Register(rtype reflect.Type) *TypeInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := c.infoLocked(rtype)
	c.byName[info.tag] = info
	c.byName[rtype.String()] = info

	return info
}

func (c *Catalog) infoLocked(rtype reflect.Type) *TypeInfo {
	if info, ok := c.byType[rtype]; ok {
		return info
	}

	info := newTypeInfo(rtype)
	c.byType[rtype] = info

	return info
}

// Final reports whether the type cannot be substituted by a double.
func (ti *TypeInfo) Final() bool {
	return ti.final != ""
}

// Methods returns the type's method names, sorted.
func (ti *TypeInfo) Methods() []string {
	return append([]string(nil), ti.methods...)
}

// Tag returns the type's qualified name.
func (ti *TypeInfo) Tag() string {
	return ti.tag
}

// Type returns the described type.
func (ti *TypeInfo) Type() reflect.Type {
	return ti.rtype
}

func (ti *TypeInfo) mockable() error {
	if ti.Final() {
		return fmt.Errorf("%w: %s %s", ErrFinalType, ti.tag, ti.final)
	}

	return nil
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Generated proxies register into one process-wide catalog.
	defaultCatalog = NewCatalog()
)

func newTypeInfo(rtype reflect.Type) *TypeInfo {
	info := &TypeInfo{tag: TypeTag(rtype), rtype: rtype}

	if rtype.Kind() != reflect.Interface {
		info.final = fmt.Sprintf("is a concrete %s type", rtype.Kind())

		return info
	}

	for index := range rtype.NumMethod() {
		method := rtype.Method(index)
		if !method.IsExported() {
			info.final = fmt.Sprintf("has unexported method %s", method.Name)
		}

		info.methods = append(info.methods, method.Name)
	}

	sort.Strings(info.methods)

	return info
}

// nextOwner returns the type whose methods a chained step after method must belong to.
// A nil type means the step is unchecked. noResults is set when method returns nothing.
func nextOwner(method reflect.Method) (owner reflect.Type, noResults bool) {
	if method.Type.NumOut() == 0 {
		return nil, true
	}

	out := method.Type.Out(0)
	if out.NumMethod() == 0 {
		return nil, false
	}

	return out, false
}
