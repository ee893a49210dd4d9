package core

import (
	"fmt"
	"slices"
	"strings"
)

// Path is an ordered sequence of method/argument steps, from the double outward.
type Path []Step

// Snapshot is a detached deep copy of a store's contents. Entries are keyed by type tag and
// instance identity only.
type Snapshot struct {
	types map[string]map[InstanceID]*node
}

// Step is one method invocation in a path.
type Step struct {
	Method string
	Args   []any
}

// Store maps type tag, instance, and call path to configured responses.
//
// Within one method level, exact argument keys are consulted before predicate signatures, and
// predicate signatures are tried in the order they were first stored. Paths are resolved greedily:
// a level's choice is never revisited when a deeper level fails to match.
//
// A Store is not safe for concurrent use. The engine serializes access to it.
type Store struct {
	types map[string]map[InstanceID]*node
}

// entry holds one signature at one method level.
type entry struct {
	key       string
	args      []any
	predicate bool
	response  *Response
	children  *node
}

type level struct {
	byKey map[string]*entry
	order []*entry
}

type node struct {
	methods map[string]*level
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{types: make(map[string]map[InstanceID]*node)}
}

// String renders the path the way it would be written as a chain of calls.
func (p Path) String() string {
	var builder strings.Builder

	for index, step := range p {
		if index > 0 {
			builder.WriteString(".")
		}

		builder.WriteString(step.String())
	}

	return builder.String()
}

// with returns a copy of the path with step appended.
func (p Path) with(step Step) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)

	return append(out, step)
}

// Len returns the number of responses in the snapshot.
func (s Snapshot) Len() int {
	count := 0

	for _, instances := range s.types {
		for _, root := range instances {
			count += root.responses()
		}
	}

	return count
}

// String renders the step as a call.
func (s Step) String() string {
	args := make([]string, len(s.Args))
	for index, arg := range s.Args {
		args[index] = fmt.Sprintf("%#v", arg)
	}

	return s.Method + "(" + strings.Join(args, ", ") + ")"
}

// Lookup resolves path for the given instance and returns the response at its end.
func (s *Store) Lookup(tag string, id InstanceID, path Path) (*Response, bool) {
	found := s.walk(tag, id, path)
	if found == nil || found.response == nil {
		return nil, false
	}

	return found.response, true
}

// Put stores response at the end of path, creating intermediate levels as needed.
// Re-storing an identical path replaces the action and value in place and keeps the count.
func (s *Store) Put(tag string, id InstanceID, path Path, response *Response) error {
	if len(path) == 0 {
		return ErrNoSteps
	}

	err := response.validate()
	if err != nil {
		return err
	}

	instances, ok := s.types[tag]
	if !ok {
		instances = make(map[InstanceID]*node)
		s.types[tag] = instances
	}

	current, ok := instances[id]
	if !ok {
		current = newNode()
		instances[id] = current
	}

	var target *entry

	for index, step := range path {
		target = current.level(step.Method).upsert(step.Args)

		if index < len(path)-1 {
			if target.children == nil {
				target.children = newNode()
			}

			current = target.children
		}
	}

	if target.response != nil {
		target.response.action = response.action
		target.response.value = response.value

		return nil
	}

	target.response = &Response{action: response.action, value: response.value}

	return nil
}

// Replace discards the store's contents and installs a copy of the snapshot's.
func (s *Store) Replace(snapshot Snapshot) {
	s.types = copyTypes(snapshot.types)
}

// Snapshot returns a deep copy of the store's contents.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{types: copyTypes(s.types)}
}

func (s *Store) walk(tag string, id InstanceID, path Path) *entry {
	current := s.types[tag][id]

	var found *entry

	for _, step := range path {
		if current == nil {
			return nil
		}

		methodLevel, ok := current.methods[step.Method]
		if !ok {
			return nil
		}

		found = methodLevel.find(step.Args)
		if found == nil {
			return nil
		}

		current = found.children
	}

	return found
}

func copyTypes(types map[string]map[InstanceID]*node) map[string]map[InstanceID]*node {
	out := make(map[string]map[InstanceID]*node, len(types))

	for tag, instances := range types {
		dup := make(map[InstanceID]*node, len(instances))
		for id, root := range instances {
			dup[id] = root.clone()
		}

		out[tag] = dup
	}

	return out
}

func newLevel() *level {
	return &level{byKey: make(map[string]*entry)}
}

func newNode() *node {
	return &node{methods: make(map[string]*level)}
}

func (e *entry) clone() *entry {
	dup := &entry{key: e.key, args: e.args, predicate: e.predicate}

	if e.response != nil {
		dup.response = e.response.clone()
	}

	if e.children != nil {
		dup.children = e.children.clone()
	}

	return dup
}

func (l *level) clone() *level {
	dup := &level{
		byKey: make(map[string]*entry, len(l.byKey)),
		order: make([]*entry, 0, len(l.order)),
	}

	for _, original := range l.order {
		copied := original.clone()
		dup.byKey[copied.key] = copied
		dup.order = append(dup.order, copied)
	}

	return dup
}

// find returns the entry for args: the exact key first, then the first predicate signature that
// accepts them.
func (l *level) find(args []any) *entry {
	key, _ := EncodeArgs(args)
	if exact, ok := l.byKey[key]; ok {
		return exact
	}

	for _, candidate := range l.order {
		if candidate.predicate && matchSignature(candidate.args, args) {
			return candidate
		}
	}

	return nil
}

// upsert returns the entry whose key matches args, creating it if needed.
func (l *level) upsert(args []any) *entry {
	key, predicate := EncodeArgs(args)
	if existing, ok := l.byKey[key]; ok {
		return existing
	}

	created := &entry{key: key, args: slices.Clone(args), predicate: predicate}
	l.byKey[key] = created
	l.order = append(l.order, created)

	return created
}

func (n *node) clone() *node {
	dup := &node{methods: make(map[string]*level, len(n.methods))}
	for method, methodLevel := range n.methods {
		dup.methods[method] = methodLevel.clone()
	}

	return dup
}

func (n *node) level(method string) *level {
	methodLevel, ok := n.methods[method]
	if !ok {
		methodLevel = newLevel()
		n.methods[method] = methodLevel
	}

	return methodLevel
}

func (n *node) responses() int {
	count := 0

	for _, methodLevel := range n.methods {
		for _, candidate := range methodLevel.order {
			if candidate.response != nil {
				count++
			}

			if candidate.children != nil {
				count += candidate.children.responses()
			}
		}
	}

	return count
}
