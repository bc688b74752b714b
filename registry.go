package overload

import (
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/funvibe/overload/typedesc"
)

// candidate is one registered callable eligible for selection. The id is a
// registration token: it keeps diagnostics unambiguous when two overloads
// share a function name.
type candidate struct {
	id  uuid.UUID
	fn  *Func
	sig *Signature
}

// overloadSet is the aggregate state of one dispatch name. It grows
// monotonically; there is no removal. Insertion order is preserved for
// reproducible diagnostics only and never breaks a resolution tie.
type overloadSet struct {
	name       string
	candidates []candidate
}

// Registry maps dispatch names to their overload sets. It is an explicit
// object rather than ambient package state: the caller constructs it, owns
// it, and hands it to registration and call sites.
//
// Registration and resolution are safe from concurrent goroutines: appends
// take the write lock, and resolution iterates a copy-on-read snapshot taken
// under the read lock.
type Registry struct {
	mu    sync.RWMutex
	sets  map[string]*overloadSet
	scope *typedesc.Scope
	trace io.Writer
}

// Option configures a Registry.
type Option func(*Registry)

// WithScope sets the scope annotations resolve against. Use it to predeclare
// user composite types before registering candidates.
func WithScope(s *typedesc.Scope) Option {
	return func(r *Registry) { r.scope = s }
}

// WithTrace directs a per-call resolution trace to w. Tracing is for
// debugging dispatch decisions and is off unless configured.
func WithTrace(w io.Writer) Option {
	return func(r *Registry) { r.trace = w }
}

// NewRegistry creates an empty registry. Without WithScope it uses a fresh
// scope with only the builtin types.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{sets: make(map[string]*overloadSet)}
	for _, opt := range opts {
		opt(r)
	}
	if r.scope == nil {
		r.scope = typedesc.NewScope()
	}
	return r
}

// Scope returns the scope annotations are resolved against.
func (r *Registry) Scope() *typedesc.Scope { return r.scope }

// Register adds fn as a candidate under name, creating the overload set on
// first use, and returns the dispatch handle for the name.
//
// The first registration under a name is not special: every registered
// candidate is a peer in the resolution pool. A candidate declaring a
// variadic parameter fails with *InvalidOverloadError before anything is
// appended; an unresolvable annotation fails with *ExtractionError.
func (r *Registry) Register(name string, fn *Func) (*Dispatcher, error) {
	if err := r.add(name, fn); err != nil {
		return nil, err
	}
	return &Dispatcher{registry: r, name: name}, nil
}

// MustRegister is Register, panicking on registration failure. Intended for
// package-level var blocks where misdeclaration is a programming error.
func (r *Registry) MustRegister(name string, fn *Func) *Dispatcher {
	d, err := r.Register(name, fn)
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup returns the dispatch handle for name if any candidate has been
// registered under it.
func (r *Registry) Lookup(name string) (*Dispatcher, bool) {
	r.mu.RLock()
	_, ok := r.sets[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return &Dispatcher{registry: r, name: name}, true
}

func (r *Registry) add(name string, fn *Func) error {
	for _, p := range fn.Params {
		if p.Kind == VariadicPositional || p.Kind == VariadicKeyword {
			return &InvalidOverloadError{Func: fn.Name, Param: p.Name,
				Reason: "variadic parameters cannot be overloaded"}
		}
	}

	sig, err := Extract(fn, r.scope)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[name]
	if !ok {
		set = &overloadSet{name: name}
		r.sets[name] = set
	}
	set.candidates = append(set.candidates, candidate{id: uuid.New(), fn: fn, sig: sig})
	return nil
}

// snapshot returns a read-stable copy of the candidate list for name.
func (r *Registry) snapshot(name string) []candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.sets[name]
	if !ok {
		return nil
	}
	return append([]candidate(nil), set.candidates...)
}
