package overload

import "fmt"

// Dispatcher is the handle for one dispatch name. It is the call entry point:
// Call runs the resolve-and-invoke algorithm against the name's overload set.
type Dispatcher struct {
	registry *Registry
	name     string
}

// Name returns the dispatch name this handle routes to.
func (d *Dispatcher) Name() string { return d.name }

// Overload registers another candidate under this handle's name and returns
// the same handle, so registrations can be chained. Resolution treats all
// candidates symmetrically regardless of how they were added.
func (d *Dispatcher) Overload(fn *Func) (*Dispatcher, error) {
	if err := d.registry.add(d.name, fn); err != nil {
		return d, err
	}
	return d, nil
}

// MustOverload is Overload, panicking on registration failure.
func (d *Dispatcher) MustOverload(fn *Func) *Dispatcher {
	if _, err := d.Overload(fn); err != nil {
		panic(err)
	}
	return d
}

// Call resolves and invokes with positional and keyword arguments.
func (d *Dispatcher) Call(args []Value, kwargs map[string]Value) (Value, error) {
	return d.registry.Call(d.name, args, kwargs)
}

// Invoke is a positional-only convenience for Call.
func (d *Dispatcher) Invoke(args ...Value) (Value, error) {
	return d.Call(args, nil)
}

// Call resolves name against its overload set and invokes the unique match.
//
// The algorithm runs fresh on every call, with no memoization:
//
//  1. Each candidate is bound against the call site; a binding failure
//     silently eliminates it.
//  2. Defaults fill omitted parameters, completing the bound assignment.
//  3. Every constrained bound value is checked structurally; the first
//     mismatch eliminates the candidate.
//  4. Zero survivors fail with *NoMatchError; two or more fail with
//     *AmbiguousMatchError. Exactly one survivor is invoked with the
//     original, unbound arguments and its result or error is returned
//     unmodified.
func (r *Registry) Call(name string, args []Value, kwargs map[string]Value) (Value, error) {
	candidates := r.snapshot(name)
	tr := r.tracer(name, args, kwargs)

	var matched []candidate
	for _, c := range candidates {
		bound, ok := bind(c.sig, args, kwargs)
		if !ok {
			tr.eliminated(c, "does not bind")
			continue
		}
		if param, mismatch := r.firstMismatch(c.sig, bound); mismatch {
			tr.eliminated(c, "type mismatch on "+param)
			continue
		}
		tr.survived(c)
		matched = append(matched, c)
	}

	switch len(matched) {
	case 0:
		err := &NoMatchError{Name: name, Args: args, Kwargs: kwargs, Candidates: len(candidates)}
		tr.outcome(err.Error())
		return nil, err
	case 1:
		tr.outcome("dispatch to " + describeCandidate(matched[0]))
		return matched[0].fn.Fn(args, kwargs)
	default:
		descs := make([]string, len(matched))
		for i, c := range matched {
			descs[i] = describeCandidate(c)
		}
		err := &AmbiguousMatchError{Name: name, Args: args, Kwargs: kwargs, Matched: descs}
		tr.outcome(err.Error())
		return nil, err
	}
}

func describeCandidate(c candidate) string {
	return fmt.Sprintf("%s [%s]", c.sig.String(), shortID(c.id))
}
