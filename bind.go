package overload

import "github.com/funvibe/overload/typedesc"

// bind matches call-site arguments against a candidate's formal parameters.
//
// Positional arguments fill positional-capable parameters left-to-right;
// keyword arguments fill by name; omitted parameters fall back to their
// default. The second return value is false when the call does not fit the
// shape at all: surplus positional arguments, an unknown keyword, a keyword
// targeting a positional-only parameter, a parameter assigned twice, or a
// missing required parameter. A false result is a non-match, not an error.
func bind(sig *Signature, args []Value, kwargs map[string]Value) (map[string]Value, bool) {
	bound := make(map[string]Value, len(sig.Params))

	nextArg := 0
	for _, p := range sig.Params {
		if nextArg >= len(args) {
			break
		}
		if p.Kind != Positional && p.Kind != PositionalOrKeyword {
			break
		}
		bound[p.Name] = args[nextArg]
		nextArg++
	}
	if nextArg < len(args) {
		return nil, false // more positional arguments than positional-capable parameters
	}

	for name, v := range kwargs {
		p, ok := findParam(sig, name)
		if !ok {
			return nil, false // unknown keyword
		}
		if p.Kind == Positional {
			return nil, false // positional-only parameter addressed by name
		}
		if _, dup := bound[name]; dup {
			return nil, false // already filled positionally
		}
		bound[name] = v
	}

	for _, p := range sig.Params {
		if _, ok := bound[p.Name]; ok {
			continue
		}
		if !p.HasDefault {
			return nil, false // missing required parameter
		}
		bound[p.Name] = p.Default
	}

	return bound, true
}

func findParam(sig *Signature, name string) (BoundParam, bool) {
	for _, p := range sig.Params {
		if p.Name == name {
			return p, true
		}
	}
	return BoundParam{}, false
}

// firstMismatch type-checks every constrained parameter of a bound call and
// names the first one whose value does not conform. Unconstrained parameters
// are never checked, so they can never eliminate a candidate. Parameters
// filled from defaults are checked like any other bound value.
func (r *Registry) firstMismatch(sig *Signature, bound map[string]Value) (string, bool) {
	for _, p := range sig.Params {
		if typedesc.IsAny(p.Type) {
			continue
		}
		v, ok := bound[p.Name]
		if !ok {
			continue
		}
		if !r.scope.Matches(v, p.Type) {
			return p.Name, true
		}
	}
	return "", false
}
