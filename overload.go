// Package overload implements runtime overload dispatch: several candidate
// callables registered under one logical name, with each call routed to the
// unique candidate whose declared parameter types match the supplied
// arguments.
//
// Candidates declare their parameter contract explicitly (Go has no keyword
// arguments to introspect); the declared types are annotation expressions
// resolved once, at registration, against a typedesc.Scope. Resolution happens
// fresh on every call: bind positional and keyword arguments against each
// candidate, apply defaults, check every constrained parameter structurally,
// and require exactly one survivor. Zero survivors is a NoMatchError, two or
// more is an AmbiguousMatchError; declaration order never breaks a tie.
package overload

// Value is a runtime value of the host program. Dispatch never inspects a
// value beyond structural type conformance.
type Value = any

// Impl is the body of a candidate. It receives the original, unbound call-site
// arguments: positional in order, keywords by name.
type Impl func(args []Value, kwargs map[string]Value) (Value, error)

// ParamKind classifies how a formal parameter can be bound.
type ParamKind int

const (
	// Positional parameters bind left-to-right only; a keyword argument can
	// never target them.
	Positional ParamKind = iota

	// PositionalOrKeyword parameters bind left-to-right or by name.
	PositionalOrKeyword

	// KeywordOnly parameters bind by name only.
	KeywordOnly

	// VariadicPositional and VariadicKeyword exist so that a contract can
	// declare them and be rejected: overloaded candidates must have a fixed
	// shape, so registration refuses both kinds outright.
	VariadicPositional
	VariadicKeyword
)

func (k ParamKind) String() string {
	switch k {
	case Positional:
		return "positional"
	case PositionalOrKeyword:
		return "positional-or-keyword"
	case KeywordOnly:
		return "keyword-only"
	case VariadicPositional:
		return "variadic-positional"
	case VariadicKeyword:
		return "variadic-keyword"
	default:
		return "unknown"
	}
}

// Param declares one formal parameter of a candidate.
type Param struct {
	Name string
	Kind ParamKind

	// Type is the declared annotation expression (e.g. "Int", "List<Int>",
	// "Int | String"). Empty means unconstrained.
	Type string

	// Default is used when the caller omits the parameter. It participates in
	// type checking exactly like a supplied value.
	Default    Value
	HasDefault bool
}

// Required reports whether the caller must supply the parameter.
func (p Param) Required() bool { return !p.HasDefault }

// Func couples a callable body with its declared contract.
type Func struct {
	Name   string
	Params []Param
	Return string // annotation expression; empty means unconstrained
	Fn     Impl
}
