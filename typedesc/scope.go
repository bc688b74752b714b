package typedesc

import "fmt"

// Checker is the conformance predicate for a user-defined composite type.
// It receives the runtime value and reports whether it belongs to the type.
type Checker func(v any) bool

// Scope resolves type names appearing in annotations and carries the
// conformance predicates for user composites.
//
// A Scope is the unit of sharing between a registry and its candidates:
// annotations are resolved against it once at registration, and the same
// scope answers Matches at every call.
type Scope struct {
	types    map[string]Type
	checkers map[string]Checker
}

// Builtin scalar type names predeclared in every scope.
const (
	IntTypeName    = "Int"
	FloatTypeName  = "Float"
	BoolTypeName   = "Bool"
	StringTypeName = "String"
	CharTypeName   = "Char"
	BytesTypeName  = "Bytes"
	NilTypeName    = "Nil"
	ListTypeName   = "List"
	MapTypeName    = "Map"
)

// NewScope creates a scope with the builtin types predeclared.
func NewScope() *Scope {
	s := &Scope{
		types:    make(map[string]Type),
		checkers: make(map[string]Checker),
	}
	for _, name := range []string{
		IntTypeName, FloatTypeName, BoolTypeName, StringTypeName,
		CharTypeName, BytesTypeName, NilTypeName, ListTypeName, MapTypeName,
	} {
		s.types[name] = TCon{Name: name}
	}
	s.types["Any"] = Any
	return s
}

// Define binds name to a descriptor, typically a union or record alias.
// Later definitions shadow earlier ones.
func (s *Scope) Define(name string, t Type) {
	s.types[name] = t
}

// DefineChecker registers a conformance predicate for a user composite type.
// The name becomes resolvable in annotations.
func (s *Scope) DefineChecker(name string, c Checker) {
	s.checkers[name] = c
	if _, ok := s.types[name]; !ok {
		s.types[name] = TCon{Name: name}
	}
}

// Lookup resolves a single type name.
func (s *Scope) Lookup(name string) (Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

func (s *Scope) checker(name string) (Checker, bool) {
	c, ok := s.checkers[name]
	return c, ok
}

// ResolveType validates that every name mentioned in t is known to the scope,
// expanding aliases introduced via Define. Unknown names fail loudly so that a
// bad forward reference is caught at registration, not at first call.
func (s *Scope) ResolveType(t Type) (Type, error) {
	switch typ := t.(type) {
	case nil:
		return Any, nil
	case TAny:
		return Any, nil
	case TCon:
		resolved, ok := s.types[typ.Name]
		if !ok {
			return nil, fmt.Errorf("unknown type name: %s", typ.Name)
		}
		return resolved, nil
	case TApp:
		ctor, err := s.ResolveType(typ.Constructor)
		if err != nil {
			return nil, err
		}
		args := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			if args[i], err = s.ResolveType(arg); err != nil {
				return nil, err
			}
		}
		return TApp{Constructor: ctor, Args: args}, nil
	case TUnion:
		alts := make([]Type, len(typ.Types))
		for i, alt := range typ.Types {
			resolved, err := s.ResolveType(alt)
			if err != nil {
				return nil, err
			}
			alts[i] = resolved
		}
		return NormalizeUnion(alts), nil
	case TTuple:
		elems := make([]Type, len(typ.Elements))
		for i, el := range typ.Elements {
			resolved, err := s.ResolveType(el)
			if err != nil {
				return nil, err
			}
			elems[i] = resolved
		}
		return TTuple{Elements: elems}, nil
	case TRecord:
		fields := make(map[string]Type, len(typ.Fields))
		for k, v := range typ.Fields {
			resolved, err := s.ResolveType(v)
			if err != nil {
				return nil, err
			}
			fields[k] = resolved
		}
		return TRecord{Fields: fields}, nil
	default:
		return nil, fmt.Errorf("unsupported type descriptor: %s", t.String())
	}
}
