package typedesc

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface for all declared-type descriptors.
//
// A descriptor is built once, at registration time, and reused on every call.
// Descriptors are immutable; Matches never mutates them.
type Type interface {
	String() string
}

// TAny is the unconstrained sentinel. It matches every value and can never be
// the reason a candidate is eliminated.
type TAny struct{}

func (TAny) String() string { return "Any" }

// Any is the canonical unconstrained descriptor.
var Any Type = TAny{}

// IsAny reports whether t places no constraint on a value.
func IsAny(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(TAny)
	return ok
}

// TCon represents a named nominal type (e.g. Int, Bool, or a user composite).
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }

// TApp represents a parametric type application (e.g. List<Int>, Map<String, Int>).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

// TUnion represents a union of alternatives (e.g. Int | String | Nil).
// Unions are normalized: flattened, deduplicated, and sorted for comparison.
type TUnion struct {
	Types []Type // At least 2 types
}

func (t TUnion) String() string {
	parts := make([]string, len(t.Types))
	for i, typ := range t.Types {
		parts[i] = typ.String()
	}
	return strings.Join(parts, " | ")
}

// TTuple represents a fixed-arity heterogeneous sequence (e.g. (Int, String)).
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		parts[i] = el.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// TRecord represents a structural record (e.g. { name: String, age: Int }).
// Matching is width-subtyped: extra fields on the value are allowed.
type TRecord struct {
	Fields map[string]Type
}

func (t TRecord) String() string {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, len(keys))
	for i, k := range keys {
		fields[i] = fmt.Sprintf("%s: %s", k, t.Fields[k].String())
	}
	return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
}

// NormalizeUnion creates a normalized union type.
// It flattens nested unions, removes duplicates, and sorts alternatives.
// A union that collapses to a single alternative is returned directly,
// and a union containing Any collapses to Any.
func NormalizeUnion(types []Type) Type {
	flat := []Type{}
	for _, t := range types {
		if u, ok := t.(TUnion); ok {
			flat = append(flat, u.Types...)
		} else {
			flat = append(flat, t)
		}
	}

	seen := make(map[string]bool)
	unique := []Type{}
	for _, t := range flat {
		if IsAny(t) {
			return Any
		}
		s := t.String()
		if !seen[s] {
			seen[s] = true
			unique = append(unique, t)
		}
	}

	if len(unique) == 1 {
		return unique[0]
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	return TUnion{Types: unique}
}
