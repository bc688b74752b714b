package overload

import (
	"fmt"
	"strings"

	"github.com/funvibe/overload/typedesc"
)

// BoundParam is a formal parameter with its annotation resolved to a
// descriptor. Unannotated parameters carry typedesc.Any.
type BoundParam struct {
	Name       string
	Kind       ParamKind
	Type       typedesc.Type
	Default    Value
	HasDefault bool
}

// Signature is the declarative description of a candidate: its name, resolved
// return type and ordered parameter list. It is created once at registration,
// never mutated, and owned by the registry entry that produced it.
type Signature struct {
	Name   string
	Return typedesc.Type
	Params []BoundParam
}

func (s *Signature) String() string {
	parts := make([]string, 0, len(s.Params)+1)
	sawKeywordOnly := false
	for _, p := range s.Params {
		if p.Kind == KeywordOnly && !sawKeywordOnly {
			sawKeywordOnly = true
			parts = append(parts, "*")
		}
		part := p.Name
		if !typedesc.IsAny(p.Type) {
			part += ": " + p.Type.String()
		}
		if p.HasDefault {
			part += fmt.Sprintf(" = %#v", p.Default)
		}
		parts = append(parts, part)
	}
	name := s.Name
	if name == "" {
		name = "<anonymous>"
	}
	out := fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
	if !typedesc.IsAny(s.Return) {
		out += " -> " + s.Return.String()
	}
	return out
}

// Extract resolves a candidate's declared contract into a Signature.
//
// Each annotation is parsed and resolved against the scope exactly once;
// missing annotations map to the unconstrained type rather than failing.
// An annotation naming an unknown type fails with *ExtractionError, and a
// structurally malformed declaration (duplicate names, keyword-only before a
// positional parameter, a required parameter after a defaulted one) fails
// with *InvalidOverloadError. Extract assumes the no-variadics precondition
// is enforced by the caller.
func Extract(fn *Func, scope *typedesc.Scope) (*Signature, error) {
	sig := &Signature{
		Name:   fn.Name,
		Params: make([]BoundParam, 0, len(fn.Params)),
	}

	seen := make(map[string]bool, len(fn.Params))
	sawKeywordOnly := false
	sawDefault := false
	for _, p := range fn.Params {
		if p.Name == "" {
			return nil, &InvalidOverloadError{Func: fn.Name, Reason: "parameter with empty name"}
		}
		if seen[p.Name] {
			return nil, &InvalidOverloadError{Func: fn.Name, Param: p.Name, Reason: "duplicate parameter name"}
		}
		seen[p.Name] = true

		switch p.Kind {
		case KeywordOnly:
			sawKeywordOnly = true
		case Positional, PositionalOrKeyword:
			if sawKeywordOnly {
				return nil, &InvalidOverloadError{Func: fn.Name, Param: p.Name,
					Reason: "positional parameter after keyword-only parameter"}
			}
			if sawDefault && !p.HasDefault {
				return nil, &InvalidOverloadError{Func: fn.Name, Param: p.Name,
					Reason: "required parameter after parameter with default"}
			}
			if p.HasDefault {
				sawDefault = true
			}
		default:
			return nil, &InvalidOverloadError{Func: fn.Name, Param: p.Name,
				Reason: fmt.Sprintf("unsupported parameter kind %s", p.Kind)}
		}

		t, err := resolveAnnotation(scope, p.Type)
		if err != nil {
			return nil, &ExtractionError{Func: fn.Name, Param: p.Name, Annotation: p.Type, Err: err}
		}
		sig.Params = append(sig.Params, BoundParam{
			Name:       p.Name,
			Kind:       p.Kind,
			Type:       t,
			Default:    p.Default,
			HasDefault: p.HasDefault,
		})
	}

	ret, err := resolveAnnotation(scope, fn.Return)
	if err != nil {
		return nil, &ExtractionError{Func: fn.Name, Annotation: fn.Return, Err: err}
	}
	sig.Return = ret

	return sig, nil
}

func resolveAnnotation(scope *typedesc.Scope, src string) (typedesc.Type, error) {
	if strings.TrimSpace(src) == "" {
		return typedesc.Any, nil
	}
	parsed, err := typedesc.Parse(src)
	if err != nil {
		return nil, err
	}
	return scope.ResolveType(parsed)
}
