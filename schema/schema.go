// Package schema implements declarative registration of overload sets.
//
// Instead of building contracts in Go code, a YAML document declares the
// dispatch names, their overloads, and each overload's parameter types and
// defaults; the callable bodies are supplied separately, keyed by
// implementation name. Loading a schema registers everything in one pass and
// fails loudly on the first malformed declaration, so a bad document never
// leaves the registry half-populated with a usable-looking set.
//
// Example:
//
//	dispatch:
//	  - name: describe
//	    overloads:
//	      - func: describeInt
//	        params:
//	          - {name: x, type: Int}
//	      - func: describeStr
//	        params:
//	          - {name: x, type: String}
package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/overload"
)

// Config is the top-level schema document.
type Config struct {
	// Dispatch lists the overload sets to register.
	Dispatch []Set `yaml:"dispatch"`
}

// Set declares one dispatch name and its candidates.
type Set struct {
	// Name is the logical dispatch name.
	Name string `yaml:"name"`

	// Overloads lists the candidates. At least one is required; all are
	// peers; order carries no resolution precedence.
	Overloads []Decl `yaml:"overloads"`
}

// Decl declares one candidate's contract.
type Decl struct {
	// Func names the implementation to bind, looked up in the map passed to
	// Apply.
	Func string `yaml:"func"`

	// Params declares the formal parameters, in order.
	Params []ParamDecl `yaml:"params,omitempty"`

	// Return is the declared return annotation. Optional.
	Return string `yaml:"return,omitempty"`
}

// ParamDecl declares one formal parameter.
type ParamDecl struct {
	// Name is the parameter name, unique within the declaration.
	Name string `yaml:"name"`

	// Kind is one of "positional", "positional-or-keyword" (the default) or
	// "keyword-only". Variadic kinds are not accepted: overloaded candidates
	// must have a fixed shape.
	Kind string `yaml:"kind,omitempty"`

	// Type is the annotation expression (e.g. "Int", "List<Int>",
	// "Int | String"). Empty means unconstrained.
	Type string `yaml:"type,omitempty"`

	// Default is the value used when the caller omits the parameter. Its
	// presence in the document is what makes the parameter optional, so an
	// explicit null default is distinct from no default.
	Default yaml.Node `yaml:"default,omitempty"`
}

// Parse decodes a schema document and validates its shape.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks structural constraints that do not need a registry:
// names are present and unique, every set has at least one overload, and
// parameter kinds are spelled correctly. Type annotations are resolved later,
// by Apply, against the registry's scope.
func (c *Config) Validate() error {
	if len(c.Dispatch) == 0 {
		return fmt.Errorf("schema declares no dispatch sets")
	}
	seen := make(map[string]bool, len(c.Dispatch))
	for i, set := range c.Dispatch {
		if set.Name == "" {
			return fmt.Errorf("dispatch[%d]: missing name", i)
		}
		if seen[set.Name] {
			return fmt.Errorf("dispatch[%d]: duplicate name %q", i, set.Name)
		}
		seen[set.Name] = true
		if len(set.Overloads) == 0 {
			return fmt.Errorf("dispatch %q: no overloads", set.Name)
		}
		for j, decl := range set.Overloads {
			if decl.Func == "" {
				return fmt.Errorf("dispatch %q: overload %d: missing func", set.Name, j)
			}
			for _, p := range decl.Params {
				if p.Name == "" {
					return fmt.Errorf("dispatch %q: overload %q: parameter with empty name", set.Name, decl.Func)
				}
				if _, err := paramKind(p.Kind); err != nil {
					return fmt.Errorf("dispatch %q: overload %q: parameter %q: %w", set.Name, decl.Func, p.Name, err)
				}
			}
		}
	}
	return nil
}

// Apply registers every declared set in r, binding bodies from impls by
// implementation name. Any registration failure (unknown implementation,
// unresolvable annotation, malformed contract) aborts immediately.
func (c *Config) Apply(r *overload.Registry, impls map[string]overload.Impl) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, set := range c.Dispatch {
		for _, decl := range set.Overloads {
			impl, ok := impls[decl.Func]
			if !ok {
				return fmt.Errorf("dispatch %q: no implementation named %q", set.Name, decl.Func)
			}
			fn, err := decl.build(impl)
			if err != nil {
				return fmt.Errorf("dispatch %q: overload %q: %w", set.Name, decl.Func, err)
			}
			if _, err := r.Register(set.Name, fn); err != nil {
				return fmt.Errorf("dispatch %q: overload %q: %w", set.Name, decl.Func, err)
			}
		}
	}
	return nil
}

func (d *Decl) build(impl overload.Impl) (*overload.Func, error) {
	params := make([]overload.Param, len(d.Params))
	for i, p := range d.Params {
		kind, err := paramKind(p.Kind)
		if err != nil {
			return nil, err
		}
		params[i] = overload.Param{Name: p.Name, Kind: kind, Type: p.Type}
		if !p.Default.IsZero() {
			var v any
			if err := p.Default.Decode(&v); err != nil {
				return nil, fmt.Errorf("parameter %q: decoding default: %w", p.Name, err)
			}
			params[i].Default = v
			params[i].HasDefault = true
		}
	}
	return &overload.Func{
		Name:   d.Func,
		Params: params,
		Return: d.Return,
		Fn:     impl,
	}, nil
}

func paramKind(s string) (overload.ParamKind, error) {
	switch s {
	case "", "positional-or-keyword":
		return overload.PositionalOrKeyword, nil
	case "positional":
		return overload.Positional, nil
	case "keyword-only":
		return overload.KeywordOnly, nil
	default:
		return 0, fmt.Errorf("unknown parameter kind %q", s)
	}
}
