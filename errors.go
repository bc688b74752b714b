package overload

import (
	"fmt"
	"sort"
	"strings"
)

// InvalidOverloadError indicates a malformed candidate declaration: a variadic
// parameter, a duplicate parameter name, or an illegal parameter ordering.
// It is raised at registration; the candidate is never added to the set.
type InvalidOverloadError struct {
	Func   string
	Param  string
	Reason string
}

func (e *InvalidOverloadError) Error() string {
	name := e.Func
	if name == "" {
		name = "<anonymous>"
	}
	if e.Param == "" {
		return fmt.Sprintf("invalid overload %s: %s", name, e.Reason)
	}
	return fmt.Sprintf("invalid overload %s: parameter %s: %s", name, e.Param, e.Reason)
}

// ExtractionError indicates that a declared annotation could not be resolved
// at registration time, e.g. a forward reference to a type name that does not
// exist in the scope.
type ExtractionError struct {
	Func       string
	Param      string // empty for the return annotation
	Annotation string
	Err        error
}

func (e *ExtractionError) Error() string {
	name := e.Func
	if name == "" {
		name = "<anonymous>"
	}
	where := "return annotation"
	if e.Param != "" {
		where = "parameter " + e.Param
	}
	return fmt.Sprintf("cannot extract signature of %s: %s %q: %v", name, where, e.Annotation, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NoMatchError indicates that no registered candidate both bound and
// type-checked against the call.
type NoMatchError struct {
	Name       string
	Args       []Value
	Kwargs     map[string]Value
	Candidates int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matching overload for %s(%s) among %d candidate(s)",
		e.Name, formatCall(e.Args, e.Kwargs), e.Candidates)
}

// AmbiguousMatchError indicates that two or more candidates both bound and
// type-checked against the call. Matched lists the surviving candidates'
// signatures in registration order.
type AmbiguousMatchError struct {
	Name    string
	Args    []Value
	Kwargs  map[string]Value
	Matched []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous call %s(%s): %d candidates match: %s",
		e.Name, formatCall(e.Args, e.Kwargs), len(e.Matched), strings.Join(e.Matched, "; "))
}

// formatCall renders a call site deterministically (keywords sorted by name).
func formatCall(args []Value, kwargs map[string]Value) string {
	parts := make([]string, 0, len(args)+len(kwargs))
	for _, a := range args {
		parts = append(parts, fmt.Sprintf("%#v", a))
	}
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%#v", k, kwargs[k]))
	}
	return strings.Join(parts, ", ")
}
