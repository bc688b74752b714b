package overload

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func constImpl(result Value, counter *int) Impl {
	return func(args []Value, kwargs map[string]Value) (Value, error) {
		if counter != nil {
			*counter++
		}
		return result, nil
	}
}

func TestRegisterRejectsVariadics(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		kind ParamKind
	}{
		{"variadic positional", VariadicPositional},
		{"variadic keyword", VariadicKeyword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Register("f", &Func{
				Name:   "f",
				Params: []Param{{Name: "args", Kind: tt.kind}},
				Fn:     noop,
			})
			var invalidErr *InvalidOverloadError
			if !errors.As(err, &invalidErr) {
				t.Fatalf("want *InvalidOverloadError, got %v", err)
			}
			// The candidate was never added: calling still reports zero candidates.
			_, err = r.Call("f", []Value{1}, nil)
			var noMatch *NoMatchError
			if !errors.As(err, &noMatch) {
				t.Fatalf("want *NoMatchError, got %v", err)
			}
			if noMatch.Candidates != 0 {
				t.Errorf("rejected candidate leaked into the set: %d candidates", noMatch.Candidates)
			}
		})
	}
}

func TestDispatchDisjointOverloads(t *testing.T) {
	r := NewRegistry()
	var first, second int

	d, err := r.Register("f", &Func{
		Name: "f",
		Params: []Param{
			{Name: "a", Kind: PositionalOrKeyword, Type: "Int"},
			{Name: "b", Kind: PositionalOrKeyword, Type: "String"},
		},
		Fn: constImpl("first", &first),
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := d.Overload(&Func{
		Name: "f",
		Params: []Param{
			{Name: "a", Kind: PositionalOrKeyword, Type: "String"},
			{Name: "b", Kind: PositionalOrKeyword, Type: "Int"},
		},
		Fn: constImpl("second", &second),
	}); err != nil {
		t.Fatalf("Overload error: %v", err)
	}

	got, err := d.Invoke(1, "2")
	if err != nil || got != "first" {
		t.Errorf("f(1, \"2\") = %v, %v; want first", got, err)
	}
	got, err = d.Invoke("1", 2)
	if err != nil || got != "second" {
		t.Errorf("f(\"1\", 2) = %v, %v; want second", got, err)
	}
	if first != 1 || second != 1 {
		t.Errorf("invocation counters = %d, %d; want 1, 1", first, second)
	}

	var noMatch *NoMatchError
	if _, err := d.Invoke(1, 2); !errors.As(err, &noMatch) {
		t.Errorf("f(1, 2) should be NoMatchError, got %v", err)
	}
	if _, err := d.Invoke("1", "2"); !errors.As(err, &noMatch) {
		t.Errorf("f(\"1\", \"2\") should be NoMatchError, got %v", err)
	}
	if noMatch.Candidates != 2 {
		t.Errorf("NoMatchError.Candidates = %d, want 2", noMatch.Candidates)
	}
	if first != 1 || second != 1 {
		t.Errorf("failed resolutions must not invoke candidates: %d, %d", first, second)
	}
}

func TestDispatchAmbiguity(t *testing.T) {
	r := NewRegistry()

	d := r.MustRegister("g", &Func{
		Name:   "g",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "Int"}},
		Fn:     constImpl("int", nil),
	}).MustOverload(&Func{
		Name:   "g",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword}},
		Fn:     constImpl("any", nil),
	})

	_, err := d.Invoke(1)
	var ambiguous *AmbiguousMatchError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("g(1) should be ambiguous, got %v", err)
	}
	if len(ambiguous.Matched) != 2 {
		t.Errorf("Matched = %v, want 2 entries", ambiguous.Matched)
	}

	// The unconstrained candidate alone still matches a string.
	got, err := d.Invoke("s")
	if err != nil || got != "any" {
		t.Errorf("g(\"s\") = %v, %v; want any", got, err)
	}
}

func TestDispatchIdenticalCandidates(t *testing.T) {
	r := NewRegistry()
	sig := []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "Int"}}

	d := r.MustRegister("g", &Func{Name: "g", Params: sig, Fn: constImpl(1, nil)}).
		MustOverload(&Func{Name: "g", Params: sig, Fn: constImpl(2, nil)})

	var ambiguous *AmbiguousMatchError
	if _, err := d.Invoke(1); !errors.As(err, &ambiguous) {
		t.Fatalf("identical candidates should be ambiguous, got %v", err)
	}
}

func TestDispatchDefaults(t *testing.T) {
	r := NewRegistry()
	var calls int

	d := r.MustRegister("h", &Func{
		Name:   "h",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "Int", Default: 0, HasDefault: true}},
		Fn:     constImpl("ok", &calls),
	})

	// Omitted: default binds and passes the Int check.
	got, err := d.Invoke()
	if err != nil || got != "ok" {
		t.Errorf("h() = %v, %v; want ok", got, err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// Explicitly supplied value is still type-checked.
	var noMatch *NoMatchError
	if _, err := d.Invoke("s"); !errors.As(err, &noMatch) {
		t.Errorf("h(\"s\") should be NoMatchError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("failed call must not invoke the candidate")
	}

	// A bad default eliminates the candidate when the default is applied.
	bad := r.MustRegister("bad", &Func{
		Name:   "bad",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "Int", Default: "zero", HasDefault: true}},
		Fn:     noop,
	})
	if _, err := bad.Invoke(); !errors.As(err, &noMatch) {
		t.Errorf("default value is type-checked too, got %v", err)
	}
}

func TestDispatchKeywordArguments(t *testing.T) {
	r := NewRegistry()

	d := r.MustRegister("area", &Func{
		Name: "area",
		Params: []Param{
			{Name: "w", Kind: PositionalOrKeyword, Type: "Int"},
			{Name: "h", Kind: KeywordOnly, Type: "Int"},
		},
		Fn: func(args []Value, kwargs map[string]Value) (Value, error) {
			return args[0].(int) * kwargs["h"].(int), nil
		},
	})

	got, err := d.Call([]Value{3}, map[string]Value{"h": 4})
	if err != nil || got != 12 {
		t.Errorf("area(3, h=4) = %v, %v; want 12", got, err)
	}

	// Keyword-only and positional-or-keyword parameters type-check identically.
	var noMatch *NoMatchError
	if _, err := d.Call([]Value{3}, map[string]Value{"h": "4"}); !errors.As(err, &noMatch) {
		t.Errorf("bad keyword value should be NoMatchError, got %v", err)
	}
	if _, err := d.Call([]Value{3, 4}, nil); !errors.As(err, &noMatch) {
		t.Errorf("keyword-only supplied positionally should not bind, got %v", err)
	}
}

func TestDispatchIdempotent(t *testing.T) {
	r := NewRegistry()
	d := r.MustRegister("f", &Func{
		Name:   "f",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "Int"}},
		Fn:     constImpl("ok", nil),
	})

	for i := 0; i < 2; i++ {
		if got, err := d.Invoke(1); err != nil || got != "ok" {
			t.Errorf("call %d: got %v, %v", i, got, err)
		}
		var noMatch *NoMatchError
		if _, err := d.Invoke("x"); !errors.As(err, &noMatch) {
			t.Errorf("call %d: want NoMatchError, got %v", i, err)
		}
	}
}

func TestDispatchPropagatesCandidateError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")

	d := r.MustRegister("f", &Func{
		Name:   "f",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "Int"}},
		Fn: func(args []Value, kwargs map[string]Value) (Value, error) {
			return nil, boom
		},
	})

	_, err := d.Invoke(1)
	if err != boom {
		t.Errorf("candidate error must propagate unwrapped, got %v", err)
	}
}

func TestDispatchStructuralTypes(t *testing.T) {
	r := NewRegistry()

	d := r.MustRegister("sum", &Func{
		Name:   "sum",
		Params: []Param{{Name: "xs", Kind: PositionalOrKeyword, Type: "List<Int>"}},
		Fn:     constImpl("ints", nil),
	}).MustOverload(&Func{
		Name:   "sum",
		Params: []Param{{Name: "xs", Kind: PositionalOrKeyword, Type: "List<String>"}},
		Fn:     constImpl("strings", nil),
	})

	got, err := d.Invoke([]any{1, 2, 3})
	if err != nil || got != "ints" {
		t.Errorf("sum([1 2 3]) = %v, %v; want ints", got, err)
	}
	got, err = d.Invoke([]any{"a", "b"})
	if err != nil || got != "strings" {
		t.Errorf("sum([a b]) = %v, %v; want strings", got, err)
	}

	// The empty list conforms to both element constraints: a hard ambiguity,
	// never broken by declaration order.
	var ambiguous *AmbiguousMatchError
	if _, err := d.Invoke([]any{}); !errors.As(err, &ambiguous) {
		t.Errorf("sum([]) should be ambiguous, got %v", err)
	}
}

func TestRegistryCallUnknownName(t *testing.T) {
	r := NewRegistry()
	var noMatch *NoMatchError
	if _, err := r.Call("nope", nil, nil); !errors.As(err, &noMatch) {
		t.Fatalf("want *NoMatchError, got %v", err)
	}
	if noMatch.Candidates != 0 {
		t.Errorf("Candidates = %d, want 0", noMatch.Candidates)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("f"); ok {
		t.Errorf("Lookup should miss before registration")
	}
	r.MustRegister("f", &Func{Name: "f", Fn: noop})
	d, ok := r.Lookup("f")
	if !ok || d.Name() != "f" {
		t.Errorf("Lookup after registration = %v, %v", d, ok)
	}
}

func TestRegisterIsSymmetric(t *testing.T) {
	// Registering twice under the same name is the same as Register+Overload:
	// all candidates are peers.
	r := NewRegistry()
	r.MustRegister("f", &Func{
		Name:   "f",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "Int"}},
		Fn:     constImpl("int", nil),
	})
	r.MustRegister("f", &Func{
		Name:   "f",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "String"}},
		Fn:     constImpl("string", nil),
	})

	got, err := r.Call("f", []Value{"s"}, nil)
	if err != nil || got != "string" {
		t.Errorf("second registration must dispatch as a peer: %v, %v", got, err)
	}
}

func TestDispatchTrace(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(WithTrace(&buf))

	d := r.MustRegister("f", &Func{
		Name:   "f",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "Int"}},
		Fn:     constImpl("ok", nil),
	}).MustOverload(&Func{
		Name:   "f",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "String"}},
		Fn:     constImpl("nope", nil),
	})

	if _, err := d.Invoke(1); err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"dispatch f(1)", "survives", "type mismatch on x", "=> dispatch to"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("trace to a buffer must not be colorized:\n%s", out)
	}
}

func TestConcurrentRegisterAndCall(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("f", &Func{
		Name:   "f",
		Params: []Param{{Name: "x", Kind: PositionalOrKeyword, Type: "Int"}},
		Fn:     constImpl("ok", nil),
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.MustRegister(fmt.Sprintf("g%d", i), &Func{Name: "g", Fn: noop})
		}(i)
		go func() {
			defer wg.Done()
			if got, err := r.Call("f", []Value{1}, nil); err != nil || got != "ok" {
				t.Errorf("concurrent call: %v, %v", got, err)
			}
		}()
	}
	wg.Wait()
}
