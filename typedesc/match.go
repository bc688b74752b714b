package typedesc

import "reflect"

// Matches reports whether runtime value v conforms to descriptor t.
//
// Built-in rules cover the scalar types, List/Map element constraints, tuples,
// records (width-subtyped) and unions. A TCon with a registered Checker defers
// to it; otherwise an unrecognized name matches values whose dynamic type has
// the same name, which is the default rule for user composites.
func (s *Scope) Matches(v any, t Type) bool {
	switch typ := t.(type) {
	case nil:
		return true
	case TAny:
		return true
	case TCon:
		return s.matchesCon(v, typ)
	case TApp:
		return s.matchesApp(v, typ)
	case TUnion:
		for _, alt := range typ.Types {
			if s.Matches(v, alt) {
				return true
			}
		}
		return false
	case TTuple:
		elems, ok := v.([]any)
		if !ok || len(elems) != len(typ.Elements) {
			return false
		}
		for i, el := range typ.Elements {
			if !s.Matches(elems[i], el) {
				return false
			}
		}
		return true
	case TRecord:
		fields, ok := v.(map[string]any)
		if !ok {
			return false
		}
		for name, ft := range typ.Fields {
			fv, present := fields[name]
			if !present || !s.Matches(fv, ft) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (s *Scope) matchesCon(v any, t TCon) bool {
	if c, ok := s.checker(t.Name); ok {
		return c(v)
	}

	switch t.Name {
	case IntTypeName:
		switch v.(type) {
		case int, int64:
			return true
		}
		return false
	case FloatTypeName:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return false
	case BoolTypeName:
		_, ok := v.(bool)
		return ok
	case StringTypeName:
		_, ok := v.(string)
		return ok
	case CharTypeName:
		_, ok := v.(rune)
		return ok
	case BytesTypeName:
		_, ok := v.([]byte)
		return ok
	case NilTypeName:
		return v == nil
	case ListTypeName:
		return reflectKind(v) == reflect.Slice || reflectKind(v) == reflect.Array
	case MapTypeName:
		return reflectKind(v) == reflect.Map
	}

	// Nominal match for user composites without an explicit checker.
	rt := reflect.TypeOf(v)
	if rt == nil {
		return false
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.Name() == t.Name
}

func (s *Scope) matchesApp(v any, t TApp) bool {
	ctor, ok := t.Constructor.(TCon)
	if !ok {
		return false
	}
	if c, found := s.checker(ctor.Name); found {
		return c(v)
	}

	switch ctor.Name {
	case ListTypeName:
		if len(t.Args) != 1 {
			return false
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false
		}
		// Bytes are a scalar in the annotation language, not List<Int>.
		if _, isBytes := v.([]byte); isBytes {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if !s.Matches(rv.Index(i).Interface(), t.Args[0]) {
				return false
			}
		}
		return true
	case MapTypeName:
		if len(t.Args) != 2 {
			return false
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return false
		}
		iter := rv.MapRange()
		for iter.Next() {
			if !s.Matches(iter.Key().Interface(), t.Args[0]) {
				return false
			}
			if !s.Matches(iter.Value().Interface(), t.Args[1]) {
				return false
			}
		}
		return true
	}
	return false
}

func reflectKind(v any) reflect.Kind {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Invalid
	}
	return rv.Kind()
}
