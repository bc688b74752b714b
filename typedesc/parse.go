package typedesc

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse turns an annotation expression into an unresolved descriptor.
//
// Grammar:
//
//	union  := postfix ("|" postfix)*
//	postfix:= atom "?"*
//	atom   := name ("<" union ("," union)* ">")?
//	        | "(" union ("," union)* ")"
//	        | "{" (name ":" union ("," name ":" union)*)? "}"
//
// "Any" and "_" both denote the unconstrained type. The "?" suffix is sugar
// for a union with Nil. Names are left as TCon placeholders; call
// Scope.ResolveType to validate them against a scope.
func Parse(src string) (Type, error) {
	p := &parser{src: src}
	p.skipSpace()
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected %q at offset %d in %q", p.src[p.pos:], p.pos, src)
	}
	return t, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) parseUnion() (Type, error) {
	first, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	alts := []Type{first}
	for p.peek() == '|' {
		p.pos++
		p.skipSpace()
		next, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first, nil
	}
	// Not normalized here: names are still placeholders, so deduplication by
	// string would conflate distinct aliases. ResolveType normalizes.
	return TUnion{Types: alts}, nil
}

func (p *parser) parsePostfix() (Type, error) {
	t, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.peek() == '?' {
		p.pos++
		p.skipSpace()
		t = TUnion{Types: []Type{t, TCon{Name: NilTypeName}}}
	}
	return t, nil
}

func (p *parser) parseAtom() (Type, error) {
	switch p.peek() {
	case '(':
		return p.parseTuple()
	case '{':
		return p.parseRecord()
	}

	name := p.parseName()
	if name == "" {
		return nil, fmt.Errorf("expected type name at offset %d in %q", p.pos, p.src)
	}
	if name == "Any" || name == "_" {
		return Any, nil
	}
	if p.peek() != '<' {
		return TCon{Name: name}, nil
	}

	p.pos++
	p.skipSpace()
	args := []Type{}
	for {
		arg, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		break
	}
	if p.peek() != '>' {
		return nil, fmt.Errorf("expected '>' at offset %d in %q", p.pos, p.src)
	}
	p.pos++
	p.skipSpace()
	return TApp{Constructor: TCon{Name: name}, Args: args}, nil
}

func (p *parser) parseTuple() (Type, error) {
	p.pos++ // consume '('
	p.skipSpace()
	elems := []Type{}
	for {
		el, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		break
	}
	if p.peek() != ')' {
		return nil, fmt.Errorf("expected ')' at offset %d in %q", p.pos, p.src)
	}
	p.pos++
	p.skipSpace()
	// A parenthesized single type is grouping, not a 1-tuple.
	if len(elems) == 1 {
		return elems[0], nil
	}
	return TTuple{Elements: elems}, nil
}

func (p *parser) parseRecord() (Type, error) {
	p.pos++ // consume '{'
	p.skipSpace()
	fields := map[string]Type{}
	for p.peek() != '}' {
		name := p.parseName()
		if name == "" {
			return nil, fmt.Errorf("expected field name at offset %d in %q", p.pos, p.src)
		}
		if p.peek() != ':' {
			return nil, fmt.Errorf("expected ':' after field %q in %q", name, p.src)
		}
		p.pos++
		p.skipSpace()
		ft, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if _, dup := fields[name]; dup {
			return nil, fmt.Errorf("duplicate field %q in %q", name, p.src)
		}
		fields[name] = ft
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
		}
	}
	p.pos++ // consume '}'
	p.skipSpace()
	return TRecord{Fields: fields}, nil
}

func (p *parser) parseName() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			p.pos++
			continue
		}
		break
	}
	name := p.src[start:p.pos]
	p.skipSpace()
	return name
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && strings.ContainsRune(" \t\n", rune(p.src[p.pos])) {
		p.pos++
	}
}
