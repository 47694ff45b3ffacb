package ast

import (
	"fmt"
	"strings"
	"unicode"

	"javamaybe/internal/source"
)

// TypeRef is a syntactic type: a primitive, a (possibly qualified) class name with
// optional type arguments, a wildcard, or any of those with array dimensions.
type TypeRef struct {
	Span    source.Span
	Name    string     // "int", "String", "java.util.List", "?"
	Args    []*TypeRef // type arguments of the last name segment
	Diamond bool       // `<>`
	Dims    int
	Bound   string   // "extends" | "super" for wildcards
	Of      *TypeRef // wildcard bound
}

func (t *TypeRef) Pos() source.Span { return t.Span }

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

// IsPrimitiveName reports whether name is a Java primitive keyword (void included).
func IsPrimitiveName(name string) bool { return primitiveNames[name] }

// IsPrimitive reports whether t is a non-array primitive type.
func (t *TypeRef) IsPrimitive() bool {
	return t != nil && t.Dims == 0 && len(t.Args) == 0 && primitiveNames[t.Name]
}

// Simple returns the last segment of the type name.
func (t *TypeRef) Simple() string {
	if t == nil {
		return ""
	}
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// String renders the type in Java syntax.
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder) {
	b.WriteString(t.Name)
	if t.Name == "?" && t.Of != nil {
		b.WriteByte(' ')
		b.WriteString(t.Bound)
		b.WriteByte(' ')
		t.Of.write(b)
	}
	switch {
	case t.Diamond:
		b.WriteString("<>")
	case len(t.Args) > 0:
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteByte('>')
	}
	for range t.Dims {
		b.WriteString("[]")
	}
}

// Mentions reports whether match holds for t or for any type nested in it.
func (t *TypeRef) Mentions(match func(*TypeRef) bool) bool {
	if t == nil {
		return false
	}
	if match(t) {
		return true
	}
	for _, a := range t.Args {
		if a.Mentions(match) {
			return true
		}
	}
	return t.Of.Mentions(match)
}

// ParseTypeRef parses a Java type spelling such as `java.util.Map<String, int[]>[]`.
func ParseTypeRef(s string) (*TypeRef, error) {
	p := &typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("ast: unexpected %q in type %q", p.src[p.pos:], s)
	}
	return t, nil
}

// MustParseTypeRef is ParseTypeRef for spellings known to be valid.
func MustParseTypeRef(s string) *TypeRef {
	t, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) || r >= 0x80 {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parse() (*TypeRef, error) {
	if p.peek() == '?' {
		p.pos++
		t := &TypeRef{Name: "?"}
		save := p.pos
		switch kw := p.ident(); kw {
		case "extends", "super":
			of, err := p.parse()
			if err != nil {
				return nil, err
			}
			t.Bound, t.Of = kw, of
		default:
			p.pos = save
		}
		return t, nil
	}

	var name strings.Builder
	t := &TypeRef{}
	for {
		seg := p.ident()
		if seg == "" {
			return nil, fmt.Errorf("ast: expected type name at offset %d in %q", p.pos, p.src)
		}
		name.WriteString(seg)
		if p.peek() == '<' {
			p.pos++
			if p.peek() == '>' {
				p.pos++
				t.Diamond = true
			} else {
				args, err := p.args()
				if err != nil {
					return nil, err
				}
				t.Args = args
			}
		}
		if p.peek() != '.' {
			break
		}
		p.pos++
		if len(t.Args) > 0 || t.Diamond {
			// аргументы не последнего сегмента сохраняем как часть имени
			name.WriteString((&TypeRef{Args: t.Args, Diamond: t.Diamond}).String())
			t.Args, t.Diamond = nil, false
		}
		name.WriteByte('.')
	}
	t.Name = name.String()
	for p.peek() == '[' {
		p.pos++
		if p.peek() != ']' {
			return nil, fmt.Errorf("ast: expected ']' in %q", p.src)
		}
		p.pos++
		t.Dims++
	}
	return t, nil
}

func (p *typeParser) args() ([]*TypeRef, error) {
	var out []*TypeRef
	for {
		a, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("ast: unterminated type arguments in %q", p.src)
		}
	}
}
