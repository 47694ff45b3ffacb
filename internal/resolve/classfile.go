package resolve

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Access flags used when reading class files.
const (
	accPrivate   = 0x0002
	accStatic    = 0x0008
	accBridge    = 0x0040
	accVarargs   = 0x0080
	accInterface = 0x0200
	accSynthetic = 0x1000
)

const classMagic = 0xCAFEBABE

var errNotClass = errors.New("not a class file")

type classReader struct {
	data []byte
	pos  int
	err  error
}

func (r *classReader) u1() uint8 {
	if r.err != nil || r.pos+1 > len(r.data) {
		r.fail()
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *classReader) u2() uint16 {
	if r.err != nil || r.pos+2 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *classReader) u4() uint32 {
	if r.err != nil || r.pos+4 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *classReader) bytes(n int) []byte {
	if r.err != nil || n < 0 || r.pos+n > len(r.data) {
		r.fail()
		return nil
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v
}

func (r *classReader) fail() {
	if r.err == nil {
		r.err = errors.New("truncated class file")
	}
}

type constPool struct {
	utf8  map[uint16]string
	class map[uint16]uint16 // Class entry -> name index
}

func (cp *constPool) className(idx uint16) string {
	return cp.utf8[cp.class[idx]]
}

// readClass extracts the member index of one class file. Private, synthetic
// and bridge members are left out; generic signatures are read erased.
func readClass(data []byte) (*TypeInfo, error) {
	r := &classReader{data: data}
	if r.u4() != classMagic {
		return nil, errNotClass
	}
	r.u2() // minor
	r.u2() // major

	count := r.u2()
	cp := &constPool{utf8: make(map[uint16]string), class: make(map[uint16]uint16)}
	for i := uint16(1); i < count && r.err == nil; i++ {
		switch tag := r.u1(); tag {
		case 1: // Utf8 (modified UTF-8; class names are ASCII in practice)
			n := r.u2()
			cp.utf8[i] = string(r.bytes(int(n)))
		case 7: // Class
			cp.class[i] = r.u2()
		case 8, 16, 19, 20: // String, MethodType, Module, Package
			r.u2()
		case 15: // MethodHandle
			r.u1()
			r.u2()
		case 3, 4, 9, 10, 11, 12, 17, 18: // Integer, Float, refs, NameAndType, (Invoke)Dynamic
			r.u4()
		case 5, 6: // Long, Double take two slots
			r.bytes(8)
			i++
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d", tag)
		}
	}

	access := r.u2()
	this := r.u2()
	super := r.u2()
	if r.err != nil {
		return nil, r.err
	}
	ti := &TypeInfo{
		Name:      internalToSource(cp.className(this)),
		Interface: access&accInterface != 0,
	}
	if super != 0 {
		ti.Super = append(ti.Super, internalToSource(cp.className(super)))
	}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		ti.Super = append(ti.Super, internalToSource(cp.className(r.u2())))
	}

	for n := r.u2(); n > 0 && r.err == nil; n-- {
		flags, name, desc := r.u2(), cp.utf8[r.u2()], cp.utf8[r.u2()]
		skipAttributes(r)
		if flags&(accPrivate|accSynthetic) != 0 {
			continue
		}
		typ, rest, err := parseFieldDescriptor(desc)
		if err != nil || rest != "" {
			continue
		}
		ti.addField(name, FieldInfo{Type: typ, Static: flags&accStatic != 0})
	}

	for n := r.u2(); n > 0 && r.err == nil; n-- {
		flags, name, desc := r.u2(), cp.utf8[r.u2()], cp.utf8[r.u2()]
		skipAttributes(r)
		if flags&(accPrivate|accSynthetic|accBridge) != 0 || strings.HasPrefix(name, "<") {
			continue
		}
		mi, err := parseMethodDescriptor(desc)
		if err != nil {
			continue
		}
		mi.Static = flags&accStatic != 0
		mi.Varargs = flags&accVarargs != 0
		ti.addMethod(name, mi)
	}
	if r.err != nil {
		return nil, r.err
	}
	return ti, nil
}

func skipAttributes(r *classReader) {
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		r.u2()
		r.bytes(int(r.u4()))
	}
}

// internalToSource turns a/b/C$D into a.b.C.D.
func internalToSource(name string) string {
	return strings.NewReplacer("/", ".", "$", ".").Replace(name)
}

func parseFieldDescriptor(d string) (string, string, error) {
	dims := 0
	for strings.HasPrefix(d, "[") {
		dims++
		d = d[1:]
	}
	if d == "" {
		return "", "", errors.New("empty descriptor")
	}
	var base string
	switch d[0] {
	case 'B':
		base = "byte"
	case 'C':
		base = "char"
	case 'D':
		base = "double"
	case 'F':
		base = "float"
	case 'I':
		base = "int"
	case 'J':
		base = "long"
	case 'S':
		base = "short"
	case 'Z':
		base = "boolean"
	case 'V':
		base = "void"
	case 'L':
		end := strings.IndexByte(d, ';')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated class descriptor %q", d)
		}
		return internalToSource(d[1:end]) + strings.Repeat("[]", dims), d[end+1:], nil
	default:
		return "", "", fmt.Errorf("bad descriptor %q", d)
	}
	return base + strings.Repeat("[]", dims), d[1:], nil
}

func parseMethodDescriptor(d string) (MethodInfo, error) {
	var mi MethodInfo
	rest, ok := strings.CutPrefix(d, "(")
	if !ok {
		return mi, fmt.Errorf("bad method descriptor %q", d)
	}
	for !strings.HasPrefix(rest, ")") {
		typ, next, err := parseFieldDescriptor(rest)
		if err != nil {
			return mi, err
		}
		mi.Params = append(mi.Params, typ)
		rest = next
	}
	result, tail, err := parseFieldDescriptor(rest[1:])
	if err != nil || tail != "" {
		return mi, fmt.Errorf("bad method result in %q", d)
	}
	mi.Result = result
	return mi, nil
}
