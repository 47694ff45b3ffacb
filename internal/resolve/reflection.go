package resolve

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed jdk.yaml
var jdkTable []byte

type jdkEntry struct {
	Name      string   `yaml:"name"`
	Interface bool     `yaml:"interface"`
	Params    []string `yaml:"params"`
	Super     []string `yaml:"super"`
	Fields    []string `yaml:"fields"`
	Methods   []string `yaml:"methods"`
}

// Reflection serves the built-in JDK table.
type Reflection struct {
	once  sync.Once
	types map[string]*TypeInfo
	err   error
}

var defaultReflection = &Reflection{}

// NewReflection returns the shared built-in JDK provider.
func NewReflection() *Reflection { return defaultReflection }

func (r *Reflection) Name() string { return "reflection" }

func (r *Reflection) Lookup(qualified string) (*TypeInfo, bool) {
	r.once.Do(r.load)
	ti, ok := r.types[qualified]
	return ti, ok
}

// Err reports a malformed built-in table; only tests are expected to see it.
func (r *Reflection) Err() error {
	r.once.Do(r.load)
	return r.err
}

func (r *Reflection) load() {
	types, err := decodeJDK(jdkTable)
	r.types, r.err = types, err
}

func decodeJDK(data []byte) (map[string]*TypeInfo, error) {
	var entries []jdkEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("resolve: jdk table: %w", err)
	}
	out := make(map[string]*TypeInfo, len(entries))
	for _, e := range entries {
		ti := &TypeInfo{Name: e.Name, Interface: e.Interface, TypeParams: e.Params, Super: e.Super}
		for _, f := range e.Fields {
			static, rest := cutStatic(f)
			i := strings.LastIndexByte(rest, ' ')
			if i < 0 {
				return nil, fmt.Errorf("resolve: jdk table: bad field %q in %s", f, e.Name)
			}
			ti.addField(rest[i+1:], FieldInfo{Type: strings.TrimSpace(rest[:i]), Static: static})
		}
		for _, m := range e.Methods {
			name, mi, err := ParseMethodSig(m)
			if err != nil {
				return nil, fmt.Errorf("resolve: jdk table: %s: %w", e.Name, err)
			}
			ti.addMethod(name, mi)
		}
		out[e.Name] = ti
	}
	return out, nil
}

func cutStatic(s string) (bool, string) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "static "); ok {
		return true, strings.TrimSpace(rest)
	}
	return false, s
}

// ParseMethodSig parses `[static] [<T, ...>] Result name(P1, P2...)`.
func ParseMethodSig(sig string) (string, MethodInfo, error) {
	var mi MethodInfo
	static, rest := cutStatic(sig)
	mi.Static = static
	if strings.HasPrefix(rest, "<") {
		end := matchAngle(rest)
		if end < 0 {
			return "", mi, fmt.Errorf("unbalanced type parameters in %q", sig)
		}
		for _, tp := range splitTopLevel(rest[1:end]) {
			mi.TypeParams = append(mi.TypeParams, strings.Fields(tp)[0])
		}
		rest = strings.TrimSpace(rest[end+1:])
	}
	open := strings.IndexByte(rest, '(')
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return "", mi, fmt.Errorf("missing parameter list in %q", sig)
	}
	head := strings.TrimSpace(rest[:open])
	sp := strings.LastIndexByte(head, ' ')
	if sp < 0 {
		return "", mi, fmt.Errorf("missing result type in %q", sig)
	}
	name := head[sp+1:]
	mi.Result = strings.TrimSpace(head[:sp])
	for _, p := range splitTopLevel(rest[open+1 : len(rest)-1]) {
		if base, ok := strings.CutSuffix(p, "..."); ok {
			mi.Varargs = true
			p = base + "[]"
		}
		mi.Params = append(mi.Params, p)
	}
	return name, mi, nil
}

// matchAngle returns the index of the '>' closing s[0] == '<'.
func matchAngle(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits on commas outside angle brackets.
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					out = append(out, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}
