package trace

import "time"

// Kind is what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point", KindHeartbeat: "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // discovery, environment, the whole run
	ScopePass                    // timer phases
	ScopeUnit                    // one compilation unit: parse, monomorphize
	ScopeMethod                  // one analyzed method and its normalizations
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeUnit: "unit", ScopeMethod: "method"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Unit     string // compilation unit path, when known
	Name     string // "run", "parse", "monomorphize", "specialize", ...
	Detail   string
	Extra    map[string]string // span fields, point key/value pairs
}
