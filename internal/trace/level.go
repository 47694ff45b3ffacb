package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring only, dumped when a run fails
	LevelPhase        // driver and passes
	LevelDetail       // plus compilation units
	LevelDebug        // plus every analyzed method
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// deepest is the finest scope each level lets through.
var deepest = [...]Scope{LevelPhase: ScopePass, LevelDetail: ScopeUnit, LevelDebug: ScopeMethod}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass at this level. LevelError
// passes nothing live.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(deepest) {
		return false
	}
	return deepest[l] != 0 && scope <= deepest[l]
}

// recording is the level a ring tracer records at: an error-level ring keeps
// unit events so a failed run can be dumped.
func (l Level) recording() Level {
	if l == LevelError {
		return LevelDetail
	}
	return l
}
