package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // failures only
	LevelPhase        // run + stage
	LevelDetail       // + per-target
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the level names case-insensitively.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// Scope is the granularity of an event. Coarser scopes have lower values.
type Scope uint8

const (
	// ScopeRun is a whole pass or CLI command.
	ScopeRun Scope = iota + 1
	// ScopeStage is defaults, targets, load, write.
	ScopeStage
	// ScopeTarget is the work on one declaration.
	ScopeTarget
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeStage:
		return "stage"
	case ScopeTarget:
		return "target"
	}
	return "unknown"
}

// covers reports whether events of scope pass the level on their scope
// alone. Failures are admitted separately by admits.
func (l Level) covers(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopeStage
	case LevelDetail:
		return scope <= ScopeTarget
	case LevelDebug:
		return true
	}
	return false
}

func (l Level) admits(ev Event) bool {
	if l == LevelOff {
		return false
	}
	return ev.Kind == KindHeartbeat || ev.Err != "" || l.covers(ev.Scope)
}
