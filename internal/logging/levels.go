// Package logging provides leveled, structured logging for wizardnav.
// Console output goes to stderr so it never mixes with command output on
// stdout; an optional log file receives the full debug stream of a session.
package logging

import "strings"

// Level represents logging severity levels.
// Levels are ordered from most verbose (Debug) to least verbose (Error).
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages about potential issues.
	LevelWarn
	// LevelError is for error messages about failures.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
// Unrecognized strings default to LevelInfo.
func ParseLevel(s string) Level {
	level, ok := lookupLevel(s)
	if !ok {
		return LevelInfo
	}
	return level
}

// IsValidLevel reports whether s names a level ParseLevel understands.
func IsValidLevel(s string) bool {
	_, ok := lookupLevel(s)
	return ok
}

func lookupLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}
