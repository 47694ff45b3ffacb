package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics; a higher value is more severe.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity reads a threshold as written on the command line, case
// insensitively; "warn" is accepted for warning.
func ParseSeverity(v string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "info":
		return SevInfo, nil
	case "warn", "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("invalid severity %q (expected info|warning|error)", v)
}
