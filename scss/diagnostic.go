package scss

import (
	"fmt"
)

// Severity of a transformation diagnostic. Warnings mean degraded but usable
// output, errors block the write for the affected target only.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a structured record of a condition encountered during
// transformation. It is surfaced to the caller, never logged and dropped.
type Diagnostic struct {
	Severity Severity
	Message  string
	Excerpt  string // trimmed source line the condition was detected on
	File     string
	Line     int
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: %s:%d: %s", d.Severity, d.File, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.File, d.Message)
}

func warningAt(content, file string, pos int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Excerpt:  excerptAt(content, pos),
		File:     file,
		Line:     lineAt(content, pos),
	}
}

func errorAt(content, file string, pos int, format string, args ...any) Diagnostic {
	d := warningAt(content, file, pos, format, args...)
	d.Severity = SeverityError
	return d
}

// HasErrors reports whether any diagnostic in the list is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
