// Package diagnostics defines the single failure a type-check run can
// produce and the sinks that render it.
package diagnostics

import "fmt"

// Diagnostic is the one (code, line) pair a failed run reports. It is
// returned as an error by the checker.
type Diagnostic struct {
	Code   Code
	Line   int
	Detail string // only set for ErrMalformed
}

func New(code Code, line int) *Diagnostic {
	return &Diagnostic{Code: code, Line: line}
}

// Malformed reports input the checker cannot make sense of.
func Malformed(line int, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: ErrMalformed, Line: line, Detail: fmt.Sprintf(format, args...)}
}

// Message is the code's text plus the detail, if any.
func (d *Diagnostic) Message() string {
	if d.Detail == "" {
		return d.Code.Message()
	}
	return d.Code.Message() + " (" + d.Detail + ")"
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("Error %d on line %d : %s", int(d.Code), d.Line, d.Message())
}
