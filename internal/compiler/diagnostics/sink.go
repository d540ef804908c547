package diagnostics

import (
	"fmt"
	"io"
)

// Sink receives the outcome of a run: either one Report or one Success.
type Sink interface {
	Report(d Diagnostic)
	Success()
}

const (
	FailedLine  = "Type check failed."
	SuccessLine = "No type checking errors found."
)

// Console prints results in the classic two-line format.
type Console struct {
	w     io.Writer
	color bool
}

func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: w, color: color}
}

func (c *Console) Report(d Diagnostic) {
	if c.color {
		RED.Fprintf(c.w, "Error %d", int(d.Code))
		fmt.Fprintf(c.w, " on line %d : %s\n", d.Line, d.Message())
		BOLD_RED.Fprintln(c.w, FailedLine)
		return
	}
	fmt.Fprintln(c.w, d.Error())
	fmt.Fprintln(c.w, FailedLine)
}

func (c *Console) Success() {
	if c.color {
		GREEN.Fprintln(c.w, SuccessLine)
		return
	}
	fmt.Fprintln(c.w, SuccessLine)
}

// Recorder keeps every outcome it is given. Used by tests and by callers
// that render results themselves.
type Recorder struct {
	Diagnostics []Diagnostic
	Successes   int
}

func (r *Recorder) Report(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

func (r *Recorder) Success() {
	r.Successes++
}

// Failed reports whether any diagnostic was recorded.
func (r *Recorder) Failed() bool {
	return len(r.Diagnostics) > 0
}
