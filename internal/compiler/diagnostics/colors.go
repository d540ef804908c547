package diagnostics

import (
	"fmt"
	"io"
)

// COLOR is an ANSI escape prefix.
type COLOR string

const (
	RED      COLOR = "\033[31m"
	BOLD_RED COLOR = "\033[1;31m"
	GREEN    COLOR = "\033[32m"
	RESET    COLOR = "\033[0m"
)

func (c COLOR) Fprintf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, string(c)+format+string(RESET), args...)
}

func (c COLOR) Fprintln(w io.Writer, args ...any) {
	fmt.Fprint(w, string(c))
	fmt.Fprint(w, args...)
	fmt.Fprint(w, string(RESET))
	fmt.Fprintln(w)
}

// StripANSI removes colour escapes, e.g. for comparing rendered output.
func StripANSI(s string) string {
	out := make([]byte, 0, len(s))
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			inEscape = true
			i++
			continue
		}
		if inEscape {
			if (s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z') {
				inEscape = false
			}
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
