package checker

import (
	"strings"

	"github.com/arnavsurve/csimple/internal/compiler/token"
	"github.com/arnavsurve/csimple/internal/compiler/types"
)

// classify gives the type of a single token: the declared type of a known
// name, else the type its literal spelling implies. Anything unrecognised is
// void.
func (c *Checker) classify(tok token.Token) types.Type {
	if sym, ok := c.table.Lookup(tok.Literal); ok {
		return sym.Type
	}
	lit := tok.Literal
	switch {
	case strings.Contains(lit, `"`):
		return types.String
	case strings.Contains(lit, "'") || lit == "]":
		return types.Char
	case lit != "" && lit[0] >= '0' && lit[0] <= '9':
		if strings.Contains(lit, ".") {
			return types.Double
		}
		return types.Int
	case lit == "true" || lit == "false":
		return types.Bool
	case lit == "null":
		return types.Null
	}
	return types.Void
}
