package symbols

import "github.com/arnavsurve/csimple/internal/compiler/types"

// Symbol is a declared variable or procedure.
type Symbol struct {
	Name  string
	Type  types.Type // variable type, or return type for procedures
	Depth int        // scope depth of the declaration
	Line  int

	// --- Procedure specific info ---
	Function   bool
	ParamTypes []types.Type
}

// Params returns a copy of the parameter types in declaration order.
func (s Symbol) Params() []types.Type {
	out := make([]types.Type, len(s.ParamTypes))
	copy(out, s.ParamTypes)
	return out
}

// VisibleAt reports whether the symbol can be used from the given depth.
func (s Symbol) VisibleAt(depth int) bool {
	return s.Depth <= depth
}

func (s Symbol) Kind() string {
	if s.Function {
		return "proc"
	}
	return "var"
}
