package symbols

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/arnavsurve/csimple/internal/compiler/types"
)

func TestParamsReturnsCopy(t *testing.T) {
	fn := Symbol{Name: "Add", Type: types.Int, Function: true, ParamTypes: []types.Type{types.Int, types.Char}}

	params := fn.Params()
	params[0] = types.Bool

	be.Equal(t, fn.ParamTypes[0], types.Int)
	be.Equal(t, len(Symbol{Name: "x"}.Params()), 0)
}

func TestVisibleAt(t *testing.T) {
	fn := Symbol{Name: "f", Depth: 1, Function: true}
	be.True(t, fn.VisibleAt(1))
	be.True(t, fn.VisibleAt(2))
	be.Equal(t, fn.VisibleAt(0), false)
	be.Equal(t, fn.Kind(), "proc")
	be.Equal(t, Symbol{}.Kind(), "var")
}
