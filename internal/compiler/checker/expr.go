package checker

import (
	"github.com/arnavsurve/csimple/internal/compiler/diagnostics"
	"github.com/arnavsurve/csimple/internal/compiler/token"
	"github.com/arnavsurve/csimple/internal/compiler/types"
)

// item is one element of an expression being reduced: either an operand
// with a known type or an operator/delimiter still waiting for its rule.
type item struct {
	tok     token.Token
	typ     types.Type
	operand bool
	raw     bool // operand taken straight from the source, not a reduction
}

// Evaluate computes the type of an expression. The tokens are not modified,
// so evaluating the same tokens twice gives the same answer.
func (c *Checker) Evaluate(toks []token.Token) (types.Type, error) {
	return c.reduce(c.items(toks))
}

func (c *Checker) items(toks []token.Token) []item {
	out := make([]item, 0, len(toks))
	for _, tok := range toks {
		switch {
		case tok.IsNewline(), tok.IsEOF():
		case tok.IsWord():
			out = append(out, item{tok: tok, typ: c.classify(tok), operand: true, raw: true})
		default:
			out = append(out, item{tok: tok})
		}
	}
	return out
}

// reduce applies every rule class in precedence order until one operand is
// left. Each pass works on a fresh slice; the argument is never written.
func (c *Checker) reduce(items []item) (types.Type, error) {
	var err error
	passes := []func([]item) ([]item, error){
		c.reduceParens,
		c.reduceIndex,
		c.reduceAbs,
	}
	for _, rule := range prefixRules {
		passes = append(passes, c.prefixPass(rule))
	}
	passes = append(passes, c.reduceNegation)
	for _, rule := range binaryRules {
		passes = append(passes, c.binaryPass(rule))
	}

	for _, pass := range passes {
		if items, err = pass(items); err != nil {
			return types.Error, err
		}
	}
	if len(items) != 1 || !items[0].operand {
		return types.Error, c.malformedExpr(items)
	}
	return items[0].typ, nil
}

func (c *Checker) malformedExpr(items []item) error {
	if len(items) == 0 {
		return diagnostics.Malformed(c.line, "empty expression")
	}
	for _, it := range items {
		if !it.operand {
			return diagnostics.Malformed(c.line, "unexpected '%s' in expression", it.tok.Literal)
		}
	}
	return diagnostics.Malformed(c.line, "missing operator in expression")
}

func (c *Checker) reduceParens(items []item) ([]item, error) {
	for {
		open := findOp(items, "(")
		if open < 0 {
			return items, nil
		}
		closing := matchOp(items, open, "(", ")")
		if closing < 0 {
			return nil, diagnostics.Malformed(c.line, "missing ')'")
		}
		inner := items[open+1 : closing]

		start := open
		var (
			typ types.Type
			err error
		)
		if open > 0 && items[open-1].raw && items[open-1].tok.IsCallable() {
			start = open - 1
			typ, err = c.checkCall(items[open-1].tok, inner)
		} else {
			typ, err = c.reduce(inner)
		}
		if err != nil {
			return nil, err
		}
		items = splice(items, start, closing+1, item{tok: items[open].tok, typ: typ, operand: true})
	}
}

func (c *Checker) reduceIndex(items []item) ([]item, error) {
	for {
		open := findOp(items, "[")
		if open < 0 {
			return items, nil
		}
		if open == 0 {
			return nil, diagnostics.Malformed(c.line, "index without a base")
		}
		if operandType(items[open-1]) != types.String {
			return nil, c.fail(diagnostics.ErrNotIndexable)
		}
		closing := matchOp(items, open, "[", "]")
		if closing < 0 {
			return nil, diagnostics.Malformed(c.line, "missing ']'")
		}
		idx, err := c.reduce(items[open+1 : closing])
		if err != nil {
			return nil, err
		}
		if idx != types.Int {
			return nil, c.fail(diagnostics.ErrIndexType)
		}
		items = splice(items, open-1, closing+1, item{tok: items[open].tok, typ: types.Char, operand: true})
	}
}

func (c *Checker) reduceAbs(items []item) ([]item, error) {
	for {
		open := findOp(items, "|")
		if open < 0 {
			return items, nil
		}
		closing := findOp(items[open+1:], "|")
		if closing < 0 {
			return nil, diagnostics.Malformed(c.line, "missing closing '|'")
		}
		closing += open + 1
		inner, err := c.reduce(items[open+1 : closing])
		if err != nil {
			return nil, err
		}
		if inner != types.Int {
			return nil, c.fail(diagnostics.ErrOperandType)
		}
		items = splice(items, open, closing+1, item{tok: items[open].tok, typ: types.Int, operand: true})
	}
}

// reduceNegation resolves unary minus, innermost first, so "- - x" works.
func (c *Checker) reduceNegation(items []item) ([]item, error) {
	for {
		at := -1
		for i, it := range items {
			if isOp(it, "-") && (i == 0 || !items[i-1].operand) {
				at = i
			}
		}
		if at < 0 {
			return items, nil
		}
		if at+1 >= len(items) {
			return nil, diagnostics.Malformed(c.line, "missing operand after '-'")
		}
		var typ types.Type
		switch operandType(items[at+1]) {
		case types.Int:
			typ = types.Int
		case types.Double:
			typ = types.Double
		default:
			return nil, c.fail(diagnostics.ErrOperandType)
		}
		items = splice(items, at, at+2, item{tok: items[at].tok, typ: typ, operand: true})
	}
}

type prefixRule struct {
	op    string
	apply func(types.Type) (types.Type, diagnostics.Code)
}

var prefixRules = []prefixRule{
	{"&", func(t types.Type) (types.Type, diagnostics.Code) {
		if t == types.Int || t == types.Char {
			return types.PointerTo(t), 0
		}
		return types.Error, diagnostics.ErrAddressOf
	}},
	{"^", func(t types.Type) (types.Type, diagnostics.Code) {
		if t == types.PointerTo(types.Int) || t == types.PointerTo(types.Char) {
			return t.Elem(), 0
		}
		return types.Error, diagnostics.ErrDereference
	}},
	{"!", func(t types.Type) (types.Type, diagnostics.Code) {
		if t == types.Bool {
			return types.Bool, 0
		}
		return types.Error, diagnostics.ErrOperandType
	}},
}

func (c *Checker) prefixPass(rule prefixRule) func([]item) ([]item, error) {
	return func(items []item) ([]item, error) {
		for {
			at := findOp(items, rule.op)
			if at < 0 {
				return items, nil
			}
			if at+1 >= len(items) {
				return nil, diagnostics.Malformed(c.line, "missing operand after '%s'", rule.op)
			}
			typ, code := rule.apply(operandType(items[at+1]))
			if code != 0 {
				return nil, c.fail(code)
			}
			items = splice(items, at, at+2, item{tok: items[at].tok, typ: typ, operand: true})
		}
	}
}

type binaryRule struct {
	op    string
	apply func(l, r types.Type) (types.Type, diagnostics.Code)
}

var binaryRules = []binaryRule{
	{"*", multiplicative},
	{"/", multiplicative},
	{"+", func(l, r types.Type) (types.Type, diagnostics.Code) {
		switch {
		case l == types.Int && r == types.Int:
			return types.Int, 0
		case l.IsPointer() && r == types.Int:
			return l, 0
		case l == types.Int && r.IsPointer():
			return r, 0
		}
		return types.Error, diagnostics.ErrOperandType
	}},
	{"-", func(l, r types.Type) (types.Type, diagnostics.Code) {
		switch {
		case l == types.Int && r == types.Int:
			return types.Int, 0
		case l.IsPointer() && r == types.Int:
			return l, 0
		}
		return types.Error, diagnostics.ErrOperandType
	}},
	{"<", relational},
	{">", relational},
	{"<=", relational},
	{">=", relational},
	{"==", equality},
	{"!=", equality},
	{"&&", logical},
	{"||", logical},
}

func multiplicative(l, r types.Type) (types.Type, diagnostics.Code) {
	switch {
	case l == types.Int && r == types.Int:
		return types.Int, 0
	case l.IsPointerLike() || r.IsPointerLike():
		return types.Error, diagnostics.ErrPointerArithmetic
	}
	return types.Error, diagnostics.ErrOperandType
}

func relational(l, r types.Type) (types.Type, diagnostics.Code) {
	if l == types.Int && r == types.Int {
		return types.Bool, 0
	}
	return types.Error, diagnostics.ErrOperandType
}

func equality(l, r types.Type) (types.Type, diagnostics.Code) {
	intPtr, charPtr := types.PointerTo(types.Int), types.PointerTo(types.Char)
	in := func(t types.Type, set ...types.Type) bool {
		for _, s := range set {
			if t == s {
				return true
			}
		}
		return false
	}
	switch {
	case l == r && in(l, types.Int, types.Char, types.Bool):
		return types.Bool, 0
	case in(l, intPtr, types.Null) && in(r, intPtr, types.Null):
		return types.Bool, 0
	case in(l, charPtr, types.Null) && in(r, charPtr, types.Null):
		return types.Bool, 0
	}
	return types.Error, diagnostics.ErrOperandType
}

func logical(l, r types.Type) (types.Type, diagnostics.Code) {
	if l == types.Bool && r == types.Bool {
		return types.Bool, 0
	}
	return types.Error, diagnostics.ErrOperandType
}

func (c *Checker) binaryPass(rule binaryRule) func([]item) ([]item, error) {
	return func(items []item) ([]item, error) {
		for {
			at := findOp(items, rule.op)
			if at < 0 {
				return items, nil
			}
			if at == 0 || at+1 >= len(items) {
				return nil, diagnostics.Malformed(c.line, "missing operand for '%s'", rule.op)
			}
			typ, code := rule.apply(operandType(items[at-1]), operandType(items[at+1]))
			if code != 0 {
				return nil, c.fail(code)
			}
			items = splice(items, at-1, at+2, item{tok: items[at].tok, typ: typ, operand: true})
		}
	}
}

// checkCall validates a call of callee with the argument items between its
// parentheses and returns the callee's return type.
func (c *Checker) checkCall(callee token.Token, args []item) (types.Type, error) {
	fn, ok := c.table.Lookup(callee.Literal)
	if !ok || !fn.Function || !fn.VisibleAt(c.table.Depth()) {
		return types.Error, c.fail(diagnostics.ErrUnknownProcedure)
	}

	groups, err := c.splitArgs(args)
	if err != nil {
		return types.Error, err
	}
	params := fn.Params()
	if len(groups) != len(params) {
		return types.Error, c.fail(diagnostics.ErrArgumentCount)
	}
	for i, group := range groups {
		got, err := c.reduce(group)
		if err != nil {
			return types.Error, err
		}
		if got != params[i] {
			return types.Error, c.fail(diagnostics.ErrArgumentType)
		}
	}
	return fn.Type, nil
}

// splitArgs cuts an argument list at the commas outside nested brackets.
func (c *Checker) splitArgs(args []item) ([][]item, error) {
	if len(args) == 0 {
		return nil, nil
	}
	var (
		groups [][]item
		depth  int
		start  int
	)
	for i, it := range args {
		switch {
		case isOp(it, "("), isOp(it, "["):
			depth++
		case isOp(it, ")"), isOp(it, "]"):
			depth--
		case isOp(it, ",") && depth == 0:
			groups = append(groups, args[start:i])
			start = i + 1
		}
	}
	groups = append(groups, args[start:])
	for _, g := range groups {
		if len(g) == 0 {
			return nil, diagnostics.Malformed(c.line, "empty argument")
		}
	}
	return groups, nil
}

// --- Item helpers ---

func isOp(it item, lit string) bool {
	return !it.operand && it.tok.Literal == lit
}

// operandType is the type an item contributes as an operand. An operator in
// operand position counts as void.
func operandType(it item) types.Type {
	if !it.operand {
		return types.Void
	}
	return it.typ
}

func findOp(items []item, lit string) int {
	for i, it := range items {
		if isOp(it, lit) {
			return i
		}
	}
	return -1
}

func matchOp(items []item, open int, opener, closer string) int {
	depth := 0
	for i := open; i < len(items); i++ {
		switch {
		case isOp(items[i], opener):
			depth++
		case isOp(items[i], closer):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splice returns a new slice with items[from:to] replaced by repl.
func splice(items []item, from, to int, repl item) []item {
	out := make([]item, 0, len(items)-(to-from)+1)
	out = append(out, items[:from]...)
	out = append(out, repl)
	return append(out, items[to:]...)
}
