// Package checker runs the single fail-fast type-checking pass over a
// token sequence.
package checker

import (
	"errors"

	"github.com/arnavsurve/csimple/internal/compiler/diagnostics"
	"github.com/arnavsurve/csimple/internal/compiler/scope"
	"github.com/arnavsurve/csimple/internal/compiler/symbols"
	"github.com/arnavsurve/csimple/internal/compiler/token"
	"github.com/arnavsurve/csimple/internal/compiler/types"
)

type Options struct {
	Shadowing scope.Mode
}

// Checker holds all state of one checking run. Build a new one per run.
type Checker struct {
	toks  []token.Token
	pos   int
	line  int
	table *scope.Table

	function *symbols.Symbol // procedure whose body is being scanned
}

func New(toks []token.Token, opts Options) *Checker {
	// the scan relies on a trailing EOF
	own := make([]token.Token, len(toks), len(toks)+1)
	copy(own, toks)
	if len(own) == 0 || !own[len(own)-1].IsEOF() {
		own = append(own, token.Token{Type: token.TokenEOF})
	}
	return &Checker{
		toks:  own,
		line:  1,
		table: scope.NewTable(opts.Shadowing),
	}
}

// Run scans the whole sequence. It returns nil on success and a
// *diagnostics.Diagnostic for the first violation found.
func (c *Checker) Run() error {
	for c.pos = 0; c.pos < len(c.toks); c.pos++ {
		tok := c.toks[c.pos]
		if tok.IsEOF() {
			return nil
		}
		if err := c.step(tok); err != nil {
			return err
		}
	}
	return nil
}

// Depth is the current scope depth.
func (c *Checker) Depth() int {
	return c.table.Depth()
}

// Symbols returns the symbols still in scope, sorted by name.
func (c *Checker) Symbols() []symbols.Symbol {
	return c.table.Symbols()
}

func (c *Checker) step(tok token.Token) error {
	switch {
	case tok.IsNewline():
		c.line++
	case tok.Is("{"):
		c.table.Enter()
	case tok.Is("}"):
		c.table.Exit()
	case tok.Is(";"):
		c.table.CancelParams()
	case tok.IsTypeKeyword():
		return c.declaration()
	case tok.IsCallable() && c.toks[c.next(c.pos)].Is("("):
		return c.callStatement()
	case tok.Is("["):
		return c.indexStatement()
	case tok.Is("="):
		return c.assignment()
	case tok.Is("return"):
		return c.returnStatement()
	case tok.Is("if"):
		return c.condition(diagnostics.ErrIfCondition)
	case tok.Is("while"):
		return c.condition(diagnostics.ErrWhileCondition)
	}
	return nil
}

// --- Statements ---

func (c *Checker) declaration() error {
	kw := c.toks[c.pos]
	typ, _ := types.FromKeyword(kw.Literal)

	j := c.next(c.pos)
	if c.toks[j].Is("*") {
		typ = types.PointerTo(typ)
		j = c.next(j)
	}
	name := c.toks[j]
	if !name.IsCallable() {
		// unnamed parameter or cast
		return nil
	}

	k := c.next(j)
	if c.toks[k].Is("(") {
		return c.procedure(kw, typ, name, k)
	}

	sym := symbols.Symbol{Name: name.Literal, Type: typ, Depth: c.table.DeclDepth(), Line: c.line}
	if err := c.table.Declare(sym); isSameScope(err) {
		return c.fail(diagnostics.ErrDuplicateVariable)
	}
	c.moveTo(j)
	return nil
}

func (c *Checker) procedure(kw token.Token, ret types.Type, name token.Token, open int) error {
	if kw.Is("string") {
		return c.fail(diagnostics.ErrReturnType)
	}
	if name.Literal == "Main" {
		if _, exists := c.table.Lookup("Main"); exists || c.table.Depth() != 0 {
			return c.fail(diagnostics.ErrMultipleMain)
		}
	}

	closing, err := c.matching(open, "(", ")")
	if err != nil {
		return err
	}
	if name.Literal == "Main" && closing != c.next(open) {
		return c.fail(diagnostics.ErrMainArguments)
	}

	sym := symbols.Symbol{
		Name:       name.Literal,
		Type:       ret,
		Depth:      c.table.Depth(),
		Line:       c.line,
		Function:   true,
		ParamTypes: c.paramTypes(open, closing),
	}
	if err := c.table.Declare(sym); isSameScope(err) {
		return c.fail(diagnostics.ErrDuplicateProcedure)
	}
	fn, _ := c.table.Lookup(name.Literal)
	c.function = &fn

	// parameters are declared as variables when the scan walks the list
	c.table.BeginParams()
	c.moveTo(open)
	return nil
}

// paramTypes collects the types named between a declaration's parentheses.
func (c *Checker) paramTypes(open, closing int) []types.Type {
	var params []types.Type
	for i := c.next(open); i < closing; i = c.next(i) {
		t, ok := types.FromKeyword(c.toks[i].Literal)
		if !ok {
			continue
		}
		if n := c.next(i); n < closing && c.toks[n].Is("*") {
			t = types.PointerTo(t)
		}
		params = append(params, t)
	}
	return params
}

func (c *Checker) callStatement() error {
	callee := c.toks[c.pos]
	open := c.next(c.pos)
	closing, err := c.matching(open, "(", ")")
	if err != nil {
		return err
	}
	if _, err := c.checkCall(callee, c.items(c.toks[open+1:closing])); err != nil {
		return err
	}
	c.moveTo(closing)
	return nil
}

func (c *Checker) indexStatement() error {
	base := types.Void
	if prev, ok := c.prev(c.pos); ok {
		base = c.classify(prev)
	}
	if base != types.String {
		return c.fail(diagnostics.ErrNotIndexable)
	}

	closing, err := c.matching(c.pos, "[", "]")
	if err != nil {
		return err
	}
	idx, err := c.reduce(c.items(c.toks[c.pos+1 : closing]))
	if err != nil {
		return err
	}
	if idx != types.Int {
		return c.fail(diagnostics.ErrIndexType)
	}
	c.moveTo(closing)
	return nil
}

func (c *Checker) assignment() error {
	target, ok := c.prev(c.pos)
	if !ok {
		return diagnostics.Malformed(c.line, "assignment without a target")
	}
	left := c.classify(target)

	n1 := c.next(c.pos)
	if c.toks[n1].IsCallable() && c.toks[c.next(n1)].Is("(") {
		// the call itself is checked when the scan reaches it
		fn, ok := c.table.Lookup(c.toks[n1].Literal)
		if !ok {
			return c.fail(diagnostics.ErrUnknownProcedure)
		}
		if fn.Type != left {
			return c.fail(diagnostics.ErrCallAssignment)
		}
		return nil
	}

	end, err := c.expressionEnd(c.pos + 1)
	if err != nil {
		return err
	}
	right, err := c.reduce(c.items(c.toks[c.pos+1 : end]))
	if err != nil {
		return err
	}
	if !assignable(left, right) {
		return c.fail(diagnostics.ErrAssignmentType)
	}
	c.moveTo(end - 1)
	return nil
}

func (c *Checker) returnStatement() error {
	end, err := c.expressionEnd(c.pos + 1)
	if err != nil {
		return err
	}
	got := types.Void
	if items := c.items(c.toks[c.pos+1 : end]); len(items) > 0 {
		if got, err = c.reduce(items); err != nil {
			return err
		}
	}
	if c.function == nil || !assignable(c.function.Type, got) {
		return c.fail(diagnostics.ErrReturnType)
	}
	c.moveTo(end - 1)
	return nil
}

func (c *Checker) condition(code diagnostics.Code) error {
	open := c.next(c.pos)
	if !c.toks[open].Is("(") {
		return diagnostics.Malformed(c.line, "expected '(' after %s", c.toks[c.pos].Literal)
	}
	closing, err := c.matching(open, "(", ")")
	if err != nil {
		return err
	}
	cond, err := c.reduce(c.items(c.toks[open+1 : closing]))
	if err != nil {
		return err
	}
	if cond != types.Bool {
		return c.fail(code)
	}
	c.moveTo(closing)
	return nil
}

// assignable reports whether a value of type right may be stored in left.
func assignable(left, right types.Type) bool {
	return left == right || (right == types.Null && left.AcceptsNull())
}

func isSameScope(err error) bool {
	var dup *scope.DuplicateError
	return errors.As(err, &dup) && dup.SameScope
}

// --- Cursor helpers ---

func (c *Checker) fail(code diagnostics.Code) error {
	return diagnostics.New(code, c.line)
}

// next returns the index of the first non-newline token after i. The
// trailing EOF stops it.
func (c *Checker) next(i int) int {
	for i++; i < len(c.toks)-1 && c.toks[i].IsNewline(); i++ {
	}
	if i >= len(c.toks) {
		return len(c.toks) - 1
	}
	return i
}

// prev returns the closest non-newline token before i.
func (c *Checker) prev(i int) (token.Token, bool) {
	for i--; i >= 0; i-- {
		if !c.toks[i].IsNewline() {
			return c.toks[i], true
		}
	}
	return token.Token{}, false
}

// moveTo advances the cursor to i, counting the newlines it crosses.
func (c *Checker) moveTo(i int) {
	for j := c.pos + 1; j <= i; j++ {
		if c.toks[j].IsNewline() {
			c.line++
		}
	}
	if i > c.pos {
		c.pos = i
	}
}

// matching finds the closer that balances the opener at index open.
func (c *Checker) matching(open int, opener, closer string) (int, error) {
	depth := 0
	for i := open; i < len(c.toks); i++ {
		switch tok := c.toks[i]; {
		case tok.IsEOF():
			return 0, diagnostics.Malformed(c.line, "unexpected end of input, missing '%s'", closer)
		case tok.Is(opener):
			depth++
		case tok.Is(closer):
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, diagnostics.Malformed(c.line, "unexpected end of input, missing '%s'", closer)
}

// expressionEnd finds the token ending the expression that starts at from:
// a ';' outside brackets, an unmatched ')' or ']', or a brace. Running out
// of input reports the innermost bracket still open, if any.
func (c *Checker) expressionEnd(from int) (int, error) {
	var open []string // closers owed, innermost last
	for i := from; i < len(c.toks); i++ {
		tok := c.toks[i]
		switch {
		case tok.IsEOF():
			return 0, c.unexpectedEnd(open)
		case tok.Is("("):
			open = append(open, ")")
		case tok.Is("["):
			open = append(open, "]")
		case tok.Is(")"), tok.Is("]"):
			if len(open) == 0 {
				return i, nil
			}
			open = open[:len(open)-1]
		case tok.Is(";") && len(open) == 0, tok.Is("{"), tok.Is("}"):
			return i, nil
		}
	}
	return 0, c.unexpectedEnd(open)
}

func (c *Checker) unexpectedEnd(open []string) error {
	closer := ";"
	if len(open) > 0 {
		closer = open[len(open)-1]
	}
	return diagnostics.Malformed(c.line, "unexpected end of input, missing '%s'", closer)
}
