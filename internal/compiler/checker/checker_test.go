package checker

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
	"github.com/nalgeon/be"

	"github.com/arnavsurve/csimple/internal/compiler/diagnostics"
	"github.com/arnavsurve/csimple/internal/compiler/lexer"
	"github.com/arnavsurve/csimple/internal/compiler/scope"
	"github.com/arnavsurve/csimple/internal/compiler/symbols"
	"github.com/arnavsurve/csimple/internal/compiler/token"
	"github.com/arnavsurve/csimple/internal/compiler/types"
)

// --- Test Helper Functions ---

func run(src string, mode scope.Mode) (*Checker, error) {
	c := New(lexer.NewLexer(src).Tokenize(), Options{Shadowing: mode})
	return c, c.Run()
}

// checkOK fails the test if src does not type-check.
func checkOK(t *testing.T, src string, mode scope.Mode) *Checker {
	t.Helper()
	c, err := run(src, mode)
	if err != nil {
		t.Fatalf("%q: unexpected failure: %v", src, err)
	}
	return c
}

// checkFails fails the test unless src is rejected with code on line.
func checkFails(t *testing.T, src string, mode scope.Mode, code diagnostics.Code, line int) {
	t.Helper()
	_, err := run(src, mode)
	if err == nil {
		t.Fatalf("%q: expected error %d, got success", src, code)
	}
	var d *diagnostics.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("%q: error is %T, not *diagnostics.Diagnostic", src, err)
	}
	if d.Code != code || d.Line != line {
		t.Fatalf("%q: expected error %d on line %d, got %v", src, code, line, d)
	}
}

// --- Error codes ---

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.Code
	}{
		{"multiple main", `int Main ( ) { } int Main ( ) { }`, diagnostics.ErrMultipleMain},
		{"nested main", `int f ( ) { int Main ( ) { } }`, diagnostics.ErrMultipleMain},
		{"main arguments", `int Main ( int a ) { }`, diagnostics.ErrMainArguments},
		{"main at end of input", `int Main (`, diagnostics.ErrMalformed},
		{"main arguments at end of input", `int Main ( int a`, diagnostics.ErrMalformed},
		{"duplicate procedure", `int f ( ) { } int f ( ) { }`, diagnostics.ErrDuplicateProcedure},
		{"duplicate variable", `int x; int x;`, diagnostics.ErrDuplicateVariable},
		{"unknown procedure", `int Main ( ) { int y; y = foo ( ) ; }`, diagnostics.ErrUnknownProcedure},
		{"unknown procedure statement", `int Main ( ) { foo ( ) ; }`, diagnostics.ErrUnknownProcedure},
		{"calling a variable", `int n; int Main ( ) { n ( ) ; }`, diagnostics.ErrUnknownProcedure},
		{"argument count", `int Add ( int a ) { return a ; } int Main ( ) { int z; z = Add ( 1 , 2 ) ; }`, diagnostics.ErrArgumentCount},
		{"argument type", `int Add ( int a ) { return a ; } int Main ( ) { int z; z = Add ( 'c' ) ; }`, diagnostics.ErrArgumentType},
		{"return type", `int f ( ) { return true ; }`, diagnostics.ErrReturnType},
		{"string return", `string g ( ) { }`, diagnostics.ErrReturnType},
		{"return outside procedure", `return 1 ;`, diagnostics.ErrReturnType},
		{"call assignment", `bool f ( ) { return true ; } int Main ( ) { int x; x = f ( ) ; }`, diagnostics.ErrCallAssignment},
		{"if condition", `int n; if ( n ) { }`, diagnostics.ErrIfCondition},
		{"while condition", `int n; while ( n ) { }`, diagnostics.ErrWhileCondition},
		{"index type", `string s; char c; c = s [ true ] ;`, diagnostics.ErrIndexType},
		{"index statement type", `string s; s [ 'a' ] = 'b' ;`, diagnostics.ErrIndexType},
		{"not indexable", `int n; char c; c = n [ 0 ] ;`, diagnostics.ErrNotIndexable},
		{"not indexable statement", `int n; n [ 0 ] = 'c' ;`, diagnostics.ErrNotIndexable},
		{"assignment type", `int x; x = true ;`, diagnostics.ErrAssignmentType},
		{"operand type", `int x; x = 1 + true ;`, diagnostics.ErrOperandType},
		{"pointer arithmetic", `int * p; int x; x = p * 2 ;`, diagnostics.ErrPointerArithmetic},
		{"pointer division", `int * p; int x; x = 2 / p ;`, diagnostics.ErrPointerArithmetic},
		{"address of", `int * p; bool b; p = & b ;`, diagnostics.ErrAddressOf},
		{"dereference", `int x; int y; y = ^ x ;`, diagnostics.ErrDereference},
		{"missing semicolon", `int x; x = 1`, diagnostics.ErrMalformed},
		{"unbalanced call", `int f ( ) { } int Main ( ) { f ( ; }`, diagnostics.ErrMalformed},
		{"empty expression", `int x; x = ;`, diagnostics.ErrMalformed},
		{"unsupported operator", `int x; x = 7 % 2 ;`, diagnostics.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkFails(t, tt.src, scope.ModeFlat, tt.code, 1)
		})
	}
}

func TestWellTypedPrograms(t *testing.T) {
	programs := []string{
		`int x; x = 5;`,
		`bool flag; if ( flag ) { }`,
		`string s; int i; char c; c = s [ i ] ;`,
		`string s; s [ 0 ] = 'c' ;`,
		`int Add ( int a , int b ) { return a + b ; } int Main ( ) { int z; z = Add ( 1 , 2 * 3 ) ; }`,
		`void Log ( string msg ) { return ; } int Main ( ) { Log ( "hello world" ) ; return 0 ; }`,
		`int x; bool b; b = ! ( x < 3 ) && x >= 0 || x == 2 ;`,
		`int x; x = | 0 - 4 | * 2 ;`,
		`int x; x = - 3 + - - 2 ;`,
		`double d; d = - 2.5 ;`,
		`int n; while ( n != 0 ) { n = n - 1 ; }`,
		`int Sq ( int v ) { return v * v ; } int Main ( ) { int r; r = ( Sq ( 2 ) + 1 ) / 5 ; }`,
		`int Sq ( int v ) { return v * v ; } int Main ( ) { if ( Sq ( 2 ) > 3 ) { } }`,
		`int i; for ( i = 0 ; i < 10 ; i = i + 1 ) { }`,
		`int x; x = 1 ;` + "\r\n" + `x = 2 ;`,
	}
	for _, src := range programs {
		checkOK(t, src, scope.ModeFlat)
	}
}

// --- Concrete scenarios ---

func TestScenarios(t *testing.T) {
	checkOK(t, `int x; x = 5;`, scope.ModeFlat)
	checkFails(t, `int x; int x;`, scope.ModeFlat, diagnostics.ErrDuplicateVariable, 1)
	checkFails(t, `int Main ( ) { int y; y = foo ( ) ; }`, scope.ModeFlat, diagnostics.ErrUnknownProcedure, 1)
	checkFails(t, `int Add ( int a ) { return a ; } int Main ( ) { int z; z = Add ( 1 , 2 ) ; }`,
		scope.ModeFlat, diagnostics.ErrArgumentCount, 1)
	checkOK(t, `bool flag; if ( flag ) { } `, scope.ModeFlat)
	checkFails(t, `int n; if ( n ) { }`, scope.ModeFlat, diagnostics.ErrIfCondition, 1)
	checkFails(t, `string s; int i; i = s [ i ] ;`, scope.ModeFlat, diagnostics.ErrAssignmentType, 1)
	checkOK(t, `string s; int i; char c; c = s[i];`, scope.ModeFlat)
}

func TestPointerArithmetic(t *testing.T) {
	checkOK(t, `int * p; int * q; q = p + 1 ;`, scope.ModeFlat)
	checkOK(t, `int * p; int * q; q = 1 + p ;`, scope.ModeFlat)
	checkOK(t, `int * p; int * q; q = p - 1 ;`, scope.ModeFlat)
	checkOK(t, `char * p; char c; c = ^ ( p + 2 ) ;`, scope.ModeFlat)
	checkFails(t, `int * p; int * q; int * r; r = p - q ;`, scope.ModeFlat, diagnostics.ErrOperandType, 1)
	checkFails(t, `int * p; int * q; int * r; r = p + q ;`, scope.ModeFlat, diagnostics.ErrOperandType, 1)
}

func TestNullPointers(t *testing.T) {
	checkOK(t, `int * p; p = null ;`, scope.ModeFlat)
	checkOK(t, `char * p; p = null ;`, scope.ModeFlat)
	checkOK(t, `int * p; bool b; b = p == null ;`, scope.ModeFlat)
	checkOK(t, `int * f ( ) { return null ; }`, scope.ModeFlat)
	checkFails(t, `string * s; s = null ;`, scope.ModeFlat, diagnostics.ErrAssignmentType, 1)
	checkFails(t, `int * p; char * q; bool b; b = p == q ;`, scope.ModeFlat, diagnostics.ErrOperandType, 1)
}

func TestAddressAndDereference(t *testing.T) {
	checkOK(t, `int x; int * p; p = & x ;`, scope.ModeFlat)
	checkOK(t, `string s; char * p; p = & s [ 1 ] ;`, scope.ModeFlat)
	checkOK(t, `int * p; int y; y = ^ p + 1 ;`, scope.ModeFlat)
	checkFails(t, `int * p; int * q; q = & p ;`, scope.ModeFlat, diagnostics.ErrAddressOf, 1)
}

func TestErrorLine(t *testing.T) {
	src := "int x;\n" +
		"int y;\n" +
		"\n" +
		"x = true;\n"
	checkFails(t, src, scope.ModeFlat, diagnostics.ErrAssignmentType, 4)

	src = "int Main (\n" +
		"  ) {\n" +
		"  if ( 1 ) { }\n" +
		"}\n"
	checkFails(t, src, scope.ModeFlat, diagnostics.ErrIfCondition, 3)

	src = "int x; x = 1 +\n" +
		"  2 ;\n" +
		"bool b; b = x;\n"
	checkFails(t, src, scope.ModeFlat, diagnostics.ErrAssignmentType, 3)
}

func TestFailsFast(t *testing.T) {
	// the duplicate comes first, the bad assignment is never reached
	checkFails(t, "int x;\nint x;\nx = true;\n", scope.ModeFlat, diagnostics.ErrDuplicateVariable, 2)
}

// --- Shadowing ---

func TestFlatShadowing(t *testing.T) {
	// the outer declaration stays authoritative
	checkFails(t, `int x ; int f ( ) { bool x ; x = true ; }`, scope.ModeFlat, diagnostics.ErrAssignmentType, 1)
	// names outlive their block
	checkOK(t, `int f ( ) { int y ; } int g ( ) { y = 1 ; }`, scope.ModeFlat)
	// two blocks at the same depth share one namespace
	checkFails(t, `int f ( ) { int y ; } int g ( ) { int y ; }`, scope.ModeFlat, diagnostics.ErrDuplicateVariable, 1)
}

func TestLexicalShadowing(t *testing.T) {
	checkOK(t, `int x ; int f ( ) { bool x ; x = true ; }`, scope.ModeLexical)
	checkOK(t, `int f ( int a ) { int b ; } int g ( int a ) { int b ; }`, scope.ModeLexical)
	checkOK(t, `int f ( int a ) ; int g ( int a ) { return a ; }`, scope.ModeLexical)
	checkFails(t, `int f ( ) { int y ; } int g ( ) { y = 1 ; }`, scope.ModeLexical, diagnostics.ErrAssignmentType, 1)
	checkFails(t, `int f ( int a ) { int a ; }`, scope.ModeLexical, diagnostics.ErrDuplicateVariable, 1)
}

func TestProcedureVisibility(t *testing.T) {
	// declared one level down, called from the top level
	checkFails(t, `{ int f ( ) { } } f ( ) ;`, scope.ModeFlat, diagnostics.ErrUnknownProcedure, 1)
	checkOK(t, `int f ( ) { } { f ( ) ; }`, scope.ModeFlat)
}

// --- Properties ---

func TestScopeDepthTracksBraces(t *testing.T) {
	// unbalanced on purpose: the depth dips below zero and ends at one
	src := "{ int a ; { } } } { int b ; { { int c ; }"
	toks := lexer.NewLexer(src).Tokenize()

	depth := 0
	for n := 0; n < len(toks)-1; n++ {
		switch {
		case toks[n].Is("{"):
			depth++
		case toks[n].Is("}"):
			depth--
		}
		prefix := append(append([]token.Token{}, toks[:n+1]...), token.Token{Type: token.TokenEOF})
		c := New(prefix, Options{})
		if err := c.Run(); err != nil {
			t.Fatalf("prefix %d: %v", n, err)
		}
		be.Equal(t, c.Depth(), depth)
	}
	be.Equal(t, depth, 1)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	c := checkOK(t, `int x; int * p; bool b;`, scope.ModeFlat)
	exprs := []string{
		`( x + 1 ) * 2 < 7 && b`,
		`^ ( p + x )`,
		`x + true`,
		`p * 2`,
	}
	for _, src := range exprs {
		toks := lexer.NewLexer(src).Tokenize()
		before := append([]token.Token{}, toks...)

		t1, err1 := c.Evaluate(toks)
		t2, err2 := c.Evaluate(toks)

		be.Equal(t, t1, t2)
		if diff := deep.Equal(err1, err2); diff != nil {
			t.Error(diff)
		}
		if diff := deep.Equal(toks, before); diff != nil {
			t.Errorf("%q: tokens changed: %v", src, diff)
		}
	}
}

func TestEvaluateTypes(t *testing.T) {
	c := checkOK(t, `int x; int * p; char ch; string s; bool b;`, scope.ModeFlat)
	tests := []struct {
		src  string
		want types.Type
	}{
		{`x`, types.Int},
		{`"text"`, types.String},
		{`'c'`, types.Char},
		{`3.14`, types.Double},
		{`true`, types.Bool},
		{`null`, types.Null},
		{`unknown`, types.Void},
		{`& x`, types.PointerTo(types.Int)},
		{`& ch`, types.PointerTo(types.Char)},
		{`^ p`, types.Int},
		{`s [ x + 1 ]`, types.Char},
		{`( p )`, types.PointerTo(types.Int)},
		{`p + 1`, types.PointerTo(types.Int)},
		{`| x - 9 |`, types.Int},
		{`x == 1 || b`, types.Bool},
		{`'a' != ch`, types.Bool},
	}
	for _, tt := range tests {
		got, err := c.Evaluate(lexer.NewLexer(tt.src).Tokenize())
		be.Err(t, err, nil)
		be.Equal(t, got, tt.want)
	}
}

func TestSymbols(t *testing.T) {
	c := checkOK(t, `int * p ; bool Flag ( int a , char * b ) { return true ; }`, scope.ModeLexical)
	want := []symbols.Symbol{
		{Name: "Flag", Type: types.Bool, Depth: 0, Line: 1, Function: true,
			ParamTypes: []types.Type{types.Int, types.PointerTo(types.Char)}},
		{Name: "p", Type: types.PointerTo(types.Int), Depth: 0, Line: 1},
	}
	if diff := deep.Equal(c.Symbols(), want); diff != nil {
		t.Error(diff)
	}
}

func TestNewAppendsEOF(t *testing.T) {
	toks := []token.Token{
		{Type: token.TokenWord, Literal: "int"},
		{Type: token.TokenWord, Literal: "x"},
		{Type: token.TokenOperator, Literal: ";"},
	}
	c := New(toks, Options{})
	be.Err(t, c.Run(), nil)
	be.Equal(t, len(toks), 3)
}

func TestUnexpectedEndNamesMissingCloser(t *testing.T) {
	tests := []struct {
		src    string
		detail string
	}{
		{`int x ; x = ( ( 1 ) ;`, "unexpected end of input, missing ')'"},
		{`string s ; char c ; c = s [ ( 0 ;`, "unexpected end of input, missing ')'"},
		{`string s ; char c ; c = s [ 0 ;`, "unexpected end of input, missing ']'"},
		{`int x ; x = 1`, "unexpected end of input, missing ';'"},
		{`int Main (`, "unexpected end of input, missing ')'"},
	}
	for _, tt := range tests {
		for _, mode := range []scope.Mode{scope.ModeFlat, scope.ModeLexical} {
			_, err := run(tt.src, mode)
			var d *diagnostics.Diagnostic
			if !errors.As(err, &d) {
				t.Fatalf("%q (%s): expected a diagnostic, got %v", tt.src, mode, err)
			}
			be.Equal(t, d.Code, diagnostics.ErrMalformed)
			be.Equal(t, d.Detail, tt.detail)
		}
	}
}
