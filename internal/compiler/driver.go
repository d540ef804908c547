package compiler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arnavsurve/csimple/internal/compiler/checker"
	"github.com/arnavsurve/csimple/internal/compiler/diagnostics"
	"github.com/arnavsurve/csimple/internal/compiler/lexer"
	"github.com/arnavsurve/csimple/internal/compiler/scope"
	"github.com/arnavsurve/csimple/internal/compiler/source"
	"github.com/arnavsurve/csimple/internal/compiler/symbols"
	"github.com/arnavsurve/csimple/internal/compiler/token"
)

type Options struct {
	Shadowing  scope.Mode
	Extensions []string // accepted source extensions; empty accepts any
}

// Result is the outcome of checking one program.
type Result struct {
	Name       string
	Diagnostic *diagnostics.Diagnostic // nil when the program type-checks
	Symbols    []symbols.Symbol
}

func (r *Result) Failed() bool {
	return r.Diagnostic != nil
}

// CheckFile type-checks the program at path.
func CheckFile(path string, opts Options, sink diagnostics.Sink) (*Result, error) {
	if err := validateExtension(path, opts.Extensions); err != nil {
		return nil, err
	}
	return Check(source.File{Path: path}, opts, sink)
}

// CheckRevision type-checks path as committed at rev in the repository
// containing repoDir.
func CheckRevision(repoDir, rev, path string, opts Options, sink diagnostics.Sink) (*Result, error) {
	if err := validateExtension(path, opts.Extensions); err != nil {
		return nil, err
	}
	return Check(source.GitRevision{RepoDir: repoDir, Revision: rev, Path: path}, opts, sink)
}

// Check reads the program from p, checks it and hands the outcome to sink.
// The returned error is only for failures to obtain the program; a type
// error is reported through sink and Result.Diagnostic.
func Check(p source.Provider, opts Options, sink diagnostics.Sink) (*Result, error) {
	content, err := readSource(p)
	if err != nil {
		return nil, err
	}

	res := &Result{Name: p.Name()}
	c, err := runChecker(content, opts)
	res.Symbols = c.Symbols()
	if err != nil {
		var d *diagnostics.Diagnostic
		if !errors.As(err, &d) {
			return nil, err
		}
		res.Diagnostic = d
		if sink != nil {
			sink.Report(*d)
		}
		return res, nil
	}
	if sink != nil {
		sink.Success()
	}
	return res, nil
}

// CheckSource type-checks src held in memory.
func CheckSource(src string, opts Options) error {
	_, err := runChecker(src, opts)
	return err
}

// Tokens lexes the program from p.
func Tokens(p source.Provider) ([]token.Token, error) {
	content, err := readSource(p)
	if err != nil {
		return nil, err
	}
	return lexer.NewLexer(content).Tokenize(), nil
}

func validateExtension(path string, exts []string) error {
	if len(exts) == 0 {
		return nil
	}
	ext := filepath.Ext(path)
	for _, want := range exts {
		if ext == want {
			return nil
		}
	}
	return fmt.Errorf("source %s must have %s extension", path, strings.Join(exts, " or "))
}

func readSource(p source.Provider) (string, error) {
	content, err := p.Text()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p.Name(), err)
	}
	return content, nil
}

func runChecker(src string, opts Options) (*checker.Checker, error) {
	toks := lexer.NewLexer(src).Tokenize()
	c := checker.New(toks, checker.Options{Shadowing: opts.Shadowing})
	return c, c.Run()
}
