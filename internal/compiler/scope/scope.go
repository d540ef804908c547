package scope

import (
	"fmt"
	"sort"

	"github.com/arnavsurve/csimple/internal/compiler/symbols"
)

// Mode selects how names are bound across nested blocks.
type Mode string

const (
	// ModeFlat keeps one namespace for the whole program; the first
	// declaration of a name stays authoritative.
	ModeFlat Mode = "flat"
	// ModeLexical keeps a frame per block; inner declarations shadow outer
	// ones and are dropped when the block closes.
	ModeLexical Mode = "lexical"
)

// ParseMode validates a mode name. The empty string selects ModeFlat.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFlat:
		return ModeFlat, nil
	case ModeLexical:
		return ModeLexical, nil
	}
	return "", fmt.Errorf("unknown shadowing mode %q (want %q or %q)", s, ModeFlat, ModeLexical)
}

// --- Scope ---
type Scope struct {
	Symbols map[string]symbols.Symbol
	Outer   *Scope
	Depth   int
}

func NewScope(outer *Scope, depth int) *Scope {
	return &Scope{
		Symbols: make(map[string]symbols.Symbol),
		Outer:   outer,
		Depth:   depth,
	}
}

// Define adds a symbol ONLY to this scope level.
func (s *Scope) Define(sym symbols.Symbol) error {
	if existing, exists := s.LookupCurrentScope(sym.Name); exists {
		return &DuplicateError{Name: sym.Name, Existing: existing, SameScope: existing.Depth == sym.Depth}
	}
	s.Symbols[sym.Name] = sym
	return nil
}

// Lookup searches for a symbol starting from this scope and traversing outwards.
func (s *Scope) Lookup(name string) (symbols.Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Outer {
		if info, ok := scope.Symbols[name]; ok {
			return info, true
		}
	}
	return symbols.Symbol{}, false
}

// LookupCurrentScope checks ONLY this scope level.
func (s *Scope) LookupCurrentScope(name string) (symbols.Symbol, bool) {
	info, ok := s.Symbols[name]
	return info, ok
}

// DuplicateError is returned by Declare when the name is already bound.
// The table is left unchanged.
type DuplicateError struct {
	Name      string
	Existing  symbols.Symbol
	SameScope bool // existing declaration sits at the same depth
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("symbol '%s' already declared at depth %d", e.Name, e.Existing.Depth)
}

// --- Table ---

// Table is the symbol table of one checking run together with its scope
// depth counter.
type Table struct {
	mode    Mode
	depth   int
	global  *Scope
	current *Scope
	pending *Scope // parameter frame waiting for the body's '{'
}

func NewTable(mode Mode) *Table {
	if mode == "" {
		mode = ModeFlat
	}
	global := NewScope(nil, 0)
	return &Table{mode: mode, global: global, current: global}
}

// Depth is the number of '{' minus the number of '}' seen so far.
func (t *Table) Depth() int {
	return t.depth
}

// Enter opens a block. In lexical mode a pending parameter frame becomes the
// block's frame.
func (t *Table) Enter() {
	t.depth++
	if t.mode != ModeLexical {
		return
	}
	if t.pending != nil {
		t.current = t.pending
		t.pending = nil
		return
	}
	t.current = NewScope(t.current, t.depth)
}

// Exit closes a block. The depth counter follows the input even when it
// is unbalanced; the global frame is never popped.
func (t *Table) Exit() {
	t.depth--
	if t.mode != ModeLexical {
		return
	}
	t.pending = nil
	if t.current.Outer != nil {
		t.current = t.current.Outer
	}
}

// BeginParams opens the frame that a procedure's parameters are declared
// in. No-op in flat mode.
func (t *Table) BeginParams() {
	if t.mode != ModeLexical {
		return
	}
	t.pending = NewScope(t.current, t.depth+1)
}

// CancelParams drops a parameter frame that was never followed by a body.
func (t *Table) CancelParams() {
	t.pending = nil
}

// ParamsPending reports whether declarations currently land in a parameter frame.
func (t *Table) ParamsPending() bool {
	return t.pending != nil
}

// DeclDepth is the depth a declaration made now is recorded at.
func (t *Table) DeclDepth() int {
	if t.pending != nil {
		return t.pending.Depth
	}
	return t.depth
}

// Declare stores sym. Flat mode rejects a name bound anywhere; lexical
// mode rejects one bound in the innermost frame.
func (t *Table) Declare(sym symbols.Symbol) error {
	switch {
	case t.mode != ModeLexical:
		return t.global.Define(sym)
	case t.pending != nil:
		return t.pending.Define(sym)
	default:
		return t.current.Define(sym)
	}
}

// Lookup resolves a name. Flat mode ignores depth entirely.
func (t *Table) Lookup(name string) (symbols.Symbol, bool) {
	if t.pending != nil {
		return t.pending.Lookup(name)
	}
	return t.current.Lookup(name)
}

// Symbols returns every symbol reachable from the innermost frame, sorted by name.
func (t *Table) Symbols() []symbols.Symbol {
	seen := make(map[string]bool)
	var out []symbols.Symbol
	start := t.current
	if t.pending != nil {
		start = t.pending
	}
	for scope := start; scope != nil; scope = scope.Outer {
		for name, sym := range scope.Symbols {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
