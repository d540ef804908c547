// Package types is the closed set of static types the checker reasons about.
package types

// Kind enumerates the type variants.
type Kind int

const (
	KindError Kind = iota // analysis failed; never stored in a symbol
	KindVoid
	KindInt
	KindChar
	KindDouble
	KindFloat
	KindShort
	KindLong
	KindBool
	KindString
	KindPointer
	KindNull // pointer with no base type
)

// Type is a comparable value: two types are equal iff they are ==.
// Base is only set for KindPointer.
type Type struct {
	Kind Kind
	Base Kind
}

var (
	Error  = Type{Kind: KindError}
	Void   = Type{Kind: KindVoid}
	Int    = Type{Kind: KindInt}
	Char   = Type{Kind: KindChar}
	Double = Type{Kind: KindDouble}
	Float  = Type{Kind: KindFloat}
	Short  = Type{Kind: KindShort}
	Long   = Type{Kind: KindLong}
	Bool   = Type{Kind: KindBool}
	String = Type{Kind: KindString}
	Null   = Type{Kind: KindNull}
)

// PointerTo wraps a non-pointer type. Pointers to pointers and to the
// sentinel kinds are not representable and collapse to Null.
func PointerTo(t Type) Type {
	if t.Kind == KindPointer || t.Kind == KindNull || t.Kind == KindError {
		return Null
	}
	return Type{Kind: KindPointer, Base: t.Kind}
}

func (t Type) IsPointer() bool {
	return t.Kind == KindPointer
}

// IsPointerLike is true for real pointers and the null pointer.
func (t Type) IsPointerLike() bool {
	return t.Kind == KindPointer || t.Kind == KindNull
}

// Elem returns the pointed-to type of a pointer, or Error.
func (t Type) Elem() Type {
	if t.Kind != KindPointer {
		return Error
	}
	return Type{Kind: t.Base}
}

// AcceptsNull reports whether a null pointer may stand in for t.
func (t Type) AcceptsNull() bool {
	return t == PointerTo(Int) || t == PointerTo(Char)
}

func (t Type) String() string {
	switch t.Kind {
	case KindPointer:
		return "*" + kindNames[t.Base]
	case KindNull:
		return "*null"
	default:
		return kindNames[t.Kind]
	}
}

var kindNames = map[Kind]string{
	KindError:  "error",
	KindVoid:   "void",
	KindInt:    "int",
	KindChar:   "char",
	KindDouble: "double",
	KindFloat:  "float",
	KindShort:  "short",
	KindLong:   "long",
	KindBool:   "bool",
	KindString: "string",
}

var keywordTypes = map[string]Type{
	"int":    Int,
	"char":   Char,
	"double": Double,
	"float":  Float,
	"short":  Short,
	"long":   Long,
	"void":   Void,
	"bool":   Bool,
	"string": String,
}

// FromKeyword maps a type keyword such as "int" to its Type.
func FromKeyword(kw string) (Type, bool) {
	t, ok := keywordTypes[kw]
	return t, ok
}
