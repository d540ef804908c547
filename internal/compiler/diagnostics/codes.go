package diagnostics

// Code identifies one kind of type-check failure. The numbering is part of
// the output format and never changes.
type Code int

const (
	ErrMultipleMain       Code = 1
	ErrMainArguments      Code = 2
	ErrDuplicateProcedure Code = 3
	ErrDuplicateVariable  Code = 4
	ErrUnknownProcedure   Code = 5
	ErrArgumentCount      Code = 6
	ErrArgumentType       Code = 7
	ErrReturnType         Code = 8
	ErrCallAssignment     Code = 9
	ErrIfCondition        Code = 10
	ErrWhileCondition     Code = 11
	ErrIndexType          Code = 12
	ErrNotIndexable       Code = 13
	ErrAssignmentType     Code = 14
	ErrOperandType        Code = 15
	ErrPointerArithmetic  Code = 16
	ErrAddressOf          Code = 17
	ErrDereference        Code = 18
	ErrMalformed          Code = 19
)

type codeInfo struct {
	name    string
	message string
}

var codeTable = map[Code]codeInfo{
	ErrMultipleMain:       {"multiple-main", "Multiple Main cannot exist."},
	ErrMainArguments:      {"main-arguments", "Main cannot have arguments."},
	ErrDuplicateProcedure: {"duplicate-procedure", "Procedure appears multiple times."},
	ErrDuplicateVariable:  {"duplicate-variable", "Variable appears multiple times."},
	ErrUnknownProcedure:   {"unknown-procedure", "This procedure does not exist in the current scope."},
	ErrArgumentCount:      {"argument-count", "The number of arguments passed is incorrect."},
	ErrArgumentType:       {"argument-type", "The type of the arguments passed are incorrect."},
	ErrReturnType:         {"return-type", "Invalid return type."},
	ErrCallAssignment:     {"call-assignment", "This procedure does not return the same data type as what it is being assigned to."},
	ErrIfCondition:        {"if-condition", "if statement arguments must be of type bool."},
	ErrWhileCondition:     {"while-condition", "while statement arguments must be of type bool."},
	ErrIndexType:          {"index-type", "Cannot use a non-integer value to index a String."},
	ErrNotIndexable:       {"not-indexable", "Non-String variables cannot be indexed."},
	ErrAssignmentType:     {"assignment-type", "Invalid assignment due to mismatched data types."},
	ErrOperandType:        {"operand-type", "Incorrect operands."},
	ErrPointerArithmetic:  {"pointer-arithmetic", "Can only add and subtract to pointers."},
	ErrAddressOf:          {"address-of", "Cannot use addressOf on non-integer/char/string-index values."},
	ErrDereference:        {"dereference", "Cannot use deref on non-integer-pointer/char-pointer values."},
	ErrMalformed:          {"malformed", "Malformed input."},
}

// Name is the short kebab-case identifier of the code, e.g. "assignment-type".
func (c Code) Name() string {
	if info, ok := codeTable[c]; ok {
		return info.name
	}
	return "unknown"
}

// Message is the fixed human-readable text printed for the code.
func (c Code) Message() string {
	if info, ok := codeTable[c]; ok {
		return info.message
	}
	return "Unknown error."
}

// Codes lists every defined code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeTable))
	for c := ErrMultipleMain; c <= ErrMalformed; c++ {
		out = append(out, c)
	}
	return out
}
