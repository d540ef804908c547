package token

type TokenType string

const (
	TokenWord     TokenType = "WORD"     // identifier, keyword or literal
	TokenOperator TokenType = "OPERATOR" // one or two character operator/delimiter
	TokenNewline  TokenType = "NEWLINE"  // line counter signal only
	TokenEOF      TokenType = "EOF"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Is reports whether the token's raw text equals lit.
func (t Token) Is(lit string) bool {
	return t.Literal == lit && t.Type != TokenEOF
}

func (t Token) IsWord() bool {
	return t.Type == TokenWord
}

func (t Token) IsNewline() bool {
	return t.Type == TokenNewline
}

func (t Token) IsEOF() bool {
	return t.Type == TokenEOF
}

// IsTypeKeyword reports whether the token names a built-in data type.
func (t Token) IsTypeKeyword() bool {
	return t.Type == TokenWord && typeKeywords[t.Literal]
}

func (t Token) IsKeyword() bool {
	return t.Type == TokenWord && keywords[t.Literal]
}

// IsCallable reports whether the token could name a procedure: a word that is
// neither a keyword nor a literal.
func (t Token) IsCallable() bool {
	if t.Type != TokenWord || keywords[t.Literal] || t.Literal == "" {
		return false
	}
	c := t.Literal[0]
	if c >= '0' && c <= '9' {
		return false
	}
	for i := 0; i < len(t.Literal); i++ {
		if t.Literal[i] == '"' || t.Literal[i] == '\'' {
			return false
		}
	}
	return true
}

// typeKeywords are the data types a declaration can start with.
var typeKeywords = map[string]bool{
	"int":    true,
	"char":   true,
	"double": true,
	"float":  true,
	"short":  true,
	"long":   true,
	"void":   true,
	"bool":   true,
	"string": true,
}

// keywords are reserved words; none of them can be called as a procedure.
var keywords = map[string]bool{
	"int":    true,
	"char":   true,
	"double": true,
	"short":  true,
	"long":   true,
	"void":   true,
	"class":  true,
	"switch": true,
	"case":   true,
	"bool":   true,
	"float":  true,
	"string": true,
	"return": true,
	"break":  true,
	"if":     true,
	"else":   true,
	"while":  true,
	"for":    true,
	"true":   true,
	"false":  true,
	"null":   true,
}
