package lexer

import "github.com/arnavsurve/csimple/internal/compiler/token"

type Lexer struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char

	line   int // current line number (1-indexed)
	column int // current column number (1-indexed)

	tokens []token.Token

	// word being accumulated and where it started
	word     []byte
	wordLine int
	wordCol  int
	inString bool
	inChar   bool
	inNumber bool
	prevSolo bool // previous char was emitted as a one-char operator token
	prevChar byte
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.ResetPosition()
	return l
}

// ResetPosition rewinds the lexer to the start of its input.
func (l *Lexer) ResetPosition() {
	l.position = 0
	l.readPosition = 0
	l.line = 1
	l.column = 0 // readChar increments this to 1, so start at 0
	l.ch = 0
	l.tokens = nil
	l.word = l.word[:0]
	l.inString, l.inChar, l.inNumber, l.prevSolo = false, false, false, false
	l.prevChar = 0
}

// readChar advances to the next character, tracking line/column of the
// character it lands on. It returns false at end of input.
func (l *Lexer) readChar() bool {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return false
	}

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
	l.column++
	return true
}

// Tokenize scans the whole input and returns the token sequence, always
// terminated by a single EOF token. Calling it again re-scans from the start.
func (l *Lexer) Tokenize() []token.Token {
	l.ResetPosition()

	for l.readChar() {
		if !IsOperator(l.ch) || l.inString || l.inChar || (l.inNumber && l.ch == '.') {
			l.absorb()
		} else {
			l.operator()
		}
		l.prevChar = l.ch
	}

	l.flushWord()
	l.tokens = append(l.tokens, token.Token{Type: token.TokenEOF, Literal: "", Line: l.line, Column: l.column + 1})

	out := l.tokens
	l.tokens = nil
	return out
}

// absorb appends the current character to the pending word.
func (l *Lexer) absorb() {
	if len(l.word) == 0 {
		l.wordLine = l.line
		l.wordCol = l.column
	}
	l.word = append(l.word, l.ch)

	switch {
	case l.ch == '"' && !l.inChar:
		l.inString = !l.inString
	case l.ch == '\'' && !l.inString:
		l.inChar = !l.inChar
	case isDigit(l.ch):
		l.inNumber = true
	}
	l.prevSolo = false
}

func (l *Lexer) operator() {
	l.flushWord()

	pair := string([]byte{l.prevChar, l.ch})
	switch {
	case l.prevSolo && twoCharOps[pair]:
		last := &l.tokens[len(l.tokens)-1]
		last.Literal = pair
		l.prevSolo = false
	case l.ch == '\n':
		l.tokens = append(l.tokens, l.newToken(token.TokenNewline, "\n", l.line, l.column))
		l.prevSolo = false
	case isWhitespace(l.ch):
		l.prevSolo = false
	default:
		l.tokens = append(l.tokens, l.newToken(token.TokenOperator, string(l.ch), l.line, l.column))
		l.prevSolo = true
	}

	l.inString = false
	l.inChar = false
	if l.ch != '.' {
		l.inNumber = false
	}
}

func (l *Lexer) flushWord() {
	if len(l.word) == 0 {
		return
	}
	l.tokens = append(l.tokens, l.newToken(token.TokenWord, string(l.word), l.wordLine, l.wordCol))
	l.word = l.word[:0]
	l.inNumber = false
}

// newToken is a helper to create a token.Token struct
func (l *Lexer) newToken(tokenType token.TokenType, literal string, line, col int) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Line: line, Column: col}
}

// IsOperator reports whether ch ends a word. Whitespace counts as an operator
// for that purpose even though only newlines are ever emitted.
func IsOperator(ch byte) bool {
	return operators[ch]
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

var operators = map[byte]bool{
	'+': true, '-': true, '*': true, '/': true, '=': true, '<': true, '>': true,
	'!': true, '.': true, '(': true, ')': true, '{': true, '}': true, ';': true,
	'^': true, '%': true, ':': true, ',': true, '?': true, '[': true, ']': true,
	'&': true, '|': true,
	' ': true, '\t': true, '\n': true, '\r': true,
}

// twoCharOps are merged from two adjacent one-char operator tokens.
var twoCharOps = map[string]bool{
	"&&": true, "||": true, "==": true, "<=": true, ">=": true, "!=": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "->": true,
	"++": true, "--": true, "<<": true, ">>": true, "::": true,
}
