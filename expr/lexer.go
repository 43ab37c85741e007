// Package expr implements the expression language embedded in instruction
// parameters: literals, variable/object references, operators and calls.
package expr

import (
	"fmt"
	"unicode"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber    // 123, -456
	TokenString    // "..."
	TokenIdent     // variable or function name
	TokenOperator  // + - * / % ! && || == != < > <= >=
	TokenLParen    // (
	TokenRParen    // )
	TokenComma     // ,
	TokenIllegal   // unrecognized input
)

// Token represents a single token from the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d}", t.Type, t.Literal, t.Pos)
}

// Lexer tokenizes expression input.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.pos
	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF, Literal: "", Pos: pos}
	case '(':
		tok = Token{Type: TokenLParen, Literal: "(", Pos: pos}
		l.readChar()
	case ')':
		tok = Token{Type: TokenRParen, Literal: ")", Pos: pos}
		l.readChar()
	case ',':
		tok = Token{Type: TokenComma, Literal: ",", Pos: pos}
		l.readChar()
	case '"':
		l.readChar() // consume opening quote
		literal := l.readString('"')
		tok = Token{Type: TokenString, Literal: literal, Pos: pos}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = Token{Type: TokenOperator, Literal: "&&", Pos: pos}
			l.readChar()
		} else {
			tok = Token{Type: TokenIllegal, Literal: "&", Pos: pos}
			l.readChar()
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = Token{Type: TokenOperator, Literal: "||", Pos: pos}
			l.readChar()
		} else {
			tok = Token{Type: TokenIllegal, Literal: "|", Pos: pos}
			l.readChar()
		}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenOperator, Literal: "==", Pos: pos}
			l.readChar()
		} else {
			tok = Token{Type: TokenIllegal, Literal: "=", Pos: pos}
			l.readChar()
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenOperator, Literal: "!=", Pos: pos}
			l.readChar()
		} else {
			tok = Token{Type: TokenOperator, Literal: "!", Pos: pos}
			l.readChar()
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenOperator, Literal: "<=", Pos: pos}
			l.readChar()
		} else {
			tok = Token{Type: TokenOperator, Literal: "<", Pos: pos}
			l.readChar()
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenOperator, Literal: ">=", Pos: pos}
			l.readChar()
		} else {
			tok = Token{Type: TokenOperator, Literal: ">", Pos: pos}
			l.readChar()
		}
	case '+', '-', '*', '/', '%':
		tok = Token{Type: TokenOperator, Literal: string(l.ch), Pos: pos}
		l.readChar()
	default:
		if isDigit(l.ch) {
			return Token{Type: TokenNumber, Literal: l.readNumber(), Pos: pos}
		}
		if isIdentStart(l.ch) {
			return Token{Type: TokenIdent, Literal: l.readIdent(), Pos: pos}
		}
		tok = Token{Type: TokenIllegal, Literal: string(l.ch), Pos: pos}
		l.readChar()
	}

	return tok
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readString(quote byte) string {
	var result []byte
	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			default:
				result = append(result, l.ch)
			}
		} else {
			result = append(result, l.ch)
		}
		l.readChar()
	}
	if l.ch == quote {
		l.readChar() // consume closing quote
	}
	return string(result)
}

func isIdentStart(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isIdentChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_' || ch == '.'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens
}
