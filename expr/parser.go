package expr

import (
	"fmt"
	"strconv"
)

// Parser builds an expression tree from lexer tokens.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
}

// NewParser creates a parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

// Parse parses a complete expression. Trailing input is an error.
func (p *Parser) Parse() (Node, error) {
	node, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token %q at position %d", p.cur.Literal, p.cur.Pos)
	}
	return node, nil
}

// precedence returns the binding power of a binary operator, 0 for
// non-operators. Higher binds tighter.
func precedence(tok Token) int {
	if tok.Type != TokenOperator {
		return 0
	}
	switch tok.Literal {
	case "||":
		return 1
	case "&&":
		return 2
	case "==", "!=":
		return 3
	case "<", ">", "<=", ">=":
		return 4
	case "+", "-":
		return 5
	case "*", "/", "%":
		return 6
	default:
		return 0
	}
}

// parseBinary implements precedence climbing over parseUnary.
func (p *Parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec := precedence(p.cur)
		if prec == 0 || prec <= minPrec {
			return left, nil
		}
		op := p.cur.Literal
		p.nextToken()

		right, err := p.parseBinary(prec)
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (Node, error) {
	if p.cur.Type == TokenOperator && (p.cur.Literal == "!" || p.cur.Literal == "-") {
		op := p.cur.Literal
		p.nextToken()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		// Fold unary minus on literals so "-5" parses to a single node.
		if op == "-" {
			if lit, ok := operand.(*NumberLit); ok {
				return &NumberLit{Value: -lit.Value}, nil
			}
		}
		return &UnaryOp{Op: op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	switch p.cur.Type {
	case TokenNumber:
		v, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", p.cur.Literal, p.cur.Pos)
		}
		p.nextToken()
		return &NumberLit{Value: v}, nil

	case TokenString:
		node := &StringLit{Value: p.cur.Literal}
		p.nextToken()
		return node, nil

	case TokenIdent:
		name := p.cur.Literal
		if name == "true" || name == "false" {
			p.nextToken()
			return &BoolLit{Value: name == "true"}, nil
		}
		p.nextToken()
		if p.cur.Type == TokenLParen {
			return p.parseCall(name)
		}
		return &Identifier{Name: name}, nil

	case TokenLParen:
		p.nextToken()
		node, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		if p.cur.Type != TokenRParen {
			return nil, fmt.Errorf("expected ')' at position %d, got %q", p.cur.Pos, p.cur.Literal)
		}
		p.nextToken()
		return node, nil

	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of expression")

	default:
		return nil, fmt.Errorf("unexpected token %q at position %d", p.cur.Literal, p.cur.Pos)
	}
}

func (p *Parser) parseCall(name string) (Node, error) {
	p.nextToken() // consume (

	call := &CallExpr{Func: name}
	if p.cur.Type == TokenRParen {
		p.nextToken()
		return call, nil
	}

	for {
		arg, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		if p.cur.Type == TokenComma {
			p.nextToken()
			continue
		}
		if p.cur.Type == TokenRParen {
			p.nextToken()
			return call, nil
		}
		return nil, fmt.Errorf("expected ',' or ')' in call to %s at position %d", name, p.cur.Pos)
	}
}
