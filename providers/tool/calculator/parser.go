package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The expression grammar is deliberately tiny: numbers, whitelisted names,
// the arithmetic operators + - * / % // **, unary sign, calls, and
// parentheses. Everything else fails at the lexer or parser stage, so the
// evaluator only ever sees the five node kinds below.
//
//	additive       := multiplicative { ("+" | "-") multiplicative }
//	multiplicative := unary { ("*" | "/" | "//" | "%") unary }
//	unary          := ("+" | "-") unary | power
//	power          := primary [ "**" unary ]
//	primary        := NUMBER | NAME [ "(" [ additive { "," additive } ] ")" ] | "(" additive ")"
//
// "**" is right-associative and binds tighter than unary minus on its left,
// matching conventional mathematical notation: -2**2 is -(2**2).

// expr is the tagged expression tree produced by the parser.
type expr interface {
	isExpr()
}

type literalExpr struct {
	value float64
}

type nameExpr struct {
	name string
}

type unaryExpr struct {
	op      string // "+" or "-"
	operand expr
}

type binaryExpr struct {
	op    string // "+", "-", "*", "/", "//", "%", "**"
	left  expr
	right expr
}

type callExpr struct {
	callee expr
	args   []expr
}

func (literalExpr) isExpr() {}
func (nameExpr) isExpr()    {}
func (unaryExpr) isExpr()   {}
func (binaryExpr) isExpr()  {}
func (callExpr) isExpr()    {}

/*
	LEXER
*/

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenName
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenComma
	tokenEOF
)

type token struct {
	kind  tokenKind
	text  string
	value float64 // set for tokenNumber
}

// tokenize splits the expression into tokens, rejecting any character outside
// the restricted grammar. String literals, comparison operators, attribute
// access and every other construct fail here with an unexpected-character
// error.
func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0

	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case unicode.IsDigit(r) || (r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			i = scanNumber(runes, i)
			text := string(runes[start:i])
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number '%s'", text)
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text, value: value})

		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokenName, text: string(runes[start:i])})

		case r == '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				tokens = append(tokens, token{kind: tokenOperator, text: "**"})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenOperator, text: "*"})
				i++
			}

		case r == '/':
			if i+1 < len(runes) && runes[i+1] == '/' {
				tokens = append(tokens, token{kind: tokenOperator, text: "//"})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenOperator, text: "/"})
				i++
			}

		case r == '+' || r == '-' || r == '%':
			tokens = append(tokens, token{kind: tokenOperator, text: string(r)})
			i++

		case r == '(':
			tokens = append(tokens, token{kind: tokenLeftParen, text: "("})
			i++

		case r == ')':
			tokens = append(tokens, token{kind: tokenRightParen, text: ")"})
			i++

		case r == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ","})
			i++

		default:
			return nil, fmt.Errorf("unexpected character '%c'", r)
		}
	}

	tokens = append(tokens, token{kind: tokenEOF, text: "end of expression"})
	return tokens, nil
}

// scanNumber consumes a numeric literal (digits, optional fraction, optional
// exponent) starting at position i and returns the position after it.
func scanNumber(runes []rune, i int) int {
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		i++
	}
	if i < len(runes) && runes[i] == '.' {
		i++
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			i++
		}
	}
	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		if j < len(runes) && unicode.IsDigit(runes[j]) {
			i = j
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
		}
	}
	return i
}

/*
	PARSER
*/

type parser struct {
	tokens []token
	pos    int
}

// parseExpression parses input into an expression tree. Empty or
// whitespace-only input, trailing tokens, and any construct outside the
// grammar are parse errors.
func parseExpression(input string) (expr, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.New("empty expression")
	}

	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	node, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if p.peek().kind != tokenEOF {
		return nil, fmt.Errorf("unexpected token '%s'", p.peek().text)
	}

	return node, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

// acceptOperator consumes the current token when it is one of the given
// operators and returns its text.
func (p *parser) acceptOperator(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokenOperator {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.next()
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseAdditive() (expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.acceptOperator("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.acceptOperator("*", "/", "//", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (expr, error) {
	if op, ok := p.acceptOperator("+", "-"); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryExpr{op: op, operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	// Right-associative: the exponent is a unary expression, so 2**-3 and
	// 2**3**2 parse the conventional way.
	if _, ok := p.acceptOperator("**"); ok {
		exponent, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryExpr{op: "**", left: base, right: exponent}, nil
	}

	return base, nil
}

func (p *parser) parsePrimary() (expr, error) {
	t := p.next()

	switch t.kind {
	case tokenNumber:
		return literalExpr{value: t.value}, nil

	case tokenName:
		name := nameExpr{name: t.text}
		if p.peek().kind != tokenLeftParen {
			return name, nil
		}
		p.next() // consume '('
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return callExpr{callee: name, args: args}, nil

	case tokenLeftParen:
		node, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRightParen {
			return nil, fmt.Errorf("expected ')', got '%s'", closing.text)
		}
		return node, nil

	case tokenEOF:
		return nil, errors.New("unexpected end of expression")

	default:
		return nil, fmt.Errorf("unexpected token '%s'", t.text)
	}
}

// parseCallArgs parses a comma-separated argument list; the opening
// parenthesis has already been consumed.
func (p *parser) parseCallArgs() ([]expr, error) {
	args := []expr{}

	if p.peek().kind == tokenRightParen {
		p.next()
		return args, nil
	}

	for {
		arg, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch closing := p.next(); closing.kind {
		case tokenRightParen:
			return args, nil
		case tokenComma:
			continue
		default:
			return nil, fmt.Errorf("expected ')' or ',', got '%s'", closing.text)
		}
	}
}
