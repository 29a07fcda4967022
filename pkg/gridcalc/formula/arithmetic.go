package formula

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/efp"
)

var (
	errUnexpectedEnd   = errors.New("unexpected end of expression")
	errUnbalancedParen = errors.New("unbalanced parenthesis")
)

// arithmetic evaluates an expression made of numbers, + - * /, unary minus
// and parentheses. Tokens come from the efp Excel formula tokenizer.
type arithmetic struct {
	tokens []efp.Token
	pos    int
}

// evalArithmetic evaluates a pure arithmetic expression such as "2+2*3".
func evalArithmetic(expr string) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tokenize %q: %v", expr, r)
		}
	}()

	ps := efp.ExcelParser()
	var tokens []efp.Token
	for _, tok := range ps.Parse(expr) {
		// efp reports a unary plus as a no-op token
		if tok.TType == efp.TokenTypeWhitespace || tok.TType == efp.TokenTypeNoop {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return 0, errUnexpectedEnd
	}

	a := &arithmetic{tokens: tokens}
	v, err = a.expression()
	if err != nil {
		return 0, err
	}
	if a.pos != len(a.tokens) {
		return 0, fmt.Errorf("unexpected token %q", a.tokens[a.pos].TValue)
	}
	return v, nil
}

func (a *arithmetic) peek() (efp.Token, bool) {
	if a.pos >= len(a.tokens) {
		return efp.Token{}, false
	}
	return a.tokens[a.pos], true
}

func (a *arithmetic) infix(ops ...string) (string, bool) {
	tok, ok := a.peek()
	if !ok || tok.TType != efp.TokenTypeOperatorInfix {
		return "", false
	}
	for _, op := range ops {
		if tok.TValue == op {
			a.pos++
			return op, true
		}
	}
	return "", false
}

// expression := term (("+" | "-") term)*
func (a *arithmetic) expression() (float64, error) {
	left, err := a.term()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := a.infix("+", "-")
		if !ok {
			return left, nil
		}
		right, err := a.term()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

// term := unary (("*" | "/") unary)*
func (a *arithmetic) term() (float64, error) {
	left, err := a.unary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := a.infix("*", "/")
		if !ok {
			return left, nil
		}
		right, err := a.unary()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			left *= right
		} else {
			left /= right
		}
	}
}

// unary := ("-" | "+") unary | primary
func (a *arithmetic) unary() (float64, error) {
	tok, ok := a.peek()
	if !ok {
		return 0, errUnexpectedEnd
	}
	if tok.TType == efp.TokenTypeOperatorPrefix && (tok.TValue == "-" || tok.TValue == "+") {
		a.pos++
		v, err := a.unary()
		if tok.TValue == "-" {
			v = -v
		}
		return v, err
	}
	return a.primary()
}

// primary := number | "(" expression ")"
func (a *arithmetic) primary() (float64, error) {
	tok, ok := a.peek()
	if !ok {
		return 0, errUnexpectedEnd
	}
	a.pos++

	switch {
	case tok.TType == efp.TokenTypeOperand:
		v, err := strconv.ParseFloat(tok.TValue, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", tok.TValue)
		}
		return v, nil
	case tok.TType == efp.TokenTypeSubexpression && tok.TSubType == efp.TokenSubTypeStart:
		v, err := a.expression()
		if err != nil {
			return 0, err
		}
		closing, ok := a.peek()
		if !ok || closing.TType != efp.TokenTypeSubexpression || closing.TSubType != efp.TokenSubTypeStop {
			return 0, errUnbalancedParen
		}
		a.pos++
		return v, nil
	}
	return 0, fmt.Errorf("unexpected token %q", tok.TValue)
}
