package calculator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// operandPattern is every number shape a Session can put on the display.
var operandPattern = regexp.MustCompile(`^-?\d+(\.\d*)?(e[+-]\d+)?$`)

var glyphNormalizer = strings.NewReplacer("×", "*", "÷", "/", minusSign, "-")

// Tokenize normalizes operator glyphs to their ASCII tokens and splits expr
// on whitespace. Operands and operators are space separated on the display,
// so this is only safe for expressions rendered by a Session.
func Tokenize(expr string) []string {
	return strings.Fields(glyphNormalizer.Replace(expr))
}

// Evaluate reduces a display expression strictly left to right, ignoring
// conventional precedence: "3 + 4 × 2" is 14. A trailing operator awaiting
// its right-hand operand is dropped. An expression with nothing left to
// reduce yields ErrEmptyExpression. Operands must be plain decimals and
// must alternate with operators; anything else is InvalidOperand.
func Evaluate(expr string) (float64, error) {
	tokens := Tokenize(expr)
	if n := len(tokens); n > 0 {
		if _, ok := canonicalOperators[tokens[n-1]]; ok {
			tokens = tokens[:n-1]
		}
	}
	if len(tokens) == 0 {
		return 0, ErrEmptyExpression
	}

	acc, err := parseOperand(tokens[0])
	if err != nil {
		return 0, err
	}

	for i := 1; i < len(tokens); i += 2 {
		op, ok := canonicalOperators[tokens[i]]
		if !ok {
			return 0, &Error{Kind: UnknownOperator, Detail: fmt.Sprintf("%q at token %d", tokens[i], i)}
		}
		if i+1 == len(tokens) {
			return 0, &Error{Kind: InvalidOperand, Detail: fmt.Sprintf("missing operand after %q", tokens[i])}
		}

		b, err := parseOperand(tokens[i+1])
		if err != nil {
			return 0, err
		}
		if acc, err = Apply(acc, op, b); err != nil {
			return 0, err
		}
	}

	return acc, nil
}

func parseOperand(tok string) (float64, error) {
	if !operandPattern.MatchString(tok) {
		return 0, &Error{Kind: InvalidOperand, Detail: fmt.Sprintf("%q", tok)}
	}
	x, err := strconv.ParseFloat(tok, 64)
	if err != nil || !isFinite(x) {
		return 0, &Error{Kind: InvalidOperand, Detail: fmt.Sprintf("%q", tok)}
	}
	return x, nil
}
