package calculator

import (
	"fmt"
	"math"
	"strings"
)

// Operator is a binary operator awaiting its right-hand operand.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	// OpPercent applies the left operand as a percentage of the right one.
	// The keypad only exposes percent as a unary key.
	OpPercent
)

// minusSign is what Subtract looks like on the display.
const minusSign = "−"

var operatorNames = map[Operator]string{
	OpNone:     "none",
	OpAdd:      "add",
	OpSubtract: "subtract",
	OpMultiply: "multiply",
	OpDivide:   "divide",
	OpPercent:  "percent",
}

var operatorGlyphs = map[Operator]string{
	OpAdd:      "+",
	OpSubtract: minusSign,
	OpMultiply: "×",
	OpDivide:   "÷",
	OpPercent:  "%",
}

// canonicalOperators are the ASCII tokens the evaluator reduces.
var canonicalOperators = map[string]Operator{
	"+": OpAdd,
	"-": OpSubtract,
	"*": OpMultiply,
	"/": OpDivide,
	"%": OpPercent,
}

func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// Glyph returns the symbol used for op in the display expression.
func (op Operator) Glyph() string {
	return operatorGlyphs[op]
}

// Valid reports whether op is one of the binary operators.
func (op Operator) Valid() bool {
	_, ok := operatorGlyphs[op]
	return ok
}

func (op Operator) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

func (op *Operator) UnmarshalText(text []byte) error {
	for candidate, name := range operatorNames {
		if string(text) == name {
			*op = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown operator %q", text)
}

// ParseOperator accepts an operator name ("add"), its display glyph ("×")
// or its ASCII token ("*").
func ParseOperator(s string) (Operator, error) {
	s = strings.TrimSpace(s)
	if op, ok := canonicalOperators[s]; ok {
		return op, nil
	}
	for op, glyph := range operatorGlyphs {
		if s == glyph {
			return op, nil
		}
	}
	lower := strings.ToLower(s)
	for op, name := range operatorNames {
		if op != OpNone && lower == name {
			return op, nil
		}
	}
	return OpNone, &Error{Kind: UnknownOperator, Detail: fmt.Sprintf("%q", s)}
}

// Apply resolves a single binary operation a op b.
func Apply(a float64, op Operator, b float64) (float64, error) {
	if !isFinite(a) || !isFinite(b) {
		return 0, &Error{Kind: InvalidOperand, Detail: fmt.Sprintf("%g %s %g", a, op, b)}
	}

	var result float64
	switch op {
	case OpAdd:
		result = a + b
	case OpSubtract:
		result = a - b
	case OpMultiply:
		result = a * b
	case OpDivide:
		if b == 0 {
			return 0, &Error{Kind: DivideByZero, Detail: fmt.Sprintf("%g / %g", a, b)}
		}
		result = a / b
	case OpPercent:
		result = (a / 100) * b
	default:
		return 0, &Error{Kind: UnknownOperator, Detail: op.String()}
	}

	// Overflow to ±Inf is reported like any other non-finite operand.
	if !isFinite(result) {
		return 0, &Error{Kind: InvalidOperand, Detail: fmt.Sprintf("%g %s %g overflows", a, op, b)}
	}
	return result, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
