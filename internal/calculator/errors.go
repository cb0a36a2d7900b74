package calculator

import (
	"errors"
	"fmt"
)

// ErrorKind classifies arithmetic failures.
type ErrorKind int

const (
	DivideByZero ErrorKind = iota + 1
	InvalidOperand
	UnknownOperator
)

const (
	divideByZeroMessage = "Cannot divide by 0"
	errorMessage        = "Error"
)

func (k ErrorKind) String() string {
	switch k {
	case DivideByZero:
		return "divide_by_zero"
	case InvalidOperand:
		return "invalid_operand"
	case UnknownOperator:
		return "unknown_operator"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned for every failed evaluation or commit. The session has
// already recovered by the time a caller sees it.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

// Message is the text shown on the display for this failure.
func (e *Error) Message() string {
	if e.Kind == DivideByZero {
		return divideByZeroMessage
	}
	return errorMessage
}

// ErrEmptyExpression is returned by Evaluate when there is nothing to reduce.
var ErrEmptyExpression = errors.New("empty expression")

// ErrInvalidKey is returned for keys outside the keypad.
var ErrInvalidKey = errors.New("invalid key")

// DisplayMessage maps err to the user-facing display text.
func DisplayMessage(err error) string {
	var calcErr *Error
	if errors.As(err, &calcErr) {
		return calcErr.Message()
	}
	return errorMessage
}
