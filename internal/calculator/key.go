package calculator

import (
	"fmt"
	"strings"
)

// KeyKind identifies a logical keypad key.
type KeyKind int

const (
	KindDigit KeyKind = iota + 1
	KindDecimal
	KindClear
	KindToggleSign
	KindPercent
	KindOperator
	KindEquals
)

func (k KeyKind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindDecimal:
		return "decimal"
	case KindClear:
		return "clear"
	case KindToggleSign:
		return "toggle_sign"
	case KindPercent:
		return "percent"
	case KindOperator:
		return "operator"
	case KindEquals:
		return "equals"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
}

// Key is one logical key event. Digit is only meaningful for KindDigit and
// Operator only for KindOperator.
type Key struct {
	Kind     KeyKind
	Digit    int
	Operator Operator
}

var (
	DecimalKey    = Key{Kind: KindDecimal}
	ClearKey      = Key{Kind: KindClear}
	ToggleSignKey = Key{Kind: KindToggleSign}
	PercentKey    = Key{Kind: KindPercent}
	EqualsKey     = Key{Kind: KindEquals}
)

func DigitKey(d int) Key {
	return Key{Kind: KindDigit, Digit: d}
}

func OperatorKey(op Operator) Key {
	return Key{Kind: KindOperator, Operator: op}
}

// String returns the keypad label for k.
func (k Key) String() string {
	switch k.Kind {
	case KindDigit:
		return fmt.Sprint(k.Digit)
	case KindDecimal:
		return "."
	case KindClear:
		return "C"
	case KindToggleSign:
		return "±"
	case KindPercent:
		return "%"
	case KindOperator:
		return k.Operator.Glyph()
	case KindEquals:
		return "="
	default:
		return k.Kind.String()
	}
}

// Labels the keypad markup carries as aria-label instead of button text.
var ariaLabels = map[string]Key{
	"add":           OperatorKey(OpAdd),
	"subtract":      OperatorKey(OpSubtract),
	"multiply":      OperatorKey(OpMultiply),
	"divide":        OperatorKey(OpDivide),
	"equals":        EqualsKey,
	"decimal point": DecimalKey,
	"clear":         ClearKey,
	"toggle sign":   ToggleSignKey,
	"percent":       PercentKey,
}

// ParseKey translates a button label into a logical key. Both the visible
// glyphs ("7", "×", "±") and the accessible names ("Multiply",
// "Decimal point") are accepted. "%" is always the unary percent key.
func ParseKey(label string) (Key, error) {
	label = strings.TrimSpace(label)

	if len(label) == 1 && label[0] >= '0' && label[0] <= '9' {
		return DigitKey(int(label[0] - '0')), nil
	}

	switch label {
	case ".":
		return DecimalKey, nil
	case "C", "c", "AC":
		return ClearKey, nil
	case "±", "+/-":
		return ToggleSignKey, nil
	case "%":
		return PercentKey, nil
	case "=":
		return EqualsKey, nil
	case "+", "-", minusSign, "*", "×", "/", "÷":
		op, err := ParseOperator(label)
		if err != nil {
			return Key{}, err
		}
		return OperatorKey(op), nil
	}

	if k, ok := ariaLabels[strings.ToLower(label)]; ok {
		return k, nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, label)
}

// ParseKeys parses every label, failing on the first unknown one.
func ParseKeys(labels []string) ([]Key, error) {
	keys := make([]Key, 0, len(labels))
	for i, label := range labels {
		k, err := ParseKey(label)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
