package calculator

import (
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		label string
		want  Key
	}{
		{label: "0", want: DigitKey(0)},
		{label: " 7 ", want: DigitKey(7)},
		{label: ".", want: DecimalKey},
		{label: "Decimal point", want: DecimalKey},
		{label: "C", want: ClearKey},
		{label: "±", want: ToggleSignKey},
		{label: "%", want: PercentKey},
		{label: "=", want: EqualsKey},
		{label: "Equals", want: EqualsKey},
		{label: "+", want: OperatorKey(OpAdd)},
		{label: "−", want: OperatorKey(OpSubtract)},
		{label: "-", want: OperatorKey(OpSubtract)},
		{label: "×", want: OperatorKey(OpMultiply)},
		{label: "Multiply", want: OperatorKey(OpMultiply)},
		{label: "÷", want: OperatorKey(OpDivide)},
		{label: "divide", want: OperatorKey(OpDivide)},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			got, err := ParseKey(tc.label)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestParseKeyRejectsUnknownLabels(t *testing.T) {
	for _, label := range []string{"", "10", "sqrt", "M+", "(", "^"} {
		if _, err := ParseKey(label); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("%q: expected ErrInvalidKey, got %v", label, err)
		}
	}
}

func TestKeyStringRoundTrips(t *testing.T) {
	keys := []Key{
		DigitKey(3), DecimalKey, ClearKey, ToggleSignKey, PercentKey, EqualsKey,
		OperatorKey(OpAdd), OperatorKey(OpSubtract), OperatorKey(OpMultiply), OperatorKey(OpDivide),
	}
	for _, k := range keys {
		got, err := ParseKey(k.String())
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if got != k {
			t.Fatalf("%s: expected %+v, got %+v", k, k, got)
		}
	}
}

func TestParseKeysReportsIndex(t *testing.T) {
	if _, err := ParseKeys([]string{"1", "+", "x"}); err == nil || !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}

	keys, err := ParseKeys([]string{"1", "+", "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 3 || keys[1] != OperatorKey(OpAdd) {
		t.Fatalf("unexpected keys %+v", keys)
	}
}
