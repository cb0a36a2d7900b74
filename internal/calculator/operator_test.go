package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestApply(t *testing.T) {
	tests := []struct {
		a, b float64
		op   Operator
		want float64
	}{
		{a: 2, op: OpAdd, b: 3, want: 5},
		{a: 2, op: OpSubtract, b: 3, want: -1},
		{a: 2, op: OpMultiply, b: 3, want: 6},
		{a: 3, op: OpDivide, b: 2, want: 1.5},
		{a: 50, op: OpPercent, b: 8, want: 4},
	}

	for _, tc := range tests {
		t.Run(tc.op.String(), func(t *testing.T) {
			got, err := Apply(tc.a, tc.op, tc.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("%v %s %v: expected %v, got %v", tc.a, tc.op, tc.b, tc.want, got)
			}
		})
	}
}

func TestApplyFailures(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		op   Operator
		kind ErrorKind
	}{
		{name: "divide by zero", a: 1, op: OpDivide, b: 0, kind: DivideByZero},
		{name: "nan operand", a: math.NaN(), op: OpAdd, b: 1, kind: InvalidOperand},
		{name: "inf operand", a: 1, op: OpMultiply, b: math.Inf(1), kind: InvalidOperand},
		{name: "overflow", a: math.MaxFloat64, op: OpAdd, b: math.MaxFloat64, kind: InvalidOperand},
		{name: "no operator", a: 1, op: OpNone, b: 1, kind: UnknownOperator},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(tc.a, tc.op, tc.b)

			var calcErr *Error
			if !errors.As(err, &calcErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if calcErr.Kind != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, calcErr.Kind)
			}
		})
	}
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in   string
		want Operator
	}{
		{in: "+", want: OpAdd},
		{in: "add", want: OpAdd},
		{in: "−", want: OpSubtract},
		{in: "-", want: OpSubtract},
		{in: "Subtract", want: OpSubtract},
		{in: "×", want: OpMultiply},
		{in: "*", want: OpMultiply},
		{in: "÷", want: OpDivide},
		{in: "/", want: OpDivide},
		{in: "%", want: OpPercent},
		{in: " percent ", want: OpPercent},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseOperator(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}

	for _, in := range []string{"", "none", "^", "mod"} {
		if _, err := ParseOperator(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestOperatorGlyphs(t *testing.T) {
	want := map[Operator]string{
		OpAdd:      "+",
		OpSubtract: "−",
		OpMultiply: "×",
		OpDivide:   "÷",
		OpPercent:  "%",
		OpNone:     "",
	}
	for op, glyph := range want {
		if got := op.Glyph(); got != glyph {
			t.Fatalf("%s: expected glyph %q, got %q", op, glyph, got)
		}
	}
}
