package calculator

import (
	"math"
	"strconv"
	"strings"
)

// displayPrecision is the number of decimal places kept on the display.
const displayPrecision = 1e12

// FormatNumber renders x for the display: rounded to 12 decimal places,
// shortest representation, exponent form outside [1e-6, 1e21).
// Non-finite values render as "Error".
func FormatNumber(x float64) string {
	if !isFinite(x) {
		return errorMessage
	}

	x = roundForDisplay(x)
	if x == 0 {
		return "0"
	}

	if abs := math.Abs(x); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(x, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// formatOperand renders x as a typed operand. It is always plain decimal so
// further digits and the decimal point can be appended to it.
func formatOperand(x float64) string {
	x = roundForDisplay(x)
	if x == 0 {
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func roundForDisplay(x float64) float64 {
	// Above 1e15 a float64 carries no fractional digits and x*1e12 could overflow.
	if math.Abs(x) < 1e15 {
		x = math.Round(x*displayPrecision) / displayPrecision
	}
	return x
}
