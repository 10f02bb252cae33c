package mathx

import (
	"github.com/shopspring/decimal"
)

const (
	// ExpPrecision decimal places kept by 1e18-scaled ("exp") values
	ExpPrecision int32 = 18
	// DoublePrecision decimal places kept by 1e36-scaled ("double") values
	DoublePrecision int32 = 36
	// AmountPrecision decimal places kept by token amounts
	AmountPrecision int32 = 8
)

// Decimal parse a decimal from a literal, ignoring errors
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// MulTruncate multiply and truncate toward zero at exp precision.
//
// Every value-accumulating multiplication in the engine truncates,
// never rounds up, so capacity is always understated.
func MulTruncate(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Truncate(ExpPrecision)
}

// DivTruncate divide and truncate toward zero at exp precision.
// Division by zero returns zero; callers must guard zero denominators
// where zero is not an acceptable answer.
func DivTruncate(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b).Truncate(ExpPrecision)
}

// MulDouble multiply at double precision, for reward index arithmetic
func MulDouble(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Truncate(DoublePrecision)
}

// DivDouble divide at double precision
func DivDouble(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b).Truncate(DoublePrecision)
}

// ClampZero negative values collapse to zero
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
