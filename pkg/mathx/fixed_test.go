package mathx

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
)

func TestMulTruncate(t *testing.T) {
	data := map[[2]string]string{
		{"2", "3"}: "6",
		{"0.123456789123456789123", "1"}: "0.123456789123456789",
		{"1.999999999999999999", "1.000000000000000001"}: "1.999999999999999999",
	}

	for k, v := range data {
		got := MulTruncate(Decimal(k[0]), Decimal(k[1]))
		assert.Equal(t, v, got.String(), "should truncate toward zero")
	}
}

func TestDivTruncate(t *testing.T) {
	got := DivTruncate(Decimal("1"), Decimal("3"))
	assert.Equal(t, "0.333333333333333333", got.String())

	assert.T(t, DivTruncate(Decimal("1"), decimal.Zero).IsZero())
}

func TestClampZero(t *testing.T) {
	assert.T(t, ClampZero(Decimal("-1")).IsZero())
	assert.Equal(t, "2", ClampZero(Decimal("2")).String())
}
