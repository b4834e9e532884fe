package token

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToUnits(t *testing.T) {
	c := NewCodec(6)

	tests := []struct {
		amount string
		units  int64
	}{
		{"1", 1_000_000},
		{"0.5", 500_000},
		{"0.000001", 1},
		{"1000000", 1_000_000_000_000},
		{"2.123456", 2_123_456},
		{"0.0000004", 0},  // below precision rounds down
		{"0.0000005", 1},  // half rounds away from zero
	}
	for _, tt := range tests {
		got := c.ToUnits(decimal.RequireFromString(tt.amount))
		if got.Int64() != tt.units {
			t.Errorf("ToUnits(%s) = %s, want %d", tt.amount, got, tt.units)
		}
	}
}

func TestToDecimal(t *testing.T) {
	c := NewCodec(6)

	if got := c.ToDecimal(big.NewInt(1_500_000)); !got.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("ToDecimal(1500000) = %s, want 1.5", got)
	}
	if got := c.ToDecimal(nil); !got.IsZero() {
		t.Errorf("ToDecimal(nil) = %s, want 0", got)
	}
}

func TestRoundTrip(t *testing.T) {
	c := NewCodec(6)

	for _, s := range []string{"0.000001", "0.01", "1", "123.456789", "999999.999999", "1000000"} {
		amount := decimal.RequireFromString(s)
		back := c.ToDecimal(c.ToUnits(amount))
		if !back.Equal(amount) {
			t.Errorf("round trip %s: got %s", s, back)
		}
	}
}

func TestZeroDecimals(t *testing.T) {
	c := NewCodec(0)
	if got := c.ToUnits(decimal.RequireFromString("42")); got.Int64() != 42 {
		t.Errorf("ToUnits(42) with 0 decimals = %s, want 42", got)
	}
}
