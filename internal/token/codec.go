// Package token converts between human decimal amounts and the integer
// token-unit representation used in contract calls.
package token

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Codec scales amounts by a fixed decimal exponent (6 for the deployed
// staking token). The round-trip ToDecimal(ToUnits(x)) == x holds for every
// value representable without rounding loss at the configured precision.
type Codec struct {
	decimals int32
}

// NewCodec creates a Codec for a token with the given number of decimals.
func NewCodec(decimals int) Codec {
	return Codec{decimals: int32(decimals)}
}

// Decimals returns the configured decimal exponent.
func (c Codec) Decimals() int { return int(c.decimals) }

// ToUnits converts a human decimal amount to integer token units, rounding
// half away from zero at the sub-unit level.
func (c Codec) ToUnits(amount decimal.Decimal) *big.Int {
	return amount.Shift(c.decimals).Round(0).BigInt()
}

// ToDecimal converts integer token units back to a human decimal amount.
func (c Codec) ToDecimal(units *big.Int) decimal.Decimal {
	if units == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(units, -c.decimals)
}
