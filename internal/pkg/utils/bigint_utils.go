package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatBigIntFixed renders amount with exactly places digits after the point, rounding half away from zero.
func FormatBigIntFixed(amount *big.Int, decimals uint8, places int32) string {
	if amount == nil {
		amount = new(big.Int)
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).StringFixed(places)
}
