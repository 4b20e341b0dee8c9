package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenAmount pairs a token with a raw integer quantity. It is never mutated after creation.
type TokenAmount struct {
	token Token
	raw   *big.Int
}

// NewTokenAmount copies raw so later changes by the caller never leak into the amount.
func NewTokenAmount(token Token, raw *big.Int) TokenAmount {
	r := new(big.Int)
	if raw != nil {
		r.Set(raw)
	}
	return TokenAmount{token: token, raw: r}
}

func (a TokenAmount) Token() Token {
	return a.token
}

// Raw returns a copy of the unscaled quantity.
func (a TokenAmount) Raw() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.raw)
}

// IsZero reports whether the raw quantity is exactly zero.
func (a TokenAmount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

// ToExact renders the quantity scaled by the token decimals, e.g. "1.5".
func (a TokenAmount) ToExact() string {
	return decimal.NewFromBigInt(a.Raw(), -int32(a.token.Decimals)).String()
}
