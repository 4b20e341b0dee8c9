package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress represents the Ethereum zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

var (
	ErrDifferentChains = errors.New("tokens are on different chains")
	ErrSameAddress     = errors.New("tokens have the same address")
)

// Token describes an ERC20 token (or the native currency) on a given chain.
type Token struct {
	ChainID  ChainID `json:"chainId"`
	Address  string  `json:"address"`
	Decimals uint8   `json:"decimals"`
	Symbol   string  `json:"symbol,omitempty"`
	Name     string  `json:"name,omitempty"`
}

// NewToken builds a token descriptor with a checksummed address.
func NewToken(chainID ChainID, address string, decimals uint8, symbol, name string) Token {
	return Token{
		ChainID:  chainID,
		Address:  common.HexToAddress(address).Hex(),
		Decimals: decimals,
		Symbol:   symbol,
		Name:     name,
	}
}

// NativeToken is the synthetic 18-decimal descriptor used for native currency balances.
func NativeToken(chainID ChainID) Token {
	return NewToken(chainID, ZeroAddress, 18, "ETH", "Ether")
}

// Equals reports whether both descriptors point at the same contract on the same chain.
func (t Token) Equals(other Token) bool {
	return t.ChainID == other.ChainID && strings.EqualFold(t.Address, other.Address)
}

// SortsBefore reports whether t comes first in a pair with other.
// Ordering is by lowercase address, the same rule the pair factory uses.
func (t Token) SortsBefore(other Token) (bool, error) {
	if t.ChainID != other.ChainID {
		return false, fmt.Errorf("%w: %d and %d", ErrDifferentChains, t.ChainID, other.ChainID)
	}
	a, b := strings.ToLower(t.Address), strings.ToLower(other.Address)
	if a == b {
		return false, fmt.Errorf("%w: %s", ErrSameAddress, t.Address)
	}
	return a < b, nil
}

// SortTokens returns the two tokens in canonical pair order.
func SortTokens(tokenA, tokenB Token) (Token, Token, error) {
	before, err := tokenA.SortsBefore(tokenB)
	if err != nil {
		return Token{}, Token{}, err
	}
	if before {
		return tokenA, tokenB, nil
	}
	return tokenB, tokenA, nil
}
