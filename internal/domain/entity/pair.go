package entity

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Uniswap V2 factory deployment constants. The pair address derivation must match them exactly.
var (
	PairFactoryAddress = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	PairInitCodeHash   = common.FromHex("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")
)

// Pair holds the reserves of a liquidity pair, tokens in canonical order.
type Pair struct {
	reserve0 TokenAmount
	reserve1 TokenAmount
}

// NewPair orders the two amounts by token so (A,B) and (B,A) build the same pair.
func NewPair(amountA, amountB TokenAmount) (Pair, error) {
	before, err := amountA.Token().SortsBefore(amountB.Token())
	if err != nil {
		return Pair{}, err
	}
	if before {
		return Pair{reserve0: amountA, reserve1: amountB}, nil
	}
	return Pair{reserve0: amountB, reserve1: amountA}, nil
}

func (p Pair) Reserve0() TokenAmount { return p.reserve0 }
func (p Pair) Reserve1() TokenAmount { return p.reserve1 }
func (p Pair) Token0() Token         { return p.reserve0.Token() }
func (p Pair) Token1() Token         { return p.reserve1.Token() }

// HasLiquidity is false when either reserve is exactly zero.
func (p Pair) HasLiquidity() bool {
	return !p.reserve0.IsZero() && !p.reserve1.IsZero()
}

// Address derives the pair contract address of the pair's tokens.
func (p Pair) Address() string {
	// NewPair already rejected mixed chains and equal addresses, so PairAddress cannot fail here.
	addr, _ := PairAddress(p.Token0(), p.Token1())
	return addr
}

// PairAddress computes the CREATE2 address of the pair contract for two tokens,
// independent of argument order.
func PairAddress(tokenA, tokenB Token) (string, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return "", err
	}
	salt := crypto.Keccak256Hash(
		common.HexToAddress(token0.Address).Bytes(),
		common.HexToAddress(token1.Address).Bytes(),
	)
	return crypto.CreateAddress2(PairFactoryAddress, salt, PairInitCodeHash).Hex(), nil
}
