package fetcher

import (
	"context"
	"math/big"

	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	"dex_data/internal/pkg/swr"
)

// Reserves reads getReserves() on the pair contract of tokenA and tokenB.
// A reverting call, an undeployed pair and a pair with an empty reserve all resolve to nil without error.
func Reserves(contract port.Contract, tokenA, tokenB entity.Token, log port.Logger) swr.Fetcher[*entity.Pair] {
	return func(ctx context.Context) (*entity.Pair, error) {
		token0, token1, err := entity.SortTokens(tokenA, tokenB)
		if err != nil {
			log.Debug("Cannot order pair tokens", "tokenA", tokenA.Address, "tokenB", tokenB.Address, "error", err)
			return nil, nil
		}

		out, err := contract.Call(ctx, "getReserves")
		if err != nil {
			log.Debug("getReserves failed, treating pair as empty", "pair", contract.Address(), "error", err)
			return nil, nil
		}
		if len(out) < 2 {
			log.Debug("getReserves returned too few values", "pair", contract.Address(), "count", len(out))
			return nil, nil
		}
		reserve0, ok0 := out[0].(*big.Int)
		reserve1, ok1 := out[1].(*big.Int)
		if !ok0 || !ok1 {
			log.Debug("getReserves returned unexpected types", "pair", contract.Address())
			return nil, nil
		}

		pair, err := entity.NewPair(entity.NewTokenAmount(token0, reserve0), entity.NewTokenAmount(token1, reserve1))
		if err != nil || !pair.HasLiquidity() {
			return nil, nil
		}
		return &pair, nil
	}
}
