// Package fetcher holds the remote reads behind each cached query. Every constructor
// captures its call parameters and returns a swr.Fetcher that performs one round trip.
package fetcher

import (
	"context"
	"fmt"
	"math/big"

	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	"dex_data/internal/pkg/swr"

	"github.com/ethereum/go-ethereum/common"
)

// ETHBalance reads the native currency balance of address.
func ETHBalance(library port.Library, chainID entity.ChainID, address string) swr.Fetcher[*entity.TokenAmount] {
	return func(ctx context.Context) (*entity.TokenAmount, error) {
		raw, err := library.GetBalance(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("get balance of %s: %w", address, err)
		}
		amount := entity.NewTokenAmount(entity.NativeToken(chainID), raw)
		return &amount, nil
	}
}

// TokenBalance reads balanceOf(address) on the token contract.
func TokenBalance(contract port.Contract, token entity.Token, address string) swr.Fetcher[*entity.TokenAmount] {
	return func(ctx context.Context) (*entity.TokenAmount, error) {
		if !common.IsHexAddress(address) {
			return nil, fmt.Errorf("invalid address %q", address)
		}
		raw, err := callUint(ctx, contract, "balanceOf", common.HexToAddress(address))
		if err != nil {
			return nil, err
		}
		amount := entity.NewTokenAmount(token, raw)
		return &amount, nil
	}
}

// TokenAllowance reads allowance(owner, spender) on the token contract.
func TokenAllowance(contract port.Contract, token entity.Token, owner, spender string) swr.Fetcher[*entity.TokenAmount] {
	return func(ctx context.Context) (*entity.TokenAmount, error) {
		for _, a := range []string{owner, spender} {
			if !common.IsHexAddress(a) {
				return nil, fmt.Errorf("invalid address %q", a)
			}
		}
		raw, err := callUint(ctx, contract, "allowance", common.HexToAddress(owner), common.HexToAddress(spender))
		if err != nil {
			return nil, err
		}
		amount := entity.NewTokenAmount(token, raw)
		return &amount, nil
	}
}

func callUint(ctx context.Context, contract port.Contract, method string, args ...any) (*big.Int, error) {
	out, err := contract.Call(ctx, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", method, contract.Address(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s on %s: empty result", method, contract.Address())
	}
	raw, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s on %s: unexpected result type %T", method, contract.Address(), out[0])
	}
	return raw, nil
}
