package fetcher

import (
	"context"
	"fmt"

	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	"dex_data/internal/pkg/swr"
	"dex_data/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// OnchainToken reads decimals, symbol and name of a token contract concurrently.
// Without decimals there is no usable descriptor and the result is nil.
// symbol and name fall back to the bytes32 interface, then to the unknown defaults.
func OnchainToken(contract, bytes32Contract port.Contract, chainID entity.ChainID, address string, log port.Logger) swr.Fetcher[*entity.Token] {
	return func(ctx context.Context) (*entity.Token, error) {
		var (
			decimals     uint8
			symbol, name string
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			out, err := contract.Call(gctx, "decimals")
			if err != nil {
				return err
			}
			if len(out) == 0 {
				return fmt.Errorf("decimals: empty result")
			}
			d, ok := out[0].(uint8)
			if !ok {
				return fmt.Errorf("decimals: unexpected result type %T", out[0])
			}
			decimals = d
			return nil
		})
		// symbol and name never fail the group, so a decimals failure cannot be masked by them
		g.Go(func() error {
			symbol = readText(ctx, contract, bytes32Contract, "symbol", entity.UnknownSymbol)
			return nil
		})
		g.Go(func() error {
			name = readText(ctx, contract, bytes32Contract, "name", entity.UnknownName)
			return nil
		})

		if err := g.Wait(); err != nil {
			log.Debug("Token decimals unavailable", "chain_id", chainID, "address", address, "error", err)
			return nil, nil
		}

		token := entity.NewToken(chainID, address, decimals, symbol, name)
		return &token, nil
	}
}

func readText(ctx context.Context, contract, bytes32Contract port.Contract, method, fallback string) string {
	if out, err := contract.Call(ctx, method); err == nil && len(out) > 0 {
		if s, ok := out[0].(string); ok {
			return s
		}
	}
	out, err := bytes32Contract.Call(ctx, method)
	if err != nil || len(out) == 0 {
		return fallback
	}
	raw, ok := out[0].([32]byte)
	if !ok {
		return fallback
	}
	s, err := utils.ParseBytes32String(raw)
	if err != nil {
		return fallback
	}
	return s
}
