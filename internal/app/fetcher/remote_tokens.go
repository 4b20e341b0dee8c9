package fetcher

import (
	"context"
	"fmt"

	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	subgraph "dex_data/internal/entity"
	"dex_data/internal/pkg/swr"

	"github.com/ethereum/go-ethereum/common"
)

const rinkebyTokensQuery = `query tokens($searchQuery: String!) {
  tokens(where: { symbol_contains: $searchQuery }) {
    id
    symbol
    name
  }
}`

const mainnetExchangesQuery = `query exchanges($searchQuery: String!) {
  exchanges(where: { tokenSymbol_contains: $searchQuery }) {
    tokenAddress
    tokenSymbol
    tokenName
  }
}`

type rawRemoteToken struct {
	address string
	symbol  *string
	name    *string
}

// indexerVariant is one supported indexer schema: its default endpoint, its document and how to read its rows.
type indexerVariant struct {
	endpoint string
	document string
	run      func(ctx context.Context, client port.GraphQLClient, endpoint, document string, vars map[string]any) ([]rawRemoteToken, error)
}

var indexerVariants = map[entity.ChainID]indexerVariant{
	entity.Rinkeby: {
		endpoint: "https://api.thegraph.com/subgraphs/name/noahzinsmeister/uniswapv2test",
		document: rinkebyTokensQuery,
		run: func(ctx context.Context, client port.GraphQLClient, endpoint, document string, vars map[string]any) ([]rawRemoteToken, error) {
			var resp subgraph.TokensResponse
			if err := client.Query(ctx, endpoint, document, vars, &resp); err != nil {
				return nil, err
			}
			rows := make([]rawRemoteToken, 0, len(resp.Tokens))
			for _, t := range resp.Tokens {
				rows = append(rows, rawRemoteToken{address: t.ID, symbol: t.Symbol, name: t.Name})
			}
			return rows, nil
		},
	},
	entity.Mainnet: {
		endpoint: "https://api.thegraph.com/subgraphs/name/graphprotocol/uniswap",
		document: mainnetExchangesQuery,
		run: func(ctx context.Context, client port.GraphQLClient, endpoint, document string, vars map[string]any) ([]rawRemoteToken, error) {
			var resp subgraph.ExchangesResponse
			if err := client.Query(ctx, endpoint, document, vars, &resp); err != nil {
				return nil, err
			}
			rows := make([]rawRemoteToken, 0, len(resp.Exchanges))
			for _, e := range resp.Exchanges {
				rows = append(rows, rawRemoteToken{address: e.TokenAddress, symbol: e.TokenSymbol, name: e.TokenName})
			}
			return rows, nil
		},
	},
}

// SupportsRemoteSearch reports whether a token indexer exists for chainID.
func SupportsRemoteSearch(chainID entity.ChainID) bool {
	_, ok := indexerVariants[chainID]
	return ok
}

// DefaultIndexerEndpoints returns the built-in indexer endpoint per supported chain.
func DefaultIndexerEndpoints() map[entity.ChainID]string {
	endpoints := make(map[entity.ChainID]string, len(indexerVariants))
	for id, v := range indexerVariants {
		endpoints[id] = v.endpoint
	}
	return endpoints
}

// RemoteTokens searches the indexer of chainID for tokens whose symbol contains query.
// An empty endpoint selects the built-in one.
func RemoteTokens(client port.GraphQLClient, chainID entity.ChainID, endpoint, query string) swr.Fetcher[[]entity.RemoteToken] {
	return func(ctx context.Context) ([]entity.RemoteToken, error) {
		variant, ok := indexerVariants[chainID]
		if !ok {
			return nil, fmt.Errorf("no token indexer for chain %d", chainID)
		}
		target := endpoint
		if target == "" {
			target = variant.endpoint
		}

		rows, err := variant.run(ctx, client, target, variant.document, map[string]any{"searchQuery": query})
		if err != nil {
			return nil, fmt.Errorf("search tokens %q on chain %d: %w", query, chainID, err)
		}

		tokens := make([]entity.RemoteToken, 0, len(rows))
		for _, row := range rows {
			if !common.IsHexAddress(row.address) {
				return nil, fmt.Errorf("indexer returned invalid address %q", row.address)
			}
			tokens = append(tokens, entity.RemoteToken{
				Address: common.HexToAddress(row.address).Hex(),
				Symbol:  valueOr(row.symbol, entity.UnknownSymbol),
				Name:    valueOr(row.name, entity.UnknownName),
			})
		}
		return tokens, nil
	}
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
