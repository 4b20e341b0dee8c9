package service

import (
	"context"

	"dex_data/internal/app/fetcher"
	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	"dex_data/internal/pkg/swr"
)

// DataService exposes the cached on-chain and indexer queries.
type DataService interface {
	UseETHBalance(ctx context.Context, web3 Web3, address string, opts ...UseOption) swr.Response[*entity.TokenAmount]
	UseTokenBalance(ctx context.Context, web3 Web3, token *entity.Token, address string, opts ...UseOption) swr.Response[*entity.TokenAmount]
	UseTokenAllowance(ctx context.Context, web3 Web3, token *entity.Token, owner, spender string, opts ...UseOption) swr.Response[*entity.TokenAmount]
	UseReserves(ctx context.Context, web3 Web3, tokenA, tokenB *entity.Token, opts ...UseOption) swr.Response[*entity.Pair]
	UseOnchainToken(ctx context.Context, web3 Web3, address string, opts ...UseOption) swr.Response[*entity.Token]
	UseRemoteTokens(ctx context.Context, web3 Web3, query string, opts ...UseOption) swr.Response[[]entity.RemoteToken]
}

// DataServiceImpl implements DataService on top of a swr.Cache.
type DataServiceImpl struct {
	cache     *swr.Cache
	contracts port.ContractFactory
	indexer   port.GraphQLClient
	endpoints map[entity.ChainID]string
	logger    port.Logger
}

// NewDataService creates a new instance of DataServiceImpl.
// endpoints overrides the built-in indexer endpoint per chain and may be nil.
func NewDataService(
	cache *swr.Cache,
	contracts port.ContractFactory,
	indexer port.GraphQLClient,
	endpoints map[entity.ChainID]string,
	l port.Logger,
) *DataServiceImpl {
	return &DataServiceImpl{
		cache:     cache,
		contracts: contracts,
		indexer:   indexer,
		endpoints: endpoints,
		logger:    l,
	}
}

// UseETHBalance returns the native currency balance of address.
func (s *DataServiceImpl) UseETHBalance(ctx context.Context, web3 Web3, address string, opts ...UseOption) swr.Response[*entity.TokenAmount] {
	var key swr.Key
	var fetch swr.Fetcher[*entity.TokenAmount]
	if web3.ChainID.Known() && address != "" && web3.Library != nil {
		key = swr.Key{entity.KindETHBalance, web3.ChainID, address}
		fetch = fetcher.ETHBalance(web3.Library, web3.ChainID, address)
	}
	return swr.Use(ctx, s.cache, key, fetch, resolve(ethBalanceOptions, opts))
}

// UseTokenBalance returns balanceOf(address) of token.
func (s *DataServiceImpl) UseTokenBalance(ctx context.Context, web3 Web3, token *entity.Token, address string, opts ...UseOption) swr.Response[*entity.TokenAmount] {
	var key swr.Key
	var fetch swr.Fetcher[*entity.TokenAmount]
	if contract, ok := s.tokenContract(web3, token, port.ERC20Interface); ok && address != "" {
		key = swr.Key{entity.KindTokenBalance, token.ChainID, token.Address, address}
		fetch = fetcher.TokenBalance(contract, *token, address)
	}
	return swr.Use(ctx, s.cache, key, fetch, resolve(tokenBalanceOptions, opts))
}

// UseTokenAllowance returns allowance(owner, spender) of token.
func (s *DataServiceImpl) UseTokenAllowance(ctx context.Context, web3 Web3, token *entity.Token, owner, spender string, opts ...UseOption) swr.Response[*entity.TokenAmount] {
	var key swr.Key
	var fetch swr.Fetcher[*entity.TokenAmount]
	if contract, ok := s.tokenContract(web3, token, port.ERC20Interface); ok && owner != "" && spender != "" {
		key = swr.Key{entity.KindTokenAllowance, token.ChainID, token.Address, owner, spender}
		fetch = fetcher.TokenAllowance(contract, *token, owner, spender)
	}
	return swr.Use(ctx, s.cache, key, fetch, resolve(tokenAllowanceOptions, opts))
}

// UseReserves returns the reserves of the pair of tokenA and tokenB. Argument order does not matter.
func (s *DataServiceImpl) UseReserves(ctx context.Context, web3 Web3, tokenA, tokenB *entity.Token, opts ...UseOption) swr.Response[*entity.Pair] {
	var key swr.Key
	var fetch swr.Fetcher[*entity.Pair]
	if tokenA != nil && tokenB != nil && tokenA.ChainID == tokenB.ChainID && !tokenA.Equals(*tokenB) {
		if pairAddress, err := entity.PairAddress(*tokenA, *tokenB); err == nil {
			if contract, ok := s.contracts.Contract(web3.Library, pairAddress, port.PairInterface); ok {
				key = swr.Key{entity.KindReserves, tokenA.ChainID, pairAddress}
				fetch = fetcher.Reserves(contract, *tokenA, *tokenB, s.logger)
			}
		}
	}
	return swr.Use(ctx, s.cache, key, fetch, resolve(reservesOptions, opts))
}

// UseOnchainToken returns the token descriptor read from the contract at address.
func (s *DataServiceImpl) UseOnchainToken(ctx context.Context, web3 Web3, address string, opts ...UseOption) swr.Response[*entity.Token] {
	var key swr.Key
	var fetch swr.Fetcher[*entity.Token]
	if web3.ChainID.Known() && address != "" {
		contract, ok := s.contracts.Contract(web3.Library, address, port.ERC20Interface)
		bytes32Contract, okBytes32 := s.contracts.Contract(web3.Library, address, port.ERC20Bytes32Interface)
		if ok && okBytes32 {
			key = swr.Key{entity.KindToken, web3.ChainID, address}
			fetch = fetcher.OnchainToken(contract, bytes32Contract, web3.ChainID, address, s.logger)
		}
	}
	return swr.Use(ctx, s.cache, key, fetch, resolve(onchainTokenOptions, opts))
}

// UseRemoteTokens searches the token indexer of the connected network.
func (s *DataServiceImpl) UseRemoteTokens(ctx context.Context, web3 Web3, query string, opts ...UseOption) swr.Response[[]entity.RemoteToken] {
	var key swr.Key
	var fetch swr.Fetcher[[]entity.RemoteToken]
	if fetcher.SupportsRemoteSearch(web3.ChainID) && query != "" {
		key = swr.Key{entity.KindRemoteTokens, web3.ChainID, query}
		fetch = fetcher.RemoteTokens(s.indexer, web3.ChainID, s.endpoints[web3.ChainID], query)
	}
	return swr.Use(ctx, s.cache, key, fetch, resolve(remoteTokensOptions, opts))
}

func (s *DataServiceImpl) tokenContract(web3 Web3, token *entity.Token, iface port.ContractInterface) (port.Contract, bool) {
	if token == nil {
		return nil, false
	}
	return s.contracts.Contract(web3.Library, token.Address, iface)
}

var _ DataService = (*DataServiceImpl)(nil)
