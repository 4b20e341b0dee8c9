package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	subgraph "dex_data/internal/entity"
	"dex_data/internal/pkg/logger"
	"dex_data/internal/pkg/swr"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dai  = entity.NewToken(entity.Mainnet, "0x6B175474E89094C44Da98b954EedeAC495271d0F", 18, "DAI", "Dai Stablecoin")
	weth = entity.NewToken(entity.Mainnet, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", 18, "WETH", "Wrapped Ether")
)

const holder = "0xABCDEF0000000000000000000000000000000001"

type fakeLibrary struct {
	calls   atomic.Int32
	release chan struct{}
	balance *big.Int
}

func (f *fakeLibrary) ChainID() entity.ChainID { return entity.Mainnet }

func (f *fakeLibrary) GetBalance(ctx context.Context, _ string) (*big.Int, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.balance, nil
}

func (f *fakeLibrary) CallContract(context.Context, ethereum.CallMsg) ([]byte, error) {
	return nil, errors.New("not used")
}

type fakeContract struct {
	address string
	results map[string][]any
	calls   *atomic.Int32
}

func (c *fakeContract) Address() string { return c.address }

func (c *fakeContract) Call(_ context.Context, method string, _ ...any) ([]any, error) {
	c.calls.Add(1)
	if out, ok := c.results[method]; ok {
		return out, nil
	}
	return nil, errors.New("execution reverted")
}

// fakeFactory hands out contracts with canned results, refusing when there is no library.
type fakeFactory struct {
	mu      sync.Mutex
	results map[port.ContractInterface]map[string][]any
	calls   atomic.Int32
	built   []string
}

func (f *fakeFactory) Contract(library port.Library, address string, iface port.ContractInterface) (port.Contract, bool) {
	if library == nil {
		return nil, false
	}
	f.mu.Lock()
	f.built = append(f.built, address)
	f.mu.Unlock()
	return &fakeContract{address: address, results: f.results[iface], calls: &f.calls}, true
}

type fakeIndexer struct {
	calls     atomic.Int32
	endpoints []string
}

func (f *fakeIndexer) Query(_ context.Context, endpoint, _ string, _ map[string]any, out any) error {
	f.calls.Add(1)
	f.endpoints = append(f.endpoints, endpoint)
	if resp, ok := out.(*subgraph.ExchangesResponse); ok {
		sym := "USDC"
		resp.Exchanges = []subgraph.SubgraphExchange{{TokenAddress: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", TokenSymbol: &sym}}
	}
	return nil
}

func newTestService(t *testing.T, factory *fakeFactory, indexer port.GraphQLClient, endpoints map[entity.ChainID]string) *DataServiceImpl {
	t.Helper()
	cache := swr.New(swr.Config{FetchTimeout: 5 * time.Second}, logger.Nop(), nil)
	t.Cleanup(cache.Close)
	return NewDataService(cache, factory, indexer, endpoints, logger.Nop())
}

func TestTokenBalanceBeforeAndAfterConnect(t *testing.T) {
	factory := &fakeFactory{results: map[port.ContractInterface]map[string][]any{
		port.ERC20Interface: {"balanceOf": {big.NewInt(2500000000000000000)}},
	}}
	s := newTestService(t, factory, &fakeIndexer{}, nil)
	ctx := context.Background()

	resp := s.UseTokenBalance(ctx, Web3{}, &dai, holder, WithSuspense())
	assert.Nil(t, resp.Data)
	assert.NoError(t, resp.Error)
	assert.False(t, resp.IsValidating)
	assert.Zero(t, factory.calls.Load())

	web3 := Web3{ChainID: entity.Mainnet, Library: &fakeLibrary{}}
	resp = s.UseTokenBalance(ctx, web3, &dai, holder, WithSuspense())
	require.NoError(t, resp.Error)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "2.5", resp.Data.ToExact())
	assert.True(t, resp.Data.Token().Equals(dai))
	assert.Equal(t, int32(1), factory.calls.Load())

	// within the fresh window
	resp = s.UseTokenBalance(ctx, web3, &dai, holder, WithSuspense())
	require.NotNil(t, resp.Data)
	assert.Equal(t, int32(1), factory.calls.Load())
}

func TestETHBalanceCoalescing(t *testing.T) {
	lib := &fakeLibrary{release: make(chan struct{}), balance: big.NewInt(42)}
	s := newTestService(t, &fakeFactory{}, &fakeIndexer{}, nil)
	web3 := Web3{ChainID: entity.Mainnet, Library: lib}

	var wg sync.WaitGroup
	results := make([]swr.Response[*entity.TokenAmount], 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.UseETHBalance(context.Background(), web3, holder, WithSuspense())
		}(i)
	}

	require.Eventually(t, func() bool { return lib.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(lib.release)
	wg.Wait()

	assert.Equal(t, int32(1), lib.calls.Load())
	for _, r := range results {
		require.NotNil(t, r.Data)
		assert.Equal(t, int64(42), r.Data.Raw().Int64())
	}
}

func TestETHBalanceReadiness(t *testing.T) {
	lib := &fakeLibrary{balance: big.NewInt(1)}
	s := newTestService(t, &fakeFactory{}, &fakeIndexer{}, nil)

	assert.Nil(t, s.UseETHBalance(context.Background(), Web3{Library: lib}, holder, WithSuspense()).Data)
	assert.Nil(t, s.UseETHBalance(context.Background(), Web3{ChainID: entity.Mainnet, Library: lib}, "", WithSuspense()).Data)
	assert.Nil(t, s.UseETHBalance(context.Background(), Web3{ChainID: entity.Mainnet}, holder, WithSuspense()).Data)
	assert.Zero(t, lib.calls.Load())
}

func TestReservesShareEntryAcrossOrder(t *testing.T) {
	factory := &fakeFactory{results: map[port.ContractInterface]map[string][]any{
		port.PairInterface: {"getReserves": {big.NewInt(10), big.NewInt(20), uint32(0)}},
	}}
	s := newTestService(t, factory, &fakeIndexer{}, nil)
	web3 := Web3{ChainID: entity.Mainnet, Library: &fakeLibrary{}}

	ab := s.UseReserves(context.Background(), web3, &dai, &weth, WithSuspense())
	ba := s.UseReserves(context.Background(), web3, &weth, &dai, WithSuspense())

	require.NotNil(t, ab.Data)
	require.NotNil(t, ba.Data)
	assert.Equal(t, ab.Data.Address(), ba.Data.Address())
	assert.Equal(t, "0xA478c2975Ab1Ea89e8196811F51A7B7Ade33eB11", ab.Data.Address())
	assert.Equal(t, int32(1), factory.calls.Load())
	assert.Equal(t, []string{ab.Data.Address(), ab.Data.Address()}, factory.built)
}

func TestReservesReadiness(t *testing.T) {
	factory := &fakeFactory{}
	s := newTestService(t, factory, &fakeIndexer{}, nil)
	web3 := Web3{ChainID: entity.Mainnet, Library: &fakeLibrary{}}
	rinkebyDAI := entity.NewToken(entity.Rinkeby, dai.Address, 18, "DAI", "Dai")

	assert.Nil(t, s.UseReserves(context.Background(), web3, &dai, nil, WithSuspense()).Data)
	assert.Nil(t, s.UseReserves(context.Background(), web3, &dai, &dai, WithSuspense()).Data)
	assert.Nil(t, s.UseReserves(context.Background(), web3, &dai, &rinkebyDAI, WithSuspense()).Data)
	assert.Zero(t, factory.calls.Load())
	assert.Empty(t, factory.built)
}

func TestOnchainTokenNeedsBothHandles(t *testing.T) {
	factory := &fakeFactory{results: map[port.ContractInterface]map[string][]any{
		port.ERC20Interface: {"decimals": {uint8(6)}, "symbol": {"USDC"}, "name": {"USD Coin"}},
	}}
	s := newTestService(t, factory, &fakeIndexer{}, nil)

	resp := s.UseOnchainToken(context.Background(), Web3{ChainID: entity.Mainnet}, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", WithSuspense())
	assert.Nil(t, resp.Data)

	resp = s.UseOnchainToken(context.Background(), Web3{ChainID: entity.Mainnet, Library: &fakeLibrary{}}, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", WithSuspense())
	require.NotNil(t, resp.Data)
	assert.Equal(t, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", resp.Data.Address)
	assert.Equal(t, uint8(6), resp.Data.Decimals)
	assert.Equal(t, "USDC", resp.Data.Symbol)
}

func TestRemoteTokens(t *testing.T) {
	indexer := &fakeIndexer{}
	s := newTestService(t, &fakeFactory{}, indexer, map[entity.ChainID]string{entity.Mainnet: "https://indexer.example.org"})

	assert.Nil(t, s.UseRemoteTokens(context.Background(), Web3{ChainID: entity.Kovan}, "usd", WithSuspense()).Data)
	assert.Nil(t, s.UseRemoteTokens(context.Background(), Web3{ChainID: entity.Mainnet}, "", WithSuspense()).Data)
	assert.Zero(t, indexer.calls.Load())

	resp := s.UseRemoteTokens(context.Background(), Web3{ChainID: entity.Mainnet}, "usd", WithSuspense())
	require.NoError(t, resp.Error)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "USDC", resp.Data[0].Symbol)
	assert.Equal(t, entity.UnknownName, resp.Data[0].Name)
	assert.Equal(t, []string{"https://indexer.example.org"}, indexer.endpoints)
}

func TestNonSuspenseReturnsImmediately(t *testing.T) {
	lib := &fakeLibrary{release: make(chan struct{}), balance: big.NewInt(3)}
	s := newTestService(t, &fakeFactory{}, &fakeIndexer{}, nil)
	web3 := Web3{ChainID: entity.Mainnet, Library: lib}

	resp := s.UseETHBalance(context.Background(), web3, holder)
	assert.Nil(t, resp.Data)
	assert.True(t, resp.IsValidating)

	close(lib.release)
	require.Eventually(t, func() bool {
		return s.UseETHBalance(context.Background(), web3, holder).Data != nil
	}, time.Second, 5*time.Millisecond)
}
