package restapi

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"dex_data/internal/app/port"
	"dex_data/internal/app/service"
	"dex_data/internal/domain/entity"
	"dex_data/internal/pkg/logger"
	"dex_data/internal/pkg/swr"

	"github.com/ethereum/go-ethereum"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	daiAddress  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	wethAddress = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	holder      = "0x00000000000000000000000000000000000000Aa"
)

var (
	dai  = entity.NewToken(entity.Mainnet, daiAddress, 18, "DAI", "Dai Stablecoin")
	weth = entity.NewToken(entity.Mainnet, wethAddress, 18, "WETH", "Wrapped Ether")
)

type fakeLibrary struct{}

func (fakeLibrary) ChainID() entity.ChainID { return entity.Mainnet }
func (fakeLibrary) GetBalance(context.Context, string) (*big.Int, error) {
	return nil, errors.New("not used")
}
func (fakeLibrary) CallContract(context.Context, ethereum.CallMsg) ([]byte, error) {
	return nil, errors.New("not used")
}

type fakeLibraries struct{}

func (fakeLibraries) GetLibrary(_ context.Context, chainID entity.ChainID) (port.Library, bool) {
	if chainID == entity.Mainnet {
		return fakeLibrary{}, true
	}
	return nil, false
}

type fakeTokens struct{}

func (fakeTokens) GetToken(chainID entity.ChainID, address string) (entity.Token, bool) {
	if chainID == entity.Mainnet && address == daiAddress {
		return dai, true
	}
	return entity.Token{}, false
}

func (fakeTokens) GetTokensByChainID(entity.ChainID) []entity.Token { return nil }

type fakeData struct {
	lastWeb3     service.Web3
	lastSuspense bool
	balanceErr   error
	onchain      *entity.Token
}

func suspense(opts []service.UseOption) bool { return len(opts) > 0 }

func (f *fakeData) UseETHBalance(_ context.Context, web3 service.Web3, _ string, opts ...service.UseOption) swr.Response[*entity.TokenAmount] {
	f.lastWeb3, f.lastSuspense = web3, suspense(opts)
	a := entity.NewTokenAmount(entity.NativeToken(web3.ChainID), big.NewInt(1500000000000000000))
	return swr.Response[*entity.TokenAmount]{Data: &a}
}

func (f *fakeData) UseTokenBalance(_ context.Context, web3 service.Web3, token *entity.Token, _ string, opts ...service.UseOption) swr.Response[*entity.TokenAmount] {
	f.lastWeb3, f.lastSuspense = web3, suspense(opts)
	if f.balanceErr != nil {
		return swr.Response[*entity.TokenAmount]{Error: f.balanceErr}
	}
	a := entity.NewTokenAmount(*token, big.NewInt(2000000000000000000))
	return swr.Response[*entity.TokenAmount]{Data: &a}
}

func (f *fakeData) UseTokenAllowance(_ context.Context, web3 service.Web3, token *entity.Token, _, _ string, opts ...service.UseOption) swr.Response[*entity.TokenAmount] {
	f.lastWeb3, f.lastSuspense = web3, suspense(opts)
	a := entity.NewTokenAmount(*token, big.NewInt(0))
	return swr.Response[*entity.TokenAmount]{Data: &a}
}

func (f *fakeData) UseReserves(_ context.Context, web3 service.Web3, tokenA, tokenB *entity.Token, opts ...service.UseOption) swr.Response[*entity.Pair] {
	f.lastWeb3, f.lastSuspense = web3, suspense(opts)
	pair, err := entity.NewPair(entity.NewTokenAmount(*tokenA, big.NewInt(10)), entity.NewTokenAmount(*tokenB, big.NewInt(20)))
	if err != nil {
		return swr.Response[*entity.Pair]{Error: err}
	}
	return swr.Response[*entity.Pair]{Data: &pair}
}

func (f *fakeData) UseOnchainToken(_ context.Context, web3 service.Web3, _ string, opts ...service.UseOption) swr.Response[*entity.Token] {
	f.lastWeb3 = web3
	return swr.Response[*entity.Token]{Data: f.onchain}
}

func (f *fakeData) UseRemoteTokens(_ context.Context, web3 service.Web3, query string, opts ...service.UseOption) swr.Response[[]entity.RemoteToken] {
	f.lastWeb3, f.lastSuspense = web3, suspense(opts)
	return swr.Response[[]entity.RemoteToken]{Data: []entity.RemoteToken{{Address: daiAddress, Symbol: query, Name: "Dai"}}, IsValidating: !f.lastSuspense}
}

func newTestRouter(data *fakeData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDataHandler(data, fakeLibraries{}, fakeTokens{}, logger.Nop())
	return SetupRouter(h, prometheus.NewRegistry(), zap.NewNop())
}

func get(t *testing.T, router *gin.Engine, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]any
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &body)
	}
	return w.Code, body
}

func TestETHBalanceEndpoint(t *testing.T) {
	data := &fakeData{}
	code, body := get(t, newTestRouter(data), "/api/v1/chains/1/eth-balance/"+holder)

	require.Equal(t, http.StatusOK, code)
	amount := body["data"].(map[string]any)
	assert.Equal(t, "1500000000000000000", amount["raw"])
	assert.Equal(t, "1.5", amount["exact"])
	assert.Equal(t, "1.500000", amount["formatted"])
	assert.True(t, data.lastSuspense)
	assert.NotNil(t, data.lastWeb3.Library)
}

func TestTokenBalanceEndpoint(t *testing.T) {
	data := &fakeData{}
	router := newTestRouter(data)

	code, body := get(t, router, "/api/v1/chains/1/tokens/"+daiAddress+"/balance/"+holder+"?suspense=false")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2", body["data"].(map[string]any)["exact"])
	assert.False(t, data.lastSuspense)

	data.balanceErr = errors.New("rpc unavailable")
	code, body = get(t, router, "/api/v1/chains/1/tokens/"+daiAddress+"/balance/"+holder)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "rpc unavailable", body["error"])
}

func TestBadParams(t *testing.T) {
	router := newTestRouter(&fakeData{})

	code, _ := get(t, router, "/api/v1/chains/abc/eth-balance/"+holder)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get(t, router, "/api/v1/chains/1/eth-balance/0x123")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get(t, router, "/api/v1/chains/1/tokens/search")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get(t, router, "/api/v1/chains/1/pairs/"+daiAddress+"/"+daiAddress+"/reserves")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUnknownTokenResolvesOnchain(t *testing.T) {
	data := &fakeData{}
	router := newTestRouter(data)

	code, _ := get(t, router, "/api/v1/chains/1/pairs/"+daiAddress+"/"+wethAddress+"/reserves")
	assert.Equal(t, http.StatusNotFound, code)

	data.onchain = &weth
	code, body := get(t, router, "/api/v1/chains/1/pairs/"+wethAddress+"/"+daiAddress+"/reserves")
	require.Equal(t, http.StatusOK, code)
	pair := body["data"].(map[string]any)
	assert.Equal(t, "0xA478c2975Ab1Ea89e8196811F51A7B7Ade33eB11", pair["address"])
	assert.Equal(t, "20", pair["reserve0"].(map[string]any)["raw"])
}

func TestTokenAndSearchEndpoints(t *testing.T) {
	data := &fakeData{}
	router := newTestRouter(data)

	code, body := get(t, router, "/api/v1/chains/1/tokens/"+daiAddress)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "DAI", body["data"].(map[string]any)["symbol"])

	code, body = get(t, router, "/api/v1/chains/4/tokens/search?q=usd&suspense=false")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["isValidating"])
	assert.Len(t, body["data"].([]any), 1)
	assert.Equal(t, entity.Rinkeby, data.lastWeb3.ChainID)
	assert.Nil(t, data.lastWeb3.Library)

	code, _ = get(t, router, "/api/v1/chains/1/tokens/"+wethAddress)
	assert.Equal(t, http.StatusOK, code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(&fakeData{})

	code, body := get(t, router, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
