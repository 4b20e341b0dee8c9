package restapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"dex_data/internal/app/port"
	"dex_data/internal/app/service"
	"dex_data/internal/domain/entity"
	"dex_data/internal/pkg/swr"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

var errTokenNotFound = errors.New("token not found")

// DataHandler serves the cached chain and indexer queries over HTTP.
type DataHandler struct {
	data      service.DataService
	libraries port.LibraryProvider
	tokens    port.TokenProvider
	logger    port.Logger
}

// NewDataHandler creates a new instance of DataHandler.
func NewDataHandler(data service.DataService, libraries port.LibraryProvider, tokens port.TokenProvider, logger port.Logger) *DataHandler {
	return &DataHandler{
		data:      data,
		libraries: libraries,
		tokens:    tokens,
		logger:    logger,
	}
}

// GetETHBalance handles GET /chains/:chainId/eth-balance/:address.
func (h *DataHandler) GetETHBalance(c *gin.Context) {
	web3, ok := h.web3(c)
	if !ok {
		return
	}
	address, ok := addressParam(c, "address")
	if !ok {
		return
	}
	resp := h.data.UseETHBalance(c.Request.Context(), web3, address, useOptions(c)...)
	respond(c, resp, newAmountDTO)
}

// GetTokenBalance handles GET /chains/:chainId/tokens/:token/balance/:address.
func (h *DataHandler) GetTokenBalance(c *gin.Context) {
	web3, ok := h.web3(c)
	if !ok {
		return
	}
	address, ok := addressParam(c, "address")
	if !ok {
		return
	}
	token, ok := h.token(c, web3)
	if !ok {
		return
	}
	resp := h.data.UseTokenBalance(c.Request.Context(), web3, &token, address, useOptions(c)...)
	respond(c, resp, newAmountDTO)
}

// GetTokenAllowance handles GET /chains/:chainId/tokens/:token/allowance/:owner/:spender.
func (h *DataHandler) GetTokenAllowance(c *gin.Context) {
	web3, ok := h.web3(c)
	if !ok {
		return
	}
	owner, ok := addressParam(c, "owner")
	if !ok {
		return
	}
	spender, ok := addressParam(c, "spender")
	if !ok {
		return
	}
	token, ok := h.token(c, web3)
	if !ok {
		return
	}
	resp := h.data.UseTokenAllowance(c.Request.Context(), web3, &token, owner, spender, useOptions(c)...)
	respond(c, resp, newAmountDTO)
}

// GetReserves handles GET /chains/:chainId/pairs/:tokenA/:tokenB/reserves.
func (h *DataHandler) GetReserves(c *gin.Context) {
	web3, ok := h.web3(c)
	if !ok {
		return
	}
	tokenA, ok := h.resolveToken(c, web3, "tokenA")
	if !ok {
		return
	}
	tokenB, ok := h.resolveToken(c, web3, "tokenB")
	if !ok {
		return
	}
	if tokenA.Equals(tokenB) {
		c.JSON(http.StatusBadRequest, APIResponse{Error: entity.ErrSameAddress.Error()})
		return
	}
	resp := h.data.UseReserves(c.Request.Context(), web3, &tokenA, &tokenB, useOptions(c)...)
	respond(c, resp, newPairDTO)
}

// GetToken handles GET /chains/:chainId/tokens/:token.
func (h *DataHandler) GetToken(c *gin.Context) {
	web3, ok := h.web3(c)
	if !ok {
		return
	}
	address, ok := addressParam(c, "token")
	if !ok {
		return
	}
	if token, known := h.tokens.GetToken(web3.ChainID, address); known {
		c.JSON(http.StatusOK, APIResponse{Data: token})
		return
	}
	resp := h.data.UseOnchainToken(c.Request.Context(), web3, address, useOptions(c)...)
	respond(c, resp, newTokenDTO)
}

// SearchTokens handles GET /chains/:chainId/tokens/search?q=.
func (h *DataHandler) SearchTokens(c *gin.Context) {
	web3, ok := h.web3(c)
	if !ok {
		return
	}
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, APIResponse{Error: "query parameter q is required"})
		return
	}
	resp := h.data.UseRemoteTokens(c.Request.Context(), web3, query, useOptions(c)...)
	respond(c, resp, newRemoteTokensDTO)
}

// web3 resolves the chain of the request. An unreachable chain yields a Web3 without a library,
// so on-chain queries simply report no data.
func (h *DataHandler) web3(c *gin.Context) (service.Web3, bool) {
	raw := c.Param("chainId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, APIResponse{Error: "invalid chain id " + strconv.Quote(raw)})
		return service.Web3{}, false
	}
	web3 := service.Web3{ChainID: entity.ChainID(id)}
	if library, ok := h.libraries.GetLibrary(c.Request.Context(), web3.ChainID); ok {
		web3.Library = library
	} else {
		h.logger.Debug("No connection for chain", "chain_id", id)
	}
	return web3, true
}

func (h *DataHandler) token(c *gin.Context, web3 service.Web3) (entity.Token, bool) {
	return h.resolveToken(c, web3, "token")
}

// resolveToken looks a token up in the loaded token lists, then on chain.
func (h *DataHandler) resolveToken(c *gin.Context, web3 service.Web3, param string) (entity.Token, bool) {
	address, ok := addressParam(c, param)
	if !ok {
		return entity.Token{}, false
	}
	if token, known := h.tokens.GetToken(web3.ChainID, address); known {
		return token, true
	}

	resp := h.data.UseOnchainToken(c.Request.Context(), web3, address, service.WithSuspense())
	switch {
	case resp.Data != nil:
		return *resp.Data, true
	case resp.Error != nil:
		c.JSON(statusFor(resp.Error), APIResponse{Error: resp.Error.Error()})
	default:
		c.JSON(http.StatusNotFound, APIResponse{Error: errTokenNotFound.Error() + ": " + address})
	}
	return entity.Token{}, false
}

func addressParam(c *gin.Context, name string) (string, bool) {
	value := c.Param(name)
	if !common.IsHexAddress(value) {
		c.JSON(http.StatusBadRequest, APIResponse{Error: "invalid address " + strconv.Quote(value)})
		return "", false
	}
	return common.HexToAddress(value).Hex(), true
}

func useOptions(c *gin.Context) []service.UseOption {
	if suspense, err := strconv.ParseBool(c.DefaultQuery("suspense", "true")); err == nil && !suspense {
		return nil
	}
	return []service.UseOption{service.WithSuspense()}
}

func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func respond[T any](c *gin.Context, resp swr.Response[T], convert func(T) any) {
	body := APIResponse{Data: convert(resp.Data), IsValidating: resp.IsValidating}
	if resp.Error != nil {
		body.Error = resp.Error.Error()
		c.JSON(statusFor(resp.Error), body)
		return
	}
	c.JSON(http.StatusOK, body)
}
