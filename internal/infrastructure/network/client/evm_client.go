package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// ethBackend is the subset of *ethclient.Client the EVM client relies on.
type ethBackend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// EVMClient implements port.Library for EVM-compatible chains.
type EVMClient struct {
	backend        ethBackend
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	limiter        *rate.Limiter
}

// NewEVMClient dials the primary RPC of the network, then its fallbacks, and verifies the chain id.
func NewEVMClient(ctx context.Context, netDef entity.NetworkDefinition, connectionTimeout, rpcCallTimeout time.Duration, limiter *rate.Limiter) (*EVMClient, error) {
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		if rpcURL == "" {
			continue
		}
		dialCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
		ethClient, err := ethclient.DialContext(dialCtx, rpcURL)
		cancel()
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
			continue
		}

		c := newEVMClient(ethClient, netDef, rpcCallTimeout, limiter)
		if err := c.verifyChainID(ctx); err != nil {
			ethClient.Close()
			lastErr = fmt.Errorf("RPC %s: %w", rpcURL, err)
			continue
		}
		return c, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC URLs configured")
	}
	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

func newEVMClient(backend ethBackend, netDef entity.NetworkDefinition, rpcCallTimeout time.Duration, limiter *rate.Limiter) *EVMClient {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &EVMClient{backend: backend, netDef: netDef, rpcCallTimeout: rpcCallTimeout, limiter: limiter}
}

func (c *EVMClient) verifyChainID(ctx context.Context) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	id, err := c.backend.ChainID(callCtx)
	if err != nil {
		return fmt.Errorf("failed to verify chain id: %w", err)
	}
	if id.Uint64() != uint64(c.netDef.ChainID) {
		return fmt.Errorf("chain id mismatch: expected %d, got %d", c.netDef.ChainID, id.Uint64())
	}
	return nil
}

func (c *EVMClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.rpcCallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.rpcCallTimeout)
}

// ChainID returns the chain the client is connected to.
func (c *EVMClient) ChainID() entity.ChainID {
	return c.netDef.ChainID
}

// GetBalance fetches the native currency balance of address at the latest block.
func (c *EVMClient) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address %q", address)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	balance, err := c.backend.BalanceAt(callCtx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance for %s on %s failed: %w", address, c.netDef.Name, err)
	}
	return balance, nil
}

// CallContract executes a read-only call at the latest block.
func (c *EVMClient) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	return c.backend.CallContract(callCtx, msg, nil)
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.backend.Close()
}

var _ port.Library = (*EVMClient)(nil)
