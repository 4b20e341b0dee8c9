package client

import (
	"context"
	"sync"
	"time"

	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	"dex_data/internal/infrastructure/configloader"

	"golang.org/x/time/rate"
)

const (
	defaultProviderConnectionTimeout = 10 * time.Second
)

// evmClientProvider implements port.LibraryProvider, caching one client per chain.
type evmClientProvider struct {
	networks          port.NetworkDefinitionProvider
	clients           map[entity.ChainID]*EVMClient
	mu                sync.Mutex
	logger            port.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
	rateLimit         rate.Limit
	burst             int
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(cfg *configloader.Config, networks port.NetworkDefinitionProvider, logger port.Logger) *evmClientProvider {
	limit := rate.Inf
	if cfg.RpcClient.RateLimit > 0 {
		limit = rate.Limit(cfg.RpcClient.RateLimit)
	}
	return &evmClientProvider{
		networks:          networks,
		clients:           make(map[entity.ChainID]*EVMClient),
		logger:            logger,
		connectionTimeout: defaultProviderConnectionTimeout,
		rpcCallTimeout:    time.Duration(cfg.Performance.RPCCallTimeoutSeconds) * time.Second,
		rateLimit:         limit,
		burst:             cfg.RpcClient.BurstLimit,
	}
}

// GetLibrary returns the cached client for chainID, dialing it on first use.
func (p *evmClientProvider) GetLibrary(ctx context.Context, chainID entity.ChainID) (port.Library, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, exists := p.clients[chainID]; exists {
		return c, true
	}

	netDef, ok := p.networks.GetNetworkDefinitionByChainID(chainID)
	if !ok {
		p.logger.Warn("No network definition for chain", "chain_id", chainID)
		return nil, false
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc_primary", netDef.PrimaryRPCURL)
	newClient, err := NewEVMClient(ctx, netDef, p.connectionTimeout, p.rpcCallTimeout, rate.NewLimiter(p.rateLimit, p.burst))
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, false
	}

	p.clients[chainID] = newClient
	p.logger.Info("Successfully created and cached new EVM client", "network", netDef.Name)
	return newClient, true
}

// Close closes every cached client.
func (p *evmClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		c.Close()
		delete(p.clients, id)
	}
}
