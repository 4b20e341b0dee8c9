package networkdefinition

import (
	"fmt"
	"sort"

	"dex_data/internal/app/fetcher"
	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	"dex_data/internal/infrastructure/configloader"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger port.Logger
	defs   map[entity.ChainID]entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Mainnet = entity.NetworkDefinition{
		ChainID:          entity.Mainnet,
		Name:             "Ethereum Mainnet",
		Identifier:       "mainnet",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL: "https://etherscan.io",
	}
	Ropsten = entity.NetworkDefinition{
		ChainID:          entity.Ropsten,
		Name:             "Ropsten",
		Identifier:       "ropsten",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://rpc.ankr.com/eth_ropsten",
		FallbackRPCURLs:  []string{},
		BlockExplorerURL: "https://ropsten.etherscan.io",
	}
	Rinkeby = entity.NetworkDefinition{
		ChainID:          entity.Rinkeby,
		Name:             "Rinkeby",
		Identifier:       "rinkeby",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://rpc.ankr.com/eth_rinkeby",
		FallbackRPCURLs:  []string{},
		BlockExplorerURL: "https://rinkeby.etherscan.io",
	}
	Goerli = entity.NetworkDefinition{
		ChainID:          entity.Goerli,
		Name:             "Görli",
		Identifier:       "goerli",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://ethereum-goerli.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth_goerli"},
		BlockExplorerURL: "https://goerli.etherscan.io",
	}
	Kovan = entity.NetworkDefinition{
		ChainID:          entity.Kovan,
		Name:             "Kovan",
		Identifier:       "kovan",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://kovan.poa.network",
		FallbackRPCURLs:  []string{},
		BlockExplorerURL: "https://kovan.etherscan.io",
	}
)

// knownDefinitions copies the predefined table and attaches the built-in token indexer endpoints.
func knownDefinitions() map[entity.ChainID]entity.NetworkDefinition {
	indexers := fetcher.DefaultIndexerEndpoints()
	defs := make(map[entity.ChainID]entity.NetworkDefinition)
	for _, def := range []entity.NetworkDefinition{Mainnet, Ropsten, Rinkeby, Goerli, Kovan} {
		def.FallbackRPCURLs = append([]string(nil), def.FallbackRPCURLs...)
		def.IndexerURL = indexers[def.ChainID]
		defs[def.ChainID] = def
	}
	return defs
}

// NewNetworkDefinitionProvider builds the network table, applying RPC and indexer overrides from config.
func NewNetworkDefinitionProvider(log port.Logger, nodes []configloader.NetworkNodeConfig, indexerEndpoints map[uint64]string) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger: log,
		defs:   knownDefinitions(),
	}

	for _, node := range nodes {
		id := entity.ChainID(node.ChainID)
		def, ok := p.defs[id]
		if !ok {
			p.logger.Warn(fmt.Sprintf("RPC override for ChainID %d has no corresponding network definition. Skipping.", node.ChainID))
			continue
		}
		if node.RPCURL != "" {
			def.PrimaryRPCURL = node.RPCURL
		}
		if len(node.FallbackRPCURLs) > 0 {
			def.FallbackRPCURLs = append([]string(nil), node.FallbackRPCURLs...)
		}
		p.defs[id] = def
		p.logger.Debug(fmt.Sprintf("Network '%s' RPC endpoints overridden from config.", def.Name), "rpc_primary", def.PrimaryRPCURL)
	}

	for chainID, url := range indexerEndpoints {
		id := entity.ChainID(chainID)
		def, ok := p.defs[id]
		if !ok {
			p.logger.Warn(fmt.Sprintf("Indexer endpoint for ChainID %d has no corresponding network definition. Skipping.", chainID))
			continue
		}
		def.IndexerURL = url
		p.defs[id] = def
	}

	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Networks: %d", len(p.defs)))
	return p
}

// GetAllNetworkDefinitions returns every network definition ordered by chain id.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.defs))
	for _, def := range p.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

// GetNetworkDefinitionByChainID returns a specific network definition by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID entity.ChainID) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.defs[chainID]
	return def, ok
}

// IndexerEndpoints maps each chain with a token indexer to its endpoint.
func (p *NetworkDefinitionProvider) IndexerEndpoints() map[entity.ChainID]string {
	endpoints := make(map[entity.ChainID]string)
	if p == nil {
		return endpoints
	}
	for id, def := range p.defs {
		if def.IndexerURL != "" {
			endpoints[id] = def.IndexerURL
		}
	}
	return endpoints
}

var _ port.NetworkDefinitionProvider = (*NetworkDefinitionProvider)(nil)
