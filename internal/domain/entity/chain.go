package entity

// ChainID identifies an EVM network. Zero means the network is not known yet.
type ChainID uint64

// Chain IDs of the networks the exchange front-end deploys to.
const (
	Mainnet ChainID = 1
	Ropsten ChainID = 3
	Rinkeby ChainID = 4
	Goerli  ChainID = 5
	Kovan   ChainID = 42
)

// Known reports whether the chain id has been resolved.
func (c ChainID) Known() bool {
	return c != 0
}

// NetworkDefinition holds the configuration for a specific blockchain network.
type NetworkDefinition struct {
	ChainID          ChainID  `json:"chainId" yaml:"chainId"`
	Name             string   `json:"name" yaml:"name"`
	Identifier       string   `json:"identifier" yaml:"identifier"`
	NativeSymbol     string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	PrimaryRPCURL    string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	// IndexerURL is the GraphQL subgraph used for token search, empty when the network has none.
	IndexerURL string `json:"indexerUrl,omitempty" yaml:"indexerUrl,omitempty"`
}
