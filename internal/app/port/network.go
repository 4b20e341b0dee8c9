package port

import (
	"context"
	"math/big"

	"dex_data/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
)

// Library is a connection handle to a blockchain node.
type Library interface {
	// ChainID returns the network the connection is bound to.
	ChainID() entity.ChainID

	// GetBalance fetches the native currency balance of an address.
	GetBalance(ctx context.Context, address string) (*big.Int, error)

	// CallContract executes a read-only message call against the latest block.
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// LibraryProvider hands out connection handles per network.
type LibraryProvider interface {
	// GetLibrary returns the connection for a chain, or false when the chain is unknown or unreachable.
	GetLibrary(ctx context.Context, chainID entity.ChainID) (Library, bool)
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	GetAllNetworkDefinitions() []entity.NetworkDefinition
	GetNetworkDefinitionByChainID(chainID entity.ChainID) (entity.NetworkDefinition, bool)
}
