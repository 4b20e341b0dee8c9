package port

import "context"

// ContractInterface selects the ABI a contract handle is bound with.
type ContractInterface int

const (
	// ERC20Interface is the standard token interface with dynamic string symbol/name.
	ERC20Interface ContractInterface = iota
	// ERC20Bytes32Interface is the legacy interface returning symbol/name as bytes32.
	ERC20Bytes32Interface
	// PairInterface is the Uniswap V2 pair interface.
	PairInterface
)

// Contract is a callable proxy for read calls against a deployed contract.
type Contract interface {
	Address() string
	// Call invokes a view method and returns its decoded outputs.
	Call(ctx context.Context, method string, args ...any) ([]any, error)
}

// ContractFactory builds contract handles over a connection.
type ContractFactory interface {
	// Contract returns false when there is no connection or the address is not a valid hex address.
	Contract(library Library, address string, iface ContractInterface) (Contract, bool)
}
