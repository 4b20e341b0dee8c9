package contract

import (
	"context"
	"errors"
	"fmt"

	"dex_data/internal/app/port"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrEmptyReturn is returned when a call yields no data, typically because no contract is deployed at the address.
var ErrEmptyReturn = errors.New("call returned no data")

type factory struct{}

// NewFactory returns a port.ContractFactory building ABI-bound handles.
func NewFactory() port.ContractFactory {
	initParsedABIs()
	return factory{}
}

func (factory) Contract(library port.Library, address string, iface port.ContractInterface) (port.Contract, bool) {
	if library == nil || !common.IsHexAddress(address) {
		return nil, false
	}
	parsed, ok := ABI(iface)
	if !ok {
		return nil, false
	}
	return &boundContract{
		address: common.HexToAddress(address),
		abi:     parsed,
		library: library,
	}, true
}

type boundContract struct {
	address common.Address
	abi     abi.ABI
	library port.Library
}

func (c *boundContract) Address() string {
	return c.address.Hex()
}

func (c *boundContract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	callData, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	result, err := c.library.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: callData})
	if err != nil {
		return nil, fmt.Errorf("%s call to %s failed: %w", method, c.address.Hex(), err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%s call to %s: %w", method, c.address.Hex(), ErrEmptyReturn)
	}

	unpacked, err := c.abi.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result from %s: %w", method, c.address.Hex(), err)
	}
	return unpacked, nil
}
