package client

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"dex_data/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	chainID  int64
	balances map[common.Address]*big.Int
	callErr  error
	closed   bool
}

func (f *fakeBackend) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	if b, ok := f.balances[account]; ok {
		return b, nil
	}
	return nil, errors.New("unknown account")
}

func (f *fakeBackend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	return call.Data, nil
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(f.chainID), nil
}

func (f *fakeBackend) Close() { f.closed = true }

var mainnetDef = entity.NetworkDefinition{ChainID: entity.Mainnet, Name: "Ethereum Mainnet"}

func TestGetBalance(t *testing.T) {
	holder := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	backend := &fakeBackend{chainID: 1, balances: map[common.Address]*big.Int{holder: big.NewInt(99)}}
	c := newEVMClient(backend, mainnetDef, time.Second, nil)

	balance, err := c.GetBalance(context.Background(), holder.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(99), balance.Int64())
	assert.Equal(t, entity.Mainnet, c.ChainID())

	_, err = c.GetBalance(context.Background(), "0x1234")
	assert.Error(t, err)
}

func TestVerifyChainIDMismatch(t *testing.T) {
	c := newEVMClient(&fakeBackend{chainID: 4}, mainnetDef, time.Second, nil)
	assert.Error(t, c.verifyChainID(context.Background()))

	c = newEVMClient(&fakeBackend{chainID: 1}, mainnetDef, time.Second, nil)
	assert.NoError(t, c.verifyChainID(context.Background()))
}

func TestCallContractPassesThrough(t *testing.T) {
	backend := &fakeBackend{chainID: 1}
	c := newEVMClient(backend, mainnetDef, 0, nil)

	out, err := c.CallContract(context.Background(), ethereum.CallMsg{Data: []byte{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, out)

	c.Close()
	assert.True(t, backend.closed)
}
