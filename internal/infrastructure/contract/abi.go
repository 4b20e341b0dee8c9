package contract

import (
	"fmt"
	"strings"
	"sync"

	"dex_data/internal/app/port"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20ABI = `[
{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

// Legacy tokens (e.g. MKR) return symbol and name as bytes32.
const erc20Bytes32ABI = `[
{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"bytes32"}],"payable":false,"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"bytes32"}],"payable":false,"stateMutability":"view","type":"function"}
]`

const pairABI = `[
{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}],"payable":false,"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"payable":false,"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"token1","outputs":[{"name":"","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}
]`

var (
	parsedABIs     map[port.ContractInterface]abi.ABI
	parsedABIsOnce sync.Once
)

func initParsedABIs() {
	parsedABIsOnce.Do(func() {
		sources := map[port.ContractInterface]string{
			port.ERC20Interface:        erc20ABI,
			port.ERC20Bytes32Interface: erc20Bytes32ABI,
			port.PairInterface:         pairABI,
		}
		parsedABIs = make(map[port.ContractInterface]abi.ABI, len(sources))
		for iface, source := range sources {
			parsed, err := abi.JSON(strings.NewReader(source))
			if err != nil {
				panic(fmt.Sprintf("failed to parse contract ABI %d: %v", iface, err))
			}
			parsedABIs[iface] = parsed
		}
	})
}

// ABI returns the parsed ABI of an interface.
func ABI(iface port.ContractInterface) (abi.ABI, bool) {
	initParsedABIs()
	parsed, ok := parsedABIs[iface]
	return parsed, ok
}
