package entity

// DataKind tags the fetch category of a cache key so unrelated queries never collide.
type DataKind int

const (
	KindETHBalance DataKind = iota
	KindTokenBalance
	KindTokenAllowance
	KindReserves
	KindToken
	KindRemoteTokens
)

var dataKindNames = map[DataKind]string{
	KindETHBalance:     "eth_balance",
	KindTokenBalance:   "token_balance",
	KindTokenAllowance: "token_allowance",
	KindReserves:       "reserves",
	KindToken:          "token",
	KindRemoteTokens:   "remote_tokens",
}

func (k DataKind) String() string {
	if name, ok := dataKindNames[k]; ok {
		return name
	}
	return "unknown"
}
