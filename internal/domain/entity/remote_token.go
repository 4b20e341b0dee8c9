package entity

// Defaults applied when the indexer or the contract leaves symbol/name empty.
const (
	UnknownSymbol = "UNKNOWN"
	UnknownName   = "Unknown"
)

// RemoteToken is a token search hit returned by the remote indexer.
type RemoteToken struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}
