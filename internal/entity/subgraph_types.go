package entity

// GraphQLRequest is the POST body sent to a subgraph endpoint.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLError is a single entry of a GraphQL `errors` array.
type GraphQLError struct {
	Message string `json:"message"`
}

// SubgraphToken is a token row of the Uniswap V2 test subgraph.
// Symbol and Name are pointers because the subgraph returns null for tokens whose metadata failed to index.
type SubgraphToken struct {
	ID     string  `json:"id"`
	Symbol *string `json:"symbol"`
	Name   *string `json:"name"`
}

// TokensResponse is the `data` of a `tokens` query.
type TokensResponse struct {
	Tokens []SubgraphToken `json:"tokens"`
}

// SubgraphExchange is an exchange row of the Uniswap V1 subgraph.
type SubgraphExchange struct {
	TokenAddress string  `json:"tokenAddress"`
	TokenSymbol  *string `json:"tokenSymbol"`
	TokenName    *string `json:"tokenName"`
}

// ExchangesResponse is the `data` of an `exchanges` query.
type ExchangesResponse struct {
	Exchanges []SubgraphExchange `json:"exchanges"`
}
