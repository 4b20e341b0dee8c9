package port

import "context"

// GraphQLClient issues queries against a remote GraphQL endpoint.
type GraphQLClient interface {
	// Query posts {query, variables} to endpoint and decodes the response "data" member into out.
	Query(ctx context.Context, endpoint, document string, variables map[string]any, out any) error
}
