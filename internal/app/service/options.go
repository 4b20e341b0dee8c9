package service

import (
	"time"

	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	"dex_data/internal/pkg/swr"
)

// Web3 is the network context a query runs against. A zero ChainID or a nil Library means "not connected".
type Web3 struct {
	ChainID entity.ChainID
	Library port.Library
}

type useOptions struct {
	suspense bool
}

// UseOption customizes a single Use* call.
type UseOption func(*useOptions)

// WithSuspense makes the call wait for the remote read instead of returning the cached state.
func WithSuspense() UseOption {
	return func(o *useOptions) { o.suspense = true }
}

// Freshness per kind of query.
var (
	ethBalanceOptions     = swr.Options{DedupingInterval: 15 * time.Second, RefreshInterval: 30 * time.Second}
	tokenBalanceOptions   = swr.Options{DedupingInterval: 15 * time.Second, RefreshInterval: 30 * time.Second}
	tokenAllowanceOptions = swr.Options{DedupingInterval: 30 * time.Second, RefreshInterval: 60 * time.Second}
	reservesOptions       = swr.Options{DedupingInterval: 15 * time.Second, RefreshInterval: 30 * time.Second}
	onchainTokenOptions   = swr.Options{DedupingInterval: 60 * time.Second}
	remoteTokensOptions   = swr.Options{DedupingInterval: 5 * time.Minute}
)

func resolve(base swr.Options, opts []UseOption) swr.Options {
	o := useOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	base.Suspense = o.suspense
	return base
}
