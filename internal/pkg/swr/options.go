package swr

import "time"

// Options tunes freshness for one kind of query.
type Options struct {
	// DedupingInterval is how long a settled entry is served without refetching.
	DedupingInterval time.Duration
	// RefreshInterval, when positive, revalidates the key in the background while it is observed.
	RefreshInterval time.Duration
	// Suspense makes Use wait for the fetch instead of returning the cached state immediately.
	Suspense bool
}

// Config holds cache-wide settings.
type Config struct {
	// Retention is how long an entry stays in memory after its last update.
	Retention time.Duration
	// CleanupInterval is how often expired entries are purged.
	CleanupInterval time.Duration
	// FetchTimeout bounds a single remote call, independently of the callers waiting on it.
	FetchTimeout time.Duration
	// ObserverLeaseCycles is how many refresh intervals a key keeps revalidating after its last Use.
	ObserverLeaseCycles int
}

const (
	defaultRetention           = 10 * time.Minute
	defaultCleanupInterval     = time.Minute
	defaultFetchTimeout        = 30 * time.Second
	defaultObserverLeaseCycles = 2
)

func (c Config) withDefaults() Config {
	if c.Retention <= 0 {
		c.Retention = defaultRetention
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = defaultCleanupInterval
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
	if c.ObserverLeaseCycles <= 0 {
		c.ObserverLeaseCycles = defaultObserverLeaseCycles
	}
	return c
}
