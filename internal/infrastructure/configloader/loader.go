package configloader

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	RPCCallTimeoutSeconds int `yaml:"rpc_call_timeout_seconds"`
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	RateLimit  int `yaml:"rateLimit"`
	BurstLimit int `yaml:"burstLimit"`
}

// CacheConfig holds configuration for the stale-while-revalidate cache.
type CacheConfig struct {
	RetentionMinutes       int `yaml:"retentionMinutes"`
	CleanupIntervalSeconds int `yaml:"cleanupIntervalSeconds"`
	FetchTimeoutSeconds    int `yaml:"fetchTimeoutSeconds"`
	ObserverLeaseCycles    int `yaml:"observerLeaseCycles"`
}

// IndexerConfig holds configuration for the GraphQL token indexer client.
type IndexerConfig struct {
	RequestTimeoutMillis int64             `yaml:"requestTimeoutMillis"`
	RateLimit            int               `yaml:"rateLimit"`
	BurstLimit           int               `yaml:"burstLimit"`
	Endpoints            map[uint64]string `yaml:"endpoints"`
}

// TokenListsConfig points at the directory of per-network token list files.
type TokenListsConfig struct {
	Directory string `yaml:"directory"`
}

// NetworkNodeConfig overrides the RPC endpoints of a known network.
type NetworkNodeConfig struct {
	ChainID         uint64   `yaml:"chainID"`
	RPCURL          string   `yaml:"rpcURL"`
	FallbackRPCURLs []string `yaml:"fallbackRpcURLs"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig        `yaml:"server"`
	Logging     LoggingConfig       `yaml:"logging"`
	Performance PerformanceConfig   `yaml:"performance"`
	RpcClient   RpcClientConfig     `yaml:"rpcClient"`
	Cache       CacheConfig         `yaml:"cache"`
	Indexer     IndexerConfig       `yaml:"indexer"`
	TokenLists  TokenListsConfig    `yaml:"tokenLists"`
	Networks    []NetworkNodeConfig `yaml:"networks"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	for _, network := range cfg.Networks {
		if network.ChainID == 0 {
			return nil, fmt.Errorf("network entry with rpcURL %q has no chainID", network.RPCURL)
		}
		if network.RPCURL == "" {
			logrus.Warnf("Network with ChainID %d has no rpcURL, the built-in endpoint will be used", network.ChainID)
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
		logrus.Infof("Server.ReadTimeout not set, defaulting to %d seconds", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 35
		logrus.Infof("Server.WriteTimeout not set, defaulting to %d seconds", cfg.Server.WriteTimeout)
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
		logrus.Infof("Server.IdleTimeout not set, defaulting to %d seconds", cfg.Server.IdleTimeout)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
		logrus.Infof("Logging.Level not set, defaulting to %s", cfg.Logging.Level)
	}

	if cfg.Performance.RPCCallTimeoutSeconds <= 0 {
		cfg.Performance.RPCCallTimeoutSeconds = 10
		logrus.Infof("Performance.RPCCallTimeoutSeconds not set, defaulting to %d seconds", cfg.Performance.RPCCallTimeoutSeconds)
	}

	if cfg.RpcClient.RateLimit > 0 && cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = cfg.RpcClient.RateLimit
		logrus.Infof("RpcClient.BurstLimit not set, defaulting to rate limit %d", cfg.RpcClient.BurstLimit)
	}

	if cfg.Cache.RetentionMinutes <= 0 {
		cfg.Cache.RetentionMinutes = 10
		logrus.Infof("Cache.RetentionMinutes not set, defaulting to %d minutes", cfg.Cache.RetentionMinutes)
	}
	if cfg.Cache.CleanupIntervalSeconds <= 0 {
		cfg.Cache.CleanupIntervalSeconds = 60
		logrus.Infof("Cache.CleanupIntervalSeconds not set, defaulting to %d seconds", cfg.Cache.CleanupIntervalSeconds)
	}
	if cfg.Cache.FetchTimeoutSeconds <= 0 {
		cfg.Cache.FetchTimeoutSeconds = 30
		logrus.Infof("Cache.FetchTimeoutSeconds not set, defaulting to %d seconds", cfg.Cache.FetchTimeoutSeconds)
	}
	if cfg.Cache.ObserverLeaseCycles <= 0 {
		cfg.Cache.ObserverLeaseCycles = 2
		logrus.Infof("Cache.ObserverLeaseCycles not set, defaulting to %d", cfg.Cache.ObserverLeaseCycles)
	}

	if cfg.Indexer.RequestTimeoutMillis <= 0 {
		cfg.Indexer.RequestTimeoutMillis = 10000
		logrus.Infof("Indexer.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Indexer.RequestTimeoutMillis)
	}
	if cfg.Indexer.RateLimit > 0 && cfg.Indexer.BurstLimit <= 0 {
		cfg.Indexer.BurstLimit = cfg.Indexer.RateLimit
		logrus.Infof("Indexer.BurstLimit not set, defaulting to rate limit %d", cfg.Indexer.BurstLimit)
	}

	if cfg.TokenLists.Directory == "" {
		cfg.TokenLists.Directory = "data/tokens"
		logrus.Infof("TokenLists.Directory not set, defaulting to %s", cfg.TokenLists.Directory)
	}
}

// RetentionDuration returns how long cache entries live without being read.
func (c CacheConfig) RetentionDuration() time.Duration {
	return time.Duration(c.RetentionMinutes) * time.Minute
}

// CleanupDuration returns the cache janitor interval.
func (c CacheConfig) CleanupDuration() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}

// FetchTimeout returns the deadline applied to every background fetch.
func (c CacheConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// RequestTimeout returns the per-request indexer timeout.
func (c IndexerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMillis) * time.Millisecond
}
