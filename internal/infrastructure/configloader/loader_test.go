package configloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "logging:\n  development: true\n"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 10, cfg.Performance.RPCCallTimeoutSeconds)
	assert.Equal(t, 10*time.Minute, cfg.Cache.RetentionDuration())
	assert.Equal(t, time.Minute, cfg.Cache.CleanupDuration())
	assert.Equal(t, 30*time.Second, cfg.Cache.FetchTimeout())
	assert.Equal(t, 2, cfg.Cache.ObserverLeaseCycles)
	assert.Equal(t, 10*time.Second, cfg.Indexer.RequestTimeout())
	assert.Equal(t, "data/tokens", cfg.TokenLists.Directory)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	body := `
server:
  port: "9090"
rpcClient:
  rateLimit: 20
cache:
  observerLeaseCycles: 5
indexer:
  endpoints:
    4: https://example.org/subgraph
networks:
  - chainID: 1
    rpcURL: https://rpc.example.org
    fallbackRpcURLs: [https://fallback.example.org]
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 20, cfg.RpcClient.BurstLimit)
	assert.Equal(t, 5, cfg.Cache.ObserverLeaseCycles)
	assert.Equal(t, "https://example.org/subgraph", cfg.Indexer.Endpoints[4])
	require.Len(t, cfg.Networks, 1)
	assert.Equal(t, []string{"https://fallback.example.org"}, cfg.Networks[0].FallbackRPCURLs)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "networks:\n  - rpcURL: https://rpc.example.org\n"))
	assert.Error(t, err)
}
