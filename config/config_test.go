package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/freeverseio/laos-minters/secrets"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	require.NoError(t, config.Validate())

	network, err := config.ActiveNetwork()
	require.NoError(t, err)
	require.Equal(t, uint64(667), network.ChainID)
	require.Equal(t, uint64(15000000), network.GasPrice)

	policy, err := config.RetryPolicy()
	require.NoError(t, err)
	require.Equal(t, uint64(10), policy.Retries)
	require.Equal(t, 10*time.Second, policy.Delay)

	timeout, err := config.TransactionTimeout()
	require.NoError(t, err)
	require.Equal(t, 50*time.Second, timeout)
}

func TestReadConfigFile_YAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "minterctl.yaml", `
network: laosTestnet
retry:
  retries: 3
  delay: 2s
tx_timeout: 2m
networks:
  local:
    url: http://127.0.0.1:8545
    chain_id: 31337
secrets:
  type: local
  extra:
    path: /tmp/keys
`)

	config, err := ReadConfigFile(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	network, err := config.ActiveNetwork()
	require.NoError(t, err)
	require.Equal(t, uint64(62850), network.ChainID)

	require.Equal(t, uint64(31337), config.Networks["local"].ChainID)
	require.Contains(t, config.Networks, "laos")

	policy, err := config.RetryPolicy()
	require.NoError(t, err)
	require.Equal(t, uint64(3), policy.Retries)
	require.Equal(t, 2*time.Second, policy.Delay)

	require.Equal(t, secrets.Local, config.Secrets.Type)
	require.Equal(t, "/tmp/keys", config.Secrets.Extra["path"])
	require.Equal(t, DefaultLogLevel, config.LogLevel)
}

func TestReadConfigFile_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "minterctl.json", `{
  "network": "venus",
  "log_level": "DEBUG",
  "metrics": {"prometheus_addr": "127.0.0.1:5001"}
}`)

	config, err := ReadConfigFile(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())
	require.Equal(t, "venus", config.Network)
	require.Equal(t, "127.0.0.1:5001", config.Metrics.PrometheusAddr)
}

func TestReadConfigFile_HCL(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "minterctl.hcl", `
network = "laos"
log_level = "TRACE"
artifacts_dir = "contracts/artifacts"
`)

	config, err := ReadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, "laos", config.Network)
	require.Equal(t, "contracts/artifacts", config.ArtifactsDir)
}

func TestReadConfigFile_HCLBlocks(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "minterctl.hcl", `
network = "local"

retry {
  retries = 3
  delay = "2s"
}

networks {
  local {
    url = "http://127.0.0.1:8545"
    chain_id = 31337
    gas_limit = 8000000
  }

  zombienet {
    url = "http://10.0.0.1:9999/"
  }
}

secrets {
  type = "local"

  extra {
    path = "/tmp/keys"
  }
}
`)

	config, err := ReadConfigFile(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	network, err := config.ActiveNetwork()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8545", network.URL)
	require.Equal(t, uint64(31337), network.ChainID)
	require.Equal(t, uint64(8000000), network.GasLimit)

	zombienet := config.Networks["zombienet"]
	require.Equal(t, "http://10.0.0.1:9999/", zombienet.URL)
	require.Equal(t, uint64(667), zombienet.ChainID)

	policy, err := config.RetryPolicy()
	require.NoError(t, err)
	require.Equal(t, uint64(3), policy.Retries)
	require.Equal(t, 2*time.Second, policy.Delay)

	require.Equal(t, secrets.Local, config.Secrets.Type)
	require.Equal(t, "/tmp/keys", config.Secrets.Extra["path"])
}

func TestReadConfigFile_KeepsBuiltinNetworkFields(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "minterctl.yaml", `
networks:
  zombienet:
    url: http://10.0.0.1:9999/
retry:
  retries: 4
`)

	config, err := ReadConfigFile(path)
	require.NoError(t, err)

	zombienet := config.Networks["zombienet"]
	require.Equal(t, "http://10.0.0.1:9999/", zombienet.URL)
	require.Equal(t, uint64(667), zombienet.ChainID)
	require.Equal(t, uint64(5000000), zombienet.GasLimit)
	require.Equal(t, uint64(15000000), zombienet.GasPrice)

	policy, err := config.RetryPolicy()
	require.NoError(t, err)
	require.Equal(t, uint64(4), policy.Retries)
	require.Equal(t, 10*time.Second, policy.Delay)
}

func TestReadConfigFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := ReadConfigFile(writeFile(t, "minterctl.toml", "network = 1"))
	require.Error(t, err)

	_, err = ReadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = ReadConfigFile(writeFile(t, "broken.json", "{"))
	require.Error(t, err)

	_, err = ReadConfigFile(writeFile(t, "negative.hcl", "retry {\n  retries = -1\n}\n"))
	require.Error(t, err)

	_, err = ReadConfigFile(writeFile(t, "typo.yaml", "netwrok: laos\n"))
	require.Error(t, err)
}

func TestConfig_ValidateAggregates(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.Network = "mars"
	config.Retry = &Retry{Retries: 0, Delay: "1s"}
	config.TxTimeout = "soon"
	config.LogLevel = "LOUD"

	err := config.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, errUnknownNetwork)
	require.Contains(t, err.Error(), "4 errors occurred")
}
