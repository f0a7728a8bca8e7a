package helper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newRootCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	RegisterPersistentFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))

	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(newRootCmd(t))
	require.NoError(t, err)
	require.Equal(t, config.DefaultNetwork, cfg.Network)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(newRootCmd(t,
		"--network", "laosTestnet", "--json-rpc", "http://localhost:9944", "--log-level", "DEBUG"))
	require.NoError(t, err)

	network, err := cfg.ActiveNetwork()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9944", network.URL)
	require.Equal(t, uint64(62850), network.ChainID)
	require.Equal(t, "DEBUG", cfg.LogLevel)

	// the defaults are left untouched
	require.NotEqual(t, "http://localhost:9944", config.DefaultNetworks()["laosTestnet"].URL)
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "minterctl.yaml")
	data := "network: local\nnetworks:\n  local:\n    url: http://127.0.0.1:8545\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadConfig(newRootCmd(t, "--config", path))
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Network)

	_, err = LoadConfig(newRootCmd(t, "--config", path, "--network", "missing"))
	require.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	addr, err := ParseAddress(" 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 ")
	require.NoError(t, err)
	require.Equal(t, ethgo.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8"), addr)

	for _, raw := range []string{"", "0x", "70997970c51812dc3a010c7d01b50e0d17dc79c8", "0x1234", "0xzz"} {
		_, err := ParseAddress(raw)
		require.ErrorIs(t, err, errInvalidAddress, raw)
	}

	fallback := ethgo.HexToAddress("0x01")

	addr, err = ParseOptionalAddress("", fallback)
	require.NoError(t, err)
	require.Equal(t, fallback, addr)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	kv := FormatKV([]string{"Address|0x01", "Owner|"})
	require.Contains(t, kv, "Address = 0x01")
	require.Contains(t, kv, "<none>")

	table := FormatTable([]string{"id", "uri"}, [][]string{{"1", "ipfs://a"}, {"2", "ipfs://b"}})
	require.Contains(t, table, "ipfs://b")
	require.Len(t, strings.Split(strings.TrimSpace(table), "\n"), 6)
}
