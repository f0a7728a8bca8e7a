package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/config"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/deployments"
	"github.com/freeverseio/laos-minters/secrets"
	secretsHelper "github.com/freeverseio/laos-minters/secrets/helper"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/freeverseio/laos-minters/wallet"
	"github.com/hashicorp/go-hclog"
	"github.com/olekukonko/tablewriter"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

const addressLength = 20

var errInvalidAddress = errors.New("invalid address")

// FormatKV formats key value pairs separated by '|'
func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}

// FormatList formats rows of '|' separated columns
func FormatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"

	return columnize.Format(in, columnConf)
}

// FormatTable renders rows below header as an ascii table
func FormatTable(header []string, rows [][]string) string {
	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	return buffer.String()
}

// RegisterPersistentFlags registers the flags every subcommand understands on the root command
func RegisterPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(
		command.ConfigFlag,
		"",
		"path to a .hcl, .json or .yaml configuration file",
	)

	cmd.PersistentFlags().String(
		command.NetworkFlag,
		"",
		fmt.Sprintf("the network to use, overrides the config file (default %q)", config.DefaultNetwork),
	)

	cmd.PersistentFlags().String(
		command.JSONRPCFlag,
		"",
		"the JSON RPC address, overrides the url of the selected network",
	)

	cmd.PersistentFlags().String(
		command.LogLevelFlag,
		"",
		"the log level (TRACE, DEBUG, INFO, WARN, ERROR), overrides the config file",
	)

	cmd.PersistentFlags().Bool(
		command.JSONOutputFlag,
		false,
		"get all outputs in json format (default false)",
	)
}

// LoadConfig reads the configuration file, if any, and applies the persistent flag overrides
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if path := flagString(cmd, command.ConfigFlag); path != "" {
		var err error

		if cfg, err = config.ReadConfigFile(path); err != nil {
			return nil, err
		}
	}

	if network := flagString(cmd, command.NetworkFlag); network != "" {
		cfg.Network = network
	}

	if level := flagString(cmd, command.LogLevelFlag); level != "" {
		cfg.LogLevel = level
	}

	if url := flagString(cmd, command.JSONRPCFlag); url != "" {
		active := &config.Network{}
		if network, ok := cfg.Networks[cfg.Network]; ok && network != nil {
			*active = *network
		}

		active.URL = url
		cfg.Networks[cfg.Network] = active
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func flagString(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}

	return flag.Value.String()
}

// NewLogger creates the root logger of a command run
func NewLogger(level string, out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "minterctl",
		Level:  hclog.LevelFromString(level),
		Output: out,
	})
}

// Runtime bundles what a subcommand needs to talk to the selected network
type Runtime struct {
	Config  *config.Config
	Network *config.Network
	Logger  hclog.Logger
	Relayer txrelayer.TxRelayer
}

// NewRuntime loads the configuration and connects to the selected network.
// Progress of sent transactions is written to outputter.
func NewRuntime(ctx context.Context, cmd *cobra.Command, outputter command.OutputFormatter) (*Runtime, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	network, err := cfg.ActiveNetwork()
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.TransactionTimeout()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.LogLevel, os.Stderr)

	opts := []txrelayer.TxRelayerOption{
		txrelayer.WithIPAddress(network.URL),
		txrelayer.WithReceiptsTimeout(timeout),
		txrelayer.WithGasLimit(network.GasLimit),
		txrelayer.WithWriter(outputter),
		txrelayer.WithLogger(logger.Named("txrelayer")),
	}

	if network.GasPrice > 0 {
		opts = append(opts, txrelayer.WithGasPrice(new(big.Int).SetUint64(network.GasPrice)))
	}

	relayer, err := txrelayer.NewTxRelayer(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tx relayer for %s: %w", network.URL, err)
	}

	logger.Debug("connected", "network", cfg.Network, "url", network.URL)

	return &Runtime{Config: cfg, Network: network, Logger: logger, Relayer: relayer}, nil
}

// Close releases the JSON-RPC connection
func (r *Runtime) Close() {
	if client := r.Relayer.Client(); client != nil {
		client.Close()
	}
}

// SecretsManager creates the secrets backend of the configuration
func (r *Runtime) SecretsManager() (secrets.SecretsManager, error) {
	return secretsHelper.InitSecretsManager(r.Config.Secrets, &secrets.SecretsManagerParams{
		Logger: r.Logger.Named("secrets"),
	})
}

// Account loads the signer stored under the secret name
func (r *Runtime) Account(name string) (*wallet.Account, error) {
	manager, err := r.SecretsManager()
	if err != nil {
		return nil, err
	}

	account, err := secretsHelper.LoadAccount(manager, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	return account, nil
}

// ParseAddress decodes a 0x prefixed 20 byte hex address
func ParseAddress(raw string) (ethgo.Address, error) {
	raw = strings.TrimSpace(raw)

	decoded, err := hexutil.Decode(raw)
	if err != nil || len(decoded) != addressLength {
		return ethgo.ZeroAddress, fmt.Errorf("%w %q", errInvalidAddress, raw)
	}

	var addr ethgo.Address

	copy(addr[:], decoded)

	return addr, nil
}

// ParseOptionalAddress returns fallback when raw is empty
func ParseOptionalAddress(raw string, fallback ethgo.Address) (ethgo.Address, error) {
	if raw == "" {
		return fallback, nil
	}

	return ParseAddress(raw)
}

// ChainID returns the chain id reported by the node
func (r *Runtime) ChainID(ctx context.Context) (uint64, error) {
	chainID, err := r.Relayer.Client().ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain id from %s: %w", r.Network.URL, err)
	}

	if r.Network.ChainID != 0 && chainID.Uint64() != r.Network.ChainID {
		r.Logger.Warn("chain id differs from the configured one",
			"configured", r.Network.ChainID, "reported", chainID)
	}

	return chainID.Uint64(), nil
}

// OpenStore opens the deployments registry in the configured data directory
func (r *Runtime) OpenStore() (*deployments.Store, error) {
	return OpenStore(r.Config.DataDir)
}

// OpenStore opens the deployments registry in dataDir, creating the directory if needed
func OpenStore(dataDir string) (*deployments.Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	return deployments.NewStore(dataDir)
}

// Artifact reads the compiled contract of kind from the configured artifacts directory
func (r *Runtime) Artifact(kind contracts.Kind) (*contracts.Artifact, error) {
	return contracts.ReadArtifact(r.Config.ArtifactsDir, kind.ArtifactName())
}
