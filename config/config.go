package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/freeverseio/laos-minters/helper/revert"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNetwork      = "zombienet"
	DefaultArtifactsDir = "artifacts"
	DefaultDataDir      = "./minterctl-data"
	DefaultLogLevel     = "INFO"
)

var errUnknownNetwork = errors.New("unknown network")

// Config is the explicit configuration handed to every command and scenario
type Config struct {
	Network      string                        `json:"network" yaml:"network" hcl:"network"`
	Networks     map[string]*Network           `json:"networks" yaml:"networks" hcl:"networks"`
	Secrets      *secrets.SecretsManagerConfig `json:"secrets" yaml:"secrets" hcl:"secrets"`
	Retry        *Retry                        `json:"retry" yaml:"retry" hcl:"retry"`
	TxTimeout    string                        `json:"tx_timeout" yaml:"tx_timeout" hcl:"tx_timeout"`
	ArtifactsDir string                        `json:"artifacts_dir" yaml:"artifacts_dir" hcl:"artifacts_dir"`
	DataDir      string                        `json:"data_dir" yaml:"data_dir" hcl:"data_dir"`
	LogLevel     string                        `json:"log_level" yaml:"log_level" hcl:"log_level"`
	Metrics      *Metrics                      `json:"metrics" yaml:"metrics" hcl:"metrics"`
}

// Network is a JSON-RPC endpoint. Zero gas values are estimated per transaction.
type Network struct {
	URL      string `json:"url" yaml:"url" hcl:"url"`
	ChainID  uint64 `json:"chain_id" yaml:"chain_id" hcl:"chain_id"`
	GasLimit uint64 `json:"gas_limit" yaml:"gas_limit" hcl:"gas_limit"`
	GasPrice uint64 `json:"gas_price" yaml:"gas_price" hcl:"gas_price"`
}

// Retry configures revert confirmation
type Retry struct {
	Retries uint64 `json:"retries" yaml:"retries" hcl:"retries"`
	Delay   string `json:"delay" yaml:"delay" hcl:"delay"`
}

type Metrics struct {
	PrometheusAddr string `json:"prometheus_addr" yaml:"prometheus_addr" hcl:"prometheus_addr"`
}

// DefaultNetworks returns the networks known out of the box
func DefaultNetworks() map[string]*Network {
	return map[string]*Network{
		"laos":           {URL: "https://rpc.laos.laosfoundation.io", ChainID: 6283},
		"laosTestnet":    {URL: "https://rpc.laossigma.laosfoundation.io", ChainID: 62850},
		"venus":          {URL: "https://rpc.laosvenus.gorengine.com", ChainID: 6680},
		"zombienet":      {URL: "http://127.0.0.1:9999/", ChainID: 667, GasLimit: 5000000, GasPrice: 15000000},
		"hardhat":        {URL: txrelayer.DefaultRPCAddress, ChainID: 1337},
		"polygonTestnet": {URL: "https://polygon-amoy-bor-rpc.publicnode.com/", ChainID: 80002},
		"polygonMainnet": {URL: "https://polygon-bor.publicnode.com", ChainID: 137},
		"ethMainnet":     {URL: "https://eth.llamarpc.com/", ChainID: 1},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	policy := revert.DefaultPolicy()

	return &Config{
		Network:      DefaultNetwork,
		Networks:     DefaultNetworks(),
		Secrets:      &secrets.SecretsManagerConfig{Type: secrets.Env},
		Retry:        &Retry{Retries: policy.Retries, Delay: policy.Delay.String()},
		TxTimeout:    txrelayer.DefaultTimeoutTransactions.String(),
		ArtifactsDir: DefaultArtifactsDir,
		DataDir:      DefaultDataDir,
		LogLevel:     DefaultLogLevel,
		Metrics:      &Metrics{},
	}
}

// ReadConfigFile reads a .hcl, .json, .yaml or .yml file on top of the defaults.
// Fields missing from the file keep their default, including the fields of a built-in network.
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var unmarshalFunc func([]byte, interface{}) error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		unmarshalFunc = hcl.Unmarshal
	case ".json":
		unmarshalFunc = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal
	case ".yaml", ".yml":
		unmarshalFunc = yaml.Unmarshal
	default:
		return nil, fmt.Errorf("suffix of %s is neither hcl, json, yaml nor yml", path)
	}

	raw := make(map[string]interface{})
	if err := unmarshalFunc(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := config.merge(flattenBlocks(raw)); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return config, nil
}

// merge decodes raw into c field by field. Network entries are merged into the
// existing network of the same name instead of replacing it.
func (c *Config) merge(raw interface{}) error {
	values, ok := raw.(map[string]interface{})
	if !ok {
		return fmt.Errorf("expected a map at the top level, got %T", raw)
	}

	networks, hasNetworks := values["networks"]
	delete(values, "networks")

	if err := decode(values, c); err != nil {
		return err
	}

	if !hasNetworks || networks == nil {
		return nil
	}

	entries, ok := networks.(map[string]interface{})
	if !ok {
		return fmt.Errorf("networks: expected a map of network names, got %T", networks)
	}

	if c.Networks == nil {
		c.Networks = make(map[string]*Network, len(entries))
	}

	for name, entry := range entries {
		network := c.Networks[name]
		if network == nil {
			network = &Network{}
			c.Networks[name] = network
		}

		if err := decode(entry, network); err != nil {
			return fmt.Errorf("network %s: %w", name, err)
		}
	}

	return nil
}

func decode(input interface{}, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		Result:      output,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

// flattenBlocks turns the block lists hcl decodes objects into back into plain maps.
// Repeated blocks are merged.
func flattenBlocks(value interface{}) interface{} {
	switch v := value.(type) {
	case []map[string]interface{}:
		merged := make(map[string]interface{})

		for _, block := range v {
			for key, item := range block {
				merged[key] = flattenBlocks(item)
			}
		}

		return merged
	case map[string]interface{}:
		for key, item := range v {
			v[key] = flattenBlocks(item)
		}

		return v
	case []interface{}:
		for i, item := range v {
			v[i] = flattenBlocks(item)
		}

		return v
	default:
		return value
	}
}

// ActiveNetwork returns the selected network
func (c *Config) ActiveNetwork() (*Network, error) {
	network, ok := c.Networks[c.Network]
	if !ok || network == nil {
		return nil, fmt.Errorf("%w %q, known networks: %s",
			errUnknownNetwork, c.Network, strings.Join(c.networkNames(), ", "))
	}

	return network, nil
}

// RetryPolicy returns the revert confirmation policy
func (c *Config) RetryPolicy() (revert.Policy, error) {
	if c.Retry == nil {
		return revert.DefaultPolicy(), nil
	}

	delay, err := time.ParseDuration(c.Retry.Delay)
	if err != nil {
		return revert.Policy{}, fmt.Errorf("invalid retry delay %q: %w", c.Retry.Delay, err)
	}

	policy := revert.Policy{Retries: c.Retry.Retries, Delay: delay}
	if err := policy.Validate(); err != nil {
		return revert.Policy{}, err
	}

	return policy, nil
}

// TransactionTimeout returns how long to wait for a receipt
func (c *Config) TransactionTimeout() (time.Duration, error) {
	if c.TxTimeout == "" {
		return txrelayer.DefaultTimeoutTransactions, nil
	}

	timeout, err := time.ParseDuration(c.TxTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid tx timeout %q: %w", c.TxTimeout, err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("tx timeout must be positive, got %s", timeout)
	}

	return timeout, nil
}

// Validate reports every problem of the configuration at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := c.ActiveNetwork(); err != nil {
		result = multierror.Append(result, err)
	}

	for _, name := range c.networkNames() {
		if network := c.Networks[name]; network == nil || network.URL == "" {
			result = multierror.Append(result, fmt.Errorf("network %s has no url", name))
		}
	}

	if _, err := c.RetryPolicy(); err != nil {
		result = multierror.Append(result, err)
	}

	if _, err := c.TransactionTimeout(); err != nil {
		result = multierror.Append(result, err)
	}

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("invalid log level %q", c.LogLevel))
	}

	if c.Secrets != nil && !secrets.SupportedServiceManager(c.Secrets.Type) {
		result = multierror.Append(result, fmt.Errorf("unsupported secrets manager %q", c.Secrets.Type))
	}

	return result.ErrorOrNil()
}

func (c *Config) networkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
