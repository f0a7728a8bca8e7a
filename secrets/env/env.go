package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/freeverseio/laos-minters/secrets"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/mapstructure"
)

// DefaultVars maps the secret names to the variables the hardhat configs read
var DefaultVars = map[string]string{
	secrets.DeployerKey: "PRIVATE_KEY",
	secrets.SecondKey:   "SECOND_PRIVATE_KEY",
}

type envConfig struct {
	Vars map[string]string `mapstructure:"vars"`
}

// EnvSecretsManager reads secrets from environment variables
type EnvSecretsManager struct {
	logger hclog.Logger
	vars   map[string]string
	lookup func(string) (string, bool)
}

// SecretsManagerFactory creates an env backend. extra.vars overrides the variable of a secret name.
func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	var cfg envConfig

	if err := mapstructure.Decode(config.Extra, &cfg); err != nil {
		return nil, fmt.Errorf("invalid extra map for env secrets manager: %w", err)
	}

	vars := make(map[string]string, len(DefaultVars)+len(cfg.Vars))
	for name, v := range DefaultVars {
		vars[name] = v
	}

	for name, v := range cfg.Vars {
		vars[name] = v
	}

	manager := &EnvSecretsManager{
		logger: params.Logger.Named(string(secrets.Env)),
		vars:   vars,
		lookup: os.LookupEnv,
	}

	if err := manager.Setup(); err != nil {
		return nil, err
	}

	return manager, nil
}

func (e *EnvSecretsManager) Setup() error {
	for name, v := range e.vars {
		if v == "" {
			return fmt.Errorf("empty environment variable for secret %s", name)
		}
	}

	return nil
}

func (e *EnvSecretsManager) variable(name string) string {
	if v, ok := e.vars[name]; ok {
		return v
	}

	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func (e *EnvSecretsManager) GetSecret(name string) ([]byte, error) {
	v := e.variable(name)

	value, ok := e.lookup(v)
	if !ok || value == "" {
		return nil, fmt.Errorf("%w: %s (environment variable %s)", secrets.ErrSecretNotFound, name, v)
	}

	e.logger.Debug("secret read from environment", "name", name, "var", v)

	return []byte(strings.TrimSpace(value)), nil
}

func (e *EnvSecretsManager) SetSecret(string, []byte) error {
	return secrets.ErrReadOnly
}

func (e *EnvSecretsManager) HasSecret(name string) bool {
	_, err := e.GetSecret(name)

	return err == nil
}

func (e *EnvSecretsManager) RemoveSecret(string) error {
	return secrets.ErrReadOnly
}
