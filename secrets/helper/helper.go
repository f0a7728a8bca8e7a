package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/freeverseio/laos-minters/secrets"
	alibabassm "github.com/freeverseio/laos-minters/secrets/alibaba"
	"github.com/freeverseio/laos-minters/secrets/awsssm"
	"github.com/freeverseio/laos-minters/secrets/env"
	"github.com/freeverseio/laos-minters/secrets/gcpssm"
	"github.com/freeverseio/laos-minters/secrets/hashicorpvault"
	"github.com/freeverseio/laos-minters/secrets/local"
	"github.com/freeverseio/laos-minters/wallet"
	"github.com/hashicorp/go-hclog"
)

var errUnsupportedType = errors.New("unsupported secrets manager")

// secretsManagerBackends are the supported backend factories
var secretsManagerBackends = map[secrets.SecretsManagerType]secrets.SecretsManagerFactory{
	secrets.Env:            env.SecretsManagerFactory,
	secrets.Local:          local.SecretsManagerFactory,
	secrets.HashicorpVault: hashicorpvault.SecretsManagerFactory,
	secrets.AWSSSM:         awsssm.SecretsManagerFactory,
	secrets.GCPSSM:         gcpssm.SecretsManagerFactory,
	secrets.AlibabaSSM:     alibabassm.SecretsManagerFactory,
}

// InitSecretsManager creates the backend described by config, the env backend when config is nil
func InitSecretsManager(
	config *secrets.SecretsManagerConfig, params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	if config == nil {
		config = &secrets.SecretsManagerConfig{Type: secrets.Env}
	}

	if params == nil {
		params = &secrets.SecretsManagerParams{}
	}

	if params.Logger == nil {
		params.Logger = hclog.NewNullLogger()
	}

	factory, ok := secretsManagerBackends[config.Type]
	if !ok || !secrets.SupportedServiceManager(config.Type) {
		return nil, fmt.Errorf("%w: %q", errUnsupportedType, config.Type)
	}

	return factory(config, params)
}

// LoadAccount reads the hex private key stored under name
func LoadAccount(manager secrets.SecretsManager, name string) (*wallet.Account, error) {
	raw, err := manager.GetSecret(name)
	if err != nil {
		return nil, err
	}

	account, err := wallet.NewAccountFromHex(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("invalid private key in secret %s: %w", name, err)
	}

	return account, nil
}

// StoreAccount persists the private key of the account under name
func StoreAccount(manager secrets.SecretsManager, name string, account *wallet.Account) error {
	return manager.SetSecret(name, []byte(account.MarshalPrivateKey()))
}
