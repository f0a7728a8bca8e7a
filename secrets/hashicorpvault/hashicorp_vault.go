package hashicorpvault

import (
	"errors"
	"fmt"

	"github.com/freeverseio/laos-minters/secrets"
	"github.com/hashicorp/go-hclog"
	vault "github.com/hashicorp/vault/api"
)

// VaultSecretsManager keeps all secrets of a name under one KV v2 entry
type VaultSecretsManager struct {
	logger hclog.Logger

	token     string
	serverURL string
	basePath  string
	namespace string

	client *vault.Client
}

func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	if config.Token == "" {
		return nil, errors.New("no token specified for Vault secrets manager")
	}

	if config.ServerURL == "" {
		return nil, errors.New("no server URL specified for Vault secrets manager")
	}

	if config.Name == "" {
		return nil, errors.New("no name specified for Vault secrets manager")
	}

	manager := &VaultSecretsManager{
		logger:    params.Logger.Named(string(secrets.HashicorpVault)),
		token:     config.Token,
		serverURL: config.ServerURL,
		namespace: config.Namespace,
		basePath:  fmt.Sprintf("secret/data/%s", config.Name),
	}

	if err := manager.Setup(); err != nil {
		return nil, err
	}

	return manager, nil
}

// Setup creates the Vault client
func (v *VaultSecretsManager) Setup() error {
	config := vault.DefaultConfig()
	config.Address = v.serverURL

	client, err := vault.NewClient(config)
	if err != nil {
		return fmt.Errorf("unable to initialize Vault client: %w", err)
	}

	client.SetToken(v.token)

	if v.namespace != "" {
		client.SetNamespace(v.namespace)
	}

	v.client = client

	return nil
}

func (v *VaultSecretsManager) readData() (map[string]interface{}, error) {
	secret, err := v.client.Logical().Read(v.basePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read secret from Vault: %w", err)
	}

	if secret == nil {
		return map[string]interface{}{}, nil
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return map[string]interface{}{}, nil
	}

	return data, nil
}

func (v *VaultSecretsManager) GetSecret(name string) ([]byte, error) {
	data, err := v.readData()
	if err != nil {
		return nil, err
	}

	value, ok := data[name].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
	}

	return []byte(value), nil
}

// SetSecret adds the secret to the entry, refusing to overwrite an existing one
func (v *VaultSecretsManager) SetSecret(name string, value []byte) error {
	data, err := v.readData()
	if err != nil {
		return err
	}

	if _, ok := data[name]; ok {
		return fmt.Errorf("%w: %s", secrets.ErrSecretAlreadyExists, name)
	}

	data[name] = string(value)

	if _, err := v.client.Logical().Write(v.basePath, map[string]interface{}{"data": data}); err != nil {
		return fmt.Errorf("unable to store secret (%s) in Vault: %w", name, err)
	}

	return nil
}

func (v *VaultSecretsManager) HasSecret(name string) bool {
	_, err := v.GetSecret(name)

	return err == nil
}

func (v *VaultSecretsManager) RemoveSecret(name string) error {
	data, err := v.readData()
	if err != nil {
		return err
	}

	if _, ok := data[name]; !ok {
		return fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
	}

	delete(data, name)

	if _, err := v.client.Logical().Write(v.basePath, map[string]interface{}{"data": data}); err != nil {
		return fmt.Errorf("unable to remove secret (%s) from Vault: %w", name, err)
	}

	return nil
}
