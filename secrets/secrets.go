package secrets

import (
	"errors"

	"github.com/hashicorp/go-hclog"
)

// Secret names the signer keys are stored under
const (
	// DeployerKey is the hex private key of the account deploying and administering contracts
	DeployerKey = "deployer-key"

	// SecondKey is the hex private key of the unprivileged account used by negative checks
	SecondKey = "second-key"
)

// Extra map keys shared by the backends
const (
	// Path is the base directory of the local secrets manager
	Path = "path"

	// Password enables encryption of the local secrets manager
	Password = "password"
)

// SecretsManagerType is the type of the secrets manager backend
type SecretsManagerType string

const (
	// Env reads the keys from environment variables
	Env SecretsManagerType = "env"

	// Local stores the keys as files in a directory
	Local SecretsManagerType = "local"

	// HashicorpVault stores the keys in a Vault KV v2 engine
	HashicorpVault SecretsManagerType = "hashicorp-vault"

	// AWSSSM stores the keys in AWS SSM Parameter Store
	AWSSSM SecretsManagerType = "aws-ssm"

	// GCPSSM stores the keys in GCP Secret Manager
	GCPSSM SecretsManagerType = "gcp-ssm"

	// AlibabaSSM stores the keys as Alibaba OOS secret parameters
	AlibabaSSM SecretsManagerType = "alibaba-ssm"
)

var (
	ErrSecretNotFound      = errors.New("secret not found")
	ErrSecretAlreadyExists = errors.New("secret already exists")
	ErrReadOnly            = errors.New("secrets manager is read-only")
)

// SecretsManager is a backend holding the signer keys
type SecretsManager interface {
	// Setup performs the backend specific initialization
	Setup() error

	// GetSecret gets the secret by name
	GetSecret(name string) ([]byte, error)

	// SetSecret sets the secret to a provided value
	SetSecret(name string, value []byte) error

	// HasSecret checks if the secret is present
	HasSecret(name string) bool

	// RemoveSecret removes the secret from storage
	RemoveSecret(name string) error
}

// SecretsManagerParams are the runtime params of a backend
type SecretsManagerParams struct {
	Logger hclog.Logger

	// Extra carries backend specific values not present in the config file
	Extra map[string]interface{}
}

// SecretsManagerConfig is the configuration of a backend, as found in config files
type SecretsManagerConfig struct {
	Token     string                 `json:"token" yaml:"token" hcl:"token"`
	ServerURL string                 `json:"server_url" yaml:"server_url" hcl:"server_url"`
	Type      SecretsManagerType     `json:"type" yaml:"type" hcl:"type"`
	Name      string                 `json:"name" yaml:"name" hcl:"name"`
	Namespace string                 `json:"namespace" yaml:"namespace" hcl:"namespace"`
	Extra     map[string]interface{} `json:"extra" yaml:"extra" hcl:"extra"`
}

// SecretsManagerFactory creates a backend from its configuration
type SecretsManagerFactory func(
	config *SecretsManagerConfig,
	params *SecretsManagerParams,
) (SecretsManager, error)

// SupportedServiceManager checks if the passed in service manager type is supported
func SupportedServiceManager(service SecretsManagerType) bool {
	switch service {
	case Env, Local, HashicorpVault, AWSSSM, GCPSSM, AlibabaSSM:
		return true
	default:
		return false
	}
}
