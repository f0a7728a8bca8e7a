package local

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/freeverseio/laos-minters/secrets"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	secretsDir = "secrets"

	saltLength = 16

	// scrypt parameters recommended for interactive logins
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var errInvalidCiphertext = errors.New("encrypted secret is too short")

type localConfig struct {
	Path     string `mapstructure:"path"`
	Password string `mapstructure:"password"`
}

// LocalSecretsManager stores secrets as files, encrypted when a password is configured
type LocalSecretsManager struct {
	logger   hclog.Logger
	path     string
	password []byte

	lock sync.RWMutex
}

// SecretsManagerFactory creates a local backend rooted at extra.path
func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	var cfg localConfig

	for _, extra := range []map[string]interface{}{config.Extra, params.Extra} {
		if err := mapstructure.Decode(extra, &cfg); err != nil {
			return nil, fmt.Errorf("invalid extra map for local secrets manager: %w", err)
		}
	}

	if cfg.Path == "" {
		return nil, errors.New("no path specified for local secrets manager")
	}

	manager := &LocalSecretsManager{
		logger: params.Logger.Named(string(secrets.Local)),
		path:   filepath.Join(cfg.Path, secretsDir),
	}

	if cfg.Password != "" {
		manager.password = []byte(cfg.Password)
	}

	if err := manager.Setup(); err != nil {
		return nil, err
	}

	return manager, nil
}

// Setup creates the secrets directory
func (l *LocalSecretsManager) Setup() error {
	if err := os.MkdirAll(l.path, 0o700); err != nil {
		return fmt.Errorf("failed to create secrets directory %s: %w", l.path, err)
	}

	return nil
}

func (l *LocalSecretsManager) secretPath(name string) string {
	return filepath.Join(l.path, name)
}

func (l *LocalSecretsManager) GetSecret(name string) ([]byte, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	data, err := os.ReadFile(l.secretPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
		}

		return nil, fmt.Errorf("failed to read secret %s: %w", name, err)
	}

	if l.password == nil {
		return data, nil
	}

	return decrypt(l.password, data)
}

// SetSecret writes the secret, refusing to overwrite an existing one
func (l *LocalSecretsManager) SetSecret(name string, value []byte) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	path := l.secretPath(name)

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", secrets.ErrSecretAlreadyExists, name)
	}

	data := value

	if l.password != nil {
		var err error
		if data, err = encrypt(l.password, value); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write secret %s: %w", name, err)
	}

	l.logger.Info("secret stored", "name", name, "encrypted", l.password != nil)

	return nil
}

func (l *LocalSecretsManager) HasSecret(name string) bool {
	l.lock.RLock()
	defer l.lock.RUnlock()

	_, err := os.Stat(l.secretPath(name))

	return err == nil
}

func (l *LocalSecretsManager) RemoveSecret(name string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := os.Remove(l.secretPath(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
		}

		return err
	}

	return nil
}

// encrypt seals value as salt | nonce | ciphertext
func encrypt(password, value []byte) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	aead, err := newAEAD(password, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, saltLength+len(nonce)+len(value)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)

	return aead.Seal(out, nonce, value, nil), nil
}

func decrypt(password, data []byte) ([]byte, error) {
	if len(data) < saltLength+chacha20poly1305.NonceSizeX {
		return nil, errInvalidCiphertext
	}

	aead, err := newAEAD(password, data[:saltLength])
	if err != nil {
		return nil, err
	}

	nonce := data[saltLength : saltLength+aead.NonceSize()]

	value, err := aead.Open(nil, nonce, data[saltLength+aead.NonceSize():], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secret: %w", err)
	}

	return value, nil
}

func newAEAD(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}

	return chacha20poly1305.NewX(key)
}
