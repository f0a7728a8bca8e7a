package secrets

import (
	"fmt"

	"github.com/freeverseio/laos-minters/secrets"
	secretsHelper "github.com/freeverseio/laos-minters/secrets/helper"
	"github.com/freeverseio/laos-minters/wallet"
)

const (
	deployerPrivateKeyFlag = "deployer-private-key"
	secondPrivateKeyFlag   = "second-private-key"
	noSecondFlag           = "no-second"
	forceFlag              = "force"
)

type initParams struct {
	deployerPrivateKey string
	secondPrivateKey   string
	noSecond           bool
	force              bool
}

func (p *initParams) validateFlags() error {
	if p.noSecond && p.secondPrivateKey != "" {
		return fmt.Errorf("--%s and --%s are mutually exclusive", noSecondFlag, secondPrivateKeyFlag)
	}

	for _, key := range []string{p.deployerPrivateKey, p.secondPrivateKey} {
		if key == "" {
			continue
		}

		if _, err := wallet.NewAccountFromHex(key); err != nil {
			return err
		}
	}

	return nil
}

// accountSpec is an account to create under a secret name, imported when key is set
type accountSpec struct {
	name string
	key  string
}

func (p *initParams) accounts() []accountSpec {
	specs := []accountSpec{{name: secrets.DeployerKey, key: p.deployerPrivateKey}}
	if !p.noSecond {
		specs = append(specs, accountSpec{name: secrets.SecondKey, key: p.secondPrivateKey})
	}

	return specs
}

// initAccounts stores every account of p in manager and returns them by secret name
func initAccounts(manager secrets.SecretsManager, p *initParams) ([]*accountResult, error) {
	specs := p.accounts()
	results := make([]*accountResult, 0, len(specs))

	for _, spec := range specs {
		if !p.force && manager.HasSecret(spec.name) {
			return results, fmt.Errorf("%w: %s, use --%s to overwrite", secrets.ErrSecretAlreadyExists, spec.name, forceFlag)
		}

		var (
			account *wallet.Account
			err     error
		)

		if spec.key != "" {
			account, err = wallet.NewAccountFromHex(spec.key)
		} else {
			account, err = wallet.GenerateAccount()
		}

		if err != nil {
			return results, err
		}

		if err := secretsHelper.StoreAccount(manager, spec.name, account); err != nil {
			return results, fmt.Errorf("failed to store %s: %w", spec.name, err)
		}

		results = append(results, &accountResult{
			Name:     spec.name,
			Address:  account.Address().String(),
			Imported: spec.key != "",
		})
	}

	return results, nil
}

// loadAccounts returns the public side of the stored accounts
func loadAccounts(manager secrets.SecretsManager) ([]*accountResult, error) {
	var results []*accountResult

	for _, name := range []string{secrets.DeployerKey, secrets.SecondKey} {
		if !manager.HasSecret(name) {
			continue
		}

		account, err := secretsHelper.LoadAccount(manager, name)
		if err != nil {
			return nil, err
		}

		results = append(results, &accountResult{Name: name, Address: account.Address().String()})
	}

	return results, nil
}
