package awsssm

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/hashicorp/go-hclog"
)

// AwsSsmManager stores secrets as SecureString parameters
type AwsSsmManager struct {
	logger hclog.Logger

	region   string
	endpoint string
	basePath string

	client *ssm.SSM
}

func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	if config.Name == "" {
		return nil, errors.New("no name specified for AWS SSM secrets manager")
	}

	if config.Extra == nil || config.Extra["region"] == nil || config.Extra["ssm-parameter-path"] == nil {
		return nil, errors.New("required extra map containing 'region' and 'ssm-parameter-path' not found for aws-ssm")
	}

	manager := &AwsSsmManager{
		logger:   params.Logger.Named(string(secrets.AWSSSM)),
		region:   fmt.Sprintf("%v", config.Extra["region"]),
		endpoint: config.ServerURL,
		basePath: fmt.Sprintf("%s/%s", config.Extra["ssm-parameter-path"], config.Name),
	}

	if err := manager.Setup(); err != nil {
		return nil, err
	}

	return manager, nil
}

// Setup creates the SSM client from the default AWS credential chain
func (a *AwsSsmManager) Setup() error {
	cfg := aws.NewConfig().WithRegion(a.region)
	if a.endpoint != "" {
		cfg = cfg.WithEndpoint(a.endpoint)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return fmt.Errorf("unable to create AWS session: %w", err)
	}

	a.client = ssm.New(sess)

	return nil
}

func (a *AwsSsmManager) constructSecretPath(name string) string {
	return fmt.Sprintf("%s/%s", a.basePath, name)
}

func (a *AwsSsmManager) GetSecret(name string) ([]byte, error) {
	out, err := a.client.GetParameter(&ssm.GetParameterInput{
		Name:           aws.String(a.constructSecretPath(name)),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var awsErr awserr.Error
		if errors.As(err, &awsErr) && awsErr.Code() == ssm.ErrCodeParameterNotFound {
			return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
		}

		return nil, fmt.Errorf("unable to fetch secret %s from SSM: %w", name, err)
	}

	return []byte(aws.StringValue(out.Parameter.Value)), nil
}

func (a *AwsSsmManager) SetSecret(name string, value []byte) error {
	_, err := a.client.PutParameter(&ssm.PutParameterInput{
		Name:      aws.String(a.constructSecretPath(name)),
		Value:     aws.String(string(value)),
		Type:      aws.String(ssm.ParameterTypeSecureString),
		Overwrite: aws.Bool(false),
	})
	if err != nil {
		var awsErr awserr.Error
		if errors.As(err, &awsErr) && awsErr.Code() == ssm.ErrCodeParameterAlreadyExists {
			return fmt.Errorf("%w: %s", secrets.ErrSecretAlreadyExists, name)
		}

		return fmt.Errorf("unable to store secret %s in SSM: %w", name, err)
	}

	return nil
}

func (a *AwsSsmManager) HasSecret(name string) bool {
	_, err := a.GetSecret(name)

	return err == nil
}

func (a *AwsSsmManager) RemoveSecret(name string) error {
	if _, err := a.client.DeleteParameter(&ssm.DeleteParameterInput{
		Name: aws.String(a.constructSecretPath(name)),
	}); err != nil {
		return fmt.Errorf("unable to delete secret %s from SSM: %w", name, err)
	}

	return nil
}
