package gcpssm

import (
	"context"
	"errors"
	"fmt"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/hashicorp/go-hclog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	projectIDKey       = "project-id"
	credentialsFileKey = "gcp-ssm-cred"

	requestTimeout = 30 * time.Second
)

// GCPSecretsManager stores every secret as a Secret Manager secret named <name>_<secret>
type GCPSecretsManager struct {
	logger hclog.Logger

	projectID       string
	credentialsFile string
	name            string

	client *secretmanager.Client
}

func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	if config.Name == "" {
		return nil, errors.New("no name specified for GCP secrets manager")
	}

	if config.Extra == nil || config.Extra[projectIDKey] == nil || config.Extra[credentialsFileKey] == nil {
		return nil, fmt.Errorf("required extra map containing '%s' and '%s' not found for gcp-ssm",
			projectIDKey, credentialsFileKey)
	}

	manager := &GCPSecretsManager{
		logger:          params.Logger.Named(string(secrets.GCPSSM)),
		projectID:       fmt.Sprintf("%v", config.Extra[projectIDKey]),
		credentialsFile: fmt.Sprintf("%v", config.Extra[credentialsFileKey]),
		name:            config.Name,
	}

	if err := manager.Setup(); err != nil {
		return nil, err
	}

	return manager, nil
}

// Setup creates the Secret Manager client
func (g *GCPSecretsManager) Setup() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	client, err := secretmanager.NewClient(ctx, option.WithCredentialsFile(g.credentialsFile))
	if err != nil {
		return fmt.Errorf("unable to create GCP secret manager client: %w", err)
	}

	g.client = client

	return nil
}

func (g *GCPSecretsManager) secretID(name string) string {
	return fmt.Sprintf("%s_%s", g.name, name)
}

func (g *GCPSecretsManager) secretName(name string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", g.projectID, g.secretID(name))
}

func (g *GCPSecretsManager) GetSecret(name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	res, err := g.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: g.secretName(name) + "/versions/latest",
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
		}

		return nil, fmt.Errorf("unable to access secret %s: %w", name, err)
	}

	return res.GetPayload().GetData(), nil
}

func (g *GCPSecretsManager) SetSecret(name string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	secret, err := g.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
		Parent:   fmt.Sprintf("projects/%s", g.projectID),
		SecretId: g.secretID(name),
		Secret: &secretmanagerpb.Secret{
			Replication: &secretmanagerpb.Replication{
				Replication: &secretmanagerpb.Replication_Automatic_{
					Automatic: &secretmanagerpb.Replication_Automatic{},
				},
			},
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%w: %s", secrets.ErrSecretAlreadyExists, name)
		}

		return fmt.Errorf("unable to create secret %s: %w", name, err)
	}

	if _, err := g.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent:  secret.GetName(),
		Payload: &secretmanagerpb.SecretPayload{Data: value},
	}); err != nil {
		return fmt.Errorf("unable to store secret %s: %w", name, err)
	}

	return nil
}

func (g *GCPSecretsManager) HasSecret(name string) bool {
	_, err := g.GetSecret(name)

	return err == nil
}

func (g *GCPSecretsManager) RemoveSecret(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := g.client.DeleteSecret(ctx, &secretmanagerpb.DeleteSecretRequest{
		Name: g.secretName(name),
	}); err != nil {
		return fmt.Errorf("unable to delete secret %s: %w", name, err)
	}

	return nil
}
