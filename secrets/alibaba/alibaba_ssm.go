package alibabassm

import (
	"errors"
	"fmt"
	"strings"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	oos20190601 "github.com/alibabacloud-go/oos-20190601/v4/client"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	"github.com/aliyun/credentials-go/credentials"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/hashicorp/go-hclog"
	jsoniter "github.com/json-iterator/go"
)

const notFoundCode = "EntityNotExists.SecretParameter"

// AlibabaSsmManager stores secrets as OOS secret parameters
type AlibabaSsmManager struct {
	logger hclog.Logger

	// region, e.g. eu-central-1
	region string

	// optional custom endpoint, e.g. oos.eu-central-1.aliyuncs.com
	endpoint string

	client *oos20190601.Client

	basePath string
}

func SecretsManagerFactory(
	config *secrets.SecretsManagerConfig,
	params *secrets.SecretsManagerParams,
) (secrets.SecretsManager, error) {
	if config.Name == "" {
		return nil, errors.New("no name specified for Alibaba SSM secrets manager")
	}

	if config.Extra == nil || config.Extra["region"] == nil || config.Extra["ssm-parameter-path"] == nil {
		return nil, errors.New("required extra map containing 'region' and 'ssm-parameter-path' not found for alibaba-ssm")
	}

	manager := &AlibabaSsmManager{
		logger:   params.Logger.Named(string(secrets.AlibabaSSM)),
		region:   fmt.Sprintf("%v", config.Extra["region"]),
		endpoint: config.ServerURL,
		basePath: fmt.Sprintf("%s/%s", config.Extra["ssm-parameter-path"], config.Name),
	}

	if err := manager.Setup(); err != nil {
		return nil, err
	}

	return manager, nil
}

// Setup creates the OOS client, resolving credentials through the default Alibaba Cloud chain
// (ALIBABA_CLOUD_ACCESS_KEY_ID / ALIBABA_CLOUD_ACCESS_KEY_SECRET, profile file or instance role)
func (a *AlibabaSsmManager) Setup() error {
	credential, err := credentials.NewCredential(nil)
	if err != nil {
		return fmt.Errorf("unable to resolve Alibaba Cloud credentials: %w", err)
	}

	config := &openapi.Config{
		Credential: credential,
		RegionId:   tea.String(a.region),
	}

	if a.endpoint != "" {
		config.Endpoint = tea.String(a.endpoint)
	} else {
		config.Endpoint = tea.String(fmt.Sprintf("oos.%s.aliyuncs.com", a.region))
	}

	client, err := oos20190601.NewClient(config)
	if err != nil {
		return err
	}

	a.client = client

	return nil
}

func (a *AlibabaSsmManager) constructSecretPath(name string) string {
	return fmt.Sprintf("%s/%s", a.basePath, name)
}

// try runs an sdk call, turning the panics of the tea runtime into errors
func (a *AlibabaSsmManager) try(call func() error) (err error) {
	defer func() {
		if r := tea.Recover(recover()); r != nil {
			err = r
		}
	}()

	if err = call(); err != nil {
		a.logError(err)
	}

	return err
}

func (a *AlibabaSsmManager) GetSecret(name string) ([]byte, error) {
	var value []byte

	err := a.try(func() error {
		response, err := a.client.GetSecretParameterWithOptions(&oos20190601.GetSecretParameterRequest{
			RegionId:       tea.String(a.region),
			Name:           tea.String(a.constructSecretPath(name)),
			WithDecryption: tea.Bool(true),
		}, &util.RuntimeOptions{})
		if err != nil {
			return err
		}

		value = []byte(tea.StringValue(response.Body.Parameter.Value))

		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
		}

		return nil, err
	}

	return value, nil
}

func (a *AlibabaSsmManager) SetSecret(name string, value []byte) error {
	return a.try(func() error {
		_, err := a.client.CreateSecretParameterWithOptions(&oos20190601.CreateSecretParameterRequest{
			RegionId: tea.String(a.region),
			Name:     tea.String(a.constructSecretPath(name)),
			Value:    tea.String(string(value)),
		}, &util.RuntimeOptions{})

		return err
	})
}

func (a *AlibabaSsmManager) HasSecret(name string) bool {
	_, err := a.GetSecret(name)

	return err == nil
}

func (a *AlibabaSsmManager) RemoveSecret(name string) error {
	return a.try(func() error {
		_, err := a.client.DeleteSecretParameterWithOptions(&oos20190601.DeleteSecretParameterRequest{
			RegionId: tea.String(a.region),
			Name:     tea.String(a.constructSecretPath(name)),
		}, &util.RuntimeOptions{})

		return err
	})
}

func isNotFound(err error) bool {
	var e *tea.SDKError
	if errors.As(err, &e) {
		return strings.Contains(tea.StringValue(e.Code), notFoundCode)
	}

	return false
}

func (a *AlibabaSsmManager) logError(err error) {
	var e *tea.SDKError
	if !errors.As(err, &e) {
		a.logger.Error("alibaba ssm request failed", "err", err)

		return
	}

	a.logger.Error("alibaba ssm request failed", "code", tea.StringValue(e.Code), "message", tea.StringValue(e.Message))

	var data map[string]interface{}
	if err := jsoniter.UnmarshalFromString(tea.StringValue(e.Data), &data); err != nil {
		return
	}

	if recommend, ok := data["Recommend"]; ok {
		a.logger.Info("alibaba ssm recommendation", "recommend", recommend)
	}
}
