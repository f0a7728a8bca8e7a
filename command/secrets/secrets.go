package secrets

import (
	"os"

	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/secrets"
	secretsHelper "github.com/freeverseio/laos-minters/secrets/helper"
	"github.com/spf13/cobra"
)

var params initParams

// GetCommand returns the secrets command
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manages the signing accounts in the configured secrets backend. Only accepts subcommands.",
	}

	cmd.AddCommand(
		getInitCommand(),
		getOutputCommand(),
	)

	return cmd
}

func getInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generates or imports the deployer and second account keys",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return params.validateFlags()
		},
		Run: runInit,
	}

	cmd.Flags().StringVar(
		&params.deployerPrivateKey,
		deployerPrivateKeyFlag,
		"",
		"hex private key to import as the deployer, generated when empty",
	)

	cmd.Flags().StringVar(
		&params.secondPrivateKey,
		secondPrivateKeyFlag,
		"",
		"hex private key to import as the second account, generated when empty",
	)

	cmd.Flags().BoolVar(
		&params.noSecond,
		noSecondFlag,
		false,
		"only initialize the deployer",
	)

	cmd.Flags().BoolVar(
		&params.force,
		forceFlag,
		false,
		"overwrite existing keys",
	)

	return cmd
}

func getOutputCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "output",
		Short: "Prints the addresses of the stored accounts",
		Run:   runOutput,
	}
}

func secretsManager(cmd *cobra.Command) (secrets.SecretsManager, error) {
	cfg, err := helper.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := helper.NewLogger(cfg.LogLevel, os.Stderr)

	return secretsHelper.InitSecretsManager(cfg.Secrets, &secrets.SecretsManagerParams{
		Logger: logger.Named("secrets"),
	})
}

func runInit(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	manager, err := secretsManager(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	accounts, err := initAccounts(manager, &params)
	if err != nil {
		outputter.SetError(err)
	}

	outputter.SetCommandResult(&accountsResult{Title: "SECRETS INIT", Accounts: accounts})
}

func runOutput(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	manager, err := secretsManager(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	accounts, err := loadAccounts(manager)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&accountsResult{Title: "SECRETS OUTPUT", Accounts: accounts})
}
