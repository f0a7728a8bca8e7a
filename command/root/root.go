package root

import (
	"context"
	"fmt"
	"os"

	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/command/deploy"
	"github.com/freeverseio/laos-minters/command/deployments"
	"github.com/freeverseio/laos-minters/command/e2e"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/command/mint"
	"github.com/freeverseio/laos-minters/command/secrets"
	"github.com/freeverseio/laos-minters/command/setup"
	"github.com/freeverseio/laos-minters/command/tokenid"
	"github.com/freeverseio/laos-minters/command/transfer"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:          "minterctl",
			Short:        "Deploys, wires and exercises LAOS minter contracts",
			SilenceUsage: true,
		},
	}

	helper.RegisterPersistentFlags(rootCommand.baseCmd)

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		tokenid.GetCommand(),
		secrets.GetCommand(),
		deploy.GetCommand(),
		setup.GetCommand(),
		mint.GetCommand(),
		transfer.GetCommand(),
		deployments.GetCommand(),
		e2e.GetCommand(),
	)
}

func (rc *RootCommand) Command() *cobra.Command {
	return rc.baseCmd
}

func (rc *RootCommand) Execute(ctx context.Context) {
	if err := rc.baseCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}

	if code := command.ExitCode(); code != 0 {
		os.Exit(code)
	}
}
