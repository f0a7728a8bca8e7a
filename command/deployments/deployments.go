package deployments

import (
	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/deployments"
	"github.com/spf13/cobra"
)

var params listParams

// GetCommand returns the deployments command
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployments",
		Short: "Inspects the local registry of deployed minters",
	}

	cmd.AddCommand(getListCommand())

	return cmd
}

func getListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lists recorded deployments, oldest first",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return params.validateFlags()
		},
		Run: runList,
	}

	cmd.Flags().Uint64Var(
		&params.chainID,
		chainIDFlag,
		0,
		"chain to list, the chain of the selected network when unset",
	)

	cmd.Flags().BoolVar(
		&params.all,
		allFlag,
		false,
		"list the deployments of every chain",
	)

	cmd.Flags().StringVar(
		&params.contract,
		command.ContractFlag,
		"",
		"only list deployments of this minter kind",
	)

	return cmd
}

func runList(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	cfg, err := helper.LoadConfig(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	chains := []uint64{params.chainID}

	if !params.all && params.chainID == 0 {
		chainID, err := selectedChainID(cmd, outputter)
		if err != nil {
			outputter.SetError(err)

			return
		}

		chains[0] = chainID
	}

	store, err := helper.OpenStore(cfg.DataDir)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer store.Close()

	if params.all {
		if chains, err = store.Chains(); err != nil {
			outputter.SetError(err)

			return
		}
	}

	records, err := listRecords(store, chains, string(params.kind))
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&listResult{Records: records})
}

// selectedChainID returns the configured chain id, asking the node when none is configured
func selectedChainID(cmd *cobra.Command, outputter command.OutputFormatter) (uint64, error) {
	cfg, err := helper.LoadConfig(cmd)
	if err != nil {
		return 0, err
	}

	network, err := cfg.ActiveNetwork()
	if err != nil {
		return 0, err
	}

	if network.ChainID != 0 {
		return network.ChainID, nil
	}

	rt, err := helper.NewRuntime(cmd.Context(), cmd, outputter)
	if err != nil {
		return 0, err
	}
	defer rt.Close()

	return rt.ChainID(cmd.Context())
}

func listRecords(store *deployments.Store, chains []uint64, kind string) ([]*deployments.Record, error) {
	var records []*deployments.Record

	for _, chainID := range chains {
		chainRecords, err := store.List(chainID)
		if err != nil {
			return nil, err
		}

		for _, record := range chainRecords {
			if kind == "" || record.Name == kind {
				records = append(records, record)
			}
		}
	}

	return records, nil
}
