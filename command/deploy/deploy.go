package deploy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/contractsapi"
	"github.com/freeverseio/laos-minters/deployments"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const contractsDeploymentTitle = "[CONTRACTS DEPLOYMENT]"

var params deployParams

// GetCommand returns the deploy command
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deploy",
		Short:   "Deploys minter contracts, each owning a freshly created collection",
		PreRunE: preRunCommand,
		Run:     runCommand,
	}

	cmd.Flags().StringArrayVar(
		&params.contracts,
		command.ContractFlag,
		nil,
		fmt.Sprintf("contract to deploy, one of %v, repeat to deploy several in parallel", contracts.Kinds()),
	)

	cmd.Flags().StringVar(
		&params.owner,
		command.OwnerFlag,
		"",
		command.OwnerFlagDesc,
	)

	cmd.Flags().BoolVar(
		&params.skipRegistry,
		"skip-registry",
		false,
		"do not record the deployments in the local registry",
	)

	return cmd
}

func preRunCommand(_ *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	ctx := cmd.Context()

	rt, err := helper.NewRuntime(ctx, cmd, outputter)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer rt.Close()

	deployer, err := rt.Account(secrets.DeployerKey)
	if err != nil {
		outputter.SetError(err)

		return
	}

	owner, err := helper.ParseOptionalAddress(params.owner, deployer.Address())
	if err != nil {
		outputter.SetError(err)

		return
	}

	chainID, err := rt.ChainID(ctx)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.WriteCommandResult(&command.MessageResult{
		Message: fmt.Sprintf("%s started... JSON RPC address %s, deployer %s, owner %s",
			contractsDeploymentTitle, rt.Network.URL, deployer.Address(), owner),
	})

	artifacts := make(map[contracts.Kind]*contracts.Artifact, len(params.kinds))

	for _, kind := range params.kinds {
		if artifacts[kind], err = rt.Artifact(kind); err != nil {
			outputter.SetError(fmt.Errorf("failed to read %s artifact: %w", kind.ArtifactName(), err))

			return
		}
	}

	results, err := deployContracts(ctx, rt.Relayer, deployer, owner, artifacts)
	if err != nil {
		outputter.SetError(fmt.Errorf("failed to deploy contracts: %w", err))
		outputter.SetCommandResult(collectResultsOnError(results))

		return
	}

	if !params.skipRegistry {
		if err := record(rt, chainID, deployer.Address(), results); err != nil {
			outputter.SetError(err)
			outputter.SetCommandResult(toCommandResults(results))

			return
		}
	}

	commandResults := toCommandResults(results)
	commandResults = append(commandResults, &command.MessageResult{
		Message: fmt.Sprintf("%s finished. All contracts are successfully deployed.", contractsDeploymentTitle),
	})

	outputter.SetCommandResult(commandResults)
}

// deployContracts deploys every artifact in parallel, all owned by owner
func deployContracts(
	ctx context.Context,
	relayer txrelayer.TxRelayer,
	deployer txrelayer.Signer,
	owner ethgo.Address,
	artifacts map[contracts.Kind]*contracts.Artifact,
) (map[contracts.Kind]*deployContractResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make(map[contracts.Kind]*deployContractResult, len(artifacts))
	resultsLock := sync.Mutex{}

	for kind, artifact := range artifacts {
		kind, artifact := kind, artifact

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				result, err := deployMinter(ctx, relayer, deployer, owner, kind, artifact)
				if err != nil {
					return err
				}

				resultsLock.Lock()
				defer resultsLock.Unlock()

				results[kind] = result

				return nil
			}
		})
	}

	err := g.Wait()

	return results, err
}

// deployMinter deploys a minter and checks that it owns the collection it forwards to
func deployMinter(
	ctx context.Context,
	relayer txrelayer.TxRelayer,
	deployer txrelayer.Signer,
	owner ethgo.Address,
	kind contracts.Kind,
	artifact *contracts.Artifact,
) (*deployContractResult, error) {
	deployed, err := contractsapi.Deploy(ctx, relayer, deployer, artifact, owner)
	if err != nil {
		return nil, fmt.Errorf("failed sending %s contract deploy transaction: %w", kind.ArtifactName(), err)
	}

	precompile, err := checkDeployment(ctx, relayer, kind, deployed.Address, owner)
	if err != nil {
		return nil, fmt.Errorf("deployment of %s contract at %s failed: %w", kind.ArtifactName(), deployed.Address, err)
	}

	result := &deployContractResult{
		Name:       string(kind),
		Contract:   kind.ArtifactName(),
		Address:    deployed.Address.String(),
		Owner:      owner.String(),
		Precompile: precompile.String(),
		TxHash:     deployed.Receipt.TxHash.Hex(),
		GasUsed:    deployed.Receipt.GasUsed,
	}

	if deployed.Receipt.BlockNumber != nil {
		result.BlockNumber = deployed.Receipt.BlockNumber.Uint64()
	}

	return result, nil
}

type precompileReader interface {
	PrecompileAddress(ctx context.Context) (ethgo.Address, error)
}

// checkDeployment verifies the owner of the minter and that the minter owns its collection
func checkDeployment(
	ctx context.Context, relayer txrelayer.TxRelayer, kind contracts.Kind, address, owner ethgo.Address,
) (ethgo.Address, error) {
	var (
		minter      precompileReader
		minterOwner func(context.Context) (ethgo.Address, error)
	)

	switch {
	case kind.IsBatchMinter():
		m := contractsapi.NewBatchMinter(address, relayer)
		minter, minterOwner = m, m.BatchMinterOwner
	case kind.IsPublicMinter():
		m := contractsapi.NewPublicMinter(address, relayer)
		minter, minterOwner = m, m.PublicMinterOwner
	default:
		minter = contractsapi.NewMinterControlled(address, relayer)
	}

	if minterOwner != nil {
		actual, err := minterOwner(ctx)
		if err != nil {
			return ethgo.ZeroAddress, err
		}

		if actual != owner {
			return ethgo.ZeroAddress, fmt.Errorf("minter owner is %s, expected %s", actual, owner)
		}
	}

	precompile, err := minter.PrecompileAddress(ctx)
	if err != nil {
		return ethgo.ZeroAddress, err
	}

	collectionOwner, err := contractsapi.NewEvolutionCollection(precompile, relayer).Owner(ctx)
	if err != nil {
		return ethgo.ZeroAddress, err
	}

	if collectionOwner != address {
		return ethgo.ZeroAddress, fmt.Errorf("collection %s is owned by %s instead of the minter",
			precompile, collectionOwner)
	}

	return precompile, nil
}

func record(
	rt *helper.Runtime, chainID uint64, deployer ethgo.Address, results map[contracts.Kind]*deployContractResult,
) error {
	store, err := rt.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	dbTx, err := store.BeginDBTransaction(true)
	if err != nil {
		return err
	}

	for _, kind := range sortedKinds(results) {
		result := results[kind]

		_, err := store.Insert(&deployments.Record{
			ChainID:     chainID,
			Name:        result.Name,
			Contract:    result.Contract,
			Address:     ethgo.HexToAddress(result.Address),
			Owner:       ethgo.HexToAddress(result.Owner),
			Deployer:    deployer,
			Precompile:  ethgo.HexToAddress(result.Precompile),
			TxHash:      ethgo.HexToHash(result.TxHash),
			BlockNumber: result.BlockNumber,
			GasUsed:     result.GasUsed,
		}, dbTx)
		if err != nil {
			_ = dbTx.Rollback()

			return fmt.Errorf("failed to record %s deployment: %w", result.Contract, err)
		}
	}

	return dbTx.Commit()
}

func toCommandResults(results map[contracts.Kind]*deployContractResult) command.Results {
	commandResults := make(command.Results, 0, len(results)+1)
	for _, kind := range sortedKinds(results) {
		commandResults = append(commandResults, results[kind])
	}

	return commandResults
}

func collectResultsOnError(results map[contracts.Kind]*deployContractResult) command.Results {
	commandResults := command.Results{
		&command.MessageResult{Message: contractsDeploymentTitle + " Successfully deployed the following contracts"},
	}

	for _, kind := range sortedKinds(results) {
		// failed deployments leave no entry
		if result := results[kind]; result != nil {
			commandResults = append(commandResults, result)
		}
	}

	return commandResults
}

func sortedKinds(results map[contracts.Kind]*deployContractResult) []contracts.Kind {
	kinds := make([]contracts.Kind, 0, len(results))
	for kind := range results {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}
