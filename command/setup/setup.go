package setup

import (
	"context"
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/contractsapi"
	"github.com/freeverseio/laos-minters/deployments"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/spf13/cobra"
)

var params setupParams

// GetCommand returns the setup command
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Deploys a minter and hands a precompile collection over to it",
		Long: "Deploys a batch or public minter, transfers the ownership of a collection to it and " +
			"points the minter at that collection. Without --collection a new one is created through the factory.",
		PreRunE: preRunCommand,
		Run:     runCommand,
	}

	cmd.Flags().StringVar(
		&params.contract,
		command.ContractFlag,
		string(contracts.PublicMinterMinimal),
		"minter to deploy, a batch or public minter kind",
	)

	cmd.Flags().StringVar(
		&params.owner,
		command.OwnerFlag,
		"",
		command.OwnerFlagDesc,
	)

	cmd.Flags().StringVar(
		&params.collection,
		collectionFlag,
		"",
		"existing collection owned by the deployer",
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

	artifact, err := rt.Artifact(params.kind)
	if err != nil {
		outputter.SetError(err)

		return
	}

	chainID, err := rt.ChainID(ctx)
	if err != nil {
		outputter.SetError(err)

		return
	}

	s := &setup{
		relayer:  rt.Relayer,
		deployer: deployer,
		kind:     params.kind,
		artifact: artifact,
		owner:    owner,
		out:      outputter,
	}

	result, receipt, err := s.run(ctx, params.collectionArg)
	if err != nil {
		outputter.SetError(err)

		return
	}

	store, err := rt.OpenStore()
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer store.Close()

	record := &deployments.Record{
		ChainID:    chainID,
		Name:       string(params.kind),
		Contract:   params.kind.ArtifactName(),
		Address:    ethgo.HexToAddress(result.Minter),
		Owner:      owner,
		Deployer:   deployer.Address(),
		Precompile: ethgo.HexToAddress(result.Collection),
		TxHash:     ethgo.Hash(receipt.TxHash),
		GasUsed:    receipt.GasUsed,
	}

	if receipt.BlockNumber != nil {
		record.BlockNumber = receipt.BlockNumber.Uint64()
	}

	if _, err := store.Insert(record, nil); err != nil {
		outputter.SetError(fmt.Errorf("failed to record the deployment: %w", err))
	}

	outputter.SetCommandResult(result)
}

type minter interface {
	Address() ethgo.Address
	PrecompileAddress(ctx context.Context) (ethgo.Address, error)
	SetPrecompileAddress(ctx context.Context, sender txrelayer.Signer, collection ethgo.Address) (*types.Receipt, error)
}

type setup struct {
	relayer  txrelayer.TxRelayer
	deployer txrelayer.Signer
	kind     contracts.Kind
	artifact *contracts.Artifact
	owner    ethgo.Address
	out      command.OutputFormatter
}

// run performs the hand-over and returns the deploy receipt of the minter
func (s *setup) run(ctx context.Context, collectionAddr ethgo.Address) (*setupResult, *types.Receipt, error) {
	result := &setupResult{Contract: s.kind.ArtifactName(), Owner: s.owner.String()}

	if collectionAddr == ethgo.ZeroAddress {
		created, _, err := contractsapi.NewEvolutionCollectionFactory(s.relayer).
			CreateCollection(ctx, s.deployer, s.deployer.Address())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create collection: %w", err)
		}

		collectionAddr = created
		result.CollectionCreated = true

		s.progress("created collection %s", created)
	}

	collection := contractsapi.NewEvolutionCollection(collectionAddr, s.relayer)

	if err := expectOwner(ctx, collection, s.deployer.Address()); err != nil {
		return nil, nil, err
	}

	// the deployer keeps the minter until the precompile address is set
	deployed, err := contractsapi.Deploy(ctx, s.relayer, s.deployer, s.artifact, s.deployer.Address())
	if err != nil {
		return nil, nil, err
	}

	s.progress("deployed %s at %s", s.kind.ArtifactName(), deployed.Address)

	var (
		m             minter
		transferOwner func(context.Context, txrelayer.Signer, ethgo.Address) (*types.Receipt, error)
	)

	if s.kind.IsBatchMinter() {
		batch := contractsapi.NewBatchMinter(deployed.Address, s.relayer)
		m, transferOwner = batch, batch.TransferBatchMinterOwnership
	} else {
		public := contractsapi.NewPublicMinter(deployed.Address, s.relayer)
		m, transferOwner = public, public.TransferPublicMinterOwnership
	}

	if _, err := collection.TransferOwnership(ctx, s.deployer, m.Address()); err != nil {
		return nil, nil, err
	}

	if err := expectOwner(ctx, collection, m.Address()); err != nil {
		return nil, nil, err
	}

	if _, err := m.SetPrecompileAddress(ctx, s.deployer, collectionAddr); err != nil {
		return nil, nil, err
	}

	precompile, err := m.PrecompileAddress(ctx)
	if err != nil {
		return nil, nil, err
	}

	if precompile != collectionAddr {
		return nil, nil, fmt.Errorf("minter points at %s instead of %s", precompile, collectionAddr)
	}

	s.progress("collection %s handed over to %s", collectionAddr, m.Address())

	if s.owner != s.deployer.Address() {
		if _, err := transferOwner(ctx, s.deployer, s.owner); err != nil {
			return nil, nil, err
		}

		s.progress("minter ownership transferred to %s", s.owner)
	}

	result.Minter = m.Address().String()
	result.Collection = collectionAddr.String()

	return result, deployed.Receipt, nil
}

func (s *setup) progress(format string, args ...interface{}) {
	s.out.WriteCommandResult(&command.MessageResult{Message: fmt.Sprintf(format, args...)})
}

func expectOwner(ctx context.Context, collection *contractsapi.EvolutionCollection, expected ethgo.Address) error {
	owner, err := collection.Owner(ctx)
	if err != nil {
		return err
	}

	if owner != expected {
		return fmt.Errorf("collection %s is owned by %s, expected %s", collection.Address(), owner, expected)
	}

	return nil
}
