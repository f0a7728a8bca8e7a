package mint

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/contractsapi"
	"github.com/freeverseio/laos-minters/deployments"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/freeverseio/laos-minters/wallet"
	"github.com/holiman/uint256"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	single singleParams
	batch  batchParams
	evolve evolveParams
)

// GetCommand returns the mint command
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mints and evolves tokens through a minter or directly on a collection",
	}

	cmd.AddCommand(
		getSingleCommand(),
		getBatchCommand(),
		getEvolveCommand(),
	)

	return cmd
}

func setTargetFlags(cmd *cobra.Command, p *targetParams, defaultKind contracts.Kind) {
	cmd.Flags().StringVar(
		&p.contract,
		command.ContractFlag,
		string(defaultKind),
		"kind of the target minter, its latest recorded deployment is used unless --address is set",
	)

	cmd.Flags().StringVar(
		&p.address,
		command.AddressFlag,
		"",
		"address of the minter or of a precompile collection",
	)
}

func getSingleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "single",
		Short: "Mints a single token",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return single.validateFlags()
		},
		Run: runSingle,
	}

	setTargetFlags(cmd, &single.targetParams, contracts.PublicMinterMinimal)

	cmd.Flags().StringVar(&single.to, toFlag, "", "recipient of the token, defaults to the deployer")
	cmd.Flags().StringVar(&single.slot, slotFlag, "", "96 bit slot, a random 32 bit slot when empty")
	cmd.Flags().StringVar(&single.uri, uriFlag, defaultURI, "token uri")

	return cmd
}

func getBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Mints batches of tokens with random slots through a batch minter",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return batch.validateFlags()
		},
		Run: runBatch,
	}

	setTargetFlags(cmd, &batch.targetParams, contracts.BatchMinter)

	cmd.Flags().StringVar(&batch.to, toFlag, "", "recipient of the tokens, defaults to the deployer")
	cmd.Flags().StringVar(&batch.uri, uriFlag, defaultURI, "uri of every minted token")
	cmd.Flags().IntVar(&batch.size, sizeFlag, defaultBatchSize, "tokens minted per transaction")
	cmd.Flags().IntVar(&batch.batches, batchesFlag, 1, "number of batch transactions")

	return cmd
}

func getEvolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Replaces the uri of existing tokens, in one batch transaction when several ids are given",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return evolve.validateFlags()
		},
		Run: runEvolve,
	}

	setTargetFlags(cmd, &evolve.targetParams, contracts.BatchMinter)

	cmd.Flags().StringArrayVar(&evolve.ids, idFlag, nil, "token id, repeat to evolve several")
	cmd.Flags().StringVar(&evolve.uri, uriFlag, defaultURI, "new token uri")

	return cmd
}

// session is what every mint subcommand needs once connected
type session struct {
	rt       *helper.Runtime
	deployer *wallet.Account
	target   ethgo.Address
}

func openSession(
	ctx context.Context, cmd *cobra.Command, outputter command.OutputFormatter, p *targetParams,
) (*session, error) {
	rt, err := helper.NewRuntime(ctx, cmd, outputter)
	if err != nil {
		return nil, err
	}

	deployer, err := rt.Account(secrets.DeployerKey)
	if err != nil {
		rt.Close()

		return nil, err
	}

	target, err := resolveTarget(ctx, rt, p)
	if err != nil {
		rt.Close()

		return nil, err
	}

	rt.Logger.Debug("mint target", "kind", p.kind, "address", target)

	return &session{rt: rt, deployer: deployer, target: target}, nil
}

// resolveTarget returns --address, or the latest recorded deployment of the kind
func resolveTarget(ctx context.Context, rt *helper.Runtime, p *targetParams) (ethgo.Address, error) {
	if p.addressArg != ethgo.ZeroAddress {
		return p.addressArg, nil
	}

	chainID, err := rt.ChainID(ctx)
	if err != nil {
		return ethgo.ZeroAddress, err
	}

	store, err := rt.OpenStore()
	if err != nil {
		return ethgo.ZeroAddress, err
	}
	defer store.Close()

	record, err := store.Latest(chainID, p.kind.ArtifactName())
	if errors.Is(err, deployments.ErrNotFound) {
		return ethgo.ZeroAddress, fmt.Errorf("%w, deploy one or pass --%s", err, command.AddressFlag)
	}

	if err != nil {
		return ethgo.ZeroAddress, err
	}

	return record.Address, nil
}

type mintable interface {
	MintWithExternalURI(
		ctx context.Context, sender txrelayer.Signer, to ethgo.Address, slot *uint256.Int, tokenURI string,
	) (*contractsapi.MintResult, error)
}

type evolvable interface {
	EvolveWithExternalURI(
		ctx context.Context, sender txrelayer.Signer, tokenID *uint256.Int, tokenURI string,
	) (*contractsapi.EvolveResult, error)
}

func runSingle(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	ctx := cmd.Context()

	s, err := openSession(ctx, cmd, outputter, &single.targetParams)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.rt.Close()

	to := single.toArg
	if to == ethgo.ZeroAddress {
		to = s.deployer.Address()
	}

	slot := single.slotArg
	if slot == nil {
		slot = uint256.NewInt(uint64(rand.Uint32())) //nolint:gosec
	}

	var target mintable

	switch {
	case single.isCollection():
		target = contractsapi.NewEvolutionCollection(s.target, s.rt.Relayer)
	case single.kind.IsBatchMinter():
		target = contractsapi.NewBatchMinter(s.target, s.rt.Relayer)
	case single.kind.IsPublicMinter():
		target = contractsapi.NewPublicMinter(s.target, s.rt.Relayer)
	default:
		target = contractsapi.NewMinterControlled(s.target, s.rt.Relayer)
	}

	res, err := target.MintWithExternalURI(ctx, s.deployer, to, slot, single.uri)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(newMintTxResult(s.target.String(), res))
}

func runBatch(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	ctx := cmd.Context()

	s, err := openSession(ctx, cmd, outputter, &batch.targetParams)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.rt.Close()

	to := batch.toArg
	if to == ethgo.ZeroAddress {
		to = s.deployer.Address()
	}

	minter := contractsapi.NewBatchMinter(s.target, s.rt.Relayer)
	result := &batchesResult{Contract: s.target.String()}

	bar := progressbar.NewOptions(batch.batches,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(fmt.Sprintf("minting %d x %d tokens", batch.batches, batch.size)),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for i := 0; i < batch.batches; i++ {
		owners, slots, uris := batchArgs(to, batch.uri, batch.size, rand.Uint32) //nolint:gosec

		res, err := minter.MintWithExternalURIBatch(ctx, s.deployer, owners, slots, uris)
		if err != nil {
			_ = bar.Exit()

			outputter.SetError(fmt.Errorf("batch %d failed: %w", i+1, err))
			outputter.SetCommandResult(result)

			return
		}

		result.Batches = append(result.Batches, newMintTxResult(s.target.String(), res))

		_ = bar.Add(1)
	}

	_ = bar.Finish()

	outputter.SetCommandResult(result)
}

func runEvolve(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	ctx := cmd.Context()

	s, err := openSession(ctx, cmd, outputter, &evolve.targetParams)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.rt.Close()

	var res *contractsapi.EvolveResult

	if len(evolve.idArgs) == 1 {
		var target evolvable

		if evolve.isCollection() {
			target = contractsapi.NewEvolutionCollection(s.target, s.rt.Relayer)
		} else {
			target = contractsapi.NewBatchMinter(s.target, s.rt.Relayer)
		}

		res, err = target.EvolveWithExternalURI(ctx, s.deployer, evolve.idArgs[0], evolve.uri)
	} else {
		uris := make([]string, len(evolve.idArgs))
		for i := range uris {
			uris[i] = evolve.uri
		}

		res, err = contractsapi.NewBatchMinter(s.target, s.rt.Relayer).
			EvolveWithExternalURIBatch(ctx, s.deployer, evolve.idArgs, uris)
	}

	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(newEvolveTxResult(s.target.String(), res))
}

// batchArgs builds one batch for to with unique 32 bit slots drawn from next
func batchArgs(to ethgo.Address, uri string, size int, next func() uint32) ([]ethgo.Address, []*uint256.Int, []string) {
	owners := make([]ethgo.Address, size)
	slots := make([]*uint256.Int, size)
	uris := make([]string, size)
	seen := make(map[uint32]struct{}, size)

	for i := 0; i < size; i++ {
		slot := next()
		for _, ok := seen[slot]; ok; _, ok = seen[slot] {
			slot = next()
		}

		seen[slot] = struct{}{}
		owners[i], slots[i], uris[i] = to, uint256.NewInt(uint64(slot)), uri
	}

	return owners, slots, uris
}
