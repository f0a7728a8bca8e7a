package e2e

import (
	"context"
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/contractsapi"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/holiman/uint256"
)

// batchMinterScenario deploys a LaosBatchMinter owning a fresh collection, exercises batch
// minting and evolution, then hands both minter and collection ownership around
func batchMinterScenario(ctx context.Context, r *runner) error {
	deployer, second := r.deployer(), r.second()

	minterAddr, err := r.deploy(ctx, contracts.BatchMinter, deployer.Address())
	if err != nil {
		return err
	}

	minter := contractsapi.NewBatchMinter(minterAddr, r.env.Relayer)

	collection, err := r.ownedCollection(ctx, minter, minterAddr)
	if err != nil {
		return err
	}

	if err := r.expectAddress(ctx, "batch minter owner is the deployer",
		minter.BatchMinterOwner, deployer.Address()); err != nil {
		return err
	}

	if err := r.batchMint(ctx, minter, second.Address()); err != nil {
		return err
	}

	id, err := r.mint(ctx, "deployer mints a single token through the minter", minter, deployer, second.Address())
	if err != nil {
		return err
	}

	if err := r.batchEvolve(ctx, minter, id); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "second account cannot mint through the minter", minter, second); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "second account cannot mint through the precompile", collection, second); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "deployer cannot mint through the precompile", collection, deployer); err != nil {
		return err
	}

	return r.handOverBatchMinter(ctx, minter, collection)
}

// batchMinterFactoryScenario creates a collection through the factory precompile and
// places an already deployed batch minter in front of it
func batchMinterFactoryScenario(ctx context.Context, r *runner) error {
	deployer, second := r.deployer(), r.second()

	collection, err := r.createCollection(ctx, deployer.Address())
	if err != nil {
		return err
	}

	minterAddr, err := r.deploy(ctx, contracts.BatchMinter, deployer.Address())
	if err != nil {
		return err
	}

	minter := contractsapi.NewBatchMinter(minterAddr, r.env.Relayer)

	if err := r.attach(ctx, minter, collection); err != nil {
		return err
	}

	if _, err := r.mint(ctx, "deployer mints through the minter", minter, deployer, second.Address()); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "second account cannot mint through the minter", minter, second); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "second account cannot mint through the precompile", collection, second); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "deployer cannot mint through the precompile", collection, deployer); err != nil {
		return err
	}

	return r.handOverBatchMinter(ctx, minter, collection)
}

// batchMinter721Scenario checks that tokens minted through LaosBatchMinter721 cannot be transferred
func batchMinter721Scenario(ctx context.Context, r *runner) error {
	deployer, second := r.deployer(), r.second()

	minterAddr, err := r.deploy(ctx, contracts.BatchMinter721, deployer.Address())
	if err != nil {
		return err
	}

	minter := contractsapi.NewBatchMinter(minterAddr, r.env.Relayer)

	if err := r.expectAddress(ctx, "batch minter owner is the deployer",
		minter.BatchMinterOwner, deployer.Address()); err != nil {
		return err
	}

	if _, err := r.ownedCollection(ctx, minter, minterAddr); err != nil {
		return err
	}

	if err := r.transact("deployer mints with mintTo", func() (*types.Receipt, error) {
		return minter.MintTo(ctx, deployer, deployer.Address(), "aaa")
	}); err != nil {
		return err
	}

	var id *uint256.Int

	if err := r.step("deployer batch mints a single token", func() (string, error) {
		result, err := minter.MintWithExternalURIBatch(ctx, deployer,
			[]ethgo.Address{deployer.Address()}, []*uint256.Int{r.randomSlot()}, []string{"aaa"})
		if err != nil {
			return "", err
		}

		id = result.Tokens[0].TokenID

		return fmt.Sprintf("new token id %s", tokenid.Dec(id)), nil
	}); err != nil {
		return err
	}

	return r.expectRevert(ctx, "minted token cannot be transferred", func(ctx context.Context) error {
		_, err := minter.TransferFrom(ctx, deployer, deployer.Address(), second.Address(), id)

		return err
	})
}

func (r *runner) batchMint(ctx context.Context, minter *contractsapi.BatchMinter, to ethgo.Address) error {
	n := r.env.BatchSize

	return r.step(fmt.Sprintf("deployer batch mints %d tokens", n), func() (string, error) {
		owners := make([]ethgo.Address, n)
		uris := make([]string, n)

		for i := range owners {
			owners[i] = to
			uris[i] = dummyURI
		}

		result, err := minter.MintWithExternalURIBatch(ctx, r.deployer(), owners, r.randomSlots(n), uris)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("minted %d tokens, gas used %d", len(result.Tokens), result.Receipt.GasUsed), nil
	})
}

// batchEvolve evolves the same token BatchSize times in one transaction
func (r *runner) batchEvolve(ctx context.Context, minter *contractsapi.BatchMinter, id *uint256.Int) error {
	n := r.env.BatchSize

	return r.step(fmt.Sprintf("deployer batch evolves token %s %d times", tokenid.Dec(id), n), func() (string, error) {
		ids := make([]*uint256.Int, n)
		uris := make([]string, n)

		for i := range ids {
			ids[i] = id
			uris[i] = dummyURI
		}

		result, err := minter.EvolveWithExternalURIBatch(ctx, r.deployer(), ids, uris)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("evolved %d times, gas used %d", len(result.Tokens), result.Receipt.GasUsed), nil
	})
}

// handOverBatchMinter moves minter ownership to the second account, which then
// moves collection ownership back to the deployer
func (r *runner) handOverBatchMinter(
	ctx context.Context, minter *contractsapi.BatchMinter, collection *contractsapi.EvolutionCollection,
) error {
	deployer, second := r.deployer(), r.second()

	if err := r.expectRevert(ctx, "second account cannot transfer batch minter ownership",
		func(ctx context.Context) error {
			_, err := minter.TransferBatchMinterOwnership(ctx, second, second.Address())

			return err
		}); err != nil {
		return err
	}

	if err := r.transact("deployer transfers batch minter ownership to second account",
		func() (*types.Receipt, error) {
			return minter.TransferBatchMinterOwnership(ctx, deployer, second.Address())
		}); err != nil {
		return err
	}

	if err := r.expectAddress(ctx, "precompile owner is still the minter",
		collection.Owner, minter.Address()); err != nil {
		return err
	}

	if err := r.expectAddress(ctx, "batch minter owner is the second account",
		minter.BatchMinterOwner, second.Address()); err != nil {
		return err
	}

	if err := r.expectRevert(ctx, "deployer cannot transfer batch minter ownership anymore",
		func(ctx context.Context) error {
			_, err := minter.TransferBatchMinterOwnership(ctx, deployer, deployer.Address())

			return err
		}); err != nil {
		return err
	}

	if err := r.transferOwnershipReverts(ctx, "deployer cannot transfer precompile ownership through the precompile",
		collection, deployer, deployer.Address()); err != nil {
		return err
	}

	if err := r.transferOwnershipReverts(ctx, "deployer cannot transfer precompile ownership through the minter",
		minter, deployer, deployer.Address()); err != nil {
		return err
	}

	return r.returnCollection(ctx, minter, collection)
}

// returnCollection has the second account, owning the minter, hand the collection to the deployer
func (r *runner) returnCollection(
	ctx context.Context, via mintable, collection *contractsapi.EvolutionCollection,
) error {
	deployer := r.deployer()

	if err := r.transact("second account transfers precompile ownership to deployer through the minter",
		func() (*types.Receipt, error) {
			return via.TransferOwnership(ctx, r.second(), deployer.Address())
		}); err != nil {
		return err
	}

	return r.expectAddress(ctx, "precompile owner is the deployer", collection.Owner, deployer.Address())
}
