package e2e

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/contractsapi"
)

// publicMinterScenario places a LaosPublicMinter in front of a factory collection and
// walks through enabling and disabling public minting
func publicMinterScenario(ctx context.Context, r *runner) error {
	deployer, second := r.deployer(), r.second()

	collection, err := r.createCollection(ctx, deployer.Address())
	if err != nil {
		return err
	}

	if _, err := r.mint(ctx, "deployer mints on its collection", collection, deployer, second.Address()); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "second account cannot mint on the collection", collection, second); err != nil {
		return err
	}

	minterAddr, err := r.deploy(ctx, contracts.PublicMinter, deployer.Address())
	if err != nil {
		return err
	}

	minter := contractsapi.NewPublicMinter(minterAddr, r.env.Relayer)

	if err := r.expectAddress(ctx, "public minter owner is the deployer",
		minter.PublicMinterOwner, deployer.Address()); err != nil {
		return err
	}

	if err := r.attach(ctx, minter, collection); err != nil {
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

	if _, err := r.mint(ctx, "deployer mints through the minter it owns", minter, deployer, second.Address()); err != nil {
		return err
	}

	if err := r.expectRevert(ctx, "second account cannot enable public minting", func(ctx context.Context) error {
		_, err := minter.EnablePublicMinting(ctx, second)

		return err
	}); err != nil {
		return err
	}

	if err := r.transact("deployer enables public minting", func() (*types.Receipt, error) {
		return minter.EnablePublicMinting(ctx, deployer)
	}); err != nil {
		return err
	}

	if err := r.expectBool(ctx, "public minting is enabled", minter.IsPublicMintingEnabled, true); err != nil {
		return err
	}

	if _, err := r.mint(ctx, "second account mints through the minter", minter, second, deployer.Address()); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "second account still cannot mint through the precompile",
		collection, second); err != nil {
		return err
	}

	if err := r.handOverPublicMinter(ctx, minter, collection); err != nil {
		return err
	}

	if err := r.expectRevert(ctx, "deployer cannot disable public minting", func(ctx context.Context) error {
		_, err := minter.DisablePublicMinting(ctx, deployer)

		return err
	}); err != nil {
		return err
	}

	if err := r.transact("second account disables public minting", func() (*types.Receipt, error) {
		return minter.DisablePublicMinting(ctx, second)
	}); err != nil {
		return err
	}

	if err := r.expectBool(ctx, "public minting is disabled", minter.IsPublicMintingEnabled, false); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "deployer cannot mint through the minter anymore", minter, deployer); err != nil {
		return err
	}

	if _, err := r.mint(ctx, "second account mints through the minter it owns",
		minter, second, deployer.Address()); err != nil {
		return err
	}

	if err := r.precompileOwnershipReverts(ctx, minter, collection); err != nil {
		return err
	}

	return r.returnCollection(ctx, minter, collection)
}

// publicMinterMinimalScenario deploys a LaosPublicMinterMinimal owning a fresh collection
func publicMinterMinimalScenario(ctx context.Context, r *runner) error {
	deployer, second := r.deployer(), r.second()

	minterAddr, err := r.deploy(ctx, contracts.PublicMinterMinimal, deployer.Address())
	if err != nil {
		return err
	}

	minter := contractsapi.NewPublicMinter(minterAddr, r.env.Relayer)

	if err := r.expectAddress(ctx, "public minter owner is the deployer",
		minter.PublicMinterOwner, deployer.Address()); err != nil {
		return err
	}

	collection, err := r.ownedCollection(ctx, minter, minterAddr)
	if err != nil {
		return err
	}

	if _, err := r.mint(ctx, "deployer mints through the minter", minter, deployer, second.Address()); err != nil {
		return err
	}

	if _, err := r.mint(ctx, "second account mints through the minter", minter, second, second.Address()); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "second account cannot mint through the precompile", collection, second); err != nil {
		return err
	}

	if err := r.handOverPublicMinter(ctx, minter, collection); err != nil {
		return err
	}

	if err := r.expectRevert(ctx, "deployer cannot transfer public minter ownership anymore",
		func(ctx context.Context) error {
			_, err := minter.TransferPublicMinterOwnership(ctx, deployer, deployer.Address())

			return err
		}); err != nil {
		return err
	}

	if err := r.transferOwnershipReverts(ctx, "deployer cannot transfer precompile ownership through the minter",
		minter, deployer, deployer.Address()); err != nil {
		return err
	}

	return r.returnCollection(ctx, minter, collection)
}

// handOverPublicMinter moves public minter ownership from the deployer to the second account
func (r *runner) handOverPublicMinter(
	ctx context.Context, minter *contractsapi.PublicMinter, collection *contractsapi.EvolutionCollection,
) error {
	deployer, second := r.deployer(), r.second()

	if err := r.expectRevert(ctx, "second account cannot transfer public minter ownership",
		func(ctx context.Context) error {
			_, err := minter.TransferPublicMinterOwnership(ctx, second, second.Address())

			return err
		}); err != nil {
		return err
	}

	if err := r.transact("deployer transfers public minter ownership to second account",
		func() (*types.Receipt, error) {
			return minter.TransferPublicMinterOwnership(ctx, deployer, second.Address())
		}); err != nil {
		return err
	}

	if err := r.expectAddress(ctx, "precompile owner is still the minter",
		collection.Owner, minter.Address()); err != nil {
		return err
	}

	return r.expectAddress(ctx, "public minter owner is the second account",
		minter.PublicMinterOwner, second.Address())
}

// precompileOwnershipReverts checks that the deployer, no longer owning anything,
// cannot take the collection back
func (r *runner) precompileOwnershipReverts(
	ctx context.Context, via mintable, collection *contractsapi.EvolutionCollection,
) error {
	deployer := r.deployer()

	if err := r.transferOwnershipReverts(ctx, "deployer cannot transfer precompile ownership through the precompile",
		collection, deployer, deployer.Address()); err != nil {
		return err
	}

	return r.transferOwnershipReverts(ctx, "deployer cannot transfer precompile ownership through the minter",
		via, deployer, deployer.Address())
}
