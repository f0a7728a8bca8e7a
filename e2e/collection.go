package e2e

import (
	"context"
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/contractsapi"
	"github.com/freeverseio/laos-minters/txrelayer"
)

// precompileProxy is a minter forwarding to a precompile collection
type precompileProxy interface {
	Address() ethgo.Address
	PrecompileAddress(ctx context.Context) (ethgo.Address, error)
	SetPrecompileAddress(ctx context.Context, sender txrelayer.Signer, collection ethgo.Address) (*types.Receipt, error)
}

// ownedCollection binds the collection proxy forwards to and checks that owner owns it
func (r *runner) ownedCollection(
	ctx context.Context, proxy precompileProxy, owner ethgo.Address,
) (*contractsapi.EvolutionCollection, error) {
	var collection *contractsapi.EvolutionCollection

	if err := r.step("reading the precompile address of the minter", func() (string, error) {
		address, err := proxy.PrecompileAddress(ctx)
		if err != nil {
			return "", err
		}

		if !contracts.IsCollectionAddress(address) {
			r.logger.Warn("precompile address outside the collection range", "address", address)
		}

		collection = contractsapi.NewEvolutionCollection(address, r.env.Relayer)

		return fmt.Sprintf("collection %s", address), nil
	}); err != nil {
		return nil, err
	}

	if err := r.expectAddress(ctx, fmt.Sprintf("precompile owner is %s", owner), collection.Owner, owner); err != nil {
		return nil, err
	}

	return collection, nil
}

// createCollection creates a collection owned by owner through the factory precompile
func (r *runner) createCollection(ctx context.Context, owner ethgo.Address) (*contractsapi.EvolutionCollection, error) {
	var collection *contractsapi.EvolutionCollection

	if err := r.step(fmt.Sprintf("creating a collection owned by %s", owner), func() (string, error) {
		address, _, err := contractsapi.NewEvolutionCollectionFactory(r.env.Relayer).
			CreateCollection(ctx, r.deployer(), owner)
		if err != nil {
			return "", err
		}

		collection = contractsapi.NewEvolutionCollection(address, r.env.Relayer)

		return fmt.Sprintf("new collection at %s", address), nil
	}); err != nil {
		return nil, err
	}

	if err := r.expectAddress(ctx, "collection owner is the requested owner", collection.Owner, owner); err != nil {
		return nil, err
	}

	return collection, nil
}

// attach hands collection ownership to the minter and points the minter at the collection
func (r *runner) attach(
	ctx context.Context, proxy precompileProxy, collection *contractsapi.EvolutionCollection,
) error {
	if err := r.transact("deployer transfers collection ownership to the minter", func() (*types.Receipt, error) {
		return collection.TransferOwnership(ctx, r.deployer(), proxy.Address())
	}); err != nil {
		return err
	}

	if err := r.expectAddress(ctx, "collection owner is the minter", collection.Owner, proxy.Address()); err != nil {
		return err
	}

	if err := r.transact("deployer sets the precompile address of the minter", func() (*types.Receipt, error) {
		return proxy.SetPrecompileAddress(ctx, r.deployer(), collection.Address())
	}); err != nil {
		return err
	}

	return r.expectAddress(ctx, "minter precompile address is the collection",
		proxy.PrecompileAddress, collection.Address())
}
