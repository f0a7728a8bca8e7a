package e2e

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/contractsapi"
	"github.com/freeverseio/laos-minters/txrelayer"
)

// minterControlledScenario deploys a LAOSMinterControlled and gates minting with MINTER_ROLE
func minterControlledScenario(ctx context.Context, r *runner) error {
	deployer, second := r.deployer(), r.second()

	minterAddr, err := r.deploy(ctx, contracts.MinterControlled, deployer.Address())
	if err != nil {
		return err
	}

	minter := contractsapi.NewMinterControlled(minterAddr, r.env.Relayer)

	collection, err := r.ownedCollection(ctx, minter, minterAddr)
	if err != nil {
		return err
	}

	var minterRole, adminRole [32]byte

	if err := r.step("reading roles", func() (string, error) {
		var err error

		if minterRole, err = minter.MinterRole(ctx); err != nil {
			return "", err
		}

		if adminRole, err = minter.DefaultAdminRole(ctx); err != nil {
			return "", err
		}

		return fmt.Sprintf("minter role %s, admin role %s",
			hexutil.Encode(minterRole[:]), hexutil.Encode(adminRole[:])), nil
	}); err != nil {
		return err
	}

	hasRole := func(role [32]byte, account txrelayer.Signer) func(context.Context) (bool, error) {
		return func(ctx context.Context) (bool, error) {
			return minter.HasRole(ctx, role, account.Address())
		}
	}

	if err := r.expectBool(ctx, "deployer holds the admin role", hasRole(adminRole, deployer), true); err != nil {
		return err
	}

	if err := r.expectBool(ctx, "second account lacks the minter role",
		hasRole(minterRole, second), false); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "second account cannot mint through the minter", minter, second); err != nil {
		return err
	}

	if err := r.mintReverts(ctx, "second account cannot mint through the precompile", collection, second); err != nil {
		return err
	}

	if err := r.expectRevert(ctx, "second account cannot grant itself the minter role", func(ctx context.Context) error {
		_, err := minter.GrantRole(ctx, second, minterRole, second.Address())

		return err
	}); err != nil {
		return err
	}

	if err := r.transact("deployer grants the minter role to second account", func() (*types.Receipt, error) {
		return minter.GrantRole(ctx, deployer, minterRole, second.Address())
	}); err != nil {
		return err
	}

	if err := r.expectBool(ctx, "second account holds the minter role", hasRole(minterRole, second), true); err != nil {
		return err
	}

	if _, err := r.mint(ctx, "second account mints through the minter", minter, second, second.Address()); err != nil {
		return err
	}

	if err := r.transact("deployer revokes the minter role of second account", func() (*types.Receipt, error) {
		return minter.RevokeRole(ctx, deployer, minterRole, second.Address())
	}); err != nil {
		return err
	}

	if err := r.expectBool(ctx, "second account lost the minter role", hasRole(minterRole, second), false); err != nil {
		return err
	}

	return r.mintReverts(ctx, "second account cannot mint through the minter anymore", minter, second)
}
