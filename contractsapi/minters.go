package contractsapi

import (
	"context"
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/holiman/uint256"
)

// precompileProxy is a minter forwarding calls to a precompile collection
type precompileProxy struct {
	mintingContract
}

// PrecompileAddress returns the collection the minter forwards to
func (p *precompileProxy) PrecompileAddress(ctx context.Context) (ethgo.Address, error) {
	return p.callAddress(ctx, "precompileAddress")
}

// SetPrecompileAddress points the minter at another collection
func (p *precompileProxy) SetPrecompileAddress(
	ctx context.Context, sender txrelayer.Signer, collection ethgo.Address,
) (*types.Receipt, error) {
	return p.transact(ctx, sender, "setPrecompileAddress", &SetPrecompileAddressFn{NewAddress: collection})
}

// BatchMinter is a LaosBatchMinter or LaosBatchMinter721 deployment
type BatchMinter struct {
	precompileProxy
}

// NewBatchMinter binds a batch minter at address
func NewBatchMinter(address ethgo.Address, relayer txrelayer.TxRelayer) *BatchMinter {
	return &BatchMinter{
		precompileProxy{mintingContract{newBoundContract(address, BatchMinterABI, relayer)}},
	}
}

// BatchMinterOwner returns the account allowed to mint through the minter
func (b *BatchMinter) BatchMinterOwner(ctx context.Context) (ethgo.Address, error) {
	return b.callAddress(ctx, "batchMinterOwner")
}

// MintWithExternalURIBatch mints one token per index of the given sequences
func (b *BatchMinter) MintWithExternalURIBatch(
	ctx context.Context, sender txrelayer.Signer, owners []ethgo.Address, slots []*uint256.Int, tokenURIs []string,
) (*MintResult, error) {
	if len(tokenURIs) != len(owners) {
		return nil, fmt.Errorf("%w: %d owners but %d token uris", tokenid.ErrInvalidInput, len(owners), len(tokenURIs))
	}

	expected, err := tokenid.ComputeBatch(owners, slots)
	if err != nil {
		return nil, err
	}

	receipt, err := b.transact(ctx, sender, "mintWithExternalURIBatch", &MintWithExternalURIBatchFn{
		To:       owners,
		Slot:     toBigSlice(slots),
		TokenURI: tokenURIs,
	})
	if err != nil {
		return nil, err
	}

	return newMintResult(receipt, expected)
}

// EvolveWithExternalURIBatch evolves every token to the uri at the same index
func (b *BatchMinter) EvolveWithExternalURIBatch(
	ctx context.Context, sender txrelayer.Signer, tokenIDs []*uint256.Int, tokenURIs []string,
) (*EvolveResult, error) {
	if len(tokenIDs) != len(tokenURIs) {
		return nil, fmt.Errorf("%w: %d token ids but %d token uris",
			tokenid.ErrInvalidInput, len(tokenIDs), len(tokenURIs))
	}

	receipt, err := b.transact(ctx, sender, "evolveWithExternalURIBatch", &EvolveWithExternalURIBatchFn{
		TokenID:  toBigSlice(tokenIDs),
		TokenURI: tokenURIs,
	})
	if err != nil {
		return nil, err
	}

	return newEvolveResult(receipt, len(tokenIDs))
}

// TransferBatchMinterOwnership hands minting rights over to newOwner
func (b *BatchMinter) TransferBatchMinterOwnership(
	ctx context.Context, sender txrelayer.Signer, newOwner ethgo.Address,
) (*types.Receipt, error) {
	return b.transact(ctx, sender, "transferBatchMinterOwnership", &TransferBatchMinterOwnershipFn{NewOwner: newOwner})
}

// MintTo is the ERC721 style mint of LaosBatchMinter721
func (b *BatchMinter) MintTo(
	ctx context.Context, sender txrelayer.Signer, to ethgo.Address, tokenURI string,
) (*types.Receipt, error) {
	return b.transact(ctx, sender, "mintTo", &MintToFn{To: to, TokenURI: tokenURI})
}

// TransferFrom is the ERC721 transfer of LaosBatchMinter721, which tokens minted on the precompile reject
func (b *BatchMinter) TransferFrom(
	ctx context.Context, sender txrelayer.Signer, from, to ethgo.Address, tokenID *uint256.Int,
) (*types.Receipt, error) {
	return b.transact(ctx, sender, "transferFrom", &TransferFromFn{From: from, To: to, TokenID: tokenID.ToBig()})
}

// PublicMinter is a LaosPublicMinter or LaosPublicMinterMinimal deployment
type PublicMinter struct {
	precompileProxy
}

// NewPublicMinter binds a public minter at address
func NewPublicMinter(address ethgo.Address, relayer txrelayer.TxRelayer) *PublicMinter {
	return &PublicMinter{
		precompileProxy{mintingContract{newBoundContract(address, PublicMinterABI, relayer)}},
	}
}

// PublicMinterOwner returns the account administering public minting
func (p *PublicMinter) PublicMinterOwner(ctx context.Context) (ethgo.Address, error) {
	return p.callAddress(ctx, "publicMinterOwner")
}

// IsPublicMintingEnabled reports whether anyone may mint
func (p *PublicMinter) IsPublicMintingEnabled(ctx context.Context) (bool, error) {
	return p.callBool(ctx, "isPublicMintingEnabled")
}

func (p *PublicMinter) EnablePublicMinting(ctx context.Context, sender txrelayer.Signer) (*types.Receipt, error) {
	return p.transact(ctx, sender, "enablePublicMinting", &EnablePublicMintingFn{})
}

func (p *PublicMinter) DisablePublicMinting(ctx context.Context, sender txrelayer.Signer) (*types.Receipt, error) {
	return p.transact(ctx, sender, "disablePublicMinting", &DisablePublicMintingFn{})
}

// TransferPublicMinterOwnership hands public minting administration over to newOwner
func (p *PublicMinter) TransferPublicMinterOwnership(
	ctx context.Context, sender txrelayer.Signer, newOwner ethgo.Address,
) (*types.Receipt, error) {
	return p.transact(ctx, sender, "transferPublicMinterOwnership",
		&TransferPublicMinterOwnershipFn{NewOwner: newOwner})
}

// MinterControlled is a LAOSMinterControlled deployment, minting gated by MINTER_ROLE
type MinterControlled struct {
	precompileProxy
}

// NewMinterControlled binds a role controlled minter at address
func NewMinterControlled(address ethgo.Address, relayer txrelayer.TxRelayer) *MinterControlled {
	return &MinterControlled{
		precompileProxy{mintingContract{newBoundContract(address, MinterControlledABI, relayer)}},
	}
}

func (m *MinterControlled) MinterRole(ctx context.Context) ([32]byte, error) {
	return m.callRole(ctx, "MINTER_ROLE")
}

func (m *MinterControlled) DefaultAdminRole(ctx context.Context) ([32]byte, error) {
	return m.callRole(ctx, "DEFAULT_ADMIN_ROLE")
}

// HasRole reports whether account holds role
func (m *MinterControlled) HasRole(ctx context.Context, role [32]byte, account ethgo.Address) (bool, error) {
	return m.callBool(ctx, "hasRole", role, account)
}

func (m *MinterControlled) GrantRole(
	ctx context.Context, sender txrelayer.Signer, role [32]byte, account ethgo.Address,
) (*types.Receipt, error) {
	return m.transact(ctx, sender, "grantRole", &GrantRoleFn{Role: role, Account: account})
}

func (m *MinterControlled) RevokeRole(
	ctx context.Context, sender txrelayer.Signer, role [32]byte, account ethgo.Address,
) (*types.Receipt, error) {
	return m.transact(ctx, sender, "revokeRole", &RevokeRoleFn{Role: role, Account: account})
}

func (m *MinterControlled) callRole(ctx context.Context, name string) ([32]byte, error) {
	raw, err := m.call(ctx, name)
	if err != nil {
		return [32]byte{}, err
	}

	role, ok := raw.([32]byte)
	if !ok {
		return [32]byte{}, fmt.Errorf("failed to decode %s", name)
	}

	return role, nil
}
