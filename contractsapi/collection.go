package contractsapi

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/metrics"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/holiman/uint256"
)

// MintedToken is a token announced by a MintedWithExternalURI event
type MintedToken struct {
	To       ethgo.Address
	Slot     *uint256.Int
	TokenID  *uint256.Int
	TokenURI string
}

// MintResult is the outcome of a mint transaction
type MintResult struct {
	Receipt *types.Receipt
	Tokens  []*MintedToken
}

// EvolvedToken is a token announced by an EvolvedWithExternalURI event
type EvolvedToken struct {
	TokenID  *uint256.Int
	TokenURI string
}

// EvolveResult is the outcome of an evolve transaction
type EvolveResult struct {
	Receipt *types.Receipt
	Tokens  []*EvolvedToken
}

// mintingContract holds the interface shared by the precompile collection and every minter
type mintingContract struct {
	boundContract
}

// Owner returns the owner of the contract
func (m *mintingContract) Owner(ctx context.Context) (ethgo.Address, error) {
	return m.callAddress(ctx, "owner")
}

// MintWithExternalURI mints a single token for to at slot
func (m *mintingContract) MintWithExternalURI(
	ctx context.Context, sender txrelayer.Signer, to ethgo.Address, slot *uint256.Int, tokenURI string,
) (*MintResult, error) {
	expected, err := tokenid.Compute(to, slot)
	if err != nil {
		return nil, err
	}

	receipt, err := m.transact(ctx, sender, "mintWithExternalURI", &MintWithExternalURIFn{
		To:       to,
		Slot:     slot.ToBig(),
		TokenURI: tokenURI,
	})
	if err != nil {
		return nil, err
	}

	return newMintResult(receipt, []*uint256.Int{expected})
}

// EvolveWithExternalURI replaces the uri of an existing token
func (m *mintingContract) EvolveWithExternalURI(
	ctx context.Context, sender txrelayer.Signer, tokenID *uint256.Int, tokenURI string,
) (*EvolveResult, error) {
	receipt, err := m.transact(ctx, sender, "evolveWithExternalURI", &EvolveWithExternalURIFn{
		TokenID:  tokenID.ToBig(),
		TokenURI: tokenURI,
	})
	if err != nil {
		return nil, err
	}

	return newEvolveResult(receipt, 1)
}

// TransferOwnership hands the contract over to newOwner
func (m *mintingContract) TransferOwnership(
	ctx context.Context, sender txrelayer.Signer, newOwner ethgo.Address,
) (*types.Receipt, error) {
	return m.transact(ctx, sender, "transferOwnership", &TransferOwnershipFn{NewOwner: newOwner})
}

// EvolutionCollection is a collection managed by the runtime precompile
type EvolutionCollection struct {
	mintingContract
}

// NewEvolutionCollection binds the collection precompile at address
func NewEvolutionCollection(address ethgo.Address, relayer txrelayer.TxRelayer) *EvolutionCollection {
	return &EvolutionCollection{
		mintingContract{newBoundContract(address, EvolutionCollectionABI, relayer)},
	}
}

// TokenURI returns the current uri of the token
func (e *EvolutionCollection) TokenURI(ctx context.Context, tokenID *uint256.Int) (string, error) {
	raw, err := e.call(ctx, "tokenURI", tokenID.ToBig())
	if err != nil {
		return "", err
	}

	uri, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("failed to decode token uri")
	}

	return uri, nil
}

// EvolutionCollectionFactory creates precompile collections
type EvolutionCollectionFactory struct {
	boundContract
}

// NewEvolutionCollectionFactory binds the factory precompile
func NewEvolutionCollectionFactory(relayer txrelayer.TxRelayer) *EvolutionCollectionFactory {
	return &EvolutionCollectionFactory{
		newBoundContract(contracts.EvolutionCollectionFactoryPrecompile, EvolutionCollectionFactoryABI, relayer),
	}
}

// CreateCollection creates a collection owned by owner and returns its address
func (f *EvolutionCollectionFactory) CreateCollection(
	ctx context.Context, sender txrelayer.Signer, owner ethgo.Address,
) (ethgo.Address, *types.Receipt, error) {
	receipt, err := f.transact(ctx, sender, "createCollection", &CreateCollectionFn{Owner: owner})
	if err != nil {
		return ethgo.ZeroAddress, receipt, err
	}

	for _, log := range receiptLogs(receipt) {
		var event NewCollectionEvent

		ok, err := event.ParseLog(log)
		if err != nil {
			return ethgo.ZeroAddress, receipt, fmt.Errorf("failed to parse NewCollection event: %w", err)
		}

		if ok {
			return event.CollectionAddress, receipt, nil
		}
	}

	return ethgo.ZeroAddress, receipt, fmt.Errorf("%w: %s", ErrEventNotFound, eventNewCollection)
}

// newMintResult collects the MintedWithExternalURI events of the receipt and
// checks them, in order, against the expected token ids
func newMintResult(receipt *types.Receipt, expected []*uint256.Int) (*MintResult, error) {
	result := &MintResult{Receipt: receipt}

	for _, log := range receiptLogs(receipt) {
		var event MintedWithExternalURIEvent

		ok, err := event.ParseLog(log)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s event: %w", eventMintedWithExternalURI, err)
		}

		if !ok {
			continue
		}

		token, err := newMintedToken(&event)
		if err != nil {
			return nil, err
		}

		result.Tokens = append(result.Tokens, token)
	}

	if len(result.Tokens) != len(expected) {
		return nil, fmt.Errorf("%w: expected %d %s events, got %d",
			ErrEventNotFound, len(expected), eventMintedWithExternalURI, len(result.Tokens))
	}

	for i, token := range result.Tokens {
		if !token.TokenID.Eq(expected[i]) {
			return nil, fmt.Errorf("%w: index %d, emitted %s, computed %s",
				ErrTokenIDMismatch, i, tokenid.Hex(token.TokenID), tokenid.Hex(expected[i]))
		}
	}

	metrics.TokensMinted(len(result.Tokens))

	return result, nil
}

func newMintedToken(event *MintedWithExternalURIEvent) (*MintedToken, error) {
	slot, err := toUint256(event.Slot)
	if err != nil {
		return nil, err
	}

	id, err := toUint256(event.TokenID)
	if err != nil {
		return nil, err
	}

	return &MintedToken{To: event.To, Slot: slot, TokenID: id, TokenURI: event.TokenURI}, nil
}

func newEvolveResult(receipt *types.Receipt, expected int) (*EvolveResult, error) {
	result := &EvolveResult{Receipt: receipt}

	for _, log := range receiptLogs(receipt) {
		var event EvolvedWithExternalURIEvent

		ok, err := event.ParseLog(log)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s event: %w", eventEvolvedWithExternalURI, err)
		}

		if !ok {
			continue
		}

		id, err := toUint256(event.TokenID)
		if err != nil {
			return nil, err
		}

		result.Tokens = append(result.Tokens, &EvolvedToken{TokenID: id, TokenURI: event.TokenURI})
	}

	if len(result.Tokens) != expected {
		return nil, fmt.Errorf("%w: expected %d %s events, got %d",
			ErrEventNotFound, expected, eventEvolvedWithExternalURI, len(result.Tokens))
	}

	metrics.TokensEvolved(len(result.Tokens))

	return result, nil
}

func toUint256(b *big.Int) (*uint256.Int, error) {
	if b == nil {
		return new(uint256.Int), nil
	}

	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("value %s does not fit in 256 bits", b)
	}

	return v, nil
}

func toBigSlice(values []*uint256.Int) []*big.Int {
	res := make([]*big.Int, len(values))
	for i, v := range values {
		res[i] = v.ToBig()
	}

	return res
}
