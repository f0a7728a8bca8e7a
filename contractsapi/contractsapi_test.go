package contractsapi

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/Ethernal-Tech/ethgo/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/jsonrpc"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/freeverseio/laos-minters/wallet"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	alice      = ethgo.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	bob        = ethgo.HexToAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	collection = contracts.CollectionAddress(0x0d)
)

type fakeRelayer struct {
	callOutput []byte
	receipt    *types.Receipt
	err        error

	calls [][]byte
	sent  []*txrelayer.Transaction
}

func (f *fakeRelayer) Call(_ context.Context, _ ethgo.Address, _ ethgo.Address, input []byte) ([]byte, error) {
	f.calls = append(f.calls, input)

	return f.callOutput, f.err
}

func (f *fakeRelayer) SendTransaction(
	_ context.Context, txn *txrelayer.Transaction, _ txrelayer.Signer,
) (*types.Receipt, error) {
	f.sent = append(f.sent, txn)

	return f.receipt, f.err
}

func (f *fakeRelayer) Client() *jsonrpc.EthClient {
	return nil
}

func testSigner(t *testing.T) txrelayer.Signer {
	t.Helper()

	account, err := wallet.GenerateAccount()
	require.NoError(t, err)

	return account
}

func mintedLog(t *testing.T, to ethgo.Address, slot, id *uint256.Int, uri string) *types.Log {
	t.Helper()

	data, err := abi.MustNewType("tuple(uint96,uint256,string)").Encode(
		[]interface{}{slot.ToBig(), id.ToBig(), uri})
	require.NoError(t, err)

	return &types.Log{
		Address: common.Address(collection),
		Topics: []common.Hash{
			common.Hash(new(MintedWithExternalURIEvent).Sig()),
			common.BytesToHash(to[:]),
		},
		Data: data,
	}
}

func evolvedLog(t *testing.T, id *uint256.Int, uri string) *types.Log {
	t.Helper()

	data, err := abi.MustNewType("tuple(string)").Encode([]interface{}{uri})
	require.NoError(t, err)

	return &types.Log{
		Address: common.Address(collection),
		Topics: []common.Hash{
			common.Hash(new(EvolvedWithExternalURIEvent).Sig()),
			common.Hash(id.Bytes32()),
		},
		Data: data,
	}
}

func TestFunctions_EncodeDecode(t *testing.T) {
	t.Parallel()

	batch := &MintWithExternalURIBatchFn{
		To:       []ethgo.Address{alice, bob},
		Slot:     []*big.Int{big.NewInt(1), big.NewInt(2)},
		TokenURI: []string{"ipfs://a", "ipfs://b"},
	}

	input, err := batch.EncodeAbi()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(input, batch.Sig()))

	var decoded MintWithExternalURIBatchFn
	require.NoError(t, decoded.DecodeAbi(input))
	require.Equal(t, batch.To, decoded.To)
	require.Equal(t, batch.TokenURI, decoded.TokenURI)
	require.Equal(t, 0, batch.Slot[1].Cmp(decoded.Slot[1]))

	enable, err := (&EnablePublicMintingFn{}).EncodeAbi()
	require.NoError(t, err)
	require.Len(t, enable, 4)

	require.Error(t, decoded.DecodeAbi(enable))
	require.Error(t, decoded.DecodeAbi([]byte{0x01}))
}

func TestMintingContract_MintWithExternalURI(t *testing.T) {
	t.Parallel()

	slot := uint256.NewInt(42)
	expected, err := tokenid.Compute(alice, slot)
	require.NoError(t, err)

	t.Run("emitted token id matches", func(t *testing.T) {
		t.Parallel()

		relayer := &fakeRelayer{receipt: &types.Receipt{
			Status: types.ReceiptStatusSuccessful,
			Logs:   []*types.Log{mintedLog(t, alice, slot, expected, "ipfs://x")},
		}}

		result, err := NewEvolutionCollection(collection, relayer).
			MintWithExternalURI(context.Background(), testSigner(t), alice, slot, "ipfs://x")
		require.NoError(t, err)
		require.Len(t, result.Tokens, 1)
		require.True(t, result.Tokens[0].TokenID.Eq(expected))
		require.Equal(t, alice, result.Tokens[0].To)
		require.Equal(t, "ipfs://x", result.Tokens[0].TokenURI)

		require.Len(t, relayer.sent, 1)
		require.Equal(t, collection, *relayer.sent[0].To)

		var fn MintWithExternalURIFn
		require.NoError(t, fn.DecodeAbi(relayer.sent[0].Input))
		require.Equal(t, alice, fn.To)
		require.Equal(t, uint64(42), fn.Slot.Uint64())
	})

	t.Run("emitted token id differs", func(t *testing.T) {
		t.Parallel()

		relayer := &fakeRelayer{receipt: &types.Receipt{
			Logs: []*types.Log{mintedLog(t, alice, slot, uint256.NewInt(1), "ipfs://x")},
		}}

		_, err := NewEvolutionCollection(collection, relayer).
			MintWithExternalURI(context.Background(), testSigner(t), alice, slot, "ipfs://x")
		require.ErrorIs(t, err, ErrTokenIDMismatch)
	})

	t.Run("no event", func(t *testing.T) {
		t.Parallel()

		relayer := &fakeRelayer{receipt: &types.Receipt{}}

		_, err := NewEvolutionCollection(collection, relayer).
			MintWithExternalURI(context.Background(), testSigner(t), alice, slot, "ipfs://x")
		require.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("revert is preserved", func(t *testing.T) {
		t.Parallel()

		relayer := &fakeRelayer{err: &jsonrpc.RevertError{Reason: "OwnableUnauthorizedAccount"}}

		_, err := NewEvolutionCollection(collection, relayer).
			MintWithExternalURI(context.Background(), testSigner(t), alice, slot, "ipfs://x")
		require.Error(t, err)
		require.True(t, jsonrpc.IsRevert(err))
	})

	t.Run("oversized slot", func(t *testing.T) {
		t.Parallel()

		relayer := &fakeRelayer{}
		tooBig := new(uint256.Int).Lsh(uint256.NewInt(1), tokenid.SlotBits)

		_, err := NewEvolutionCollection(collection, relayer).
			MintWithExternalURI(context.Background(), testSigner(t), alice, tooBig, "ipfs://x")
		require.ErrorIs(t, err, tokenid.ErrInvalidInput)
		require.Empty(t, relayer.sent)
	})
}

func TestBatchMinter_Batch(t *testing.T) {
	t.Parallel()

	minter := ethgo.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	owners := []ethgo.Address{alice, bob}
	slots := []*uint256.Int{uint256.NewInt(7), uint256.NewInt(8)}
	uris := []string{"ipfs://7", "ipfs://8"}

	ids, err := tokenid.ComputeBatch(owners, slots)
	require.NoError(t, err)

	relayer := &fakeRelayer{receipt: &types.Receipt{Logs: []*types.Log{
		mintedLog(t, alice, slots[0], ids[0], uris[0]),
		mintedLog(t, bob, slots[1], ids[1], uris[1]),
	}}}

	result, err := NewBatchMinter(minter, relayer).
		MintWithExternalURIBatch(context.Background(), testSigner(t), owners, slots, uris)
	require.NoError(t, err)
	require.Len(t, result.Tokens, 2)
	require.Equal(t, bob, result.Tokens[1].To)
	require.Equal(t, minter, *relayer.sent[0].To)

	_, err = NewBatchMinter(minter, relayer).
		MintWithExternalURIBatch(context.Background(), testSigner(t), owners, slots[:1], uris)
	require.ErrorIs(t, err, tokenid.ErrInvalidInput)

	_, err = NewBatchMinter(minter, relayer).
		EvolveWithExternalURIBatch(context.Background(), testSigner(t), ids, uris[:1])
	require.ErrorIs(t, err, tokenid.ErrInvalidInput)

	relayer = &fakeRelayer{receipt: &types.Receipt{Logs: []*types.Log{
		evolvedLog(t, ids[0], "ipfs://7b"),
		evolvedLog(t, ids[1], "ipfs://8b"),
	}}}

	evolved, err := NewBatchMinter(minter, relayer).
		EvolveWithExternalURIBatch(context.Background(), testSigner(t), ids, []string{"ipfs://7b", "ipfs://8b"})
	require.NoError(t, err)
	require.Len(t, evolved.Tokens, 2)
	require.True(t, evolved.Tokens[1].TokenID.Eq(ids[1]))
	require.Equal(t, "ipfs://8b", evolved.Tokens[1].TokenURI)
}

func TestViews(t *testing.T) {
	t.Parallel()

	output, err := abi.MustNewType("tuple(address)").Encode([]interface{}{alice})
	require.NoError(t, err)

	relayer := &fakeRelayer{callOutput: output}
	minter := NewBatchMinter(ethgo.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3"), relayer)

	owner, err := minter.BatchMinterOwner(context.Background())
	require.NoError(t, err)
	require.Equal(t, alice, owner)
	require.Equal(t, BatchMinterABI.Methods["batchMinterOwner"].ID(), relayer.calls[0])

	precompile, err := minter.PrecompileAddress(context.Background())
	require.NoError(t, err)
	require.Equal(t, alice, precompile)

	enabled, err := abi.MustNewType("tuple(bool)").Encode([]interface{}{true})
	require.NoError(t, err)

	relayer.callOutput = enabled

	isEnabled, err := NewPublicMinter(alice, relayer).IsPublicMintingEnabled(context.Background())
	require.NoError(t, err)
	require.True(t, isEnabled)

	relayer.callOutput = nil

	_, err = minter.Owner(context.Background())
	require.Error(t, err)
}

func TestFactory_CreateCollection(t *testing.T) {
	t.Parallel()

	data, err := abi.MustNewType("tuple(address)").Encode([]interface{}{collection})
	require.NoError(t, err)

	relayer := &fakeRelayer{receipt: &types.Receipt{Logs: []*types.Log{{
		Address: common.Address(contracts.EvolutionCollectionFactoryPrecompile),
		Topics: []common.Hash{
			common.Hash(new(NewCollectionEvent).Sig()),
			common.BytesToHash(alice[:]),
		},
		Data: data,
	}}}}

	addr, _, err := NewEvolutionCollectionFactory(relayer).CreateCollection(context.Background(), testSigner(t), alice)
	require.NoError(t, err)
	require.Equal(t, collection, addr)
	require.Equal(t, contracts.EvolutionCollectionFactoryPrecompile, *relayer.sent[0].To)

	relayer.receipt = &types.Receipt{}

	_, _, err = NewEvolutionCollectionFactory(relayer).CreateCollection(context.Background(), testSigner(t), alice)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeploy(t *testing.T) {
	t.Parallel()

	deployed := ethgo.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	relayer := &fakeRelayer{receipt: &types.Receipt{ContractAddress: common.Address(deployed)}}
	artifact := &contracts.Artifact{Bytecode: []byte{0x60, 0x80, 0x60, 0x40, 0x52}}

	result, err := Deploy(context.Background(), relayer, testSigner(t), artifact, alice)
	require.NoError(t, err)
	require.Equal(t, deployed, result.Address)

	input := relayer.sent[0].Input
	require.Nil(t, relayer.sent[0].To)
	require.Len(t, input, len(artifact.Bytecode)+32)
	require.True(t, bytes.HasPrefix(input, artifact.Bytecode))
	require.Equal(t, alice[:], input[len(input)-20:])

	_, err = Deploy(context.Background(), relayer, testSigner(t), &contracts.Artifact{}, alice)
	require.Error(t, err)

	relayer.err = errors.New("connection refused")

	_, err = Deploy(context.Background(), relayer, testSigner(t), artifact, alice)
	require.Error(t, err)
}
