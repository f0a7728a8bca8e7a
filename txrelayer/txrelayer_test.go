package txrelayer

import (
	"bytes"
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/jsonrpc"
	"github.com/freeverseio/laos-minters/wallet"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRelayer(t *testing.T, client *jsonrpc.MockClient, opts ...TxRelayerOption) TxRelayer {
	t.Helper()

	opts = append([]TxRelayerOption{
		WithClient(jsonrpc.NewEthClientWithClient(client)),
		WithReceiptsPollFreq(time.Millisecond),
		WithReceiptsTimeout(time.Second),
	}, opts...)

	relayer, err := NewTxRelayer(context.Background(), opts...)
	require.NoError(t, err)

	return relayer
}

func newTestAccount(t *testing.T) *wallet.Account {
	t.Helper()

	acc, err := wallet.GenerateAccount()
	require.NoError(t, err)

	return acc
}

func mockChainState(client *jsonrpc.MockClient) {
	client.On("ChainID", mock.Anything).Return(big.NewInt(667), nil)
	client.On("PendingNonceAt", mock.Anything, mock.Anything).Return(uint64(3), nil)
}

func TestTxRelayer_SendTransaction(t *testing.T) {
	t.Parallel()

	client := new(jsonrpc.MockClient)
	mockChainState(client)
	client.On("SuggestGasPrice", mock.Anything).Return(big.NewInt(15000000), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(100000), nil)
	client.On("SendTransaction", mock.Anything, mock.MatchedBy(func(tx *types.Transaction) bool {
		return tx.Nonce() == 3 && tx.Gas() == 120000 && tx.GasPrice().Cmp(big.NewInt(15000000)) == 0
	})).Return(nil)
	client.On("TransactionReceipt", mock.Anything, mock.Anything).Return(nil, ethereum.NotFound).Once()
	client.On("TransactionReceipt", mock.Anything, mock.Anything).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful, GasUsed: 90000}, nil).Once()

	var out bytes.Buffer

	to := ethgo.HexToAddress("0x0000000000000000000000000000000000000403")
	relayer := newTestRelayer(t, client, WithWriter(&out))

	receipt, err := relayer.SendTransaction(context.Background(), &Transaction{To: &to, Input: []byte{1, 2}},
		newTestAccount(t))
	require.NoError(t, err)
	require.Equal(t, uint64(90000), receipt.GasUsed)
	require.Contains(t, out.String(), "[TxRelayer.SendTransaction]")

	client.AssertExpectations(t)
}

func TestTxRelayer_EstimateReverts(t *testing.T) {
	t.Parallel()

	client := new(jsonrpc.MockClient)
	mockChainState(client)
	client.On("SuggestGasPrice", mock.Anything).Return(big.NewInt(1), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).
		Return(uint64(0), &jsonrpc.TestRPCError{Code: 3, Message: "execution reverted"})

	to := ethgo.HexToAddress("0x0000000000000000000000000000000000000403")

	_, err := newTestRelayer(t, client).SendTransaction(context.Background(), &Transaction{To: &to},
		newTestAccount(t))
	require.True(t, jsonrpc.IsRevert(err))
	require.ErrorContains(t, err, "revert")

	client.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

func TestTxRelayer_FailedStatus(t *testing.T) {
	t.Parallel()

	client := new(jsonrpc.MockClient)
	mockChainState(client)
	client.On("SendTransaction", mock.Anything, mock.Anything).Return(nil)
	client.On("TransactionReceipt", mock.Anything, mock.Anything).
		Return(&types.Receipt{Status: types.ReceiptStatusFailed, GasUsed: 5000000}, nil)

	to := ethgo.HexToAddress("0x0000000000000000000000000000000000000403")
	relayer := newTestRelayer(t, client, WithGasLimit(5000000), WithGasPrice(big.NewInt(15000000)))

	receipt, err := relayer.SendTransaction(context.Background(), &Transaction{To: &to}, newTestAccount(t))
	require.NotNil(t, receipt)

	var revertErr *jsonrpc.RevertError
	require.ErrorAs(t, err, &revertErr)
	require.NotEqual(t, ethgo.ZeroHash, revertErr.TxHash)

	client.AssertNotCalled(t, "EstimateGas", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "SuggestGasPrice", mock.Anything)
}

func TestTxRelayer_ReceiptTimeout(t *testing.T) {
	t.Parallel()

	client := new(jsonrpc.MockClient)
	mockChainState(client)
	client.On("SendTransaction", mock.Anything, mock.Anything).Return(nil)
	client.On("TransactionReceipt", mock.Anything, mock.Anything).Return(nil, ethereum.NotFound)

	relayer := newTestRelayer(t, client,
		WithGasLimit(21000), WithGasPrice(big.NewInt(1)), WithReceiptsTimeout(20*time.Millisecond))

	to := ethgo.HexToAddress("0x0000000000000000000000000000000000000403")

	_, err := relayer.SendTransaction(context.Background(), &Transaction{To: &to}, newTestAccount(t))
	require.ErrorContains(t, err, "timeout while waiting for transaction")
}

func TestTxRelayer_Call(t *testing.T) {
	t.Parallel()

	client := new(jsonrpc.MockClient)
	client.On("CallContract", mock.Anything, mock.Anything, mock.Anything).Return([]byte{0xaa}, nil)

	out, err := newTestRelayer(t, client).Call(context.Background(), ethgo.ZeroAddress,
		ethgo.HexToAddress("0x0000000000000000000000000000000000000403"), []byte{1})
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa}, out)
}

func TestNewTxRelayer_InvalidPollFreq(t *testing.T) {
	t.Parallel()

	_, err := NewTxRelayer(context.Background(),
		WithClient(jsonrpc.NewEthClientWithClient(new(jsonrpc.MockClient))), WithReceiptsPollFreq(0))
	require.Error(t, err)
}
