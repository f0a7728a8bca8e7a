package jsonrpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

var _ Client = (*MockClient)(nil)

// MockClient is a testify mock of Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)

	return bigArg(args, 0), args.Error(1)
}

func (m *MockClient) BlockNumber(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)

	return args.Get(0).(uint64), args.Error(1) //nolint:forcetypeassert
}

func (m *MockClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	args := m.Called(ctx, account, blockNumber)

	return bigArg(args, 0), args.Error(1)
}

func (m *MockClient) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, account, blockNumber)

	code, _ := args.Get(0).([]byte)

	return code, args.Error(1)
}

func (m *MockClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	args := m.Called(ctx, account)

	return args.Get(0).(uint64), args.Error(1) //nolint:forcetypeassert
}

func (m *MockClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)

	return bigArg(args, 0), args.Error(1)
}

func (m *MockClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	args := m.Called(ctx, msg)

	return args.Get(0).(uint64), args.Error(1) //nolint:forcetypeassert
}

func (m *MockClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, msg, blockNumber)

	out, _ := args.Get(0).([]byte)

	return out, args.Error(1)
}

func (m *MockClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	args := m.Called(ctx, txHash)

	receipt, _ := args.Get(0).(*types.Receipt)

	return receipt, args.Error(1)
}

func (m *MockClient) Close() {
	m.Called()
}

func bigArg(args mock.Arguments, i int) *big.Int {
	v, _ := args.Get(i).(*big.Int)

	return v
}

// TestRPCError mimics the error values returned by go-ethereum's rpc client
type TestRPCError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *TestRPCError) Error() string {
	return e.Message
}

func (e *TestRPCError) ErrorCode() int {
	return e.Code
}

func (e *TestRPCError) ErrorData() interface{} {
	return e.Data
}
