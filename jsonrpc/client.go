package jsonrpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is the subset of the go-ethereum client used by the minter tooling
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

var _ Client = (*ethclient.Client)(nil)

// CallMsg contains parameters for contract calls and gas estimation
type CallMsg struct {
	From  ethgo.Address
	To    *ethgo.Address
	Data  []byte
	Value *big.Int
	Gas   uint64
}

func (m *CallMsg) toEthereum() ethereum.CallMsg {
	msg := ethereum.CallMsg{
		From:  common.Address(m.From),
		Data:  m.Data,
		Value: m.Value,
		Gas:   m.Gas,
	}

	if m.To != nil {
		to := common.Address(*m.To)
		msg.To = &to
	}

	return msg
}

// EthClient is a JSON-RPC client speaking the eth namespace
type EthClient struct {
	url    string
	client Client
}

// NewEthClient dials the JSON-RPC endpoint at the given url
func NewEthClient(ctx context.Context, url string) (*EthClient, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	return &EthClient{url: url, client: client}, nil
}

// NewEthClientWithClient wraps an already constructed client
func NewEthClientWithClient(client Client) *EthClient {
	return &EthClient{client: client}
}

// URL returns the endpoint the client is connected to (empty for wrapped clients)
func (e *EthClient) URL() string {
	return e.url
}

// Close closes the underlying connection
func (e *EthClient) Close() {
	e.client.Close()
}

// ChainID returns the chain id of the connected network
func (e *EthClient) ChainID(ctx context.Context) (*big.Int, error) {
	return e.client.ChainID(ctx)
}

// BlockNumber returns the number of the most recent block
func (e *EthClient) BlockNumber(ctx context.Context) (uint64, error) {
	return e.client.BlockNumber(ctx)
}

// GetBalance returns the latest balance of the given account
func (e *EthClient) GetBalance(ctx context.Context, addr ethgo.Address) (*big.Int, error) {
	return e.client.BalanceAt(ctx, common.Address(addr), nil)
}

// GetCode returns the latest code deployed at the given address
func (e *EthClient) GetCode(ctx context.Context, addr ethgo.Address) ([]byte, error) {
	return e.client.CodeAt(ctx, common.Address(addr), nil)
}

// GetNonce returns the pending nonce of the given account
func (e *EthClient) GetNonce(ctx context.Context, addr ethgo.Address) (uint64, error) {
	return e.client.PendingNonceAt(ctx, common.Address(addr))
}

// GasPrice returns the gas price suggested by the node
func (e *EthClient) GasPrice(ctx context.Context) (*big.Int, error) {
	return e.client.SuggestGasPrice(ctx)
}

// EstimateGas estimates the gas needed by the given message.
// Execution reverts are returned as *RevertError.
func (e *EthClient) EstimateGas(ctx context.Context, msg *CallMsg) (uint64, error) {
	gas, err := e.client.EstimateGas(ctx, msg.toEthereum())
	if err != nil {
		return 0, wrapRevert(err)
	}

	return gas, nil
}

// Call executes a read-only message against the latest state.
// Execution reverts are returned as *RevertError.
func (e *EthClient) Call(ctx context.Context, msg *CallMsg) ([]byte, error) {
	out, err := e.client.CallContract(ctx, msg.toEthereum(), nil)
	if err != nil {
		return nil, wrapRevert(err)
	}

	return out, nil
}

// SendTransaction broadcasts a signed transaction
func (e *EthClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := e.client.SendTransaction(ctx, tx); err != nil {
		return wrapRevert(err)
	}

	return nil
}

// GetReceipt returns the receipt of the given transaction, or nil if it is not mined yet
func (e *EthClient) GetReceipt(ctx context.Context, hash ethgo.Hash) (*types.Receipt, error) {
	receipt, err := e.client.TransactionReceipt(ctx, common.Hash(hash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}

		return nil, err
	}

	return receipt, nil
}

// ToEthgoLog converts a receipt log into its ethgo representation
func ToEthgoLog(l *types.Log) *ethgo.Log {
	topics := make([]ethgo.Hash, len(l.Topics))
	for i, topic := range l.Topics {
		topics[i] = ethgo.Hash(topic)
	}

	return &ethgo.Log{
		Removed:          l.Removed,
		LogIndex:         uint64(l.Index),
		TransactionIndex: uint64(l.TxIndex),
		TransactionHash:  ethgo.Hash(l.TxHash),
		BlockHash:        ethgo.Hash(l.BlockHash),
		BlockNumber:      l.BlockNumber,
		Address:          ethgo.Address(l.Address),
		Topics:           topics,
		Data:             l.Data,
	}
}
