package txrelayer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/jsonrpc"
	"github.com/freeverseio/laos-minters/metrics"
	"github.com/hashicorp/go-hclog"
	"github.com/sethvargo/go-retry"
)

const (
	// DefaultRPCAddress is the JSON-RPC address used when none is configured
	DefaultRPCAddress = "http://127.0.0.1:8545"
	// DefaultTimeoutTransactions bounds the wait for a transaction receipt
	DefaultTimeoutTransactions = 50 * time.Second
	// DefaultPollFreq is the receipt polling interval
	DefaultPollFreq = time.Second

	gasLimitIncreasePercentage = 20
)

var (
	errNoReceipt      = errors.New("receipt not available yet")
	errInvalidPollFrq = errors.New("receipts poll frequency must be positive")
)

// Signer signs transactions on behalf of an account
type Signer interface {
	Address() ethgo.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Transaction is an unsigned transaction. A nil To deploys Input as contract creation code.
type Transaction struct {
	To    *ethgo.Address
	Input []byte
	Value *big.Int
	// Gas is the gas limit, estimated when zero
	Gas uint64
}

// TxRelayer sends transactions and performs calls against a chain
type TxRelayer interface {
	// Call executes a read-only contract call
	Call(ctx context.Context, from ethgo.Address, to ethgo.Address, input []byte) ([]byte, error)
	// SendTransaction signs and sends the transaction and waits for its receipt.
	// A mined transaction with failed status returns its receipt along with a *jsonrpc.RevertError.
	SendTransaction(ctx context.Context, txn *Transaction, sender Signer) (*types.Receipt, error)
	// Client returns the underlying JSON-RPC client
	Client() *jsonrpc.EthClient
}

var _ TxRelayer = (*TxRelayerImpl)(nil)

type TxRelayerImpl struct {
	ipAddress        string
	client           *jsonrpc.EthClient
	receiptsPollFreq time.Duration
	receiptsTimeout  time.Duration
	gasLimit         uint64
	gasPrice         *big.Int
	logger           hclog.Logger

	chainID *big.Int

	lock sync.Mutex

	writer io.Writer
}

// NewTxRelayer creates a relayer, dialing the configured address unless a client is given
func NewTxRelayer(ctx context.Context, opts ...TxRelayerOption) (TxRelayer, error) {
	t := &TxRelayerImpl{
		ipAddress:        DefaultRPCAddress,
		receiptsPollFreq: DefaultPollFreq,
		receiptsTimeout:  DefaultTimeoutTransactions,
		logger:           hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.receiptsPollFreq <= 0 {
		return nil, errInvalidPollFrq
	}

	if t.client == nil {
		client, err := jsonrpc.NewEthClient(ctx, t.ipAddress)
		if err != nil {
			return nil, err
		}

		t.client = client
	}

	return t, nil
}

// Call executes a read-only contract call
func (t *TxRelayerImpl) Call(ctx context.Context, from ethgo.Address, to ethgo.Address, input []byte) ([]byte, error) {
	return t.client.Call(ctx, &jsonrpc.CallMsg{From: from, To: &to, Data: input})
}

// SendTransaction signs and sends the transaction and waits for its receipt
func (t *TxRelayerImpl) SendTransaction(ctx context.Context, txn *Transaction, sender Signer) (*types.Receipt, error) {
	txnHash, err := t.sendTransactionLocked(ctx, txn, sender)
	if err != nil {
		return nil, err
	}

	return t.waitForReceipt(ctx, txnHash)
}

// Client returns the underlying JSON-RPC client
func (t *TxRelayerImpl) Client() *jsonrpc.EthClient {
	return t.client
}

func (t *TxRelayerImpl) sendTransactionLocked(
	ctx context.Context, txn *Transaction, sender Signer,
) (ethgo.Hash, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	chainID, err := t.getChainID(ctx)
	if err != nil {
		return ethgo.ZeroHash, fmt.Errorf("failed to get chain id: %w", err)
	}

	from := sender.Address()

	nonce, err := t.client.GetNonce(ctx, from)
	if err != nil {
		return ethgo.ZeroHash, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice := t.gasPrice
	if gasPrice == nil {
		if gasPrice, err = t.client.GasPrice(ctx); err != nil {
			return ethgo.ZeroHash, fmt.Errorf("failed to get gas price: %w", err)
		}
	}

	gas := txn.Gas
	if gas == 0 {
		gas = t.gasLimit
	}

	if gas == 0 {
		estimated, err := t.client.EstimateGas(ctx, &jsonrpc.CallMsg{
			From:  from,
			To:    txn.To,
			Data:  txn.Input,
			Value: txn.Value,
		})
		if err != nil {
			return ethgo.ZeroHash, fmt.Errorf("failed to estimate gas: %w", err)
		}

		gas = estimated * (100 + gasLimitIncreasePercentage) / 100
	}

	value := txn.Value
	if value == nil {
		value = big.NewInt(0)
	}

	var to *common.Address

	if txn.To != nil {
		addr := common.Address(*txn.To)
		to = &addr
	}

	signed, err := sender.SignTx(types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       to,
		Value:    value,
		Data:     txn.Input,
	}), chainID)
	if err != nil {
		return ethgo.ZeroHash, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if t.writer != nil {
		_, _ = t.writer.Write([]byte(
			fmt.Sprintf("[TxRelayer.SendTransaction]\nFrom = %s\nNonce = %d\nGas = %d\nGas Price = %s\nTx Hash = %s\n",
				from, nonce, gas, gasPrice, signed.Hash())))
	}

	if err := t.client.SendTransaction(ctx, signed); err != nil {
		return ethgo.ZeroHash, fmt.Errorf("failed to send transaction: %w", err)
	}

	t.logger.Debug("transaction sent", "from", from, "nonce", nonce, "gas", gas, "hash", signed.Hash())

	return ethgo.Hash(signed.Hash()), nil
}

func (t *TxRelayerImpl) getChainID(ctx context.Context) (*big.Int, error) {
	if t.chainID != nil {
		return t.chainID, nil
	}

	chainID, err := t.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	t.chainID = chainID

	return chainID, nil
}

func (t *TxRelayerImpl) waitForReceipt(ctx context.Context, hash ethgo.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt

	backoff := retry.WithMaxDuration(t.receiptsTimeout, retry.NewConstant(t.receiptsPollFreq))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := t.client.GetReceipt(ctx, hash)
		if err != nil {
			if jsonrpc.ClassifyError(err) == jsonrpc.ErrorKindNetwork {
				t.logger.Debug("failed to query receipt, retrying", "hash", hash, "err", err)

				return retry.RetryableError(err)
			}

			return err
		}

		if r == nil {
			return retry.RetryableError(errNoReceipt)
		}

		receipt = r

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("timeout while waiting for transaction %s to be processed: %w", hash, err)
	}

	success := receipt.Status == types.ReceiptStatusSuccessful
	metrics.TransactionMined(receipt.GasUsed, success)

	if !success {
		return receipt, jsonrpc.NewRevertError(hash)
	}

	return receipt, nil
}

type TxRelayerOption func(*TxRelayerImpl)

func WithClient(client *jsonrpc.EthClient) TxRelayerOption {
	return func(t *TxRelayerImpl) {
		t.client = client
	}
}

func WithIPAddress(ipAddress string) TxRelayerOption {
	return func(t *TxRelayerImpl) {
		t.ipAddress = ipAddress
	}
}

func WithReceiptsPollFreq(pollFreq time.Duration) TxRelayerOption {
	return func(t *TxRelayerImpl) {
		t.receiptsPollFreq = pollFreq
	}
}

func WithReceiptsTimeout(receiptsTimeout time.Duration) TxRelayerOption {
	return func(t *TxRelayerImpl) {
		t.receiptsTimeout = receiptsTimeout
	}
}

// WithGasLimit sets a fixed gas limit instead of estimating it
func WithGasLimit(gasLimit uint64) TxRelayerOption {
	return func(t *TxRelayerImpl) {
		t.gasLimit = gasLimit
	}
}

// WithGasPrice sets a fixed gas price instead of asking the node
func WithGasPrice(gasPrice *big.Int) TxRelayerOption {
	return func(t *TxRelayerImpl) {
		t.gasPrice = gasPrice
	}
}

func WithWriter(writer io.Writer) TxRelayerOption {
	return func(t *TxRelayerImpl) {
		t.writer = writer
	}
}

func WithLogger(logger hclog.Logger) TxRelayerOption {
	return func(t *TxRelayerImpl) {
		t.logger = logger.Named("txrelayer")
	}
}
