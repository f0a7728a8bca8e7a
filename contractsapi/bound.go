package contractsapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/Ethernal-Tech/ethgo/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/jsonrpc"
	"github.com/freeverseio/laos-minters/txrelayer"
)

var (
	// ErrEventNotFound is returned when a receipt lacks the event a transaction must emit
	ErrEventNotFound = errors.New("event not found in receipt")
	// ErrTokenIDMismatch is returned when an emitted token id differs from the locally computed one
	ErrTokenIDMismatch = errors.New("token id mismatch")
)

// boundContract is an abi bound to a deployed address and the relayer used to reach it
type boundContract struct {
	address ethgo.Address
	abi     *abi.ABI
	relayer txrelayer.TxRelayer
}

func newBoundContract(address ethgo.Address, contractAbi *abi.ABI, relayer txrelayer.TxRelayer) boundContract {
	return boundContract{address: address, abi: contractAbi, relayer: relayer}
}

// Address returns the contract address
func (b *boundContract) Address() ethgo.Address {
	return b.address
}

// call executes a view method and returns its first output
func (b *boundContract) call(ctx context.Context, name string, args ...interface{}) (interface{}, error) {
	method, ok := b.abi.Methods[name]
	if !ok {
		return nil, fmt.Errorf("method %s not found in abi", name)
	}

	input := method.ID()

	if len(args) > 0 {
		var err error
		if input, err = method.Encode(args); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
	}

	output, err := b.relayer.Call(ctx, ethgo.ZeroAddress, b.address, input)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", name, b.address, err)
	}

	rawResult, err := method.Decode(output)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", name, err)
	}

	return rawResult["0"], nil
}

func (b *boundContract) callAddress(ctx context.Context, name string, args ...interface{}) (ethgo.Address, error) {
	raw, err := b.call(ctx, name, args...)
	if err != nil {
		return ethgo.ZeroAddress, err
	}

	addr, ok := raw.(ethgo.Address)
	if !ok {
		return ethgo.ZeroAddress, fmt.Errorf("failed to decode %s as address", name)
	}

	return addr, nil
}

func (b *boundContract) callBool(ctx context.Context, name string, args ...interface{}) (bool, error) {
	raw, err := b.call(ctx, name, args...)
	if err != nil {
		return false, err
	}

	val, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("failed to decode %s as bool", name)
	}

	return val, nil
}

// transact sends fn to the contract on behalf of sender and waits for the receipt.
// The receipt of a mined but failed transaction is returned along with the error.
func (b *boundContract) transact(
	ctx context.Context, sender txrelayer.Signer, name string, fn FunctionAbi,
) (*types.Receipt, error) {
	input, err := fn.EncodeAbi()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}

	receipt, err := b.relayer.SendTransaction(ctx, &txrelayer.Transaction{
		To:    &b.address,
		Input: input,
	}, sender)
	if err != nil {
		return receipt, fmt.Errorf("%s on %s failed: %w", name, b.address, err)
	}

	return receipt, nil
}

// receiptLogs converts the receipt logs to ethgo logs, in emission order
func receiptLogs(receipt *types.Receipt) []*ethgo.Log {
	logs := make([]*ethgo.Log, 0, len(receipt.Logs))
	for _, l := range receipt.Logs {
		logs = append(logs, jsonrpc.ToEthgoLog(l))
	}

	return logs
}
