package contractsapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/txrelayer"
)

var errNoContractAddress = errors.New("receipt carries no contract address")

// DeployResult describes a mined contract creation
type DeployResult struct {
	Address ethgo.Address
	Receipt *types.Receipt
}

// Deploy creates a minter contract whose constructor takes the owner address
func Deploy(
	ctx context.Context, relayer txrelayer.TxRelayer, sender txrelayer.Signer,
	artifact *contracts.Artifact, owner ethgo.Address,
) (*DeployResult, error) {
	if artifact == nil || len(artifact.Bytecode) == 0 {
		return nil, fmt.Errorf("artifact has no bytecode")
	}

	args, err := ownerConstructorType.Encode([]interface{}{owner})
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	input := make([]byte, 0, len(artifact.Bytecode)+len(args))
	input = append(input, artifact.Bytecode...)
	input = append(input, args...)

	receipt, err := relayer.SendTransaction(ctx, &txrelayer.Transaction{Input: input}, sender)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy contract: %w", err)
	}

	address := ethgo.Address(receipt.ContractAddress)
	if address == ethgo.ZeroAddress {
		return nil, errNoContractAddress
	}

	return &DeployResult{Address: address, Receipt: receipt}, nil
}
