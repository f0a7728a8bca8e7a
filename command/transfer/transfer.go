package transfer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/spf13/cobra"
)

var params transferParams

// GetCommand returns the transfer command
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transfer",
		Short:   "Sends a series of native coin transfers, to the sender itself by default",
		PreRunE: preRunCommand,
		Run:     runCommand,
	}

	cmd.Flags().IntVar(&params.count, countFlag, defaultCount, "number of transfers")
	cmd.Flags().StringVar(&params.amount, amountFlag, defaultAmount, "wei sent by every transfer")
	cmd.Flags().StringVar(&params.to, toFlag, "", "recipient, the sender when empty")
	cmd.Flags().StringVar(
		&params.from,
		fromFlag,
		secrets.DeployerKey,
		fmt.Sprintf("secret holding the sender key, %s or %s", secrets.DeployerKey, secrets.SecondKey),
	)

	return cmd
}

func preRunCommand(_ *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	ctx := cmd.Context()

	rt, err := helper.NewRuntime(ctx, cmd, outputter)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer rt.Close()

	sender, err := rt.Account(params.from)
	if err != nil {
		outputter.SetError(err)

		return
	}

	to := params.toArg
	if to == ethgo.ZeroAddress {
		to = sender.Address()
	}

	result, err := sendTransfers(ctx, rt.Relayer, sender, to, params.amountArg, params.count)

	if client := rt.Relayer.Client(); client != nil && result != nil {
		if balance, err := client.GetBalance(ctx, sender.Address()); err == nil {
			result.BalanceAfter = balance.String()
		} else {
			rt.Logger.Warn("failed to read balance", "account", sender.Address(), "err", err)
		}
	}

	if err != nil {
		outputter.SetError(err)
	}

	outputter.SetCommandResult(result)
}

// sendTransfers sends count transfers one after the other and stops at the first failure
func sendTransfers(
	ctx context.Context, relayer txrelayer.TxRelayer, sender txrelayer.Signer,
	to ethgo.Address, amount *big.Int, count int,
) (*transferResult, error) {
	result := &transferResult{
		From:   sender.Address().String(),
		To:     to.String(),
		Amount: amount.String(),
	}

	for i := 0; i < count; i++ {
		receipt, err := relayer.SendTransaction(ctx, &txrelayer.Transaction{To: &to, Value: amount}, sender)
		if err != nil {
			return result, fmt.Errorf("transfer %d failed: %w", i+1, err)
		}

		result.TxHashes = append(result.TxHashes, receipt.TxHash.Hex())
		result.GasUsed += receipt.GasUsed
	}

	return result, nil
}
