package e2e

import (
	"context"
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/txrelayer"
)

// coinTransfersScenario sends a series of small self transfers from the deployer
func coinTransfersScenario(ctx context.Context, r *runner) error {
	deployer := r.deployer().Address()

	if client := r.env.Relayer.Client(); client != nil {
		if err := r.step("reading deployer balance", func() (string, error) {
			balance, err := client.GetBalance(ctx, deployer)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("%s has %s wei", deployer, balance), nil
		}); err != nil {
			return err
		}
	}

	for i := 0; i < r.env.Transfers; i++ {
		name := fmt.Sprintf("sending transfer %d of %s wei", i, r.env.TransferAmount)

		if err := r.step(name, func() (string, error) {
			return r.sendCoins(ctx, deployer)
		}); err != nil {
			return err
		}
	}

	return nil
}

func (r *runner) sendCoins(ctx context.Context, to ethgo.Address) (string, error) {
	receipt, err := r.env.Relayer.SendTransaction(ctx, &txrelayer.Transaction{
		To:    &to,
		Value: r.env.TransferAmount,
	}, r.deployer())
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("tx %s", receipt.TxHash), nil
}
