package tokenid

import (
	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

var (
	compute computeParams
	decode  decodeParams
)

// GetCommand returns the tokenid command
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenid",
		Short: "Computes and decodes LAOS token ids offline",
	}

	cmd.AddCommand(getComputeCommand(), getDecodeCommand())

	return cmd
}

func getComputeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Computes the token id of every owner and slot pair",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return compute.validateFlags()
		},
		Run: runCompute,
	}

	cmd.Flags().StringArrayVar(
		&compute.owners,
		ownerFlag,
		nil,
		"initial owner address, repeat for a batch",
	)

	cmd.Flags().StringArrayVar(
		&compute.slots,
		slotFlag,
		nil,
		"96 bit slot in decimal or 0x hex, repeat for a batch",
	)

	return cmd
}

func getDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Splits a token id into its initial owner and slot",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return decode.validateFlags()
		},
		Run: runDecode,
	}

	cmd.Flags().StringVar(
		&decode.id,
		idFlag,
		"",
		"token id in decimal or 0x hex",
	)

	_ = cmd.MarkFlagRequired(idFlag)

	return cmd
}

func runCompute(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	result, err := computeTokenIDs(&compute)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}

func computeTokenIDs(p *computeParams) (command.CommandResult, error) {
	ids, err := tokenid.ComputeBatch(p.parsedOwners, p.parsedSlots)
	if err != nil {
		return nil, err
	}

	results := make([]*TokenIDResult, len(ids))
	for i, id := range ids {
		results[i] = newTokenIDResult(p.parsedOwners[i], p.parsedSlots[i], id)
	}

	if len(results) == 1 {
		return results[0], nil
	}

	return &TokenIDsResult{Tokens: results}, nil
}

func runDecode(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	owner, slot := tokenid.Decode(decode.parsedID)

	outputter.SetCommandResult(newTokenIDResult(owner, slot, decode.parsedID))
}

func newTokenIDResult(owner ethgo.Address, slot, id *uint256.Int) *TokenIDResult {
	return &TokenIDResult{
		Owner:   owner.String(),
		Slot:    slot.Dec(),
		TokenID: tokenid.Dec(id),
		Hex:     tokenid.Hex(id),
	}
}
