package transfer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/freeverseio/laos-minters/command/helper"
)

type transferResult struct {
	From         string   `json:"from"`
	To           string   `json:"to"`
	Amount       string   `json:"amount"`
	TxHashes     []string `json:"txHashes"`
	GasUsed      uint64   `json:"gasUsed"`
	BalanceAfter string   `json:"balanceAfter,omitempty"`
}

func (r *transferResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[COIN TRANSFERS]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("From|%s", r.From),
		fmt.Sprintf("To|%s", r.To),
		fmt.Sprintf("Amount (wei)|%s", r.Amount),
		fmt.Sprintf("Transfers|%d", len(r.TxHashes)),
		fmt.Sprintf("Gas Used|%d", r.GasUsed),
		fmt.Sprintf("Balance After (wei)|%s", r.BalanceAfter),
	}))
	buffer.WriteString("\n\n")

	rows := make([][]string, len(r.TxHashes))
	for i, hash := range r.TxHashes {
		rows[i] = []string{strconv.Itoa(i + 1), hash}
	}

	buffer.WriteString(helper.FormatTable([]string{"#", "Transaction Hash"}, rows))

	return buffer.String()
}
