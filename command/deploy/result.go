package deploy

import (
	"bytes"
	"fmt"

	"github.com/freeverseio/laos-minters/command/helper"
)

type deployContractResult struct {
	Name        string `json:"name"`
	Contract    string `json:"contract"`
	Address     string `json:"address"`
	Owner       string `json:"owner"`
	Precompile  string `json:"precompile"`
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
}

func (r *deployContractResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString(fmt.Sprintf("\n[%s]\n", r.Contract))
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Kind|%s", r.Name),
		fmt.Sprintf("Address|%s", r.Address),
		fmt.Sprintf("Owner|%s", r.Owner),
		fmt.Sprintf("Precompile|%s", r.Precompile),
		fmt.Sprintf("Transaction Hash|%s", r.TxHash),
		fmt.Sprintf("Block Number|%d", r.BlockNumber),
		fmt.Sprintf("Gas Used|%d", r.GasUsed),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
