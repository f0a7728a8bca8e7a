package tokenid

import (
	"bytes"
	"fmt"

	"github.com/freeverseio/laos-minters/command/helper"
)

// TokenIDResult is a token id together with the pair it packs
type TokenIDResult struct {
	Owner   string `json:"owner"`
	Slot    string `json:"slot"`
	TokenID string `json:"tokenId"`
	Hex     string `json:"hex"`
}

func (r *TokenIDResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[TOKEN ID]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Owner|%s", r.Owner),
		fmt.Sprintf("Slot|%s", r.Slot),
		fmt.Sprintf("Token ID|%s", r.TokenID),
		fmt.Sprintf("Hex|%s", r.Hex),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}

// TokenIDsResult is the outcome of a batch computation, in input order
type TokenIDsResult struct {
	Tokens []*TokenIDResult `json:"tokens"`
}

func (r *TokenIDsResult) GetOutput() string {
	var buffer bytes.Buffer

	rows := make([]string, 0, len(r.Tokens)+1)
	rows = append(rows, "#|Owner|Slot|Token ID")

	for i, t := range r.Tokens {
		rows = append(rows, fmt.Sprintf("%d|%s|%s|%s", i, t.Owner, t.Slot, t.TokenID))
	}

	buffer.WriteString("\n[TOKEN IDS]\n")
	buffer.WriteString(helper.FormatList(rows))
	buffer.WriteString("\n")

	return buffer.String()
}
