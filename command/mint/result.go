package mint

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/contractsapi"
	"github.com/freeverseio/laos-minters/tokenid"
)

type tokenResult struct {
	Owner   string `json:"owner,omitempty"`
	Slot    string `json:"slot,omitempty"`
	TokenID string `json:"tokenId"`
	URI     string `json:"uri"`
}

// txResult is a mined mint or evolve transaction with the tokens it touched
type txResult struct {
	Contract string         `json:"contract"`
	TxHash   string         `json:"txHash"`
	GasUsed  uint64         `json:"gasUsed"`
	Tokens   []*tokenResult `json:"tokens"`
}

func newMintTxResult(contract string, res *contractsapi.MintResult) *txResult {
	result := &txResult{
		Contract: contract,
		TxHash:   res.Receipt.TxHash.Hex(),
		GasUsed:  res.Receipt.GasUsed,
		Tokens:   make([]*tokenResult, len(res.Tokens)),
	}

	for i, token := range res.Tokens {
		result.Tokens[i] = &tokenResult{
			Owner:   token.To.String(),
			Slot:    tokenid.Dec(token.Slot),
			TokenID: tokenid.Dec(token.TokenID),
			URI:     token.TokenURI,
		}
	}

	return result
}

func newEvolveTxResult(contract string, res *contractsapi.EvolveResult) *txResult {
	result := &txResult{
		Contract: contract,
		TxHash:   res.Receipt.TxHash.Hex(),
		GasUsed:  res.Receipt.GasUsed,
		Tokens:   make([]*tokenResult, len(res.Tokens)),
	}

	for i, token := range res.Tokens {
		result.Tokens[i] = &tokenResult{TokenID: tokenid.Dec(token.TokenID), URI: token.TokenURI}
	}

	return result
}

func (r *txResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[TRANSACTION]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Contract|%s", r.Contract),
		fmt.Sprintf("Transaction Hash|%s", r.TxHash),
		fmt.Sprintf("Gas Used|%d", r.GasUsed),
	}))
	buffer.WriteString("\n\n")

	rows := make([][]string, len(r.Tokens))
	for i, token := range r.Tokens {
		rows[i] = []string{token.TokenID, token.Owner, token.Slot, token.URI}
	}

	buffer.WriteString(helper.FormatTable([]string{"Token ID", "Owner", "Slot", "URI"}, rows))

	return buffer.String()
}

// batchesResult summarizes repeated batch mints
type batchesResult struct {
	Contract string      `json:"contract"`
	Batches  []*txResult `json:"batches"`
}

func (r *batchesResult) GetOutput() string {
	var (
		buffer  bytes.Buffer
		minted  int
		gasUsed uint64
	)

	rows := make([][]string, len(r.Batches))

	for i, batch := range r.Batches {
		first, last := "", ""
		if n := len(batch.Tokens); n > 0 {
			first, last = batch.Tokens[0].TokenID, batch.Tokens[n-1].TokenID
		}

		rows[i] = []string{
			strconv.Itoa(i + 1),
			batch.TxHash,
			strconv.Itoa(len(batch.Tokens)),
			strconv.FormatUint(batch.GasUsed, 10),
			gasPerToken(batch.GasUsed, len(batch.Tokens)),
			first,
			last,
		}

		minted += len(batch.Tokens)
		gasUsed += batch.GasUsed
	}

	buffer.WriteString("\n[BATCH MINT]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Contract|%s", r.Contract),
		fmt.Sprintf("Batches|%d", len(r.Batches)),
		fmt.Sprintf("Tokens Minted|%d", minted),
		fmt.Sprintf("Gas Used|%d", gasUsed),
		fmt.Sprintf("Gas Per Mint|%s", gasPerToken(gasUsed, minted)),
	}))
	buffer.WriteString("\n\n")
	buffer.WriteString(helper.FormatTable(
		[]string{"Batch", "Transaction Hash", "Tokens", "Gas Used", "Gas Per Mint", "First Token ID", "Last Token ID"},
		rows,
	))

	return buffer.String()
}

func gasPerToken(gas uint64, tokens int) string {
	if tokens == 0 {
		return "-"
	}

	return strconv.FormatUint(gas/uint64(tokens), 10)
}
