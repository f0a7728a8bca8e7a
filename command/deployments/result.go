package deployments

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/deployments"
)

type listResult struct {
	Records []*deployments.Record `json:"records"`
}

func (r *listResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[DEPLOYMENTS]\n")

	if len(r.Records) == 0 {
		buffer.WriteString("No deployments recorded\n")

		return buffer.String()
	}

	rows := make([][]string, len(r.Records))
	for i, record := range r.Records {
		rows[i] = []string{
			strconv.FormatUint(record.ChainID, 10),
			record.Contract,
			record.Address.String(),
			record.Owner.String(),
			record.Precompile.String(),
			strconv.FormatUint(record.BlockNumber, 10),
			record.CreatedAt.Format(time.RFC3339),
		}
	}

	buffer.WriteString(helper.FormatTable(
		[]string{"Chain", "Contract", "Address", "Owner", "Collection", "Block", "Created"},
		rows,
	))
	buffer.WriteString(fmt.Sprintf("%d deployment(s)\n", len(r.Records)))

	return buffer.String()
}
