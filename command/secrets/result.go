package secrets

import (
	"bytes"
	"fmt"

	"github.com/freeverseio/laos-minters/command/helper"
)

type accountResult struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Imported bool   `json:"imported,omitempty"`
}

type accountsResult struct {
	Title    string           `json:"-"`
	Accounts []*accountResult `json:"accounts"`
}

func (r *accountsResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString(fmt.Sprintf("\n[%s]\n", r.Title))

	if len(r.Accounts) == 0 {
		buffer.WriteString("No accounts stored\n")

		return buffer.String()
	}

	rows := make([]string, len(r.Accounts))
	for i, account := range r.Accounts {
		origin := ""
		if account.Imported {
			origin = " (imported)"
		}

		rows[i] = fmt.Sprintf("%s|%s%s", account.Name, account.Address, origin)
	}

	buffer.WriteString(helper.FormatKV(rows))
	buffer.WriteString("\n")

	return buffer.String()
}
