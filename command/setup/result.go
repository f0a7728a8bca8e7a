package setup

import (
	"bytes"
	"fmt"

	"github.com/freeverseio/laos-minters/command/helper"
)

type setupResult struct {
	Contract          string `json:"contract"`
	Minter            string `json:"minter"`
	Collection        string `json:"collection"`
	CollectionCreated bool   `json:"collectionCreated"`
	Owner             string `json:"owner"`
}

func (r *setupResult) GetOutput() string {
	var buffer bytes.Buffer

	origin := "existing"
	if r.CollectionCreated {
		origin = "created through the factory"
	}

	buffer.WriteString("\n[MINTER SETUP]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Contract|%s", r.Contract),
		fmt.Sprintf("Minter|%s", r.Minter),
		fmt.Sprintf("Collection|%s (%s)", r.Collection, origin),
		fmt.Sprintf("Minter Owner|%s", r.Owner),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
