package deployments

import (
	"errors"

	"github.com/freeverseio/laos-minters/contracts"
)

const (
	chainIDFlag = "chain-id"
	allFlag     = "all"
)

var errAllWithChainID = errors.New("--all and --chain-id are mutually exclusive")

type listParams struct {
	chainID  uint64
	all      bool
	contract string

	kind contracts.Kind
}

func (p *listParams) validateFlags() error {
	if p.all && p.chainID != 0 {
		return errAllWithChainID
	}

	if p.contract != "" {
		kind, err := contracts.ParseKind(p.contract)
		if err != nil {
			return err
		}

		p.kind = kind
	}

	return nil
}
