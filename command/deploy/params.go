package deploy

import (
	"errors"
	"fmt"

	"github.com/freeverseio/laos-minters/contracts"
)

var errNoContracts = errors.New("at least one --contract is required")

type deployParams struct {
	contracts    []string
	owner        string
	skipRegistry bool

	kinds []contracts.Kind
}

func (p *deployParams) validateFlags() error {
	if len(p.contracts) == 0 {
		return errNoContracts
	}

	seen := make(map[contracts.Kind]struct{}, len(p.contracts))
	p.kinds = make([]contracts.Kind, 0, len(p.contracts))

	for _, name := range p.contracts {
		kind, err := contracts.ParseKind(name)
		if err != nil {
			return err
		}

		if _, ok := seen[kind]; ok {
			return fmt.Errorf("contract %s given twice", kind)
		}

		seen[kind] = struct{}{}
		p.kinds = append(p.kinds, kind)
	}

	return nil
}
