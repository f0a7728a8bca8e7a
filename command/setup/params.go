package setup

import (
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/hashicorp/go-multierror"
)

const collectionFlag = "collection"

type setupParams struct {
	contract   string
	owner      string
	collection string

	kind          contracts.Kind
	collectionArg ethgo.Address
}

func (p *setupParams) validateFlags() error {
	var errs *multierror.Error

	kind, err := contracts.ParseKind(p.contract)
	if err != nil {
		errs = multierror.Append(errs, err)
	} else if !kind.IsBatchMinter() && !kind.IsPublicMinter() {
		errs = multierror.Append(errs, fmt.Errorf("contract %s has no transferable minter ownership", kind))
	}

	p.kind = kind

	if p.owner != "" {
		if _, err := helper.ParseAddress(p.owner); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if p.collection != "" {
		addr, err := helper.ParseAddress(p.collection)
		if err != nil {
			errs = multierror.Append(errs, err)
		} else if !contracts.IsCollectionAddress(addr) {
			errs = multierror.Append(errs, fmt.Errorf("%s is not a precompile collection address", addr))
		}

		p.collectionArg = addr
	}

	return errs.ErrorOrNil()
}
