package mint

import (
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/hashicorp/go-multierror"
	"github.com/holiman/uint256"
)

const (
	toFlag      = "to"
	slotFlag    = "slot"
	uriFlag     = "uri"
	sizeFlag    = "size"
	batchesFlag = "batches"
	idFlag      = "id"

	defaultBatchSize = 200
	defaultURI       = "ipfs://QmQeN4qhzPpG6jVqJoXo2e86eHYPbFpKeUkJcTfrA5hJwz"
)

var (
	errNotBatchMinter = errors.New("batch operations need a batch minter")
	errNoTokenIDs     = errors.New("at least one --id is required")
)

// targetParams select the contract to send the transactions to
type targetParams struct {
	contract string
	address  string

	kind       contracts.Kind
	addressArg ethgo.Address
}

func (p *targetParams) validateFlags() error {
	var errs *multierror.Error

	kind, err := contracts.ParseKind(p.contract)
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	p.kind = kind

	if p.address != "" {
		if p.addressArg, err = helper.ParseAddress(p.address); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

// isCollection reports whether transactions go straight to a precompile collection
func (p *targetParams) isCollection() bool {
	return contracts.IsCollectionAddress(p.addressArg)
}

func (p *targetParams) requireBatchMinter() error {
	if p.isCollection() || !p.kind.IsBatchMinter() {
		return fmt.Errorf("%w, got %s", errNotBatchMinter, p.kind)
	}

	return nil
}

type singleParams struct {
	targetParams

	to   string
	slot string
	uri  string

	toArg   ethgo.Address
	slotArg *uint256.Int
}

func (p *singleParams) validateFlags() error {
	var errs *multierror.Error

	if err := p.targetParams.validateFlags(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if p.to != "" {
		to, err := helper.ParseAddress(p.to)
		if err != nil {
			errs = multierror.Append(errs, err)
		}

		p.toArg = to
	}

	if p.slot != "" {
		slot, err := tokenid.ParseUint(p.slot, tokenid.SlotBits)
		if err != nil {
			errs = multierror.Append(errs, err)
		}

		p.slotArg = slot
	}

	return errs.ErrorOrNil()
}

type batchParams struct {
	targetParams

	to      string
	uri     string
	size    int
	batches int

	toArg ethgo.Address
}

func (p *batchParams) validateFlags() error {
	var errs *multierror.Error

	if err := p.targetParams.validateFlags(); err != nil {
		errs = multierror.Append(errs, err)
	} else if err := p.requireBatchMinter(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if p.size < 1 {
		errs = multierror.Append(errs, fmt.Errorf("--%s must be positive", sizeFlag))
	}

	if p.batches < 1 {
		errs = multierror.Append(errs, fmt.Errorf("--%s must be positive", batchesFlag))
	}

	if p.to != "" {
		to, err := helper.ParseAddress(p.to)
		if err != nil {
			errs = multierror.Append(errs, err)
		}

		p.toArg = to
	}

	return errs.ErrorOrNil()
}

type evolveParams struct {
	targetParams

	ids []string
	uri string

	idArgs []*uint256.Int
}

func (p *evolveParams) validateFlags() error {
	if len(p.ids) == 0 {
		return errNoTokenIDs
	}

	var errs *multierror.Error

	if err := p.targetParams.validateFlags(); err != nil {
		errs = multierror.Append(errs, err)
	} else if len(p.ids) > 1 {
		if err := p.requireBatchMinter(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	p.idArgs = make([]*uint256.Int, len(p.ids))

	for i, raw := range p.ids {
		id, err := tokenid.ParseUint(raw, 256)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("id %d: %w", i, err))
		}

		p.idArgs[i] = id
	}

	return errs.ErrorOrNil()
}
