package tokenid

import (
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/hashicorp/go-multierror"
	"github.com/holiman/uint256"
)

const (
	ownerFlag = "owner"
	slotFlag  = "slot"
	idFlag    = "id"
)

var (
	errNoPairs          = errors.New("at least one owner and slot pair is required")
	errMismatchedLength = errors.New("owner and slot must be given the same number of times")
)

type computeParams struct {
	owners []string
	slots  []string

	parsedOwners []ethgo.Address
	parsedSlots  []*uint256.Int
}

func (p *computeParams) validateFlags() error {
	if len(p.owners) == 0 {
		return errNoPairs
	}

	if len(p.owners) != len(p.slots) {
		return fmt.Errorf("%w: %d owners, %d slots", errMismatchedLength, len(p.owners), len(p.slots))
	}

	var errs *multierror.Error

	p.parsedOwners = make([]ethgo.Address, len(p.owners))
	p.parsedSlots = make([]*uint256.Int, len(p.slots))

	for i := range p.owners {
		owner, err := tokenid.ParseOwner(p.owners[i])
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("owner %d: %w", i, err))
		}

		slot, err := tokenid.ParseUint(p.slots[i], tokenid.SlotBits)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("slot %d: %w", i, err))
		}

		p.parsedOwners[i], p.parsedSlots[i] = owner, slot
	}

	return errs.ErrorOrNil()
}

type decodeParams struct {
	id string

	parsedID *uint256.Int
}

func (p *decodeParams) validateFlags() error {
	id, err := tokenid.ParseUint(p.id, 256)
	if err != nil {
		return fmt.Errorf("invalid token id: %w", err)
	}

	p.parsedID = id

	return nil
}
