package transfer

import (
	"fmt"
	"math/big"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/hashicorp/go-multierror"
)

const (
	countFlag  = "count"
	amountFlag = "amount"
	toFlag     = "to"
	fromFlag   = "from"

	defaultCount  = 20
	defaultAmount = "16"
)

type transferParams struct {
	count  int
	amount string
	to     string
	from   string

	amountArg *big.Int
	toArg     ethgo.Address
}

func (p *transferParams) validateFlags() error {
	var errs *multierror.Error

	if p.count < 1 {
		errs = multierror.Append(errs, fmt.Errorf("--%s must be positive", countFlag))
	}

	amount, ok := math.ParseBig256(p.amount)
	if !ok || amount.Sign() < 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid --%s %q", amountFlag, p.amount))
	}

	p.amountArg = amount

	if p.to != "" {
		to, err := helper.ParseAddress(p.to)
		if err != nil {
			errs = multierror.Append(errs, err)
		}

		p.toArg = to
	}

	if p.from != secrets.DeployerKey && p.from != secrets.SecondKey {
		errs = multierror.Append(errs,
			fmt.Errorf("--%s must be %s or %s", fromFlag, secrets.DeployerKey, secrets.SecondKey))
	}

	return errs.ErrorOrNil()
}
