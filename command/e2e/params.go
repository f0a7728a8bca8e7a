package e2e

import (
	"fmt"
	"time"

	"github.com/freeverseio/laos-minters/helper/revert"
	"github.com/hashicorp/go-multierror"
)

const (
	retriesFlag    = "retries"
	retryDelayFlag = "retry-delay"
	spawnNodeFlag  = "spawn-node"
	nodePortFlag   = "node-port"
	nodeArgFlag    = "node-arg"
	prometheusFlag = "prometheus"
	batchSizeFlag  = "batch-size"
	transfersFlag  = "transfers"
	seedFlag       = "seed"

	defaultNodePort    = 8545
	defaultNodeChainID = 31337
	nodeStartTimeout   = 30 * time.Second
)

type e2eParams struct {
	retries    uint64
	retryDelay time.Duration

	spawnNode bool
	nodePort  int
	nodeArgs  []string

	prometheusAddr string

	batchSize int
	transfers int
	seed      int64
}

func (p *e2eParams) policy() revert.Policy {
	return revert.Policy{Retries: p.retries, Delay: p.retryDelay}
}

func (p *e2eParams) validateFlags() error {
	var errs *multierror.Error

	if err := p.policy().Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if p.spawnNode && (p.nodePort <= 0 || p.nodePort > 65535) {
		errs = multierror.Append(errs, fmt.Errorf("invalid --%s %d", nodePortFlag, p.nodePort))
	}

	if p.batchSize < 0 {
		errs = multierror.Append(errs, fmt.Errorf("--%s must not be negative", batchSizeFlag))
	}

	if p.transfers < 0 {
		errs = multierror.Append(errs, fmt.Errorf("--%s must not be negative", transfersFlag))
	}

	return errs.ErrorOrNil()
}
