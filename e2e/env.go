package e2e

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/rand"
	"strings"
	"time"

	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/helper/revert"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultBatchSize is the number of tokens minted and evolved by the batch steps
	DefaultBatchSize = 200
	// DefaultTransfers is the number of self transfers of the coin-transfers scenario
	DefaultTransfers = 20

	// typicalURILength is the length of an ipfs://Qm... uri
	typicalURILength = 47
)

var (
	// DefaultTransferAmount is the wei value of every coin transfer
	DefaultTransferAmount = big.NewInt(16)

	dummyURI = strings.Repeat("a", typicalURILength)
)

// ArtifactLoader returns the compiled contract of a minter kind
type ArtifactLoader func(kind contracts.Kind) (*contracts.Artifact, error)

// DirArtifacts loads artifacts from a hardhat, truffle or flat artifacts directory
func DirArtifacts(dir string) ArtifactLoader {
	return func(kind contracts.Kind) (*contracts.Artifact, error) {
		return contracts.ReadArtifact(dir, kind.ArtifactName())
	}
}

// Env is everything a scenario needs to talk to the chain
type Env struct {
	Relayer txrelayer.TxRelayer
	// Deployer deploys the contracts and starts out owning them
	Deployer txrelayer.Signer
	// Second is the account whose unauthorized actions must revert
	Second    txrelayer.Signer
	Artifacts ArtifactLoader
	Policy    revert.Policy
	Logger    hclog.Logger
	// Out receives human readable progress, nil discards it
	Out io.Writer

	BatchSize      int
	Transfers      int
	TransferAmount *big.Int

	// Rand draws the slots, seeded from the clock when nil
	Rand *rand.Rand
}

func (e *Env) setDefaults() {
	if e.Logger == nil {
		e.Logger = hclog.NewNullLogger()
	}

	if e.Out == nil {
		e.Out = io.Discard
	}

	if e.BatchSize == 0 {
		e.BatchSize = DefaultBatchSize
	}

	if e.Transfers == 0 {
		e.Transfers = DefaultTransfers
	}

	if e.TransferAmount == nil {
		e.TransferAmount = DefaultTransferAmount
	}

	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	}
}

// Validate checks that the environment can run scenarios
func (e *Env) Validate() error {
	var errs *multierror.Error

	if e.Relayer == nil {
		errs = multierror.Append(errs, errors.New("relayer is required"))
	}

	if e.Deployer == nil {
		errs = multierror.Append(errs, errors.New("deployer account is required"))
	}

	if e.Second == nil {
		errs = multierror.Append(errs, errors.New("second account is required"))
	} else if e.Deployer != nil && e.Second.Address() == e.Deployer.Address() {
		errs = multierror.Append(errs, errors.New("second account must differ from the deployer"))
	}

	if e.Artifacts == nil {
		errs = multierror.Append(errs, errors.New("artifact loader is required"))
	}

	if err := e.Policy.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if e.BatchSize < 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid batch size %d", e.BatchSize))
	}

	if e.Transfers < 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid transfer count %d", e.Transfers))
	}

	if e.TransferAmount != nil && e.TransferAmount.Sign() < 0 {
		errs = multierror.Append(errs, fmt.Errorf("invalid transfer amount %s", e.TransferAmount))
	}

	return errs.ErrorOrNil()
}
