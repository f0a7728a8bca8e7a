package e2e

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/contractsapi"
	"github.com/freeverseio/laos-minters/helper/revert"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/freeverseio/laos-minters/txrelayer"
	"github.com/hashicorp/go-hclog"
	"github.com/holiman/uint256"
)

var (
	// ErrUnknownScenario is returned for names missing from the registry
	ErrUnknownScenario = errors.New("unknown scenario")
	// ErrCheckFailed is returned when the chain state differs from the expected one
	ErrCheckFailed = errors.New("check failed")
)

// StepStatus is the outcome of a scenario step
type StepStatus string

const (
	StepPassed StepStatus = "passed"
	StepFailed StepStatus = "failed"
)

// Step is a recorded scenario step
type Step struct {
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Attempts uint64        `json:"attempts,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report is the outcome of a scenario run. Steps stop at the first failure.
type Report struct {
	Scenario string        `json:"scenario"`
	Steps    []*Step       `json:"steps"`
	Passed   bool          `json:"passed"`
	Duration time.Duration `json:"duration"`
}

// scenario drives the chain through one authorization flow
type scenario func(ctx context.Context, r *runner) error

var scenarios = map[string]scenario{
	"batch-minter":          batchMinterScenario,
	"batch-minter-factory":  batchMinterFactoryScenario,
	"batch-minter-721":      batchMinter721Scenario,
	"public-minter":         publicMinterScenario,
	"public-minter-minimal": publicMinterMinimalScenario,
	"minter-controlled":     minterControlledScenario,
	"coin-transfers":        coinTransfersScenario,
}

// Names returns the registered scenarios in a stable order
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Run executes the named scenario. The report is returned even when a step fails.
func Run(ctx context.Context, env *Env, name string) (*Report, error) {
	scenario, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, expected one of %v", ErrUnknownScenario, name, Names())
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}

	env.setDefaults()

	r := &runner{
		env:    env,
		logger: env.Logger.Named("e2e").With("scenario", name),
		report: &Report{Scenario: name},
	}

	start := time.Now()

	r.logger.Info("scenario started",
		"deployer", env.Deployer.Address(), "second", env.Second.Address())

	err := scenario(ctx, r)

	r.report.Duration = time.Since(start)
	r.report.Passed = err == nil

	if err != nil {
		r.logger.Error("scenario failed", "err", err)

		return r.report, fmt.Errorf("scenario %s: %w", name, err)
	}

	r.logger.Info("scenario passed", "steps", len(r.report.Steps), "duration", r.report.Duration)

	return r.report, nil
}

type runner struct {
	env    *Env
	logger hclog.Logger
	report *Report
}

func (r *runner) deployer() txrelayer.Signer {
	return r.env.Deployer
}

func (r *runner) second() txrelayer.Signer {
	return r.env.Second
}

// step runs fn and records its outcome. fn returns a detail shown next to the step name.
func (r *runner) step(name string, fn func() (string, error)) error {
	start := time.Now()

	fmt.Fprintf(r.env.Out, "%s...\n", name)

	detail, err := fn()

	step := &Step{Name: name, Status: StepPassed, Detail: detail, Duration: time.Since(start)}
	r.report.Steps = append(r.report.Steps, step)

	if err != nil {
		step.Status = StepFailed
		step.Detail = err.Error()

		fmt.Fprintf(r.env.Out, "...failed: %v\n", err)

		return fmt.Errorf("%s: %w", name, err)
	}

	if detail != "" {
		fmt.Fprintf(r.env.Out, "...%s\n", detail)
	}

	r.logger.Debug("step passed", "step", name, "detail", detail)

	return nil
}

// expectRevert asserts that action is rejected by the chain, retrying per the env policy
func (r *runner) expectRevert(ctx context.Context, name string, action revert.Action) error {
	start := time.Now()

	fmt.Fprintf(r.env.Out, "%s...\n", name)

	result, err := revert.AssertReverts(ctx, r.logger, r.env.Policy, action, revert.WithLabel(name))

	step := &Step{Name: name, Status: StepPassed, Duration: time.Since(start)}
	r.report.Steps = append(r.report.Steps, step)

	if err != nil {
		step.Status = StepFailed
		step.Detail = err.Error()

		fmt.Fprintf(r.env.Out, "...failed: %v\n", err)

		return fmt.Errorf("%s: %w", name, err)
	}

	step.Attempts = result.Attempts
	step.Detail = "reverted as expected"

	fmt.Fprintf(r.env.Out, "...reverted as expected after %d attempt(s)\n", result.Attempts)

	return nil
}

func (r *runner) expectAddress(
	ctx context.Context, name string, get func(context.Context) (ethgo.Address, error), want ethgo.Address,
) error {
	return r.step(name, func() (string, error) {
		got, err := get(ctx)
		if err != nil {
			return "", err
		}

		if got != want {
			return "", fmt.Errorf("%w: got %s, want %s", ErrCheckFailed, got, want)
		}

		return got.String(), nil
	})
}

func (r *runner) expectBool(
	ctx context.Context, name string, get func(context.Context) (bool, error), want bool,
) error {
	return r.step(name, func() (string, error) {
		got, err := get(ctx)
		if err != nil {
			return "", err
		}

		if got != want {
			return "", fmt.Errorf("%w: got %t, want %t", ErrCheckFailed, got, want)
		}

		return fmt.Sprintf("%t", got), nil
	})
}

// deploy deploys a minter owned by owner and returns its address
func (r *runner) deploy(ctx context.Context, kind contracts.Kind, owner ethgo.Address) (ethgo.Address, error) {
	var address ethgo.Address

	err := r.step(fmt.Sprintf("deploying %s with owner %s", kind.ArtifactName(), owner), func() (string, error) {
		artifact, err := r.env.Artifacts(kind)
		if err != nil {
			return "", err
		}

		result, err := contractsapi.Deploy(ctx, r.env.Relayer, r.deployer(), artifact, owner)
		if err != nil {
			return "", err
		}

		address = result.Address

		return fmt.Sprintf("deployed at %s", address), nil
	})

	return address, err
}

// mintable is the interface every minter and the precompile collection share
type mintable interface {
	Address() ethgo.Address
	MintWithExternalURI(
		ctx context.Context, sender txrelayer.Signer, to ethgo.Address, slot *uint256.Int, tokenURI string,
	) (*contractsapi.MintResult, error)
	TransferOwnership(ctx context.Context, sender txrelayer.Signer, newOwner ethgo.Address) (*types.Receipt, error)
}

// mint mints a token for to at a random slot and returns its id
func (r *runner) mint(
	ctx context.Context, name string, contract mintable, sender txrelayer.Signer, to ethgo.Address,
) (*uint256.Int, error) {
	var id *uint256.Int

	err := r.step(name, func() (string, error) {
		result, err := contract.MintWithExternalURI(ctx, sender, to, r.randomSlot(), dummyURI)
		if err != nil {
			return "", err
		}

		id = result.Tokens[0].TokenID

		return fmt.Sprintf("new token id %s", tokenid.Dec(id)), nil
	})

	return id, err
}

// mintReverts asserts that sender cannot mint through contract
func (r *runner) mintReverts(ctx context.Context, name string, contract mintable, sender txrelayer.Signer) error {
	return r.expectRevert(ctx, name, func(ctx context.Context) error {
		_, err := contract.MintWithExternalURI(ctx, sender, sender.Address(), r.randomSlot(), dummyURI)

		return err
	})
}

func (r *runner) transferOwnershipReverts(
	ctx context.Context, name string, contract mintable, sender txrelayer.Signer, newOwner ethgo.Address,
) error {
	return r.expectRevert(ctx, name, func(ctx context.Context) error {
		_, err := contract.TransferOwnership(ctx, sender, newOwner)

		return err
	})
}

func (r *runner) transact(name string, send func() (*types.Receipt, error)) error {
	return r.step(name, func() (string, error) {
		receipt, err := send()
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("mined in block %s, tx %s", receipt.BlockNumber, receipt.TxHash), nil
	})
}

// randomSlot draws a random 32 bit slot
func (r *runner) randomSlot() *uint256.Int {
	return uint256.NewInt(uint64(r.env.Rand.Uint32()))
}

// randomSlots draws n distinct random 32 bit slots
func (r *runner) randomSlots(n int) []*uint256.Int {
	seen := make(map[uint32]struct{}, n)
	slots := make([]*uint256.Int, 0, n)

	for len(slots) < n {
		v := r.env.Rand.Uint32()
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		slots = append(slots, uint256.NewInt(uint64(v)))
	}

	return slots
}
