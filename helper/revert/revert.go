// Package revert asserts that a remote state-changing action is rejected by the chain,
// tolerating a bounded number of transient failures and unexpected successes.
package revert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/freeverseio/laos-minters/jsonrpc"
	"github.com/freeverseio/laos-minters/metrics"
	"github.com/freeverseio/laos-minters/tokenid"
	"github.com/hashicorp/go-hclog"
	"github.com/sethvargo/go-retry"
)

const (
	// DefaultRetries is the default maximum number of attempts
	DefaultRetries = 10
	// DefaultDelay is the default wait between attempts
	DefaultDelay = 10 * time.Second

	// marker is the substring that identifies a revert in unstructured error messages
	marker = "revert"
)

var (
	// ErrRetryExhausted is returned when no revert is observed within the retry budget
	ErrRetryExhausted = errors.New("did not revert after maximum retries")
	// ErrInvalidPolicy is returned for a policy that allows no attempts
	ErrInvalidPolicy = errors.New("invalid retry policy")

	errNotReverted = errors.New("action did not revert")
)

// State is the state of a revert assertion
type State int

const (
	StateAttempting State = iota
	StateConfirmedRevert
	StateExhaustedRetries
)

func (s State) String() string {
	switch s {
	case StateConfirmedRevert:
		return "ConfirmedRevert"
	case StateExhaustedRetries:
		return "ExhaustedRetries"
	default:
		return "Attempting"
	}
}

// Policy bounds a revert assertion
type Policy struct {
	// Retries is the maximum number of attempts
	Retries uint64
	// Delay is the wait between two attempts
	Delay time.Duration
}

// DefaultPolicy returns the policy used when none is configured
func DefaultPolicy() Policy {
	return Policy{Retries: DefaultRetries, Delay: DefaultDelay}
}

// Validate checks that the policy allows at least one attempt
func (p Policy) Validate() error {
	if p.Retries == 0 {
		return fmt.Errorf("%w: retries must be greater than zero", ErrInvalidPolicy)
	}

	if p.Delay < 0 {
		return fmt.Errorf("%w: negative delay %s", ErrInvalidPolicy, p.Delay)
	}

	return nil
}

// backoff waits Delay between attempts and stops after Retries attempts
func (p Policy) backoff() retry.Backoff {
	var b retry.Backoff

	if p.Delay > 0 {
		b = retry.NewConstant(p.Delay)
	} else {
		b = retry.BackoffFunc(func() (time.Duration, bool) {
			return 0, false
		})
	}

	return retry.WithMaxRetries(p.Retries-1, b)
}

// Action is the operation expected to revert
type Action func(ctx context.Context) error

// Classifier reports whether an action error is a protocol-level rejection
type Classifier func(err error) bool

// Result describes a confirmed revert
type Result struct {
	State    State
	Attempts uint64
	// Err is the rejection observed on the last attempt
	Err error
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string {
	return p.err.Error()
}

func (p *permanentError) Unwrap() error {
	return p.err
}

// Permanent marks an action error as not retryable: the assertion fails with it immediately
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &permanentError{err: err}
}

// IsRevert is the default classifier. It trusts structured classification first and
// falls back to looking for the "revert" marker in the error message.
func IsRevert(err error) bool {
	switch jsonrpc.ClassifyError(err) {
	case jsonrpc.ErrorKindReverted:
		return true
	case jsonrpc.ErrorKindNetwork:
		return false
	default:
		return strings.Contains(err.Error(), marker)
	}
}

type asserter struct {
	logger   hclog.Logger
	policy   Policy
	classify Classifier
	label    string
}

// Option customizes an assertion
type Option func(*asserter)

// WithClassifier replaces the default revert classifier
func WithClassifier(c Classifier) Option {
	return func(a *asserter) {
		a.classify = c
	}
}

// WithLabel names the assertion in log output
func WithLabel(label string) Option {
	return func(a *asserter) {
		a.label = label
	}
}

// AssertReverts invokes action until it reverts.
// Unexpected successes and non-revert errors are retried after policy.Delay,
// up to policy.Retries attempts in total, after which ErrRetryExhausted is returned.
// Invalid codec input and errors marked Permanent are returned without retrying.
func AssertReverts(
	ctx context.Context, logger hclog.Logger, policy Policy, action Action, opts ...Option) (*Result, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	a := &asserter{
		logger:   logger,
		policy:   policy,
		classify: IsRevert,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.label != "" {
		a.logger = a.logger.With("assertion", a.label)
	}

	return a.run(ctx, action)
}

func (a *asserter) run(ctx context.Context, action Action) (*Result, error) {
	var (
		result    = &Result{State: StateAttempting}
		lastErr   error
		retryable bool
	)

	err := retry.Do(ctx, a.policy.backoff(), func(ctx context.Context) error {
		result.Attempts++
		retryable = false

		a.logger.Debug("attempting action", "attempt", result.Attempts, "max", a.policy.Retries)

		err := action(ctx)

		var permanent *permanentError

		switch {
		case err == nil:
			a.logger.Info("action did not revert, retrying", "attempt", result.Attempts)
			metrics.RevertAttempt(metrics.OutcomeNotReverted)

			lastErr, retryable = errNotReverted, true

			return retry.RetryableError(errNotReverted)
		case errors.Is(err, tokenid.ErrInvalidInput):
			return err
		case errors.As(err, &permanent):
			return permanent.err
		case a.classify(err):
			a.logger.Info("action reverted as expected", "attempt", result.Attempts, "reason", err)
			metrics.RevertAttempt(metrics.OutcomeReverted)

			result.Err = err

			return nil
		default:
			a.logger.Warn("non-revert error encountered, retrying", "attempt", result.Attempts, "err", err)
			metrics.RevertAttempt(metrics.OutcomeTransient)

			lastErr, retryable = err, true

			return retry.RetryableError(err)
		}
	})

	switch {
	case err == nil:
		result.State = StateConfirmedRevert
		metrics.RevertAssertion(metrics.OutcomeReverted, result.Attempts)

		return result, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case retryable:
		result.State = StateExhaustedRetries
		metrics.RevertAssertion(metrics.OutcomeExhausted, result.Attempts)

		if errors.Is(lastErr, errNotReverted) {
			return nil, fmt.Errorf("%w: %d attempts", ErrRetryExhausted, result.Attempts)
		}

		return nil, fmt.Errorf("%w: %d attempts, last error: %v", //nolint:errorlint
			ErrRetryExhausted, result.Attempts, lastErr)
	default:
		return nil, err
	}
}
