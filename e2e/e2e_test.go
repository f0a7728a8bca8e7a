package e2e

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/freeverseio/laos-minters/contracts"
	"github.com/freeverseio/laos-minters/helper/revert"
	"github.com/freeverseio/laos-minters/wallet"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, chain *fakeChain) *Env {
	t.Helper()

	deployer, err := wallet.GenerateAccount()
	require.NoError(t, err)

	second, err := wallet.GenerateAccount()
	require.NoError(t, err)

	return &Env{
		Relayer:   chain,
		Deployer:  deployer,
		Second:    second,
		Artifacts: chain.loader,
		Policy:    revert.Policy{Retries: 2},
		Logger:    hclog.NewNullLogger(),
		BatchSize: 5,
		Transfers: 3,
		Rand:      rand.New(rand.NewSource(1)), //nolint:gosec
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{
		"batch-minter",
		"batch-minter-721",
		"batch-minter-factory",
		"coin-transfers",
		"minter-controlled",
		"public-minter",
		"public-minter-minimal",
	}, Names())
}

func TestRun_Scenarios(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		name := name

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			chain := newFakeChain()
			env := newTestEnv(t, chain)

			var out bytes.Buffer
			env.Out = &out

			report, err := Run(context.Background(), env, name)
			require.NoError(t, err)
			require.True(t, report.Passed)
			require.Equal(t, name, report.Scenario)
			require.NotEmpty(t, report.Steps)

			for _, step := range report.Steps {
				require.Equal(t, StepPassed, step.Status, step.Name)
			}

			require.Contains(t, out.String(), report.Steps[0].Name)
		})
	}
}

func TestRun_OwnershipEndsWithDeployer(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"batch-minter", "batch-minter-factory", "public-minter", "public-minter-minimal"} {
		chain := newFakeChain()
		env := newTestEnv(t, chain)

		_, err := Run(context.Background(), env, name)
		require.NoError(t, err)

		for _, m := range chain.minters {
			require.Equal(t, env.Deployer.Address(), chain.collections[m.precompile].owner, name)
			require.Equal(t, env.Second.Address(), m.owner, name)
		}
	}
}

func TestRun_CoinTransfers(t *testing.T) {
	t.Parallel()

	chain := newFakeChain()

	_, err := Run(context.Background(), newTestEnv(t, chain), "coin-transfers")
	require.NoError(t, err)
	require.Equal(t, 3, chain.transfers)
}

func TestRun_BatchMint(t *testing.T) {
	t.Parallel()

	chain := newFakeChain()

	_, err := Run(context.Background(), newTestEnv(t, chain), "batch-minter")
	require.NoError(t, err)

	// batch of 5 plus the single mint
	for _, m := range chain.minters {
		require.Len(t, chain.collections[m.precompile].tokens, 6)
	}
}

func TestRun_NotRevertingChain(t *testing.T) {
	t.Parallel()

	chain := newFakeChain()
	chain.permissive = true

	report, err := Run(context.Background(), newTestEnv(t, chain), "batch-minter")
	require.ErrorIs(t, err, revert.ErrRetryExhausted)
	require.False(t, report.Passed)

	last := report.Steps[len(report.Steps)-1]
	require.Equal(t, StepFailed, last.Status)
	require.Equal(t, "second account cannot mint through the minter", last.Name)
}

func TestRun_MissingArtifact(t *testing.T) {
	t.Parallel()

	chain := newFakeChain()
	delete(chain.artifacts, contracts.MinterControlled)

	report, err := Run(context.Background(), newTestEnv(t, chain), "minter-controlled")
	require.ErrorIs(t, err, contracts.ErrArtifactNotFound)
	require.Len(t, report.Steps, 1)
}

func TestRun_UnknownScenario(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), newTestEnv(t, newFakeChain()), "nope")
	require.ErrorIs(t, err, ErrUnknownScenario)
}

func TestEnv_Validate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeChain())
	require.NoError(t, env.Validate())

	env.Second = env.Deployer
	require.Error(t, env.Validate())

	require.Error(t, (&Env{}).Validate())

	env = newTestEnv(t, newFakeChain())
	env.Policy = revert.Policy{}
	require.ErrorIs(t, env.Validate(), revert.ErrInvalidPolicy)
}

func TestRandomSlots_Unique(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newFakeChain())
	env.setDefaults()

	r := &runner{env: env}
	seen := map[uint64]struct{}{}

	for _, slot := range r.randomSlots(500) {
		require.True(t, slot.IsUint64())
		require.LessOrEqual(t, slot.Uint64(), uint64(1<<32-1))

		_, dup := seen[slot.Uint64()]
		require.False(t, dup)

		seen[slot.Uint64()] = struct{}{}
	}

	require.Len(t, dummyURI, typicalURILength)
}
