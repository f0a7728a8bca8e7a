package e2e

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/freeverseio/laos-minters/command"
	"github.com/freeverseio/laos-minters/command/helper"
	"github.com/freeverseio/laos-minters/config"
	scenarios "github.com/freeverseio/laos-minters/e2e"
	"github.com/freeverseio/laos-minters/e2e/framework"
	"github.com/freeverseio/laos-minters/helper/revert"
	"github.com/freeverseio/laos-minters/metrics"
	"github.com/freeverseio/laos-minters/secrets"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var params e2eParams

// GetCommand returns the e2e command
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "e2e <scenario>",
		Short: "Runs an end to end scenario against the selected network",
		Long: fmt.Sprintf("Runs an end to end scenario against the selected network. Scenarios: %s",
			strings.Join(scenarios.Names(), ", ")),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: scenarios.Names(),
		PreRunE:   preRunCommand,
		Run:       runCommand,
	}

	cmd.Flags().Uint64Var(
		&params.retries,
		retriesFlag,
		revert.DefaultRetries,
		"attempts of an action expected to revert",
	)

	cmd.Flags().DurationVar(
		&params.retryDelay,
		retryDelayFlag,
		revert.DefaultDelay,
		"wait between attempts of an action expected to revert",
	)

	cmd.Flags().BoolVar(
		&params.spawnNode,
		spawnNodeFlag,
		false,
		fmt.Sprintf("spawn a local development chain (NODE_BINARY, default %s) and run against it",
			framework.DefaultNodeBinary),
	)

	cmd.Flags().IntVar(
		&params.nodePort,
		nodePortFlag,
		defaultNodePort,
		"port of the spawned chain",
	)

	cmd.Flags().StringArrayVar(
		&params.nodeArgs,
		nodeArgFlag,
		nil,
		"extra argument of the spawned chain, repeatable",
	)

	cmd.Flags().StringVar(
		&params.prometheusAddr,
		prometheusFlag,
		"",
		"address to serve prometheus metrics on while the scenario runs",
	)

	cmd.Flags().IntVar(
		&params.batchSize,
		batchSizeFlag,
		scenarios.DefaultBatchSize,
		"tokens minted and evolved by the batch steps",
	)

	cmd.Flags().IntVar(
		&params.transfers,
		transfersFlag,
		scenarios.DefaultTransfers,
		"self transfers of the coin-transfers scenario",
	)

	cmd.Flags().Int64Var(
		&params.seed,
		seedFlag,
		0,
		"seed of the random slots, the clock when 0",
	)

	return cmd
}

func preRunCommand(_ *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	ctx := cmd.Context()

	cfg, err := helper.LoadConfig(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	logger := helper.NewLogger(cfg.LogLevel, os.Stderr)

	policy, err := resolvePolicy(cmd, cfg)
	if err != nil {
		outputter.SetError(err)

		return
	}

	prometheusAddr := params.prometheusAddr
	if prometheusAddr == "" && cfg.Metrics != nil {
		prometheusAddr = cfg.Metrics.PrometheusAddr
	}

	stopMetrics, err := metrics.Setup(prometheusAddr, logger.Named("metrics"))
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer stopMetrics()

	if params.spawnNode {
		network, err := cfg.ActiveNetwork()
		if err != nil {
			outputter.SetError(err)

			return
		}

		node, err := spawnNode(ctx, cmd, network.ChainID, logger)
		if err != nil {
			outputter.SetError(err)

			return
		}

		defer func() {
			if err := node.Stop(); err != nil {
				logger.Warn("failed to stop the spawned chain", "err", err)
			}
		}()
	}

	rt, err := helper.NewRuntime(ctx, cmd, outputter)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer rt.Close()

	deployer, err := rt.Account(secrets.DeployerKey)
	if err != nil {
		outputter.SetError(err)

		return
	}

	second, err := rt.Account(secrets.SecondKey)
	if err != nil {
		outputter.SetError(err)

		return
	}

	env := &scenarios.Env{
		Relayer:   rt.Relayer,
		Deployer:  deployer,
		Second:    second,
		Artifacts: scenarios.DirArtifacts(rt.Config.ArtifactsDir),
		Policy:    policy,
		Logger:    rt.Logger,
		Out:       outputter,
		BatchSize: params.batchSize,
		Transfers: params.transfers,
	}

	if params.seed != 0 {
		env.Rand = rand.New(rand.NewSource(params.seed)) //nolint:gosec
	}

	report, err := scenarios.Run(ctx, env, args[0])
	if report != nil {
		outputter.SetCommandResult(&reportResult{Report: report})
	}

	if err != nil {
		outputter.SetError(err)
	}
}

// resolvePolicy applies the retry flags given on the command line over the configured policy
func resolvePolicy(cmd *cobra.Command, cfg *config.Config) (revert.Policy, error) {
	policy, err := cfg.RetryPolicy()
	if err != nil {
		return revert.Policy{}, err
	}

	if cmd.Flags().Changed(retriesFlag) {
		policy.Retries = params.retries
	}

	if cmd.Flags().Changed(retryDelayFlag) {
		policy.Delay = params.retryDelay
	}

	return policy, policy.Validate()
}

// spawnNode starts a development chain and points the json-rpc flag at it
func spawnNode(ctx context.Context, cmd *cobra.Command, chainID uint64, logger hclog.Logger) (*framework.Node, error) {
	if chainID == 0 {
		chainID = defaultNodeChainID
	}

	binary := framework.ResolveNodeBinary()
	args := append(framework.DevNodeArgs(params.nodePort, chainID), params.nodeArgs...)

	logger.Info("spawning chain", "binary", binary, "args", args)

	node, err := framework.NewNodeWithContext(ctx, binary, args, logger.StandardWriter(&hclog.StandardLoggerOptions{}))
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", binary, err)
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", params.nodePort)

	blockNumber, err := framework.WaitForRPC(ctx, url, nodeStartTimeout)
	if err != nil {
		_ = node.Stop()

		return nil, err
	}

	logger.Info("chain ready", "url", url, "block", blockNumber)

	if err := cmd.Flag(command.JSONRPCFlag).Value.Set(url); err != nil {
		_ = node.Stop()

		return nil, err
	}

	return node, nil
}
