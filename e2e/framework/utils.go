package framework

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/freeverseio/laos-minters/jsonrpc"
	"github.com/sethvargo/go-retry"
)

const (
	// DefaultNodeBinary is the development chain spawned when NODE_BINARY is unset
	DefaultNodeBinary = "anvil"

	retryWait = 500 * time.Millisecond
)

// ResolveNodeBinary returns the chain binary from NODE_BINARY, falling back to anvil
func ResolveNodeBinary() string {
	return tryResolveFromEnv("NODE_BINARY", DefaultNodeBinary)
}

// DevNodeArgs are the arguments of a development node listening on port with chainID
func DevNodeArgs(port int, chainID uint64) []string {
	return []string{
		"--port", strconv.Itoa(port),
		"--chain-id", strconv.FormatUint(chainID, 10),
	}
}

// WaitForRPC polls url until the node answers eth_blockNumber or timeout elapses
func WaitForRPC(ctx context.Context, url string, timeout time.Duration) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var blockNumber uint64

	err := retry.Do(ctx, retry.NewConstant(retryWait), func(ctx context.Context) error {
		client, err := jsonrpc.NewEthClient(ctx, url)
		if err != nil {
			return retry.RetryableError(err)
		}

		defer client.Close()

		if blockNumber, err = client.BlockNumber(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("node at %s not reachable: %w", url, err)
	}

	return blockNumber, nil
}

func tryResolveFromEnv(env, name string) string {
	if bin := os.Getenv(env); bin != "" {
		return bin
	}

	return name
}
