package framework

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func requireBinary(t *testing.T, name string) string {
	t.Helper()

	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available", name)
	}

	return path
}

func TestNode_Stop(t *testing.T) {
	t.Parallel()

	node, err := NewNode(requireBinary(t, "sleep"), []string{"30"}, nil)
	require.NoError(t, err)
	require.False(t, node.IsShuttingDown())
	require.Nil(t, node.ExitResult())

	require.NoError(t, node.Stop())
	require.True(t, node.IsShuttingDown())
	require.True(t, node.ExitResult().Signaled)

	// stopping twice is a no-op
	require.NoError(t, node.Stop())
}

func TestNode_Finished(t *testing.T) {
	t.Parallel()

	node, err := NewNode(requireBinary(t, "true"), nil, nil)
	require.NoError(t, err)

	select {
	case <-node.Wait():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}

	require.False(t, node.ExitResult().Signaled)
	require.NoError(t, node.ExitResult().Err)
}

func TestNodeWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	node, err := NewNodeWithContext(ctx, requireBinary(t, "sleep"), []string{"30"}, nil)
	require.NoError(t, err)

	cancel()

	select {
	case <-node.Wait():
	case <-time.After(5 * time.Second):
		t.Fatal("process not stopped on cancel")
	}

	require.True(t, node.ExitResult().Signaled)
}

func TestWaitForRPC_Unreachable(t *testing.T) {
	t.Parallel()

	_, err := WaitForRPC(context.Background(), "http://127.0.0.1:1", time.Second)
	require.Error(t, err)
}

func TestResolveNodeBinary(t *testing.T) {
	t.Setenv("NODE_BINARY", "/opt/laos/laos-node")
	require.Equal(t, "/opt/laos/laos-node", ResolveNodeBinary())

	t.Setenv("NODE_BINARY", "")
	require.Equal(t, DefaultNodeBinary, ResolveNodeBinary())
}

func TestDevNodeArgs(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"--port", "8545", "--chain-id", "62850"}, DevNodeArgs(8545, 62850))
}
