package root

import (
	"testing"

	"github.com/freeverseio/laos-minters/command"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand().Command()

	for _, name := range []string{"tokenid", "secrets", "deploy", "setup", "mint", "transfer", "deployments", "e2e"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{
		command.ConfigFlag, command.NetworkFlag, command.JSONRPCFlag, command.LogLevelFlag, command.JSONOutputFlag,
	} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}
