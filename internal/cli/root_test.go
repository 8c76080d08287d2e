package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipInit(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"version", true},
		{"help", true},
		{"completion", true},
		{"deploy", false},
		{"deployments", false},
		{"status", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, skipInit(&cobra.Command{Use: tt.name}))
		})
	}
}

func TestNewRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()

	groups := map[string]string{
		"deploy":       "main",
		"call":         "main",
		"send":         "main",
		"deployments":  "main",
		"verify":       "main",
		"balance":      "chain",
		"accounts":     "chain",
		"block-number": "chain",
		"node":         "chain",
		"networks":     "management",
		"config":       "management",
		"version":      "",
	}
	for name, group := range groups {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
			assert.Equal(t, group, cmd.GroupID)
		})
	}

	for _, path := range [][]string{
		{"node", "start"}, {"node", "stop"}, {"node", "restart"}, {"node", "status"},
		{"node", "logs"}, {"node", "mine"}, {"node", "increase-time"},
		{"config", "set"}, {"config", "remove"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[1], cmd.Name())
	}
}

func TestNewRootCmd_Flags(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"debug", "non-interactive", "network", "account", "confirmations", "timeout", "json", "yaml"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "n", root.PersistentFlags().Lookup("network").Shorthand)

	deploy, _, err := root.Find([]string{"deploy"})
	require.NoError(t, err)
	for _, name := range []string{"arg", "value", "gas-limit"} {
		assert.NotNil(t, deploy.Flags().Lookup(name), name)
	}

	start, _, err := root.Find([]string{"node", "start"})
	require.NoError(t, err)
	assert.Equal(t, "anvil0", start.Flags().Lookup("name").DefValue)
	assert.Equal(t, "8545", start.Flags().Lookup("port").DefValue)
}

func TestVersionCmd_SkipsProjectSetup(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "catapult version dev")
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{"30", 30, false},
		{"0", 0, false},
		{"1h", 3600, false},
		{"1m30s", 90, false},
		{"500ms", 0, true},
		{"soon", 0, true},
		{"-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSeconds(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
