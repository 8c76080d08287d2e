package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
)

func TestDetectEnvVar(t *testing.T) {
	tests := []struct {
		name       string
		rawValue   string
		wantEnvVar string
		wantIsVar  bool
	}{
		{
			name:       "simple env var",
			rawValue:   "${GOERLI_RPC_URL}",
			wantEnvVar: "GOERLI_RPC_URL",
			wantIsVar:  true,
		},
		{
			name:       "hardcoded URL",
			rawValue:   "http://127.0.0.1:8545",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "env var with path suffix",
			rawValue:   "${INFURA}/v3/key",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "empty string",
			rawValue:   "",
			wantEnvVar: "",
			wantIsVar:  false,
		},
		{
			name:       "dollar without braces",
			rawValue:   "$MY_VAR",
			wantEnvVar: "",
			wantIsVar:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envVar, isVar := DetectEnvVar(tt.rawValue)
			assert.Equal(t, tt.wantEnvVar, envVar)
			assert.Equal(t, tt.wantIsVar, isVar)
		})
	}
}

func TestGenerateEnvVarNames(t *testing.T) {
	tests := []struct {
		network string
		rpc     string
		key     string
	}{
		{"goerli", "GOERLI_RPC_URL", "GOERLI_WALLET_PRIVATE_KEY"},
		{"localhost", "LOCALHOST_RPC_URL", "LOCALHOST_WALLET_PRIVATE_KEY"},
		{"celo-sepolia", "CELO_SEPOLIA_RPC_URL", "CELO_SEPOLIA_WALLET_PRIVATE_KEY"},
		{"base.sepolia", "BASE_SEPOLIA_RPC_URL", "BASE_SEPOLIA_WALLET_PRIVATE_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			assert.Equal(t, tt.rpc, GenerateEnvVarName(tt.network))
			assert.Equal(t, tt.key, GeneratePrivateKeyEnvVarName(tt.network))
		})
	}
}

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("CATAPULT_TEST_HOST", "127.0.0.1")
	t.Setenv("CATAPULT_TEST_PORT", "8545")

	t.Run("expands embedded references", func(t *testing.T) {
		got, err := ExpandEnvStrict("networks.localhost.url", "http://${CATAPULT_TEST_HOST}:${CATAPULT_TEST_PORT}")
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8545", got)
	})

	t.Run("plain values pass through", func(t *testing.T) {
		got, err := ExpandEnvStrict("k", "https://rpc.example.org")
		require.NoError(t, err)
		assert.Equal(t, "https://rpc.example.org", got)
	})

	t.Run("unset variable is a config error", func(t *testing.T) {
		_, err := ExpandEnvStrict("networks.goerli.url", "${CATAPULT_TEST_UNSET_VAR}")
		require.Error(t, err)

		var cfgErr *domain.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "networks.goerli.url", cfgErr.Key)
		assert.Contains(t, cfgErr.Reason, "CATAPULT_TEST_UNSET_VAR")
	})

	t.Run("empty but set variable is accepted", func(t *testing.T) {
		t.Setenv("CATAPULT_TEST_EMPTY", "")
		got, err := ExpandEnvStrict("k", "${CATAPULT_TEST_EMPTY}")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})
}
