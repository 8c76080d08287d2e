package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

func TestNetworkResolver_Resolve(t *testing.T) {
	six := uint64(6)
	project := config.DefaultProjectConfig()
	project.Networks["goerli"] = &config.NetworkConfig{
		URL:           "https://goerli.example.org",
		ChainID:       5,
		Accounts:      []string{"0x01"},
		Confirmations: &six,
	}
	project.Networks["nochain"] = &config.NetworkConfig{URL: "https://nochain.example.org"}
	project.Networks["remote"] = &config.NetworkConfig{URL: "https://remote.example.org", ChainID: 10}
	project.Networks["hardhat"] = &config.NetworkConfig{URL: "http://127.0.0.1:8546", ChainID: 31337, Development: true}
	project.Networks["ganache"] = &config.NetworkConfig{URL: "http://127.0.0.1:7545", ChainID: 1337, Development: true, Confirmations: &six}

	t.Run("configured network", func(t *testing.T) {
		r := NewNetworkResolver(t.TempDir(), project)

		network, err := r.Resolve(context.Background(), "goerli")
		require.NoError(t, err)
		assert.Equal(t, "goerli", network.Name)
		assert.Equal(t, uint64(5), network.ChainID)
		assert.Equal(t, uint64(6), network.Confirmations)
		assert.Equal(t, "https://goerli.etherscan.io", network.ExplorerURL)
		assert.Equal(t, []string{"0x01"}, network.Accounts)
	})

	t.Run("built-in localhost", func(t *testing.T) {
		t.Setenv("LOCALHOST_RPC_URL", "")
		t.Setenv("LOCALHOST_WALLET_PRIVATE_KEY", "")
		r := NewNetworkResolver(t.TempDir(), project)

		network, err := r.Resolve(context.Background(), "localhost")
		require.NoError(t, err)
		assert.Equal(t, DefaultLocalRPCURL, network.RPCURL)
		assert.Equal(t, uint64(DefaultDevChainID), network.ChainID)
		assert.True(t, network.Development)
		assert.Zero(t, network.Confirmations)
		assert.Equal(t, DevAccountKeys, network.Accounts)
	})

	t.Run("confirmation defaults", func(t *testing.T) {
		t.Setenv("LOCALHOST_RPC_URL", "")
		r := NewNetworkResolver(t.TempDir(), project)

		tests := []struct {
			network string
			want    uint64
		}{
			{network: "localhost", want: 0},
			{network: "hardhat", want: 0},
			{network: "ganache", want: 6},
			{network: "remote", want: 1},
			{network: "goerli", want: 6},
		}
		for _, tt := range tests {
			network, err := r.Resolve(context.Background(), tt.network)
			require.NoError(t, err)
			assert.Equal(t, tt.want, network.Confirmations, tt.network)
		}
	})

	t.Run("localhost url and key from env", func(t *testing.T) {
		t.Setenv("LOCALHOST_RPC_URL", "http://127.0.0.1:7545")
		t.Setenv("LOCALHOST_WALLET_PRIVATE_KEY", "0xabc")
		r := NewNetworkResolver(t.TempDir(), project)

		network, err := r.Resolve(context.Background(), "localhost")
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:7545", network.RPCURL)
		assert.Equal(t, []string{"0xabc"}, network.Accounts)
	})

	t.Run("chain id fetched once and cached", func(t *testing.T) {
		dataDir := t.TempDir()
		r := NewNetworkResolver(dataDir, project)
		calls := 0
		r.fetchChainID = func(ctx context.Context, rpcURL string) (uint64, error) {
			calls++
			return 1337, nil
		}

		for i := 0; i < 2; i++ {
			network, err := r.Resolve(context.Background(), "nochain")
			require.NoError(t, err)
			assert.Equal(t, uint64(1337), network.ChainID)
		}
		assert.Equal(t, 1, calls)

		// A new resolver reads the cache from disk
		r2 := NewNetworkResolver(dataDir, project)
		r2.fetchChainID = func(ctx context.Context, rpcURL string) (uint64, error) {
			t.Fatal("unexpected fetch")
			return 0, nil
		}
		network, err := r2.Resolve(context.Background(), "nochain")
		require.NoError(t, err)
		assert.Equal(t, uint64(1337), network.ChainID)
	})

	t.Run("unreachable node leaves chain id unresolved", func(t *testing.T) {
		r := NewNetworkResolver(t.TempDir(), project)
		r.fetchChainID = func(ctx context.Context, rpcURL string) (uint64, error) {
			return 0, errors.New("connection refused")
		}

		network, err := r.Resolve(context.Background(), "nochain")
		require.NoError(t, err)
		assert.Zero(t, network.ChainID)
	})

	t.Run("unknown network", func(t *testing.T) {
		r := NewNetworkResolver(t.TempDir(), project)

		_, err := r.Resolve(context.Background(), "mainnet")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("names include localhost", func(t *testing.T) {
		r := NewNetworkResolver(t.TempDir(), project)
		assert.Equal(t, []string{"ganache", "goerli", "hardhat", "localhost", "nochain", "remote"}, r.Names())
	})
}
