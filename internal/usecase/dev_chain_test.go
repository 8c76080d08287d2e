package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/testutil"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// chainRPC drives a testutil chain through the dev RPC port
type chainRPC struct {
	chain *testutil.Chain
	urls  []string
}

func (r *chainRPC) Mine(ctx context.Context, rpcURL string, blocks uint64) error {
	r.urls = append(r.urls, rpcURL)
	r.chain.Mine(int(blocks))
	return nil
}

func (r *chainRPC) IncreaseTime(ctx context.Context, rpcURL string, seconds uint64) error {
	r.urls = append(r.urls, rpcURL)
	r.chain.IncreaseTime(seconds)
	return nil
}

func TestDevChain(t *testing.T) {
	ctx := context.Background()

	t.Run("mine", func(t *testing.T) {
		chain := testutil.NewChain(31337)
		rpc := &chainRPC{chain: chain}
		uc := usecase.NewDevChain(&config.RuntimeConfig{Network: localhost()}, &fakeConnector{backend: chain}, rpc)

		result, err := uc.Mine(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), result.BlockNumber)
		assert.Equal(t, "mine", result.Operation)

		// zero mines one block
		result, err = uc.Mine(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(6), result.BlockNumber)
		assert.Equal(t, []string{"http://127.0.0.1:8545", "http://127.0.0.1:8545"}, rpc.urls)
	})

	t.Run("increase time mines a block", func(t *testing.T) {
		chain := testutil.NewChain(31337)
		rpc := &chainRPC{chain: chain}
		uc := usecase.NewDevChain(&config.RuntimeConfig{Network: localhost()}, &fakeConnector{backend: chain}, rpc)

		result, err := uc.IncreaseTime(ctx, 3600)
		require.NoError(t, err)
		assert.Equal(t, uint64(3600), result.Amount)
		assert.Equal(t, uint64(1), result.BlockNumber)
		assert.Len(t, rpc.urls, 2)
	})

	t.Run("refused on public networks", func(t *testing.T) {
		network := localhost()
		network.Name = "sepolia"
		network.Development = false
		rpc := &chainRPC{chain: testutil.NewChain(11155111)}
		connector := &fakeConnector{}
		uc := usecase.NewDevChain(&config.RuntimeConfig{Network: network}, connector, rpc)

		_, err := uc.Mine(ctx, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only available on development networks")
		assert.Empty(t, rpc.urls)
		assert.Zero(t, connector.calls)
	})

	t.Run("no network", func(t *testing.T) {
		uc := usecase.NewDevChain(&config.RuntimeConfig{}, &fakeConnector{}, &chainRPC{})
		_, err := uc.IncreaseTime(ctx, 1)
		assert.EqualError(t, err, "no network selected")
	})
}
