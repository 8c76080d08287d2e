package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/testutil"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestListNetworks(t *testing.T) {
	ctx := context.Background()
	dev := localhost()
	dev.Accounts = []string{"0x01", "0x02"}
	networks := fakeNetworks{"localhost": dev, "sepolia": sepolia()}
	cfg := &config.RuntimeConfig{NetworkName: "localhost", Network: dev}

	result, err := usecase.NewListNetworks(cfg, networks, &fakeConnector{}).Run(ctx, usecase.ListNetworksParams{})
	require.NoError(t, err)
	assert.Equal(t, "localhost", result.Current)
	require.Len(t, result.Networks, 2)
	assert.Equal(t, "localhost", result.Networks[0].Name)
	assert.Equal(t, 2, result.Networks[0].Accounts)
	assert.True(t, result.Networks[0].Development)
	assert.False(t, result.Networks[0].Reachable)
	assert.Equal(t, uint64(11155111), result.Networks[1].ChainID)

	connector := &fakeConnector{err: errors.New("connection refused")}
	result, err = usecase.NewListNetworks(cfg, networks, connector).Run(ctx, usecase.ListNetworksParams{Probe: true})
	require.NoError(t, err)
	assert.Equal(t, 2, connector.calls)
	assert.Equal(t, "connection refused", result.Networks[0].Error)
	assert.False(t, result.Networks[0].Reachable)
}

func TestListAccounts(t *testing.T) {
	ctx := context.Background()
	chain := newChain()
	deploy(t, chain, testutil.NewSigner(1), testutil.SimpleStorage)
	signers := &fakeSigners{signers: []usecase.Signer{testutil.NewSigner(0), testutil.NewSigner(1)}}

	uc := usecase.NewListAccounts(&config.RuntimeConfig{Network: localhost()}, &fakeConnector{backend: chain}, signers)
	result, err := uc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), result.ChainID)
	require.Len(t, result.Accounts, 2)
	assert.Equal(t, testutil.NewSigner(0).Address().Hex(), result.Accounts[0].Address)
	assert.Equal(t, testutil.Ether(100), result.Accounts[0].Balance)
	assert.Equal(t, uint64(0), result.Accounts[0].Nonce)
	assert.Equal(t, 1, result.Accounts[1].Index)
	assert.Equal(t, uint64(1), result.Accounts[1].Nonce)
	assert.Equal(t, -1, result.Accounts[1].Balance.Cmp(testutil.Ether(100)))

	_, err = usecase.NewListAccounts(&config.RuntimeConfig{Network: localhost()}, &fakeConnector{backend: chain}, &fakeSigners{}).Run(ctx)
	assert.ErrorIs(t, err, domain.ErrNoAccounts)
}

func TestShowBalance(t *testing.T) {
	ctx := context.Background()
	env := newDeployEnv(t)
	feed := deployPriceFeed(t, env.chain, testutil.NewSigner(0))
	env.cfg.Network.PriceFeed = feed.Address.Hex()
	deployed, err := env.uc.Run(ctx, usecase.DeployContractParams{Contracts: []string{"FundMe"}, Args: []string{"@priceFeed"}})
	require.NoError(t, err)
	fundMe := deployed.Deployments[0].Record

	funder := testutil.NewSigner(2)
	target := usecase.CallTarget{Address: common.HexToAddress(fundMe.Address), Artifact: testutil.Artifact(testutil.FundMe)}
	_, err = newCaller().CallWrite(ctx, env.chain, target, usecase.WriteRequest{
		Signer:        funder,
		Method:        "fund",
		Value:         testutil.Ether(1),
		Confirmations: 1,
	})
	require.NoError(t, err)

	signers := &fakeSigners{signers: []usecase.Signer{testutil.NewSigner(0)}}
	uc := usecase.NewShowBalance(env.cfg, env.connector, signers, env.repo, &firstSelector{})

	byName, err := uc.Run(ctx, "FundMe")
	require.NoError(t, err)
	assert.Equal(t, "FundMe", byName.Label)
	assert.Equal(t, testutil.Ether(1), byName.Balance)

	byAddress, err := uc.Run(ctx, fundMe.Address)
	require.NoError(t, err)
	assert.Equal(t, "FundMe", byAddress.Label)
	assert.Equal(t, fundMe.Address, byAddress.Address)

	account, err := uc.Run(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "account", account.Label)
	assert.Equal(t, testutil.NewSigner(0).Address().Hex(), account.Address)

	plain, err := uc.Run(ctx, funder.Address().Hex())
	require.NoError(t, err)
	assert.Empty(t, plain.Label)

	_, err = uc.Run(ctx, "Raffle")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShowBlockNumber(t *testing.T) {
	chain := testutil.NewChain(31337)
	chain.Mine(3)

	result, err := usecase.NewShowBlockNumber(&config.RuntimeConfig{Network: localhost()}, &fakeConnector{backend: chain}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.BlockNumber)
	assert.Equal(t, "localhost", result.Network)

	_, err = usecase.NewShowBlockNumber(&config.RuntimeConfig{}, &fakeConnector{backend: chain}).Run(context.Background())
	assert.Error(t, err)
}
