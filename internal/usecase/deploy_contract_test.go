package usecase_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/adapters/abi"
	"github.com/trebuchet-org/catapult/internal/adapters/fs"
	internalconfig "github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/testutil"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

type deployEnv struct {
	cfg       *config.RuntimeConfig
	chain     *testutil.Chain
	connector *fakeConnector
	repo      *fs.RegistryStore
	gas       *recordedGas
	artifacts fakeArtifacts
	uc        *usecase.DeployContract
}

func newDeployEnv(t *testing.T) *deployEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.RuntimeConfig{
		ProjectRoot: dir,
		DataDir:     filepath.Join(dir, ".catapult"),
		NetworkName: "localhost",
		Network:     localhost(),
	}
	repo, err := fs.NewRegistryStore(cfg)
	require.NoError(t, err)

	env := &deployEnv{
		cfg:       cfg,
		chain:     newChain(),
		repo:      repo,
		gas:       &recordedGas{},
		artifacts: artifactsOf(testutil.Programs()...),
	}
	env.connector = &fakeConnector{backend: env.chain}
	signers := &fakeSigners{signers: []usecase.Signer{testutil.NewSigner(0)}}
	env.uc = usecase.NewDeployContract(cfg, env.connector, signers, env.artifacts, abi.NewCodec(),
		newDeployer(), repo, env.gas, usecase.NopProgress{}, discardLogger())
	return env
}

func TestDeployContract_Batch(t *testing.T) {
	ctx := context.Background()
	env := newDeployEnv(t)
	second := testutil.Artifact(testutil.SimpleStorage)
	second.Name = "SimpleStorageV2"
	env.artifacts["SimpleStorageV2"] = second

	result, err := env.uc.Run(ctx, usecase.DeployContractParams{Contracts: []string{"SimpleStorage", "SimpleStorageV2"}})
	require.NoError(t, err)
	require.Len(t, result.Deployments, 2)
	assert.NotEqual(t, result.Deployments[0].Result.ContractAddress, result.Deployments[1].Result.ContractAddress)
	assert.Equal(t, uint64(0), result.Deployments[0].Result.Nonce)
	assert.Equal(t, uint64(1), result.Deployments[1].Result.Nonce)

	dep, err := env.repo.GetDeployment(ctx, "localhost/31337/SimpleStorage")
	require.NoError(t, err)
	assert.Equal(t, result.Deployments[0].Result.ContractAddress, dep.Address)
	assert.Equal(t, domain.TxStateConfirmed, dep.State)
	assert.Equal(t, result.Deployments[0].Result.TransactionHash, dep.Transaction.Hash)
	assert.Equal(t, uint64(1), dep.Transaction.BlockNumber)
	assert.Equal(t, models.VerificationStatusUnverified, dep.Verification.Status)
	assert.NotEmpty(t, dep.Artifact.BytecodeHash)

	require.Len(t, env.gas.usages, 2)
	assert.Equal(t, "deploy", env.gas.usages[0].Method)
	assert.Equal(t, "SimpleStorage", env.gas.usages[0].Contract)
	assert.Equal(t, "localhost", env.gas.usages[0].Network)
	assert.Positive(t, env.gas.usages[0].GasUsed)
}

func TestDeployContract_PriceFeedPlaceholder(t *testing.T) {
	ctx := context.Background()
	env := newDeployEnv(t)

	_, err := env.uc.Run(ctx, usecase.DeployContractParams{Contracts: []string{"FundMe"}, Args: []string{"@priceFeed"}})
	require.ErrorIs(t, err, domain.ErrNotFound)

	mock, err := env.uc.Run(ctx, usecase.DeployContractParams{
		Contracts: []string{"MockV3Aggregator"},
		Args:      []string{"8", "200000000000"},
	})
	require.NoError(t, err)
	feed := mock.Deployments[0].Result.ContractAddress

	result, err := env.uc.Run(ctx, usecase.DeployContractParams{Contracts: []string{"FundMe"}, Args: []string{"@priceFeed"}})
	require.NoError(t, err)
	record := result.Deployments[0].Record
	assert.Equal(t, []string{feed}, record.Args)
	assert.NotEmpty(t, record.ArgsData)

	out, err := newCaller().CallRead(ctx, env.chain, usecase.CallTarget{
		Address:  common.HexToAddress(record.Address),
		Artifact: testutil.Artifact(testutil.FundMe),
	}, "getPriceFeed")
	require.NoError(t, err)
	assert.Equal(t, feed, out.Outputs[0].Value)
}

func TestDeployContract_ConfiguredPriceFeed(t *testing.T) {
	env := newDeployEnv(t)
	feed := deployPriceFeed(t, env.chain, testutil.NewSigner(1))
	env.cfg.Network.PriceFeed = feed.Address.Hex()

	result, err := env.uc.Run(context.Background(), usecase.DeployContractParams{Contracts: []string{"FundMe"}, Args: []string{"@priceFeed"}})
	require.NoError(t, err)
	assert.Equal(t, []string{feed.Address.Hex()}, result.Deployments[0].Record.Args)
}

func TestDeployContract_RejectsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name   string
		params usecase.DeployContractParams
		setup  func(env *deployEnv)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "no contracts",
			params: usecase.DeployContractParams{},
		},
		{
			name:   "args with several contracts",
			params: usecase.DeployContractParams{Contracts: []string{"SimpleStorage", "FundMe"}, Args: []string{"0x01"}},
		},
		{
			name:   "unknown artifact",
			params: usecase.DeployContractParams{Contracts: []string{"Missing"}},
			check: func(t *testing.T, err error) {
				var artifactErr *domain.ArtifactError
				assert.ErrorAs(t, err, &artifactErr)
			},
		},
		{
			name:   "empty bytecode",
			params: usecase.DeployContractParams{Contracts: []string{"Empty"}},
			setup: func(env *deployEnv) {
				empty := testutil.Artifact(testutil.SimpleStorage)
				empty.Bytecode = nil
				env.artifacts["Empty"] = empty
			},
			check: func(t *testing.T, err error) {
				var artifactErr *domain.ArtifactError
				assert.ErrorAs(t, err, &artifactErr)
			},
		},
		{
			name:   "constructor args missing in batch",
			params: usecase.DeployContractParams{Contracts: []string{"SimpleStorage", "FundMe"}},
			check: func(t *testing.T, err error) {
				var artifactErr *domain.ArtifactError
				assert.ErrorAs(t, err, &artifactErr)
			},
		},
		{
			name:   "invalid value",
			params: usecase.DeployContractParams{Contracts: []string{"SimpleStorage"}, Value: "lots"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newDeployEnv(t)
			if tt.setup != nil {
				tt.setup(env)
			}
			result, err := env.uc.Run(context.Background(), tt.params)
			require.Error(t, err)
			assert.Nil(t, result)
			if tt.check != nil {
				tt.check(t, err)
			}
			assert.Zero(t, env.connector.calls)
			assert.Zero(t, env.chain.TotalCalls())

			deployments, err := env.repo.ListDeployments(context.Background(), domain.DeploymentFilter{})
			require.NoError(t, err)
			assert.Empty(t, deployments)
		})
	}
}

func TestDeployContract_ZeroConfirmations(t *testing.T) {
	env := newDeployEnv(t)
	env.chain.Automine = false
	env.cfg.ConfirmationsSet = true
	env.cfg.Confirmations = 0

	result, err := env.uc.Run(context.Background(), usecase.DeployContractParams{Contracts: []string{"SimpleStorage"}})
	require.NoError(t, err)
	record := result.Deployments[0].Record
	assert.Equal(t, domain.TxStateSubmitted, record.State)
	assert.Zero(t, record.Transaction.BlockNumber)
	assert.Nil(t, result.Deployments[0].Result.Receipt)
	assert.Empty(t, env.gas.usages)
}

func TestDeployContract_AutominingLocalhost(t *testing.T) {
	t.Setenv("LOCALHOST_RPC_URL", "")
	env := newDeployEnv(t)
	env.chain.Automine = true
	env.chain.MineOnPoll = false

	network, err := internalconfig.NewNetworkResolver(env.cfg.DataDir, config.DefaultProjectConfig()).
		Resolve(context.Background(), "localhost")
	require.NoError(t, err)
	env.cfg.Network = network

	result, err := env.uc.Run(context.Background(), usecase.DeployContractParams{Contracts: []string{"SimpleStorage"}})
	require.NoError(t, err)
	require.Len(t, result.Deployments, 1)
	assert.Equal(t, domain.TxStateSubmitted, result.Deployments[0].Record.State)

	deployments, err := env.repo.ListDeployments(context.Background(), domain.DeploymentFilter{})
	require.NoError(t, err)
	require.Len(t, deployments, 1)
	assert.Equal(t, result.Deployments[0].Result.ContractAddress, deployments[0].Address)

	head, err := env.chain.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), head)
	code, err := env.chain.CodeAt(context.Background(), common.HexToAddress(deployments[0].Address), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}

func TestDeployContract_SubmissionFailureSavesNothing(t *testing.T) {
	env := newDeployEnv(t)
	env.chain.Fund(testutil.NewSigner(0).Address(), testutil.Ether(0))

	_, err := env.uc.Run(context.Background(), usecase.DeployContractParams{Contracts: []string{"SimpleStorage"}})
	var subErr *domain.SubmissionError
	require.ErrorAs(t, err, &subErr)

	deployments, err := env.repo.ListDeployments(context.Background(), domain.DeploymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, deployments)
}
