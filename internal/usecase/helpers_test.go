package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/adapters/abi"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/testutil"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWaiter(timeout time.Duration) *usecase.ConfirmationWaiter {
	cfg := &config.RuntimeConfig{PollInterval: time.Millisecond, Timeout: timeout}
	return usecase.NewConfirmationWaiter(cfg, usecase.NopProgress{}, discardLogger())
}

func newDeployer() *usecase.Deployer {
	return usecase.NewDeployer(newWaiter(2*time.Second), usecase.NopProgress{}, discardLogger())
}

func newCaller() *usecase.ContractCaller {
	return usecase.NewContractCaller(newWaiter(2*time.Second), abi.NewCodec(), usecase.NopProgress{}, discardLogger())
}

// newChain returns a chain that mines one block per poll, with the first six dev accounts funded
func newChain() *testutil.Chain {
	c := testutil.NewChain(31337, testutil.Programs()...)
	c.MineOnPoll = true
	for i := range testutil.DevKeys {
		c.Fund(testutil.NewSigner(i).Address(), testutil.Ether(100))
	}
	return c
}

func deploy(t *testing.T, c *testutil.Chain, signer usecase.Signer, spec *testutil.ProgramSpec, args ...any) usecase.CallTarget {
	t.Helper()
	res, err := newDeployer().Deploy(context.Background(), c, usecase.DeploymentRequest{
		Artifact:      testutil.Artifact(spec),
		Signer:        signer,
		Confirmations: 1,
		Args:          args,
	})
	require.NoError(t, err)
	return usecase.CallTarget{Address: common.HexToAddress(res.ContractAddress), Artifact: testutil.Artifact(spec)}
}

// deployPriceFeed deploys a MockV3Aggregator answering 2000 USD with 8 decimals
func deployPriceFeed(t *testing.T, c *testutil.Chain, signer usecase.Signer) usecase.CallTarget {
	return deploy(t, c, signer, testutil.MockV3Aggregator, uint8(8), big.NewInt(2000_00000000))
}

type fakeConnector struct {
	backend usecase.ChainBackend
	err     error
	calls   int
}

func (f *fakeConnector) Connect(ctx context.Context, network *config.Network) (usecase.ChainBackend, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if network.ChainID == 0 {
		network.ChainID = 31337
	}
	return f.backend, nil
}

type fakeSigners struct {
	signers []usecase.Signer
}

func (f *fakeSigners) Signers(ctx context.Context, network *config.Network) ([]usecase.Signer, error) {
	if len(f.signers) == 0 {
		return nil, domain.ErrNoAccounts
	}
	return f.signers, nil
}

func (f *fakeSigners) Signer(ctx context.Context, network *config.Network, ref string) (usecase.Signer, error) {
	if len(f.signers) == 0 {
		return nil, domain.ErrNoAccounts
	}
	for _, s := range f.signers {
		if ref != "" && common.HexToAddress(ref) == s.Address() {
			return s, nil
		}
	}
	return f.signers[0], nil
}

type fakeArtifacts map[string]*models.ContractArtifact

func (f fakeArtifacts) Load(ctx context.Context, ref string) (*models.ContractArtifact, error) {
	if a, ok := f[ref]; ok {
		return a, nil
	}
	return nil, &domain.ArtifactError{Path: ref, Reason: "not found", Err: domain.ErrNotFound}
}

func artifactsOf(specs ...*testutil.ProgramSpec) fakeArtifacts {
	out := fakeArtifacts{}
	for _, spec := range specs {
		a := testutil.Artifact(spec)
		out[spec.Name] = a
		out[a.Path] = a
	}
	return out
}

type recordedGas struct {
	mu     sync.Mutex
	usages []usecase.GasUsage
}

func (r *recordedGas) Record(ctx context.Context, usage usecase.GasUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usages = append(r.usages, usage)
	return nil
}

type firstSelector struct {
	prompts []string
}

func (s *firstSelector) SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error) {
	s.prompts = append(s.prompts, prompt)
	return deployments[0], nil
}

func localhost() *config.Network {
	return &config.Network{
		Name:          "localhost",
		ChainID:       31337,
		RPCURL:        "http://127.0.0.1:8545",
		Confirmations: 1,
		Development:   true,
	}
}
