package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// PriceFeedPlaceholder in constructor arguments resolves to the network's price feed
const PriceFeedPlaceholder = "@priceFeed"

// PriceFeedMock is the contract looked up in the registry for a development price feed
const PriceFeedMock = "MockV3Aggregator"

// DeployContractParams contains parameters for deploying contracts
type DeployContractParams struct {
	Contracts []string // contract names or artifact paths, deployed in order
	Args      []string // constructor arguments; only with a single contract
	Value     string   // sent to a payable constructor, e.g. "0.1ether"
	GasLimit  uint64
}

// DeployedContract is one finished deployment and its registry record
type DeployedContract struct {
	Result *models.DeploymentResult `json:"result" yaml:"result"`
	Record *models.Deployment       `json:"record" yaml:"record"`
}

// DeployContractResult contains the deployments made by one invocation
type DeployContractResult struct {
	Network     *config.Network     `json:"network" yaml:"network"`
	Deployments []*DeployedContract `json:"deployments" yaml:"deployments"`
}

// DeployContract loads artifacts, deploys them one after another with a single signing
// identity and records each deployment in the registry
type DeployContract struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	signers   SignerProvider
	artifacts ArtifactLoader
	codec     ABICodec
	deployer  *Deployer
	repo      DeploymentRepository
	gas       GasRecorder
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	connector ChainConnector,
	signers SignerProvider,
	artifacts ArtifactLoader,
	codec ABICodec,
	deployer *Deployer,
	repo DeploymentRepository,
	gas GasRecorder,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		config:    cfg,
		connector: connector,
		signers:   signers,
		artifacts: artifacts,
		codec:     codec,
		deployer:  deployer,
		repo:      repo,
		gas:       gas,
		progress:  progress,
		log:       log,
	}
}

// Run deploys every requested contract. Artifacts are loaded and checked before the network
// is contacted. When a deployment fails the contracts deployed before it are returned along
// with the error.
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	if len(params.Contracts) == 0 {
		return nil, fmt.Errorf("no contract to deploy")
	}
	if len(params.Args) > 0 && len(params.Contracts) > 1 {
		return nil, fmt.Errorf("constructor arguments can only be passed when deploying a single contract")
	}

	artifacts := make([]*models.ContractArtifact, 0, len(params.Contracts))
	for _, ref := range params.Contracts {
		artifact, err := uc.artifacts.Load(ctx, ref)
		if err != nil {
			return nil, err
		}
		if err := artifact.Validate(); err != nil {
			return nil, err
		}
		if want := len(artifact.ABI.Constructor.Inputs); want != len(params.Args) {
			return nil, &domain.ArtifactError{
				Path:   artifact.Path,
				Reason: fmt.Sprintf("constructor expects %d arguments, got %d", want, len(params.Args)),
			}
		}
		artifacts = append(artifacts, artifact)
	}

	value, err := uc.parseValue(params.Value)
	if err != nil {
		return nil, err
	}

	s, err := openSession(ctx, uc.config, uc.connector, uc.signers, true)
	if err != nil {
		return nil, err
	}

	result := &DeployContractResult{Network: s.network}
	for _, artifact := range artifacts {
		deployed, err := uc.deployOne(ctx, s, artifact, params, value)
		if err != nil {
			return result, fmt.Errorf("failed to deploy %s: %w", artifact.Name, err)
		}
		result.Deployments = append(result.Deployments, deployed)
	}
	return result, nil
}

func (uc *DeployContract) deployOne(ctx context.Context, s *session, artifact *models.ContractArtifact, params DeployContractParams, value *big.Int) (*DeployedContract, error) {
	raw, err := uc.resolvePlaceholders(ctx, s.network, params.Args)
	if err != nil {
		return nil, err
	}
	args, err := uc.codec.CoerceArgs(artifact.ABI.Constructor.Inputs, raw)
	if err != nil {
		return nil, &domain.ArtifactError{Path: artifact.Path, Reason: "invalid constructor arguments", Err: err}
	}

	res, err := uc.deployer.Deploy(ctx, s.backend, DeploymentRequest{
		Artifact:      artifact,
		Signer:        s.signer,
		Confirmations: uc.config.EffectiveConfirmations(),
		Args:          args,
		Value:         value,
		GasLimit:      params.GasLimit,
	})
	if err != nil {
		return nil, err
	}

	record := uc.record(s.network, artifact, res, raw, args)
	if err := uc.repo.SaveDeployment(ctx, record); err != nil {
		// the contract is deployed even when recording fails
		uc.log.Warn("failed to record deployment", "contract", artifact.Name, "error", err)
		uc.progress.Error(fmt.Sprintf("Deployment of %s not recorded: %v", artifact.Name, err))
	}

	if res.Receipt != nil {
		uc.recordGas(ctx, GasUsage{
			Network:  s.network.Name,
			Contract: artifact.Name,
			Method:   "deploy",
			GasUsed:  res.Receipt.GasUsed,
			GasPrice: res.Receipt.EffectiveGasPrice,
			TxHash:   res.TransactionHash,
		})
	}

	return &DeployedContract{Result: res, Record: record}, nil
}

func (uc *DeployContract) record(network *config.Network, artifact *models.ContractArtifact, res *models.DeploymentResult, raw []string, args []any) *models.Deployment {
	dep := &models.Deployment{
		ID:           models.DeploymentID(network.Name, network.ChainID, artifact.Name),
		Network:      network.Name,
		ChainID:      network.ChainID,
		ContractName: artifact.Name,
		Address:      res.ContractAddress,
		Deployer:     res.Deployer,
		State:        res.State,
		Transaction:  models.DeploymentTx{Hash: res.TransactionHash},
		Artifact: models.ArtifactInfo{
			Path:            artifact.Path,
			Format:          string(artifact.Format),
			CompilerVersion: artifact.CompilerVersion,
			BytecodeHash:    artifact.BytecodeHash(),
		},
		Args: raw,
	}
	if len(args) > 0 {
		if encoded, err := artifact.ABI.Pack("", args...); err == nil {
			dep.ArgsData = hexutil.Encode(encoded)
		}
	}
	if res.Receipt != nil {
		dep.Transaction.BlockNumber = res.Receipt.BlockNumber
		dep.Transaction.GasUsed = res.Receipt.GasUsed
	}
	return dep
}

// resolvePlaceholders substitutes @priceFeed with the configured feed, or on a development
// network with the latest MockV3Aggregator in the registry
func (uc *DeployContract) resolvePlaceholders(ctx context.Context, network *config.Network, raw []string) ([]string, error) {
	if !lo.Contains(raw, PriceFeedPlaceholder) {
		return raw, nil
	}

	feed := network.PriceFeed
	if feed == "" {
		mocks, err := uc.repo.ListDeployments(ctx, domain.DeploymentFilter{
			Network:      network.Name,
			ChainID:      network.ChainID,
			ContractName: PriceFeedMock,
		})
		if err != nil {
			return nil, err
		}
		if len(mocks) == 0 {
			return nil, fmt.Errorf("no price feed for network %s: set price_feed or deploy %s first: %w",
				network.Name, PriceFeedMock, domain.ErrNotFound)
		}
		feed = mocks[0].Address
	}
	if !common.IsHexAddress(feed) {
		return nil, fmt.Errorf("price feed %q: %w", feed, domain.ErrInvalidAddress)
	}

	uc.log.Debug("resolved price feed", "network", network.Name, "address", feed)
	return lo.Map(raw, func(arg string, _ int) string {
		if arg == PriceFeedPlaceholder {
			return feed
		}
		return arg
	}), nil
}

func (uc *DeployContract) parseValue(raw string) (*big.Int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := uc.codec.ParseValue(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", raw, err)
	}
	return value, nil
}

func (uc *DeployContract) recordGas(ctx context.Context, usage GasUsage) {
	if err := uc.gas.Record(ctx, usage); err != nil && !errors.Is(err, context.Canceled) {
		uc.log.Warn("failed to record gas usage", "tx", usage.TxHash, "error", err)
	}
}
