package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// CallContractParams addresses one method of a deployed contract
type CallContractParams struct {
	Target   string // registry contract name or address
	Artifact string // artifact used for an address missing from the registry
	Method   string
	Args     []string
	Value    string // writes only
	GasLimit uint64 // writes only
}

// CallContract resolves a deployed contract through the registry and runs read calls and
// write transactions against it
type CallContract struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	signers   SignerProvider
	artifacts ArtifactLoader
	codec     ABICodec
	caller    *ContractCaller
	repo      DeploymentRepository
	selector  DeploymentSelector
	gas       GasRecorder
	log       *slog.Logger
}

// NewCallContract creates a new CallContract use case
func NewCallContract(
	cfg *config.RuntimeConfig,
	connector ChainConnector,
	signers SignerProvider,
	artifacts ArtifactLoader,
	codec ABICodec,
	caller *ContractCaller,
	repo DeploymentRepository,
	selector DeploymentSelector,
	gas GasRecorder,
	log *slog.Logger,
) *CallContract {
	return &CallContract{
		config:    cfg,
		connector: connector,
		signers:   signers,
		artifacts: artifacts,
		codec:     codec,
		caller:    caller,
		repo:      repo,
		selector:  selector,
		gas:       gas,
		log:       log,
	}
}

// Read runs a view call
func (uc *CallContract) Read(ctx context.Context, params CallContractParams) (*models.CallResult, error) {
	s, err := openSession(ctx, uc.config, uc.connector, uc.signers, false)
	if err != nil {
		return nil, err
	}
	target, args, err := uc.prepare(ctx, s.network, params)
	if err != nil {
		return nil, err
	}
	return uc.caller.CallRead(ctx, s.backend, *target, params.Method, args...)
}

// Write submits a transaction calling the method and waits for the configured confirmations.
// Writes from one account must not run concurrently.
func (uc *CallContract) Write(ctx context.Context, params CallContractParams) (*models.WriteResult, error) {
	s, err := openSession(ctx, uc.config, uc.connector, uc.signers, true)
	if err != nil {
		return nil, err
	}
	target, args, err := uc.prepare(ctx, s.network, params)
	if err != nil {
		return nil, err
	}

	var value *big.Int
	if params.Value != "" {
		value, err = uc.codec.ParseValue(params.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", params.Value, err)
		}
	}

	res, err := uc.caller.CallWrite(ctx, s.backend, *target, WriteRequest{
		Signer:        s.signer,
		Method:        params.Method,
		Args:          args,
		Value:         value,
		Confirmations: uc.config.EffectiveConfirmations(),
		GasLimit:      params.GasLimit,
	})
	if err != nil {
		return nil, err
	}

	if res.Receipt != nil {
		err := uc.gas.Record(ctx, GasUsage{
			Network:  s.network.Name,
			Contract: res.Contract,
			Method:   params.Method,
			GasUsed:  res.Receipt.GasUsed,
			GasPrice: res.Receipt.EffectiveGasPrice,
			TxHash:   res.TransactionHash,
		})
		if err != nil {
			uc.log.Warn("failed to record gas usage", "tx", res.TransactionHash, "error", err)
		}
	}
	return res, nil
}

// Resolve finds the address and artifact of a deployed contract. An address missing from
// the registry needs artifactRef.
func (uc *CallContract) Resolve(ctx context.Context, network *config.Network, ref, artifactRef string) (*CallTarget, error) {
	dep, err := findDeployment(ctx, uc.repo, uc.selector, network, ref)
	switch {
	case err == nil:
		if artifactRef == "" {
			artifactRef = artifactRefOf(dep)
		}
	case errors.Is(err, domain.ErrNotFound) && common.IsHexAddress(ref) && artifactRef != "":
		dep = &models.Deployment{Address: common.HexToAddress(ref).Hex()}
	case errors.Is(err, domain.ErrNotFound) && common.IsHexAddress(ref):
		return nil, fmt.Errorf("%s is not in the registry, pass --artifact: %w", ref, err)
	default:
		return nil, err
	}

	artifact, err := uc.artifacts.Load(ctx, artifactRef)
	if err != nil {
		return nil, err
	}
	return &CallTarget{Address: common.HexToAddress(dep.Address), Artifact: artifact}, nil
}

func (uc *CallContract) prepare(ctx context.Context, network *config.Network, params CallContractParams) (*CallTarget, []any, error) {
	target, err := uc.Resolve(ctx, network, params.Target, params.Artifact)
	if err != nil {
		return nil, nil, err
	}
	m, err := target.Artifact.Method(params.Method)
	if err != nil {
		return nil, nil, &domain.ContractCallError{Method: params.Method, Err: err}
	}
	args, err := uc.codec.CoerceArgs(m.Inputs, params.Args)
	if err != nil {
		return nil, nil, &domain.ContractCallError{Method: m.Sig, Reason: "invalid arguments", Err: err}
	}
	return target, args, nil
}

func artifactRefOf(dep *models.Deployment) string {
	if dep.Artifact.Path != "" {
		return dep.Artifact.Path
	}
	return dep.ContractName
}
