package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// DeploymentRequest is constructed per invocation and discarded after one result
type DeploymentRequest struct {
	Artifact      *models.ContractArtifact
	Signer        Signer
	Confirmations uint64
	Args          []any    // constructor arguments, already typed for the ABI
	Value         *big.Int // sent to a payable constructor
	GasLimit      uint64   // 0 = estimate
}

// Deployer submits contract-creation transactions and waits for their confirmation
type Deployer struct {
	waiter   *ConfirmationWaiter
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployer creates a new Deployer
func NewDeployer(waiter *ConfirmationWaiter, progress ProgressSink, log *slog.Logger) *Deployer {
	return &Deployer{
		waiter:   waiter,
		progress: progress,
		log:      log,
	}
}

// Deploy submits exactly one contract-creation transaction signed by req.Signer and blocks
// until it has req.Confirmations descendant blocks. Nothing is retried.
//
// Artifact problems are reported as *domain.ArtifactError before the backend is touched.
// Rejection by the node, a reverted deployment or a dropped transaction are reported as
// *domain.SubmissionError; an unobserved confirmation as *domain.ConfirmationTimeout.
//
// The deployer does not serialize transactions: concurrent calls sharing a signer must be
// serialized by the caller to avoid nonce collisions.
func (d *Deployer) Deploy(ctx context.Context, backend ChainBackend, req DeploymentRequest) (*models.DeploymentResult, error) {
	input, err := req.Artifact.PackConstructor(req.Args...)
	if err != nil {
		return nil, err
	}
	if req.Signer == nil {
		return nil, fmt.Errorf("deploy requires a signer: %w", domain.ErrNoAccounts)
	}

	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Message: fmt.Sprintf("Deploying %s", req.Artifact.Name),
		Spinner: true,
	})

	pending, err := buildAndSend(ctx, backend, req.Signer, txRequest{
		Data:     input,
		Value:    req.Value,
		GasLimit: req.GasLimit,
	}, d.log)
	if err != nil {
		return nil, err
	}

	address := crypto.CreateAddress(pending.From, pending.Nonce())
	result := &models.DeploymentResult{
		ContractName:    req.Artifact.Name,
		ContractAddress: address.Hex(),
		TransactionHash: pending.Hash().Hex(),
		Deployer:        pending.From.Hex(),
		Nonce:           pending.Nonce(),
		State:           pending.State,
	}

	receipt, err := d.waiter.Wait(ctx, backend, pending, req.Confirmations)
	result.State = pending.State
	if err != nil {
		if errors.Is(err, domain.ErrTransactionReverted) || errors.Is(err, domain.ErrTransactionDropped) {
			return nil, &domain.SubmissionError{Stage: "receipt", TxHash: result.TransactionHash, Err: err}
		}
		return nil, err
	}

	if receipt != nil {
		result.Receipt = receipt
		if receipt.ContractAddress != "" {
			result.ContractAddress = receipt.ContractAddress
		}
	}

	d.log.Debug("deployment finished", "contract", result.ContractName, "address", result.ContractAddress, "state", result.State)
	return result, nil
}
