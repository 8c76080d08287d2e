package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// CallTarget is a deployed contract addressed through its ABI
type CallTarget struct {
	Address  common.Address
	Artifact *models.ContractArtifact
}

func (t CallTarget) name() string {
	if t.Artifact != nil {
		return t.Artifact.Name
	}
	return ""
}

// WriteRequest is one state-changing call
type WriteRequest struct {
	Signer        Signer
	Method        string
	Args          []any
	Value         *big.Int
	Confirmations uint64
	GasLimit      uint64
}

// ContractCaller runs read calls and write transactions against a deployed contract by
// method name. Writes follow the same submit and wait contract as deployments.
type ContractCaller struct {
	waiter   *ConfirmationWaiter
	codec    ABICodec
	progress ProgressSink
	log      *slog.Logger
}

// NewContractCaller creates a new ContractCaller
func NewContractCaller(waiter *ConfirmationWaiter, codec ABICodec, progress ProgressSink, log *slog.Logger) *ContractCaller {
	return &ContractCaller{
		waiter:   waiter,
		codec:    codec,
		progress: progress,
		log:      log,
	}
}

// CallRead executes method as an eth_call against the latest block and decodes the outputs
func (c *ContractCaller) CallRead(ctx context.Context, backend ChainBackend, target CallTarget, method string, args ...any) (*models.CallResult, error) {
	if target.Artifact == nil {
		return nil, &domain.ArtifactError{Reason: "artifact is nil"}
	}
	m, err := target.Artifact.Method(method)
	if err != nil {
		return nil, &domain.ContractCallError{Method: method, Err: err}
	}

	data, err := target.Artifact.ABI.Pack(m.Name, args...)
	if err != nil {
		return nil, &domain.ContractCallError{Method: m.Sig, Reason: "invalid arguments", Err: err}
	}

	out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &target.Address, Data: data}, nil)
	if err != nil {
		return nil, &domain.ContractCallError{
			Method: m.Sig,
			Reason: c.codec.RevertReason(&target.Artifact.ABI, err),
			Err:    err,
		}
	}
	if len(out) == 0 && len(m.Outputs) > 0 {
		return nil, &domain.ContractCallError{
			Method: m.Sig,
			Reason: "empty return data",
			Err:    fmt.Errorf("no contract code at %s", target.Address.Hex()),
		}
	}

	values, err := m.Outputs.Unpack(out)
	if err != nil {
		return nil, &domain.ContractCallError{Method: m.Sig, Reason: "failed to decode outputs", Err: err}
	}

	return &models.CallResult{
		Contract: target.name(),
		Address:  target.Address.Hex(),
		Method:   m.Sig,
		Outputs:  c.codec.FormatOutputs(m.Outputs, values),
	}, nil
}

// CallWrite submits one transaction invoking method and waits for req.Confirmations.
// A call that reverts, during estimation or in its receipt, is a *domain.ContractCallError
// wrapping domain.ErrTransactionReverted. Callers must serialize writes sharing a signer.
func (c *ContractCaller) CallWrite(ctx context.Context, backend ChainBackend, target CallTarget, req WriteRequest) (*models.WriteResult, error) {
	if target.Artifact == nil {
		return nil, &domain.ArtifactError{Reason: "artifact is nil"}
	}
	if req.Signer == nil {
		return nil, fmt.Errorf("write requires a signer: %w", domain.ErrNoAccounts)
	}
	m, err := target.Artifact.Method(req.Method)
	if err != nil {
		return nil, &domain.ContractCallError{Method: req.Method, Err: err}
	}
	if req.Value != nil && req.Value.Sign() > 0 && !m.IsPayable() {
		return nil, &domain.ContractCallError{Method: m.Sig, Reason: "method is not payable", Err: domain.ErrTransactionReverted}
	}

	data, err := target.Artifact.ABI.Pack(m.Name, req.Args...)
	if err != nil {
		return nil, &domain.ContractCallError{Method: m.Sig, Reason: "invalid arguments", Err: err}
	}

	c.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "sending",
		Message: fmt.Sprintf("Calling %s.%s", target.name(), m.Name),
		Spinner: true,
	})

	to := target.Address
	pending, err := buildAndSend(ctx, backend, req.Signer, txRequest{
		To:       &to,
		Data:     data,
		Value:    req.Value,
		GasLimit: req.GasLimit,
	}, c.log)
	if err != nil {
		var estErr *estimateError
		if errors.As(err, &estErr) {
			reason := c.codec.RevertReason(&target.Artifact.ABI, estErr.err)
			if reason != "" || strings.Contains(estErr.err.Error(), "revert") {
				return nil, &domain.ContractCallError{
					Method: m.Sig,
					Reason: reason,
					Err:    fmt.Errorf("%w: %v", domain.ErrTransactionReverted, estErr.err),
				}
			}
		}
		return nil, err
	}

	result := &models.WriteResult{
		Contract:        target.name(),
		Address:         target.Address.Hex(),
		Method:          m.Sig,
		TransactionHash: pending.Hash().Hex(),
		From:            pending.From.Hex(),
		Nonce:           pending.Nonce(),
		Value:           pending.Tx.Value(),
		State:           pending.State,
	}

	receipt, err := c.waiter.Wait(ctx, backend, pending, req.Confirmations)
	result.State = pending.State
	switch {
	case errors.Is(err, domain.ErrTransactionReverted):
		return nil, &domain.ContractCallError{
			Method: m.Sig,
			Err:    fmt.Errorf("%s: %w", result.TransactionHash, err),
		}
	case errors.Is(err, domain.ErrTransactionDropped):
		return nil, &domain.SubmissionError{Stage: "receipt", TxHash: result.TransactionHash, Err: err}
	case err != nil:
		return nil, err
	}

	if receipt != nil {
		result.Receipt = receipt
		result.Events = c.codec.DecodeLogs(&target.Artifact.ABI, receipt.Logs)
	}
	return result, nil
}
