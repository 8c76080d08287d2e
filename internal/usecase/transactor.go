package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// txRequest describes one state-changing transaction before it is built
type txRequest struct {
	To       *common.Address // nil for contract creation
	Data     []byte
	Value    *big.Int
	GasLimit uint64 // 0 = estimate
}

// estimateError marks a gas estimation failure so callers can decode the revert it carries
type estimateError struct {
	err error
}

func (e *estimateError) Error() string { return fmt.Sprintf("gas estimation failed: %v", e.err) }
func (e *estimateError) Unwrap() error { return e.err }

// buildAndSend builds, signs and submits one transaction. Callers must serialize calls that
// share a signer: the nonce is read from the pending pool and not reserved.
func buildAndSend(ctx context.Context, backend ChainBackend, signer Signer, req txRequest, log *slog.Logger) (*models.PendingTx, error) {
	from := signer.Address()
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, &domain.SubmissionError{Stage: "build", Err: fmt.Errorf("failed to get chain id: %w", err)}
	}

	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, &domain.SubmissionError{Stage: "build", Err: fmt.Errorf("failed to get nonce: %w", err)}
	}

	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, &domain.SubmissionError{Stage: "build", Err: fmt.Errorf("failed to get gas price: %w", err)}
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit, err = backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  from,
			To:    req.To,
			Value: value,
			Data:  req.Data,
		})
		if err != nil {
			return nil, &domain.SubmissionError{Stage: "build", Err: &estimateError{err: err}}
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       req.To,
		Value:    value,
		Data:     req.Data,
	})
	pending := &models.PendingTx{Tx: tx, From: from, State: domain.TxStateBuilt}

	signed, err := signer.SignTx(tx, chainID)
	if err != nil {
		return nil, &domain.SubmissionError{Stage: "build", Err: fmt.Errorf("failed to sign transaction: %w", err)}
	}
	pending.Tx = signed

	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, &domain.SubmissionError{Stage: "send", TxHash: signed.Hash().Hex(), Err: err}
	}
	pending.State, _ = pending.State.Transition(domain.TxStateSubmitted)

	log.Info("transaction submitted", "tx", signed.Hash().Hex(), "from", from.Hex(), "nonce", nonce, "gas", gasLimit)
	return pending, nil
}
