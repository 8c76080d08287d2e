package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

const (
	DefaultPollInterval = time.Second
	DefaultWaitTimeout  = 5 * time.Minute
)

// ConfirmationWaiter blocks until a submitted transaction is included and buried under the
// requested number of descendant blocks. It only observes; it never resubmits.
type ConfirmationWaiter struct {
	PollInterval time.Duration
	Timeout      time.Duration

	progress ProgressSink
	log      *slog.Logger
}

// NewConfirmationWaiter creates a waiter using the configured poll interval and wait bound
func NewConfirmationWaiter(cfg *config.RuntimeConfig, progress ProgressSink, log *slog.Logger) *ConfirmationWaiter {
	w := &ConfirmationWaiter{
		PollInterval: cfg.PollInterval,
		Timeout:      cfg.Timeout,
		progress:     progress,
		log:          log,
	}
	if w.PollInterval <= 0 {
		w.PollInterval = DefaultPollInterval
	}
	if w.Timeout <= 0 {
		w.Timeout = DefaultWaitTimeout
	}
	return w
}

// Wait observes pending until it reaches a terminal state. With confirmations == 0 it returns
// immediately with a nil receipt and leaves the transaction Submitted.
//
// A reverted receipt is returned together with ErrTransactionReverted. A transaction whose
// sender nonce was consumed without a receipt yields ErrTransactionDropped. Running out of
// time yields *domain.ConfirmationTimeout; the transaction may still be mined afterwards.
func (w *ConfirmationWaiter) Wait(ctx context.Context, backend ChainBackend, pending *models.PendingTx, confirmations uint64) (*models.Receipt, error) {
	if confirmations == 0 {
		return nil, nil
	}

	start := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		receipt, done, err := w.poll(waitCtx, backend, pending, confirmations)
		if done {
			return receipt, err
		}
		if err != nil {
			w.log.Debug("poll failed", "tx", pending.Hash().Hex(), "error", err)
		}

		select {
		case <-waitCtx.Done():
			waitErr := waitCtx.Err()
			if ctx.Err() != nil {
				waitErr = ctx.Err()
			}
			return nil, &domain.ConfirmationTimeout{
				TxHash:        pending.Hash().Hex(),
				Confirmations: confirmations,
				Waited:        time.Since(start),
				Err:           waitErr,
			}
		case <-ticker.C:
		}
	}
}

// poll performs one observation. done reports that a terminal outcome was reached.
func (w *ConfirmationWaiter) poll(ctx context.Context, backend ChainBackend, pending *models.PendingTx, confirmations uint64) (*models.Receipt, bool, error) {
	hash := pending.Hash()

	raw, found, err := receiptOf(ctx, backend, hash)
	if err != nil {
		return nil, false, err
	}
	if !found {
		mined, err := backend.NonceAt(ctx, pending.From, nil)
		if err != nil {
			return nil, false, err
		}
		if mined > pending.Nonce() {
			// the block carrying the transaction may have landed after the first lookup
			raw, found, err = receiptOf(ctx, backend, hash)
			if err != nil {
				return nil, false, err
			}
			if !found {
				w.transition(pending, domain.TxStateDropped)
				return nil, true, fmt.Errorf("nonce %d of %s already used: %w", pending.Nonce(), pending.From.Hex(), domain.ErrTransactionDropped)
			}
		}
	}
	if !found {
		w.transition(pending, domain.TxStatePending)
		w.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "waiting",
			Message: fmt.Sprintf("Waiting for %s to be mined", hash.Hex()),
			Spinner: true,
		})
		return nil, false, nil
	}

	receipt := models.ReceiptFromTypes(raw)
	if !receipt.Succeeded() {
		w.transition(pending, domain.TxStateReverted)
		return receipt, true, domain.ErrTransactionReverted
	}

	head, err := backend.BlockNumber(ctx)
	if err != nil {
		return nil, false, err
	}
	if head >= receipt.BlockNumber {
		receipt.Confirmations = head - receipt.BlockNumber
	}
	if receipt.Confirmations < confirmations {
		w.transition(pending, domain.TxStatePending)
		w.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "confirming",
			Current: int(receipt.Confirmations),
			Total:   int(confirmations),
			Message: fmt.Sprintf("Included in block %d, %d/%d confirmations", receipt.BlockNumber, receipt.Confirmations, confirmations),
			Spinner: true,
		})
		return nil, false, nil
	}

	w.transition(pending, domain.TxStateConfirmed)
	return receipt, true, nil
}

// receiptOf looks up the receipt of hash. found is false while the node has none.
func receiptOf(ctx context.Context, backend ChainBackend, hash common.Hash) (*types.Receipt, bool, error) {
	raw, err := backend.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) || (err == nil && raw == nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (w *ConfirmationWaiter) transition(pending *models.PendingTx, next domain.TxState) {
	if pending.State == next {
		return
	}
	state, err := pending.State.Transition(next)
	if err != nil {
		w.log.Debug("ignored transition", "tx", pending.Hash().Hex(), "error", err)
		return
	}
	w.log.Debug("transaction state", "tx", pending.Hash().Hex(), "from", pending.State, "to", state)
	pending.State = state
}
