package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNoAccounts is returned when a network has no signing account configured
	ErrNoAccounts = errors.New("no accounts configured")

	// ErrTransactionReverted is returned when a mined transaction reports a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrTransactionDropped is returned when the sender's nonce moved past a transaction
	// that never produced a receipt
	ErrTransactionDropped = errors.New("transaction dropped or replaced")
)

// ArtifactError reports a missing, malformed or inconsistent compiled artifact.
// It is always raised before any network call is made.
type ArtifactError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ArtifactError) Error() string {
	msg := "invalid artifact"
	if e.Path != "" {
		msg = fmt.Sprintf("invalid artifact %s", e.Path)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// SubmissionError reports that the node rejected a transaction, or that a submitted
// transaction ended up reverted or dropped.
type SubmissionError struct {
	Stage  string // "build", "send", "receipt"
	TxHash string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("transaction %s failed at %s: %v", e.TxHash, e.Stage, e.Err)
	}
	return fmt.Sprintf("transaction rejected at %s: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ConfirmationTimeout reports that inclusion, or the requested confirmation depth, was not
// observed before the wait bound elapsed or the caller's context ended. The transaction may
// still be mined later.
type ConfirmationTimeout struct {
	TxHash        string
	Confirmations uint64
	Waited        time.Duration
	Err           error
}

func (e *ConfirmationTimeout) Error() string {
	return fmt.Sprintf("transaction %s not confirmed (%d confirmations) after %s: %v",
		e.TxHash, e.Confirmations, e.Waited.Round(time.Millisecond), e.Err)
}

func (e *ConfirmationTimeout) Unwrap() error { return e.Err }

// ContractCallError reports a post-deployment read or write that reverted or could not be
// encoded/decoded against the contract ABI.
type ContractCallError struct {
	Method string
	Reason string // decoded revert reason or custom error name, if any
	Err    error
}

func (e *ContractCallError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("call %s failed: %s: %v", e.Method, e.Reason, e.Err)
	}
	return fmt.Sprintf("call %s failed: %v", e.Method, e.Err)
}

func (e *ContractCallError) Unwrap() error { return e.Err }

// ConfigError reports a fatal configuration problem detected at startup
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}
