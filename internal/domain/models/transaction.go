package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// PendingTx is the local handle of a submitted transaction
type PendingTx struct {
	Tx    *types.Transaction
	From  common.Address
	State domain.TxState
}

// Hash returns the transaction hash
func (p *PendingTx) Hash() common.Hash {
	return p.Tx.Hash()
}

// Nonce returns the sender nonce the transaction was built with
func (p *PendingTx) Nonce() uint64 {
	return p.Tx.Nonce()
}

// DecodedEvent is a receipt log matched against the contract ABI
type DecodedEvent struct {
	Name    string         `json:"name" yaml:"name"`
	Address string         `json:"address" yaml:"address"`
	Args    map[string]any `json:"args" yaml:"args"`
	Index   uint           `json:"logIndex" yaml:"logIndex"`
}

// CallResult holds the decoded outputs of a read call
type CallResult struct {
	Contract string   `json:"contract" yaml:"contract"`
	Address  string   `json:"address" yaml:"address"`
	Method   string   `json:"method" yaml:"method"`
	Outputs  []Output `json:"outputs" yaml:"outputs"`
}

// Output is a single named return value
type Output struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// WriteResult is the outcome of a state-changing contract call
type WriteResult struct {
	Contract        string         `json:"contract" yaml:"contract"`
	Address         string         `json:"address" yaml:"address"`
	Method          string         `json:"method" yaml:"method"`
	TransactionHash string         `json:"transactionHash" yaml:"transactionHash"`
	From            string         `json:"from" yaml:"from"`
	Nonce           uint64         `json:"nonce" yaml:"nonce"`
	Value           *big.Int       `json:"value" yaml:"value"`
	State           domain.TxState `json:"state" yaml:"state"`
	Receipt         *Receipt       `json:"receipt,omitempty" yaml:"receipt,omitempty"`
	Events          []DecodedEvent `json:"events,omitempty" yaml:"events,omitempty"`
}

// Account is a configured signing account and its balance
type Account struct {
	Index   int      `json:"index" yaml:"index"`
	Address string   `json:"address" yaml:"address"`
	Balance *big.Int `json:"balance" yaml:"balance"`
	Nonce   uint64   `json:"nonce" yaml:"nonce"`
}
