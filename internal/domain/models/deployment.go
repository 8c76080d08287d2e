package models

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// ReceiptStatus is the execution outcome recorded in a mined receipt
type ReceiptStatus string

const (
	ReceiptStatusSuccess ReceiptStatus = "success"
	ReceiptStatusFailed  ReceiptStatus = "failed"
)

// Receipt is the network's record of a mined transaction
type Receipt struct {
	TxHash            string        `json:"transactionHash" yaml:"transactionHash"`
	BlockNumber       uint64        `json:"blockNumber" yaml:"blockNumber"`
	BlockHash         string        `json:"blockHash" yaml:"blockHash"`
	GasUsed           uint64        `json:"gasUsed" yaml:"gasUsed"`
	EffectiveGasPrice *big.Int      `json:"effectiveGasPrice" yaml:"effectiveGasPrice"`
	Status            ReceiptStatus `json:"status" yaml:"status"`
	ContractAddress   string        `json:"contractAddress,omitempty" yaml:"contractAddress,omitempty"`
	Confirmations     uint64        `json:"confirmations" yaml:"confirmations"`

	Logs []*types.Log `json:"-" yaml:"-"`
}

// GasCost returns gasUsed * effectiveGasPrice in wei
func (r *Receipt) GasCost() *big.Int {
	if r == nil || r.EffectiveGasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), r.EffectiveGasPrice)
}

// Succeeded reports whether the receipt records successful execution
func (r *Receipt) Succeeded() bool {
	return r != nil && r.Status == ReceiptStatusSuccess
}

// ReceiptFromTypes converts a go-ethereum receipt
func ReceiptFromTypes(r *types.Receipt) *Receipt {
	status := ReceiptStatusFailed
	if r.Status == types.ReceiptStatusSuccessful {
		status = ReceiptStatusSuccess
	}
	receipt := &Receipt{
		TxHash:            r.TxHash.Hex(),
		BlockHash:         r.BlockHash.Hex(),
		GasUsed:           r.GasUsed,
		EffectiveGasPrice: r.EffectiveGasPrice,
		Status:            status,
		Logs:              r.Logs,
	}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.Uint64()
	}
	if r.ContractAddress != (common.Address{}) {
		receipt.ContractAddress = r.ContractAddress.Hex()
	}
	return receipt
}

// DeploymentResult is produced exactly once per deploy call
type DeploymentResult struct {
	ContractName    string         `json:"contractName" yaml:"contractName"`
	ContractAddress string         `json:"contractAddress" yaml:"contractAddress"`
	TransactionHash string         `json:"transactionHash" yaml:"transactionHash"`
	Deployer        string         `json:"deployer" yaml:"deployer"`
	Nonce           uint64         `json:"nonce" yaml:"nonce"`
	State           domain.TxState `json:"state" yaml:"state"`
	Receipt         *Receipt       `json:"receipt,omitempty" yaml:"receipt,omitempty"` // nil when confirmations == 0
}

// Deployment is a persisted registry record of a deployed contract
type Deployment struct {
	ID           string           `json:"id"` // e.g. "localhost/1337/FundMe"
	Network      string           `json:"network"`
	ChainID      uint64           `json:"chainId"`
	ContractName string           `json:"contractName"`
	Address      string           `json:"address"`
	Deployer     string           `json:"deployer"`
	State        domain.TxState   `json:"state"`
	Transaction  DeploymentTx     `json:"transaction"`
	Artifact     ArtifactInfo     `json:"artifact"`
	Verification VerificationInfo `json:"verification"`
	Args         []string         `json:"constructorArgs,omitempty"`
	ArgsData     string           `json:"constructorData,omitempty"` // ABI encoded constructor args, hex
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// DeploymentTx references the creation transaction
type DeploymentTx struct {
	ID          string `json:"id"` // record id, uuid
	Hash        string `json:"hash"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
	GasUsed     uint64 `json:"gasUsed,omitempty"`
}

// ArtifactInfo contains contract artifact information
type ArtifactInfo struct {
	Path            string `json:"path"`
	Format          string `json:"format"`
	CompilerVersion string `json:"compilerVersion,omitempty"`
	BytecodeHash    string `json:"bytecodeHash"`
}

// VerificationStatus represents the explorer verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusPending    VerificationStatus = "PENDING"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
)

// VerificationInfo contains verification details
type VerificationInfo struct {
	Status     VerificationStatus `json:"status"`
	URL        string             `json:"url,omitempty"`
	GUID       string             `json:"guid,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	VerifiedAt *time.Time         `json:"verifiedAt,omitempty"`
}

// DeploymentID builds the registry key for a contract on a network
func DeploymentID(network string, chainID uint64, contractName string) string {
	return fmt.Sprintf("%s/%d/%s", network, chainID, contractName)
}
