package usecase

import (
	"context"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// ChainBackend is the node capability the workflow consumes. *ethclient.Client satisfies it.
type ChainBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// ChainConnector opens a backend for a configured network
type ChainConnector interface {
	Connect(ctx context.Context, network *config.Network) (ChainBackend, error)
}

// Signer is a borrowed signing identity. The workflow never creates or stores keys.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// SignerProvider resolves the signing identities configured for a network
type SignerProvider interface {
	Signers(ctx context.Context, network *config.Network) ([]Signer, error)
	// Signer selects by index ("0") or address; an empty ref selects the first account
	Signer(ctx context.Context, network *config.Network, ref string) (Signer, error)
}

// ArtifactLoader provides access to compiled contracts
type ArtifactLoader interface {
	// Load resolves a contract name or artifact path
	Load(ctx context.Context, ref string) (*models.ContractArtifact, error)
}

// ABICodec converts between CLI strings and ABI values and decodes receipts and reverts
type ABICodec interface {
	CoerceArgs(inputs abi.Arguments, raw []string) ([]any, error)
	FormatOutputs(outputs abi.Arguments, values []any) []models.Output
	DecodeLogs(contractABI *abi.ABI, logs []*types.Log) []models.DecodedEvent
	// RevertReason decodes Error(string), Panic(uint256) or a custom error carried by err
	RevertReason(contractABI *abi.ABI, err error) string
	ParseValue(raw string) (*big.Int, error)
}

// DeploymentRepository handles persistence of deployments
type DeploymentRepository interface {
	GetDeployment(ctx context.Context, id string) (*models.Deployment, error)
	GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
	DeleteDeployment(ctx context.Context, id string) error
}

// GasUsage is one confirmed transaction reported to the gas reporter
type GasUsage struct {
	Network  string
	Contract string
	Method   string // "deploy" for contract creation
	GasUsed  uint64
	GasPrice *big.Int
	TxHash   string
}

// GasRecorder collects gas usage of confirmed transactions
type GasRecorder interface {
	Record(ctx context.Context, usage GasUsage) error
}

// NopGasRecorder discards gas usage
type NopGasRecorder struct{}

func (NopGasRecorder) Record(context.Context, GasUsage) error { return nil }

// ContractVerifier handles contract verification
type ContractVerifier interface {
	Verify(ctx context.Context, deployment *models.Deployment, artifact *models.ContractArtifact, network *config.Network) (*models.VerificationInfo, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata any
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// DeploymentSelector handles interactive selection of deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error)
}

// NodeManager manages local development node processes
type NodeManager interface {
	Start(ctx context.Context, instance *domain.NodeInstance) error
	Stop(ctx context.Context, instance *domain.NodeInstance) error
	GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error)
	StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error
}

// DevRPC drives development-only node methods
type DevRPC interface {
	Mine(ctx context.Context, rpcURL string, blocks uint64) error
	IncreaseTime(ctx context.Context, rpcURL string, seconds uint64) error
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	Names() []string
	Resolve(ctx context.Context, networkName string) (*config.Network, error)
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}
