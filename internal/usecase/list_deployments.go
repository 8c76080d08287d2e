package usecase

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	ContractName string
	AllNetworks  bool  // ignore the selected network
	Verified     *bool // nil lists both
	CheckCode    bool  // look up contract code on the selected network
}

// DeploymentListResult contains the listed deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment `json:"deployments" yaml:"deployments"`
	Summary     DeploymentSummary    `json:"summary" yaml:"summary"`
	// NoCode holds the ids of records whose address has no code, filled with CheckCode
	NoCode map[string]bool `json:"noCode,omitempty" yaml:"noCode,omitempty"`
}

// DeploymentSummary counts listed deployments
type DeploymentSummary struct {
	Total     int            `json:"total" yaml:"total"`
	Verified  int            `json:"verified" yaml:"verified"`
	ByNetwork map[string]int `json:"byNetwork" yaml:"byNetwork"`
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	config    *config.RuntimeConfig
	repo      DeploymentRepository
	connector ChainConnector
	sink      ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, repo DeploymentRepository, connector ChainConnector, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config:    cfg,
		repo:      repo,
		connector: connector,
		sink:      sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	filter := domain.DeploymentFilter{
		ContractName: params.ContractName,
		Verified:     params.Verified,
	}
	if !params.AllNetworks && uc.config.Network != nil {
		filter.Network = uc.config.Network.Name
	}

	deployments, err := uc.repo.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}
	sortDeployments(deployments)

	result := &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}

	if params.CheckCode && len(deployments) > 0 {
		noCode, err := uc.checkCode(ctx, deployments)
		if err != nil {
			return nil, err
		}
		result.NoCode = noCode
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(deployments),
		Total:   len(deployments),
		Message: "Deployments loaded",
	})

	return result, nil
}

// checkCode reports records on the connected chain whose address holds no code, which
// happens after a local node restarts
func (uc *ListDeployments) checkCode(ctx context.Context, deployments []*models.Deployment) (map[string]bool, error) {
	backend, err := uc.connector.Connect(ctx, uc.config.Network)
	if err != nil {
		return nil, err
	}

	noCode := make(map[string]bool)
	for _, dep := range deployments {
		if dep.ChainID != uc.config.Network.ChainID {
			continue
		}
		code, err := backend.CodeAt(ctx, common.HexToAddress(dep.Address), nil)
		if err != nil {
			return nil, err
		}
		if len(code) == 0 {
			noCode[dep.ID] = true
		}
	}
	return noCode, nil
}

// sortDeployments sorts deployments by network, chain and contract name
func sortDeployments(deployments []*models.Deployment) {
	sort.SliceStable(deployments, func(i, j int) bool {
		if deployments[i].Network != deployments[j].Network {
			return deployments[i].Network < deployments[j].Network
		}
		if deployments[i].ChainID != deployments[j].ChainID {
			return deployments[i].ChainID < deployments[j].ChainID
		}
		return deployments[i].ContractName < deployments[j].ContractName
	})
}

// calculateSummary calculates summary statistics for deployments
func calculateSummary(deployments []*models.Deployment) DeploymentSummary {
	summary := DeploymentSummary{
		Total:     len(deployments),
		ByNetwork: make(map[string]int),
	}
	for _, dep := range deployments {
		summary.ByNetwork[dep.Network]++
		if dep.Verification.Status == models.VerificationStatusVerified {
			summary.Verified++
		}
	}
	return summary
}
