package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// VerifyDeployment handles contract verification on block explorers
type VerifyDeployment struct {
	config    *config.RuntimeConfig
	repo      DeploymentRepository
	verifier  ContractVerifier
	artifacts ArtifactLoader
	selector  DeploymentSelector
	progress  ProgressSink
}

// NewVerifyDeployment creates a new verify deployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	repo DeploymentRepository,
	verifier ContractVerifier,
	artifacts ArtifactLoader,
	selector DeploymentSelector,
	progress ProgressSink,
) *VerifyDeployment {
	return &VerifyDeployment{
		config:    cfg,
		repo:      repo,
		verifier:  verifier,
		artifacts: artifacts,
		selector:  selector,
		progress:  progress,
	}
}

// VerifyOptions contains options for verification
type VerifyOptions struct {
	Force bool // Re-verify even if already verified
}

// VerifyResult contains the result of verification
type VerifyResult struct {
	Deployment *models.Deployment `json:"deployment" yaml:"deployment"`
	Success    bool               `json:"success" yaml:"success"`
	Skipped    string             `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Errors     []string           `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// VerifyAllResult contains the outcome of verifying every deployment on the network
type VerifyAllResult struct {
	Results      []*VerifyResult `json:"results" yaml:"results"`
	SuccessCount int             `json:"successCount" yaml:"successCount"`
}

// VerifySpecific verifies one deployment of the selected network
func (v *VerifyDeployment) VerifySpecific(ctx context.Context, ref string, options VerifyOptions) (*VerifyResult, error) {
	network, err := v.network()
	if err != nil {
		return nil, err
	}
	deployment, err := findDeployment(ctx, v.repo, v.selector, network, ref)
	if err != nil {
		return nil, err
	}

	if deployment.Verification.Status == models.VerificationStatusVerified && !options.Force {
		return &VerifyResult{
			Deployment: deployment,
			Success:    true,
			Skipped:    "already verified, use --force to re-verify",
		}, nil
	}
	return v.verifyDeployment(ctx, deployment, network), nil
}

// VerifyAll verifies every unverified, confirmed deployment of the selected network
func (v *VerifyDeployment) VerifyAll(ctx context.Context, options VerifyOptions) (*VerifyAllResult, error) {
	network, err := v.network()
	if err != nil {
		return nil, err
	}
	deployments, err := v.repo.ListDeployments(ctx, domain.DeploymentFilter{
		Network: network.Name,
		ChainID: network.ChainID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	result := &VerifyAllResult{Results: make([]*VerifyResult, 0, len(deployments))}
	for _, deployment := range deployments {
		if reason := skipReason(deployment, network, options); reason != "" {
			result.Results = append(result.Results, &VerifyResult{Deployment: deployment, Skipped: reason})
			continue
		}
		res := v.verifyDeployment(ctx, deployment, network)
		result.Results = append(result.Results, res)
		if res.Success {
			result.SuccessCount++
		}
	}
	return result, nil
}

func skipReason(deployment *models.Deployment, network *config.Network, options VerifyOptions) string {
	switch {
	case network.Development:
		return "development network"
	case deployment.State != domain.TxStateConfirmed:
		return fmt.Sprintf("transaction %s", deployment.State)
	case deployment.Verification.Status == models.VerificationStatusVerified && !options.Force:
		return "already verified"
	}
	return ""
}

// verifyDeployment performs the actual verification and stores the outcome
func (v *VerifyDeployment) verifyDeployment(ctx context.Context, deployment *models.Deployment, network *config.Network) *VerifyResult {
	v.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "verifying",
		Message: fmt.Sprintf("Verifying %s at %s", deployment.ContractName, deployment.Address),
		Spinner: true,
	})

	fail := func(format string, args ...any) *VerifyResult {
		return &VerifyResult{Deployment: deployment, Errors: []string{fmt.Sprintf(format, args...)}}
	}

	artifact, err := v.artifacts.Load(ctx, artifactRefOf(deployment))
	if err != nil {
		return fail("failed to load artifact: %v", err)
	}
	if artifact.BytecodeHash() != deployment.Artifact.BytecodeHash && deployment.Artifact.BytecodeHash != "" {
		return fail("artifact %s changed since deployment, recompile the deployed version", artifact.Path)
	}

	info, err := v.verifier.Verify(ctx, deployment, artifact, network)
	if err != nil {
		return fail("%v", err)
	}
	deployment.Verification = *info
	if info.Status == models.VerificationStatusVerified && info.VerifiedAt == nil {
		now := time.Now().UTC()
		deployment.Verification.VerifiedAt = &now
	}

	if err := v.repo.SaveDeployment(ctx, deployment); err != nil {
		return fail("failed to update registry: %v", err)
	}

	result := &VerifyResult{
		Deployment: deployment,
		Success:    info.Status == models.VerificationStatusVerified,
	}
	if !result.Success && info.Reason != "" {
		result.Errors = []string{info.Reason}
	}
	return result
}

func (v *VerifyDeployment) network() (*config.Network, error) {
	if v.config.Network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	return v.config.Network, nil
}
