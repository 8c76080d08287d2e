package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// findDeployment resolves ref, a contract name, registry id or address, to a registry record
// on the network's chain. A name recorded under several networks sharing the chain id is
// disambiguated with the selector.
func findDeployment(ctx context.Context, repo DeploymentRepository, selector DeploymentSelector, network *config.Network, ref string) (*models.Deployment, error) {
	if common.IsHexAddress(ref) {
		return repo.GetDeploymentByAddress(ctx, network.ChainID, common.HexToAddress(ref).Hex())
	}

	dep, err := repo.GetDeployment(ctx, ref)
	if err == nil {
		return dep, nil
	}
	dep, err = repo.GetDeployment(ctx, models.DeploymentID(network.Name, network.ChainID, ref))
	if err == nil {
		return dep, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	matches, err := repo.ListDeployments(ctx, domain.DeploymentFilter{ChainID: network.ChainID, ContractName: ref})
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no deployment of %s on %s (chain %d): %w", ref, network.Name, network.ChainID, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return selector.SelectDeployment(ctx, matches, fmt.Sprintf("Select %s deployment", ref))
	}
}
