package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// BalanceResult is the native balance of one address
type BalanceResult struct {
	Network string   `json:"network" yaml:"network"`
	Address string   `json:"address" yaml:"address"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"` // contract name or account
	Balance *big.Int `json:"balance" yaml:"balance"`
}

// ShowBalance reads the balance of an address, a deployed contract or the selected account
type ShowBalance struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	signers   SignerProvider
	repo      DeploymentRepository
	selector  DeploymentSelector
}

// NewShowBalance creates a new ShowBalance use case
func NewShowBalance(cfg *config.RuntimeConfig, connector ChainConnector, signers SignerProvider, repo DeploymentRepository, selector DeploymentSelector) *ShowBalance {
	return &ShowBalance{
		config:    cfg,
		connector: connector,
		signers:   signers,
		repo:      repo,
		selector:  selector,
	}
}

// Run executes the use case. An empty ref selects the configured account.
func (uc *ShowBalance) Run(ctx context.Context, ref string) (*BalanceResult, error) {
	s, err := openSession(ctx, uc.config, uc.connector, uc.signers, ref == "")
	if err != nil {
		return nil, err
	}

	result := &BalanceResult{Network: s.network.Name}
	var address common.Address
	switch {
	case ref == "":
		address = s.signer.Address()
		result.Label = "account"
	case common.IsHexAddress(ref):
		address = common.HexToAddress(ref)
		if dep, err := uc.repo.GetDeploymentByAddress(ctx, s.network.ChainID, address.Hex()); err == nil {
			result.Label = dep.ContractName
		}
	default:
		dep, err := findDeployment(ctx, uc.repo, uc.selector, s.network, ref)
		if err != nil {
			return nil, err
		}
		address = common.HexToAddress(dep.Address)
		result.Label = dep.ContractName
	}

	balance, err := s.backend.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, err
	}
	result.Address = address.Hex()
	result.Balance = balance
	return result, nil
}
