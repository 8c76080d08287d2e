package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// ListAccountsResult lists the signing accounts configured for the network
type ListAccountsResult struct {
	Network  string           `json:"network" yaml:"network"`
	ChainID  uint64           `json:"chainId" yaml:"chainId"`
	Accounts []models.Account `json:"accounts" yaml:"accounts"`
}

// ListAccounts prints the configured accounts with their balances and nonces
type ListAccounts struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	signers   SignerProvider
}

// NewListAccounts creates a new ListAccounts use case
func NewListAccounts(cfg *config.RuntimeConfig, connector ChainConnector, signers SignerProvider) *ListAccounts {
	return &ListAccounts{
		config:    cfg,
		connector: connector,
		signers:   signers,
	}
}

// Run executes the use case
func (uc *ListAccounts) Run(ctx context.Context) (*ListAccountsResult, error) {
	s, err := openSession(ctx, uc.config, uc.connector, uc.signers, false)
	if err != nil {
		return nil, err
	}

	signers, err := uc.signers.Signers(ctx, s.network)
	if err != nil {
		return nil, err
	}

	result := &ListAccountsResult{
		Network:  s.network.Name,
		ChainID:  s.network.ChainID,
		Accounts: make([]models.Account, 0, len(signers)),
	}
	for i, signer := range signers {
		balance, err := s.backend.BalanceAt(ctx, signer.Address(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get balance of %s: %w", signer.Address().Hex(), err)
		}
		nonce, err := s.backend.NonceAt(ctx, signer.Address(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get nonce of %s: %w", signer.Address().Hex(), err)
		}
		result.Accounts = append(result.Accounts, models.Account{
			Index:   i,
			Address: signer.Address().Hex(),
			Balance: balance,
			Nonce:   nonce,
		})
	}
	return result, nil
}
