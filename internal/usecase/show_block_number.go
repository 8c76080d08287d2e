package usecase

import (
	"context"

	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// BlockNumberResult is the current head of a network
type BlockNumberResult struct {
	Network     string `json:"network" yaml:"network"`
	ChainID     uint64 `json:"chainId" yaml:"chainId"`
	BlockNumber uint64 `json:"blockNumber" yaml:"blockNumber"`
}

// ShowBlockNumber reads the current block number
type ShowBlockNumber struct {
	config    *config.RuntimeConfig
	connector ChainConnector
}

// NewShowBlockNumber creates a new ShowBlockNumber use case
func NewShowBlockNumber(cfg *config.RuntimeConfig, connector ChainConnector) *ShowBlockNumber {
	return &ShowBlockNumber{config: cfg, connector: connector}
}

// Run executes the use case
func (uc *ShowBlockNumber) Run(ctx context.Context) (*BlockNumberResult, error) {
	s, err := openSession(ctx, uc.config, uc.connector, nil, false)
	if err != nil {
		return nil, err
	}
	head, err := s.backend.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &BlockNumberResult{
		Network:     s.network.Name,
		ChainID:     s.network.ChainID,
		BlockNumber: head,
	}, nil
}
