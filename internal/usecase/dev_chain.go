package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// DevChainResult reports the head after a dev RPC operation
type DevChainResult struct {
	Network     string `json:"network" yaml:"network"`
	Operation   string `json:"operation" yaml:"operation"`
	Amount      uint64 `json:"amount" yaml:"amount"`
	BlockNumber uint64 `json:"blockNumber" yaml:"blockNumber"`
}

// DevChain mines blocks and moves time on development networks
type DevChain struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	rpc       DevRPC
}

// NewDevChain creates a new DevChain use case
func NewDevChain(cfg *config.RuntimeConfig, connector ChainConnector, rpc DevRPC) *DevChain {
	return &DevChain{config: cfg, connector: connector, rpc: rpc}
}

// Mine produces blocks on the selected network
func (uc *DevChain) Mine(ctx context.Context, blocks uint64) (*DevChainResult, error) {
	if blocks == 0 {
		blocks = 1
	}
	return uc.run(ctx, "mine", blocks, func(url string) error {
		return uc.rpc.Mine(ctx, url, blocks)
	})
}

// IncreaseTime advances the timestamp and mines one block so the change is observable
func (uc *DevChain) IncreaseTime(ctx context.Context, seconds uint64) (*DevChainResult, error) {
	return uc.run(ctx, "increase-time", seconds, func(url string) error {
		if err := uc.rpc.IncreaseTime(ctx, url, seconds); err != nil {
			return err
		}
		return uc.rpc.Mine(ctx, url, 1)
	})
}

func (uc *DevChain) run(ctx context.Context, op string, amount uint64, call func(url string) error) (*DevChainResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	if !network.Development {
		return nil, fmt.Errorf("%s is only available on development networks, %s is not one", op, network.Name)
	}
	if err := call(network.RPCURL); err != nil {
		return nil, err
	}

	backend, err := uc.connector.Connect(ctx, network)
	if err != nil {
		return nil, err
	}
	head, err := backend.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &DevChainResult{
		Network:     network.Name,
		Operation:   op,
		Amount:      amount,
		BlockNumber: head,
	}, nil
}
