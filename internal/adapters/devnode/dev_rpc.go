package devnode

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// DevRPC calls the evm_* methods exposed by anvil and hardhat nodes
type DevRPC struct{}

// NewDevRPC creates a new DevRPC
func NewDevRPC() *DevRPC {
	return &DevRPC{}
}

// Mine produces blocks one evm_mine call at a time
func (d *DevRPC) Mine(ctx context.Context, rpcURL string, blocks uint64) error {
	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	defer client.Close()

	for i := uint64(0); i < blocks; i++ {
		if err := client.CallContext(ctx, nil, "evm_mine"); err != nil {
			return fmt.Errorf("evm_mine failed after %d blocks: %w", i, err)
		}
	}
	return nil
}

// IncreaseTime moves the timestamp of the next block forward
func (d *DevRPC) IncreaseTime(ctx context.Context, rpcURL string, seconds uint64) error {
	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	defer client.Close()

	var result any
	if err := client.CallContext(ctx, &result, "evm_increaseTime", seconds); err != nil {
		return fmt.Errorf("evm_increaseTime failed: %w", err)
	}
	return nil
}

var _ usecase.DevRPC = (*DevRPC)(nil)
