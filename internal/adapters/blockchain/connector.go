package blockchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Connector implements usecase.ChainConnector using ethclient. Clients are cached per RPC
// URL for the lifetime of the process.
type Connector struct {
	clients map[string]*ethclient.Client
	mu      sync.Mutex
}

// NewConnector creates a new blockchain connector
func NewConnector() *Connector {
	return &Connector{clients: make(map[string]*ethclient.Client)}
}

// Connect dials the network endpoint and verifies the chain ID. A network configured
// without a chain ID adopts the one reported by the node.
func (c *Connector) Connect(ctx context.Context, network *config.Network) (usecase.ChainBackend, error) {
	if network == nil || network.RPCURL == "" {
		return nil, fmt.Errorf("no network endpoint configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	client, ok := c.clients[network.RPCURL]
	if !ok {
		var err error
		client, err = ethclient.DialContext(ctx, network.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RPC %s: %w", network.RPCURL, err)
		}
		c.clients[network.RPCURL] = client
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	networkChainID, err := client.ChainID(checkCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID from %s: %w", network.Name, err)
	}

	if network.ChainID == 0 {
		network.ChainID = networkChainID.Uint64()
	} else if networkChainID.Uint64() != network.ChainID {
		return nil, fmt.Errorf("chain ID mismatch for %s: expected %d, got %d", network.Name, network.ChainID, networkChainID.Uint64())
	}

	return client, nil
}

// Close closes every cached client
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for url, client := range c.clients {
		client.Close()
		delete(c.clients, url)
	}
}
