package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// LocalhostNetwork is available without any catapult.toml entry
const LocalhostNetwork = "localhost"

// DefaultLocalRPCURL is where a local development node listens by default
const DefaultLocalRPCURL = "http://127.0.0.1:8545"

// DefaultDevChainID is the chain id of a local anvil node
const DefaultDevChainID = 31337

// DevAccountKeys are the well-known funded accounts of a fresh anvil node. Development
// networks without configured accounts sign with these.
var DevAccountKeys = []string{
	"0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"0x5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
}

var explorerURLs = map[uint64]string{
	1:        "https://etherscan.io",
	5:        "https://goerli.etherscan.io",
	11155111: "https://sepolia.etherscan.io",
	10:       "https://optimistic.etherscan.io",
	137:      "https://polygonscan.com",
	8453:     "https://basescan.org",
	42161:    "https://arbiscan.io",
	56:       "https://bscscan.com",
}

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	project *config.ProjectConfig
	dataDir string
	cache   *NetworkCache
	mu      sync.RWMutex

	// fetchChainID is replaced in tests
	fetchChainID func(ctx context.Context, rpcURL string) (uint64, error)
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	RPCs      map[string]uint64 `json:"rpcs"` // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(dataDir string, project *config.ProjectConfig) *NetworkResolver {
	if project == nil {
		project = config.DefaultProjectConfig()
	}
	r := &NetworkResolver{
		project:      project,
		dataDir:      dataDir,
		fetchChainID: rpcChainID,
	}
	r.loadCache()
	return r
}

// Names returns the configured network names plus the built-in localhost network
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.project.Networks)
	if !lo.Contains(names, LocalhostNetwork) {
		names = append(names, LocalhostNetwork)
	}
	return sortedStrings(names)
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(ctx context.Context, networkName string) (*config.Network, error) {
	nc, ok := r.project.Networks[networkName]
	if !ok {
		nc = r.implicitNetwork(networkName)
		if nc == nil {
			return nil, fmt.Errorf("network '%s' not found in %s [networks] and %s is not set: %w",
				networkName, ProjectFileName, GenerateEnvVarName(networkName), domain.ErrNotFound)
		}
	}

	network := &config.Network{
		Name:          networkName,
		RPCURL:        nc.URL,
		ChainID:       nc.ChainID,
		Accounts:      nc.Accounts,
		KeyFile:       nc.KeyFile,
		Confirmations: DefaultConfirmations(nc.Development),
		Development:   nc.Development,
		PriceFeed:     nc.PriceFeed,
		ExplorerURL:   nc.ExplorerURL,
	}
	if nc.Confirmations != nil {
		network.Confirmations = *nc.Confirmations
	}

	if len(network.Accounts) == 0 && network.KeyFile == "" {
		if key := os.Getenv(GeneratePrivateKeyEnvVarName(networkName)); key != "" {
			network.Accounts = []string{key}
		} else if network.Development {
			network.Accounts = DevAccountKeys
		}
	}

	if network.ChainID == 0 {
		chainID, err := r.chainID(ctx, network.RPCURL)
		if err != nil {
			// Leave it unresolved; the connector adopts whatever the node reports
			slog.Debug("could not resolve chain id", "network", networkName, "error", err)
		}
		network.ChainID = chainID
	}

	if network.ExplorerURL == "" {
		network.ExplorerURL = explorerURLs[network.ChainID]
	}

	return network, nil
}

// DefaultConfirmations is the depth waited for when a network sets no confirmations.
// Automining dev nodes seal one block per transaction and never mine an empty one, so
// development networks accept the transaction on submission.
func DefaultConfirmations(development bool) uint64 {
	if development {
		return 0
	}
	return 1
}

// implicitNetwork builds a network that has no [networks] entry: localhost, or any name
// whose <NAME>_RPC_URL variable is set.
func (r *NetworkResolver) implicitNetwork(networkName string) *config.NetworkConfig {
	url := os.Getenv(GenerateEnvVarName(networkName))
	if networkName == LocalhostNetwork {
		if url == "" {
			url = DefaultLocalRPCURL
		}
		return &config.NetworkConfig{URL: url, ChainID: DefaultDevChainID, Development: true}
	}
	if url == "" {
		return nil
	}
	return &config.NetworkConfig{URL: url}
}

// chainID returns the chain ID for an RPC URL from cache or from the node
func (r *NetworkResolver) chainID(ctx context.Context, rpcURL string) (uint64, error) {
	r.mu.RLock()
	chainID, cached := r.cache.RPCs[rpcURL]
	r.mu.RUnlock()
	if cached {
		return chainID, nil
	}

	chainID, err := r.fetchChainID(ctx, rpcURL)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()
	r.mu.Unlock()

	// cache is just for performance
	if err := r.saveCache(); err != nil {
		slog.Debug("failed to save chain id cache", "error", err)
	}
	return chainID, nil
}

// rpcChainID asks the node for eth_chainId
func rpcChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	defer client.Close()

	var result hexutil.Uint64
	if err := client.CallContext(ctx, &result, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("eth_chainId failed: %w", err)
	}
	return uint64(result), nil
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "cache", "chain-ids.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = &NetworkCache{RPCs: make(map[string]uint64)}

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		// Cache doesn't exist yet, that's fine
		return
	}

	var cache NetworkCache
	if err := json.Unmarshal(data, &cache); err != nil || cache.RPCs == nil {
		return
	}
	r.cache = &cache
}

// saveCache saves the cache to disk
func (r *NetworkResolver) saveCache() error {
	if r.dataDir == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}

	r.mu.RLock()
	data, err := json.MarshalIndent(r.cache, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(r.cachePath(), data, 0644)
}
