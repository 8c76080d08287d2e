package usecase

import (
	"context"
	"time"

	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Probe connects to every network to read its live chain id
	Probe bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus `json:"networks" yaml:"networks"`
	Current  string          `json:"current" yaml:"current"`
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name        string `json:"name" yaml:"name"`
	RPCURL      string `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
	ChainID     uint64 `json:"chainId" yaml:"chainId"`
	Development bool   `json:"development" yaml:"development"`
	Accounts    int    `json:"accounts" yaml:"accounts"`
	Reachable   bool   `json:"reachable" yaml:"reachable"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	config    *config.RuntimeConfig
	resolver  NetworkResolver
	connector ChainConnector
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, connector ChainConnector) *ListNetworks {
	return &ListNetworks{
		config:    cfg,
		resolver:  resolver,
		connector: connector,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := uc.resolver.Names()

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		status := NetworkStatus{Name: name}

		network, err := uc.resolver.Resolve(ctx, name)
		if err != nil {
			status.Error = err.Error()
			networks = append(networks, status)
			continue
		}
		status.RPCURL = network.RPCURL
		status.ChainID = network.ChainID
		status.Development = network.Development
		status.Accounts = len(network.Accounts)
		if network.KeyFile != "" {
			status.Accounts++
		}

		if params.Probe {
			probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if _, err := uc.connector.Connect(probeCtx, network); err != nil {
				status.Error = err.Error()
			} else {
				status.Reachable = true
				status.ChainID = network.ChainID
			}
			cancel()
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{Networks: networks, Current: uc.config.NetworkName}, nil
}
