package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	NetworkName string
	Network     *Network // nil if not specified
	Account     string   // account index or address selected with --account

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	YAML           bool // Output in YAML format
	Timeout        time.Duration
	PollInterval   time.Duration

	// Confirmations overrides the network default when ConfirmationsSet is true
	Confirmations    uint64
	ConfirmationsSet bool

	// Config source tracking
	ConfigSource string // "catapult.toml" or "defaults"

	// Resolved project configuration, never nil after loading
	Project *ProjectConfig
}

// Network represents network configuration
type Network struct {
	Name          string   `json:"name" yaml:"name"`
	ChainID       uint64   `json:"chainId" yaml:"chainId"`
	RPCURL        string   `json:"rpcUrl" yaml:"rpcUrl"`
	Accounts      []string `json:"-" yaml:"-"` // hex private keys, never rendered
	KeyFile       string   `json:"keyFile,omitempty" yaml:"keyFile,omitempty"`
	Confirmations uint64   `json:"confirmations" yaml:"confirmations"`
	Development   bool     `json:"development" yaml:"development"`
	PriceFeed     string   `json:"priceFeed,omitempty" yaml:"priceFeed,omitempty"`
	ExplorerURL   string   `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
}

// EffectiveConfirmations returns the confirmation depth to wait for on this network
func (c *RuntimeConfig) EffectiveConfirmations() uint64 {
	if c.ConfirmationsSet {
		return c.Confirmations
	}
	if c.Network != nil {
		return c.Network.Confirmations
	}
	return 1
}
