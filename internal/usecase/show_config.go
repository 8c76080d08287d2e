package usecase

import (
	"context"

	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	Config       *config.LocalConfig `json:"config" yaml:"config"`
	ConfigPath   string              `json:"path" yaml:"path"`
	Exists       bool                `json:"exists" yaml:"exists"`
	Network      *config.Network     `json:"network,omitempty" yaml:"network,omitempty"`
	ConfigSource string              `json:"source" yaml:"source"`
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigRepository
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigRepository) *ShowConfig {
	return &ShowConfig{
		config: cfg,
		store:  store,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	exists := uc.store.Exists()

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ShowConfigResult{
		Config:       local,
		ConfigPath:   uc.store.GetPath(),
		Exists:       exists,
		Network:      uc.config.Network,
		ConfigSource: uc.config.ConfigSource,
	}, nil
}
