package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// RemoveConfigParams contains parameters for removing configuration
type RemoveConfigParams struct {
	Key string
}

// RemoveConfigResult contains the result of removing configuration
type RemoveConfigResult struct {
	UpdatedConfig *config.LocalConfig `json:"config" yaml:"config"`
	ConfigPath    string              `json:"path" yaml:"path"`
	Key           config.ConfigKey    `json:"key" yaml:"key"`
	RemovedValue  string              `json:"removedValue" yaml:"removedValue"`
}

// RemoveConfig is a use case for removing configuration values
type RemoveConfig struct {
	config *config.RuntimeConfig
	store  LocalConfigRepository
}

// NewRemoveConfig creates a new RemoveConfig use case
func NewRemoveConfig(cfg *config.RuntimeConfig, store LocalConfigRepository) *RemoveConfig {
	return &RemoveConfig{
		config: cfg,
		store:  store,
	}
}

// Run executes the remove config use case
func (uc *RemoveConfig) Run(ctx context.Context, params RemoveConfigParams) (*RemoveConfigResult, error) {
	// Config file must exist to remove values
	if !uc.store.Exists() {
		path := uc.store.GetPath()
		if rel, err := filepath.Rel(uc.config.ProjectRoot, path); err == nil {
			path = rel
		}
		return nil, fmt.Errorf("no config file found at %s", path)
	}

	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var removedValue string
	switch key {
	case config.ConfigKeyNetwork:
		removedValue = cfg.Network
		cfg.Network = ""
	case config.ConfigKeyAccount:
		removedValue = cfg.Account
		cfg.Account = ""
	}

	if err := uc.store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &RemoveConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		RemovedValue:  removedValue,
	}, nil
}
