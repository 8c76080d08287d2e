package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// LocalConfigFile holds the `catapult config set` overrides inside the data directory
const LocalConfigFile = "config.local.json"

// LocalConfigStore persists the network and account picked with `catapult config set`.
// The --network and --account flags still win over both.
type LocalConfigStore struct {
	path string
}

// NewLocalConfigStore creates a store for <data dir>/config.local.json
func NewLocalConfigStore(cfg *config.RuntimeConfig) *LocalConfigStore {
	return &LocalConfigStore{path: filepath.Join(cfg.DataDir, LocalConfigFile)}
}

// Exists reports whether any override has been saved
func (s *LocalConfigStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the saved overrides, or empty ones when nothing was set
func (s *LocalConfigStore) Load(ctx context.Context) (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultLocalConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	local := config.DefaultLocalConfig()
	if err := json.Unmarshal(data, local); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return local, nil
}

// Save stores the overrides. Clearing both network and account deletes the file so the
// project falls back to catapult.toml.
func (s *LocalConfigStore) Save(ctx context.Context, local *config.LocalConfig) error {
	if local.Network == "" && local.Account == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", s.path, err)
		}
		return nil
	}
	if err := writeJSON(s.path, local); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

// GetPath returns the override file location, whether or not it exists
func (s *LocalConfigStore) GetPath() string {
	return s.path
}

var _ usecase.LocalConfigRepository = (*LocalConfigStore)(nil)
