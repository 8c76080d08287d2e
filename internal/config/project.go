package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// ProjectFileName is the project configuration file searched for from the working directory
const ProjectFileName = "catapult.toml"

// LoadEnvFiles loads .env and .env.local from the project root. Variables already set in
// the process environment are not overwritten.
func LoadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				slog.Warn("failed to load env file", "file", envFile, "error", err)
			}
		}
	}
}

// LoadProjectConfig reads catapult.toml from projectRoot, expands ${VAR} references and
// validates the result. A missing file yields the defaults and source "defaults".
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, string, error) {
	LoadEnvFiles(projectRoot)

	cfg := config.DefaultProjectConfig()
	path := filepath.Join(projectRoot, ProjectFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, "defaults", nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, "", &domain.ConfigError{Key: ProjectFileName, Reason: fmt.Sprintf("failed to parse: %v", err)}
	}

	if len(cfg.Artifacts.Paths) == 0 {
		cfg.Artifacts.Paths = config.DefaultArtifactPaths
	}
	if cfg.GasReporter.OutputFile == "" {
		cfg.GasReporter.OutputFile = "gas-report.txt"
	}
	if cfg.Networks == nil {
		cfg.Networks = map[string]*config.NetworkConfig{}
	}

	if err := expandProjectConfig(cfg); err != nil {
		return nil, "", err
	}

	// Validate networks in name order so the reported error is stable
	for _, name := range sortedKeys(cfg.Networks) {
		if err := Check("networks."+name, cfg.Networks[name]); err != nil {
			return nil, "", err
		}
	}
	if err := Check("etherscan", &cfg.Etherscan); err != nil {
		return nil, "", err
	}

	return cfg, ProjectFileName, nil
}

// expandProjectConfig resolves every ${VAR} reference. Unset variables are fatal.
func expandProjectConfig(cfg *config.ProjectConfig) error {
	var err error
	for name, network := range cfg.Networks {
		if network == nil {
			return &domain.ConfigError{Key: "networks." + name, Reason: "empty network table"}
		}
		scope := "networks." + name
		if network.URL, err = ExpandEnvStrict(scope+".url", network.URL); err != nil {
			return err
		}
		if network.KeyFile, err = ExpandEnvStrict(scope+".key_file", network.KeyFile); err != nil {
			return err
		}
		for i, account := range network.Accounts {
			if network.Accounts[i], err = ExpandEnvStrict(fmt.Sprintf("%s.accounts[%d]", scope, i), account); err != nil {
				return err
			}
		}
	}

	if cfg.Etherscan.APIKey, err = ExpandEnvStrict("etherscan.api_key", cfg.Etherscan.APIKey); err != nil {
		return err
	}
	if cfg.Etherscan.URL, err = ExpandEnvStrict("etherscan.url", cfg.Etherscan.URL); err != nil {
		return err
	}
	if cfg.GasReporter.CoinMarketCap, err = ExpandEnvStrict("gas_reporter.coinmarketcap", cfg.GasReporter.CoinMarketCap); err != nil {
		return err
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return sortedStrings(lo.Keys(m))
}

func sortedStrings(s []string) []string {
	slices.Sort(s)
	return s
}
